package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recruit-dash/internal/database"
	"recruit-dash/internal/domain/job"
)

type JobRepository interface {
	List(ctx context.Context) ([]job.Job, error)
	GetByID(ctx context.Context, id string) (job.Job, error)
	Create(ctx context.Context, d job.Draft) (string, error)
	Update(ctx context.Context, id string, p job.Patch) (job.Job, error)
	CountApplicants(ctx context.Context, id string) (int, error)
	Delete(ctx context.Context, id string) error
}

type PostgresJobRepository struct {
	db database.DB
}

func NewPostgresJobRepository(db database.DB) *PostgresJobRepository {
	return &PostgresJobRepository{db: db}
}

const jobColumns = `j.id, j.title, COALESCE(j.hiring_manager, ''), j.status, j.closing_date,
	COALESCE(j.description, ''), COALESCE(j.location, ''), COALESCE(j.experience_required, ''),
	COALESCE(j.job_description_url, ''), COALESCE(j.interview_pack_url, ''), COALESCE(j.created_by, ''),
	(SELECT COUNT(1) FROM applicants a WHERE a.job_id = j.id),
	(SELECT COUNT(1) FROM applicants a WHERE a.job_id = j.id AND a.status = 'shortlisted'),
	j.created_at, j.updated_at`

func scanJob(row database.Row) (job.Job, error) {
	var j job.Job
	var status string
	err := row.Scan(
		&j.ID, &j.Title, &j.HiringManager, &status, &j.ClosingDate,
		&j.Description, &j.Location, &j.ExperienceRequired,
		&j.JobDescriptionURL, &j.InterviewPackURL, &j.CreatedBy,
		&j.ApplicantCount, &j.ShortlistedCount,
		&j.CreatedAt, &j.UpdatedAt,
	)
	if err != nil {
		return job.Job{}, err
	}
	j.Status = job.Status(status)
	return j, nil
}

func (r *PostgresJobRepository) List(ctx context.Context) ([]job.Job, error) {
	rows, err := r.db.Query(ctx, `SELECT `+jobColumns+` FROM jobs j ORDER BY j.created_at DESC`)
	if err != nil {
		return nil, wrap("list jobs", err)
	}
	defer rows.Close()

	out := make([]job.Job, 0)
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, wrap("list jobs", err)
		}
		out = append(out, j)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list jobs", err)
	}
	return out, nil
}

func (r *PostgresJobRepository) GetByID(ctx context.Context, id string) (job.Job, error) {
	j, err := scanJob(r.db.QueryRow(ctx, `SELECT `+jobColumns+` FROM jobs j WHERE j.id = $1`, id))
	if err != nil {
		return job.Job{}, wrap("get job", err)
	}
	return j, nil
}

func (r *PostgresJobRepository) Create(ctx context.Context, d job.Draft) (string, error) {
	status := d.Status
	if status == "" {
		status = job.StatusDraft
	}

	var id string
	row := r.db.QueryRow(ctx,
		`INSERT INTO jobs (title, hiring_manager, status, closing_date, description, location,
			experience_required, job_description_url, created_by)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''), NULLIF($6, ''), NULLIF($7, ''), NULLIF($8, ''), NULLIF($9, ''))
		 RETURNING id`,
		d.Title, d.HiringManager, string(status), d.ClosingDate, d.Description, d.Location,
		d.ExperienceRequired, d.JobDescriptionURL, d.CreatedBy,
	)
	if err := row.Scan(&id); err != nil {
		return "", wrap("create job", err)
	}
	return id, nil
}

// Update applies the non-nil fields of p and returns the stored row. An
// empty patch only reads the row back.
func (r *PostgresJobRepository) Update(ctx context.Context, id string, p job.Patch) (job.Job, error) {
	if p.Empty() {
		return r.GetByID(ctx, id)
	}

	sets := make([]string, 0, 9)
	args := make([]any, 0, 9)
	set := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, fmt.Sprintf("%s = $%d", col, len(args)))
	}
	if p.Title != nil {
		set("title", *p.Title)
	}
	if p.HiringManager != nil {
		set("hiring_manager", *p.HiringManager)
	}
	if p.Status != nil {
		set("status", string(*p.Status))
	}
	if p.ClosingDate != nil {
		set("closing_date", *p.ClosingDate)
	}
	if p.Description != nil {
		set("description", *p.Description)
	}
	if p.Location != nil {
		set("location", *p.Location)
	}
	if p.ExperienceRequired != nil {
		set("experience_required", *p.ExperienceRequired)
	}
	if p.InterviewPackURL != nil {
		set("interview_pack_url", *p.InterviewPackURL)
	}
	set("updated_at", time.Now().UTC())

	args = append(args, id)
	q := fmt.Sprintf(`UPDATE jobs SET %s WHERE id = $%d`, strings.Join(sets, ", "), len(args))
	n, err := r.db.Exec(ctx, q, args...)
	if err != nil {
		return job.Job{}, wrap("update job", err)
	}
	if n == 0 {
		return job.Job{}, notFound("update job")
	}
	return r.GetByID(ctx, id)
}

func (r *PostgresJobRepository) CountApplicants(ctx context.Context, id string) (int, error) {
	var n int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(1) FROM applicants WHERE job_id = $1`, id).Scan(&n); err != nil {
		return 0, wrap("count applicants", err)
	}
	return n, nil
}

func (r *PostgresJobRepository) Delete(ctx context.Context, id string) error {
	n, err := r.db.Exec(ctx, `DELETE FROM jobs WHERE id = $1`, id)
	if err != nil {
		return wrap("delete job", err)
	}
	if n == 0 {
		return notFound("delete job")
	}
	return nil
}
