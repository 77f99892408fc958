package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"recruit-dash/internal/database"
	"recruit-dash/internal/domain/candidate"
)

type ApplicantRepository interface {
	ListByJob(ctx context.Context, jobID string) ([]candidate.Record, error)
	ListAll(ctx context.Context) ([]candidate.Record, error)
	ListByJobAndStatus(ctx context.Context, jobID string, statuses ...candidate.Status) ([]candidate.Record, error)
	GetByID(ctx context.Context, id string) (candidate.Record, error)
	UpdateStatus(ctx context.Context, id string, status candidate.Status) (candidate.Record, error)
	ScheduleInterview(ctx context.Context, id string, at time.Time, link string) (candidate.Record, error)
	MarkShortlistEmailSent(ctx context.Context, ids []string) error
}

type PostgresApplicantRepository struct {
	db database.DB
}

func NewPostgresApplicantRepository(db database.DB) *PostgresApplicantRepository {
	return &PostgresApplicantRepository{db: db}
}

const applicantColumns = `id, job_id, COALESCE(name, ''), COALESCE(email, ''), COALESCE(phone, ''), COALESCE(location, ''),
	COALESCE(resume_url, ''), COALESCE(cover_letter_url, ''), COALESCE(resume_content, ''), COALESCE(cover_letter_content, ''),
	scores,
	COALESCE(jobmatch, ''), COALESCE(experience, ''), COALESCE(skills, ''), COALESCE(culture, ''),
	COALESCE(education, ''), COALESCE(achievements, ''), COALESCE(overall, ''),
	strengths, gaps, skills_detail,
	status, interview_time, COALESCE(interview_link, ''),
	COALESCE(shortlist_email_sent, false), COALESCE(interview_booked, false),
	created_at, updated_at`

func scanApplicant(row database.Row) (candidate.Record, error) {
	var r candidate.Record
	var status string
	err := row.Scan(
		&r.ID, &r.JobID, &r.Name, &r.Email, &r.Phone, &r.Location,
		&r.ResumeURL, &r.CoverLetterURL, &r.ResumeContent, &r.CoverLetterContent,
		&r.Composite,
		&r.Discrete.JobMatch, &r.Discrete.Experience, &r.Discrete.Skills, &r.Discrete.Culture,
		&r.Discrete.Education, &r.Discrete.Achievements, &r.Discrete.Overall,
		&r.Strengths, &r.Gaps, &r.SkillsDetail,
		&status, &r.InterviewTime, &r.InterviewLink,
		&r.ShortlistEmailSent, &r.InterviewBooked,
		&r.CreatedAt, &r.UpdatedAt,
	)
	if err != nil {
		return candidate.Record{}, err
	}
	r.Status = candidate.Status(status)
	return r, nil
}

func (r *PostgresApplicantRepository) list(ctx context.Context, op, query string, args ...any) ([]candidate.Record, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, wrap(op, err)
	}
	defer rows.Close()

	out := make([]candidate.Record, 0)
	for rows.Next() {
		rec, err := scanApplicant(rows)
		if err != nil {
			return nil, wrap(op, err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap(op, err)
	}
	return out, nil
}

func (r *PostgresApplicantRepository) ListByJob(ctx context.Context, jobID string) ([]candidate.Record, error) {
	return r.list(ctx, "list applicants",
		`SELECT `+applicantColumns+` FROM applicants WHERE job_id = $1 ORDER BY created_at DESC`,
		jobID,
	)
}

func (r *PostgresApplicantRepository) ListAll(ctx context.Context) ([]candidate.Record, error) {
	return r.list(ctx, "list applicants",
		`SELECT `+applicantColumns+` FROM applicants ORDER BY created_at DESC`,
	)
}

// ListByJobAndStatus returns the job's applicants whose status is one of
// statuses, newest first.
func (r *PostgresApplicantRepository) ListByJobAndStatus(ctx context.Context, jobID string, statuses ...candidate.Status) ([]candidate.Record, error) {
	if len(statuses) == 0 {
		return r.ListByJob(ctx, jobID)
	}
	args := []any{jobID}
	vals := make([]string, 0, len(statuses))
	for _, s := range statuses {
		vals = append(vals, string(s))
	}
	in := placeholders(&args, vals)
	return r.list(ctx, "list applicants by status",
		`SELECT `+applicantColumns+` FROM applicants
		 WHERE job_id = $1 AND status IN (`+in+`)
		 ORDER BY created_at DESC`,
		args...,
	)
}

func (r *PostgresApplicantRepository) GetByID(ctx context.Context, id string) (candidate.Record, error) {
	rec, err := scanApplicant(r.db.QueryRow(ctx, `SELECT `+applicantColumns+` FROM applicants WHERE id = $1`, id))
	if err != nil {
		return candidate.Record{}, wrap("get applicant", err)
	}
	return rec, nil
}

// UpdateStatus overwrites the status unconditionally; concurrent writers
// race and the last one wins.
func (r *PostgresApplicantRepository) UpdateStatus(ctx context.Context, id string, status candidate.Status) (candidate.Record, error) {
	rec, err := scanApplicant(r.db.QueryRow(ctx,
		`UPDATE applicants SET status = $1, updated_at = $2 WHERE id = $3 RETURNING `+applicantColumns,
		string(status), time.Now().UTC(), id,
	))
	if err != nil {
		return candidate.Record{}, wrap("update applicant status", err)
	}
	return rec, nil
}

func (r *PostgresApplicantRepository) ScheduleInterview(ctx context.Context, id string, at time.Time, link string) (candidate.Record, error) {
	rec, err := scanApplicant(r.db.QueryRow(ctx,
		`UPDATE applicants
		 SET interview_time = $1, interview_link = NULLIF($2, ''), interview_booked = true, updated_at = $3
		 WHERE id = $4
		 RETURNING `+applicantColumns,
		at.UTC(), link, time.Now().UTC(), id,
	))
	if err != nil {
		return candidate.Record{}, wrap("schedule interview", err)
	}
	return rec, nil
}

func (r *PostgresApplicantRepository) MarkShortlistEmailSent(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	args := []any{time.Now().UTC()}
	in := placeholders(&args, ids)
	_, err := r.db.Exec(ctx,
		`UPDATE applicants SET shortlist_email_sent = true, updated_at = $1 WHERE id IN (`+in+`)`,
		args...,
	)
	return wrap("mark shortlist email sent", err)
}

// placeholders appends vals to args and returns the matching "$n, $m" list.
// Arrays are avoided so the query works unchanged on pgx and lib/pq.
func placeholders(args *[]any, vals []string) string {
	ph := make([]string, 0, len(vals))
	for _, v := range vals {
		*args = append(*args, v)
		ph = append(ph, fmt.Sprintf("$%d", len(*args)))
	}
	return strings.Join(ph, ", ")
}
