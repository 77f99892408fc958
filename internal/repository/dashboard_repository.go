package repository

import (
	"context"

	"recruit-dash/internal/database"
	"recruit-dash/internal/domain/candidate"
)

type JobCounts struct {
	Total int
	Open  int
}

type DashboardRepository interface {
	Ping(ctx context.Context) error
	GetJobCounts(ctx context.Context) (JobCounts, error)
	CountApplicantsByStatus(ctx context.Context) (map[candidate.Status]int, error)
	ListScoreInputs(ctx context.Context) ([]candidate.Record, error)
}

type PostgresDashboardRepository struct {
	db database.DB
}

func NewPostgresDashboardRepository(db database.DB) *PostgresDashboardRepository {
	return &PostgresDashboardRepository{db: db}
}

func (r *PostgresDashboardRepository) Ping(ctx context.Context) error {
	return r.db.Ping(ctx)
}

func (r *PostgresDashboardRepository) GetJobCounts(ctx context.Context) (JobCounts, error) {
	var out JobCounts
	row := r.db.QueryRow(ctx,
		`SELECT COUNT(1), COUNT(1) FILTER (WHERE status = 'open') FROM jobs`,
	)
	if err := row.Scan(&out.Total, &out.Open); err != nil {
		return JobCounts{}, wrap("count jobs", err)
	}
	return out, nil
}

func (r *PostgresDashboardRepository) CountApplicantsByStatus(ctx context.Context) (map[candidate.Status]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(1) FROM applicants GROUP BY status`)
	if err != nil {
		return nil, wrap("count applicants by status", err)
	}
	defer rows.Close()

	out := make(map[candidate.Status]int, len(candidate.Statuses()))
	for rows.Next() {
		var st string
		var n int
		if err := rows.Scan(&st, &n); err != nil {
			return nil, wrap("count applicants by status", err)
		}
		status := candidate.Status(st)
		if !status.Valid() {
			status = candidate.StatusApplied
		}
		out[status] += n
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("count applicants by status", err)
	}
	return out, nil
}

// ListScoreInputs loads only the score columns of every applicant so the
// average can be computed over normalized values.
func (r *PostgresDashboardRepository) ListScoreInputs(ctx context.Context) ([]candidate.Record, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, scores,
			COALESCE(jobmatch, ''), COALESCE(experience, ''), COALESCE(skills, ''), COALESCE(culture, ''),
			COALESCE(education, ''), COALESCE(achievements, ''), COALESCE(overall, '')
		 FROM applicants`,
	)
	if err != nil {
		return nil, wrap("list score inputs", err)
	}
	defer rows.Close()

	out := make([]candidate.Record, 0)
	for rows.Next() {
		var rec candidate.Record
		d := &rec.Discrete
		if err := rows.Scan(&rec.ID, &rec.Composite,
			&d.JobMatch, &d.Experience, &d.Skills, &d.Culture, &d.Education, &d.Achievements, &d.Overall,
		); err != nil {
			return nil, wrap("list score inputs", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list score inputs", err)
	}
	return out, nil
}
