package repository

import (
	"context"

	"recruit-dash/internal/database"
	"recruit-dash/internal/domain/report"

	"github.com/google/uuid"
)

type ReportRepository interface {
	Create(ctx context.Context, r report.Report, content []byte) (report.Report, error)
	List(ctx context.Context, limit int) ([]report.Report, error)
	GetByID(ctx context.Context, id uuid.UUID) (report.Report, error)
	Content(ctx context.Context, id uuid.UUID) ([]byte, error)
}

type PostgresReportRepository struct {
	db database.DB
}

func NewPostgresReportRepository(db database.DB) *PostgresReportRepository {
	return &PostgresReportRepository{db: db}
}

const reportColumns = `r.id, r.job_id, r.name, COALESCE(j.title, ''), r.type, r.created_by, r.created_at`

func scanReport(row database.Row) (report.Report, error) {
	var out report.Report
	var id, typ string
	if err := row.Scan(&id, &out.JobID, &out.Name, &out.JobTitle, &typ, &out.CreatedBy, &out.CreatedAt); err != nil {
		return report.Report{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return report.Report{}, err
	}
	out.ID = parsed
	out.Type = report.Type(typ)
	return out, nil
}

func (r *PostgresReportRepository) Create(ctx context.Context, rep report.Report, content []byte) (report.Report, error) {
	if rep.ID == uuid.Nil {
		rep.ID = uuid.New()
	}
	row := r.db.QueryRow(ctx,
		`INSERT INTO reports (id, job_id, name, type, created_by, content)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at`,
		rep.ID.String(), rep.JobID, rep.Name, string(rep.Type), rep.CreatedBy, content,
	)
	if err := row.Scan(&rep.CreatedAt); err != nil {
		return report.Report{}, wrap("create report", err)
	}
	return rep, nil
}

func (r *PostgresReportRepository) List(ctx context.Context, limit int) ([]report.Report, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 500 {
		limit = 500
	}

	rows, err := r.db.Query(ctx,
		`SELECT `+reportColumns+`
		 FROM reports r
		 LEFT JOIN jobs j ON j.id = r.job_id
		 ORDER BY r.created_at DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, wrap("list reports", err)
	}
	defer rows.Close()

	out := make([]report.Report, 0)
	for rows.Next() {
		rep, err := scanReport(rows)
		if err != nil {
			return nil, wrap("list reports", err)
		}
		out = append(out, rep)
	}
	if err := rows.Err(); err != nil {
		return nil, wrap("list reports", err)
	}
	return out, nil
}

func (r *PostgresReportRepository) GetByID(ctx context.Context, id uuid.UUID) (report.Report, error) {
	rep, err := scanReport(r.db.QueryRow(ctx,
		`SELECT `+reportColumns+` FROM reports r LEFT JOIN jobs j ON j.id = r.job_id WHERE r.id = $1`,
		id.String(),
	))
	if err != nil {
		return report.Report{}, wrap("get report", err)
	}
	return rep, nil
}

func (r *PostgresReportRepository) Content(ctx context.Context, id uuid.UUID) ([]byte, error) {
	var b []byte
	if err := r.db.QueryRow(ctx, `SELECT content FROM reports WHERE id = $1`, id.String()).Scan(&b); err != nil {
		return nil, wrap("report content", err)
	}
	return b, nil
}
