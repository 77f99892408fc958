package seeder

import (
	"context"
	"encoding/json"
	"fmt"

	"recruit-dash/internal/database"
	"recruit-dash/internal/domain/candidate"
)

type demoApplicant struct {
	ID        string
	JobID     string
	Name      string
	Email     string
	Status    string
	Overall   string
	Scores    *candidate.Scores
	Strengths []string
	Gaps      []string
}

var demoApplicants = []demoApplicant{
	{
		ID: "demo-app-1", JobID: "demo-backend-engineer", Name: "Alice Romero", Email: "alice.romero@example.com",
		Status: "shortlisted", Overall: "88",
		Scores:    &candidate.Scores{JobMatch: 90, Experience: 85, Skills: 92, Culture: 80, Education: 75, Achievements: 88, Overall: 88},
		Strengths: []string{"Go services in production", "Postgres tuning"},
		Gaps:      []string{"No Kubernetes experience"},
	},
	{
		ID: "demo-app-2", JobID: "demo-backend-engineer", Name: "Ben Carter", Email: "ben.carter@example.com",
		Status: "applied", Overall: "7.2",
		Strengths: []string{"Strong API design"},
	},
	{
		ID: "demo-app-3", JobID: "demo-backend-engineer", Name: "Chidi Obi", Email: "chidi.obi@example.com",
		Status: "interview", Overall: "0.81",
		Scores:    &candidate.Scores{JobMatch: 0.8, Experience: 0.75, Skills: 0.85, Overall: 0.81},
		Strengths: []string{"Event-driven systems"},
		Gaps:      []string{"Limited mentoring", "No on-call history"},
	},
	{
		ID: "demo-app-4", JobID: "demo-product-designer", Name: "Dana Kowalski", Email: "dana.k@example.com",
		Status: "applied", Overall: "64",
		Scores: &candidate.Scores{JobMatch: 60, Experience: 70, Skills: 65, Culture: 75, Overall: 64},
		Gaps:   []string{"Portfolio lacks research work"},
	},
	{
		ID: "demo-app-5", JobID: "demo-product-designer", Name: "Eli Haddad", Email: "",
		Status: "rejected", Overall: "",
	},
}

// ApplicantsSeeder inserts scored applicants for the demo jobs. Scores mix
// the 0-1, 0-10 and 0-100 scales the workflow is known to emit, and one row
// carries only the discrete overall column.
type ApplicantsSeeder struct{}

func (ApplicantsSeeder) Name() string { return "applicants" }

func (ApplicantsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := RequireColumns(ctx, db, "applicants", "id", "job_id", "name", "email", "status", "overall", "scores", "strengths", "gaps"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	for _, a := range demoApplicants {
		scores, err := jsonOrNil(a.Scores)
		if err != nil {
			return err
		}
		strengths, err := jsonOrNil(a.Strengths)
		if err != nil {
			return err
		}
		gaps, err := jsonOrNil(a.Gaps)
		if err != nil {
			return err
		}

		if _, err := tx.Exec(ctx,
			`INSERT INTO applicants (id, job_id, name, email, status, overall, scores, strengths, gaps)
			 VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7::jsonb, $8::jsonb, $9::jsonb)
			 ON CONFLICT (id) DO NOTHING`,
			a.ID, a.JobID, a.Name, a.Email, a.Status, a.Overall, scores, strengths, gaps,
		); err != nil {
			return fmt.Errorf("insert applicant %s: %w", a.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func jsonOrNil(v any) (*string, error) {
	switch t := v.(type) {
	case *candidate.Scores:
		if t == nil {
			return nil, nil
		}
	case []string:
		if len(t) == 0 {
			return nil, nil
		}
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}
