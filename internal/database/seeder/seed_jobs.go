package seeder

import (
	"context"
	"fmt"
	"time"

	"recruit-dash/internal/database"
)

type demoJob struct {
	ID            string
	Title         string
	HiringManager string
	Status        string
	Location      string
	Experience    string
	ClosesIn      time.Duration
}

var demoJobs = []demoJob{
	{ID: "demo-backend-engineer", Title: "Backend Engineer", HiringManager: "Priya Natarajan", Status: "open", Location: "Remote", Experience: "3+ years", ClosesIn: 21 * 24 * time.Hour},
	{ID: "demo-product-designer", Title: "Product Designer", HiringManager: "Tom Okafor", Status: "open", Location: "London", Experience: "2+ years", ClosesIn: 14 * 24 * time.Hour},
	{ID: "demo-data-analyst", Title: "Data Analyst", HiringManager: "Mei Lin", Status: "draft", Location: "Singapore", Experience: "1+ years"},
}

// JobsSeeder inserts a few postings with fixed ids.
type JobsSeeder struct{}

func (JobsSeeder) Name() string { return "jobs" }

func (JobsSeeder) Run(ctx context.Context, db database.DB) error {
	if err := RequireColumns(ctx, db, "jobs", "id", "title", "hiring_manager", "status", "closing_date", "location", "experience_required"); err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback(context.Background())
	}()

	today := time.Now().UTC().Truncate(24 * time.Hour)
	for _, j := range demoJobs {
		var closing *time.Time
		if j.ClosesIn > 0 {
			t := today.Add(j.ClosesIn)
			closing = &t
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO jobs (id, title, hiring_manager, status, closing_date, location, experience_required, created_by)
			 VALUES ($1, $2, $3, $4, $5, $6, $7, 'seed')
			 ON CONFLICT (id) DO NOTHING`,
			j.ID, j.Title, j.HiringManager, j.Status, closing, j.Location, j.Experience,
		); err != nil {
			return fmt.Errorf("insert job %s: %w", j.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}
