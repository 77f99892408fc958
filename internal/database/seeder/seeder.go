package seeder

import (
	"context"

	"recruit-dash/internal/database"
)

// Seeder inserts one set of demo rows. Running it twice must be harmless.
type Seeder interface {
	Name() string
	Run(ctx context.Context, db database.DB) error
}
