package cli

import (
	"errors"
	"fmt"

	"recruit-dash/internal/database/migration"
	"recruit-dash/migrations"

	"github.com/spf13/cobra"
)

func newMigrateCmd(rt *runtime) *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Apply pending database migrations",
		Long:  "Apply pending database migrations. The embedded set is used unless --dir points at a directory on disk.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := rt.services(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			sqlDB := svc.DB.SQLDB()
			if sqlDB == nil {
				return errors.New("database handle does not expose database/sql")
			}

			r := migration.Runner{Dir: dir, Logger: svc.Log}
			if dir == "" {
				r.FS = migrations.FS
			}
			if err := r.Run(cmd.Context(), sqlDB); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), "migrations up to date")
			return nil
		},
	}
	cmd.Flags().StringVar(&dir, "dir", "", "read migrations from this directory instead of the embedded set")
	return cmd
}
