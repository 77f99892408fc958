package cli

import (
	"fmt"

	"recruit-dash/internal/database/seeder"

	"github.com/spf13/cobra"
)

func newSeedCmd(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert demo jobs and applicants",
		RunE: func(cmd *cobra.Command, _ []string) error {
			svc, err := rt.services(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			seeders := seeder.Defaults()
			if err := (seeder.Runner{Seeders: seeders}).Run(cmd.Context(), svc.DB); err != nil {
				return err
			}
			for _, s := range seeders {
				fmt.Fprintf(cmd.OutOrStdout(), "seeded %s\n", s.Name())
			}
			return nil
		},
	}
}
