package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"recruit-dash/internal/domain/report"
	"recruit-dash/internal/usecase"

	"github.com/spf13/cobra"
)

func newReportCmd(rt *runtime) *cobra.Command {
	var (
		jobID   string
		typ     string
		outPath string
	)
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Generate a job report and write the workbook to a file",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(jobID) == "" {
				return errors.New("--job is required")
			}
			t, err := report.ParseType(typ)
			if err != nil {
				return err
			}

			svc, err := rt.services(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			rep, err := svc.Reports.Generate(cmd.Context(), usecase.GenerateReportInput{JobID: jobID, Type: t, CreatedBy: app})
			if err != nil {
				return err
			}
			_, content, err := svc.Reports.Download(cmd.Context(), rep.ID.String())
			if err != nil {
				return err
			}

			path := outPath
			if path == "" {
				path = rep.Filename()
			}
			if err := os.WriteFile(path, content, 0o644); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "report %s written to %s\n", rep.ID, path)
			return nil
		},
	}
	cmd.Flags().StringVar(&jobID, "job", "", "job id")
	cmd.Flags().StringVar(&typ, "type", string(report.TypeShortlist), "shortlist, interview-pack or bias-free-comparison")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "output file (default is the report name)")
	return cmd
}
