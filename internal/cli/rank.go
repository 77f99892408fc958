package cli

import (
	"errors"
	"fmt"
	"strings"
	"text/tabwriter"

	"recruit-dash/internal/domain/candidate"
	"recruit-dash/internal/usecase"

	"github.com/spf13/cobra"
)

func newRankCmd(rt *runtime) *cobra.Command {
	var (
		jobID    string
		biasFree bool
		top      int
	)
	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Print a job's applicants ranked by overall score",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if strings.TrimSpace(jobID) == "" {
				return errors.New("--job is required")
			}
			svc, err := rt.services(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			views, err := svc.Applicants.ListByJob(cmd.Context(), jobID, usecase.ListApplicantsInput{Ranked: true, BiasFree: biasFree})
			if err != nil {
				return err
			}
			if top > 0 {
				views = candidate.Top(views, top)
			}
			return printRanking(cmd, views)
		},
	}
	cmd.Flags().StringVar(&jobID, "job", "", "job id")
	cmd.Flags().BoolVar(&biasFree, "bias-free", false, "mask names and contact details")
	cmd.Flags().IntVar(&top, "top", 0, "only print the first n candidates")
	return cmd
}

func printRanking(cmd *cobra.Command, views []candidate.View) error {
	out := cmd.OutOrStdout()
	if len(views) == 0 {
		fmt.Fprintln(out, "no applicants")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tSTATUS\tOVERALL\tGAPS")
	for i, v := range views {
		gaps := strings.Join(candidate.DetectGaps(v).Labels(), "; ")
		if gaps == "" {
			gaps = "-"
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			i+1, v.Name, v.Status, candidate.FormatScore(v.Scores.Overall), gaps,
		)
	}
	return w.Flush()
}
