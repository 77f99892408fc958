package cli

import (
	"errors"
	"fmt"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

func newJobsCmd(rt *runtime) *cobra.Command {
	jobs := &cobra.Command{
		Use:   "jobs",
		Short: "Manage job postings",
	}
	jobs.AddCommand(newJobsDeleteCmd(rt))
	return jobs
}

func newJobsDeleteCmd(rt *runtime) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a job that has no applicants",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			svc, err := rt.services(cmd.Context())
			if err != nil {
				return err
			}
			defer svc.Close()

			j, err := svc.Jobs.GetJob(cmd.Context(), id)
			if err != nil {
				return err
			}
			if !yes {
				ok, err := rt.opts.Confirm(fmt.Sprintf("Delete job %q (%s)?", j.Title, j.ID))
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(cmd.OutOrStdout(), "aborted")
					return nil
				}
			}

			if err := svc.Jobs.DeleteJob(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "job %s deleted\n", id)
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func promptConfirm(label string) (bool, error) {
	prompt := promptui.Select{
		Label: label,
		Items: []string{PromptNo, PromptYes},
	}
	_, choice, err := prompt.Run()
	if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return choice == PromptYes, nil
}
