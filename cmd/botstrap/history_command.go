package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"botstrap/internal/store"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past provisioning runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			dbPath := ctx.layout().DatabaseFile()
			if _, err := os.Stat(dbPath); os.IsNotExist(err) {
				return fmt.Errorf("no database at %s; nothing has been installed here yet", dbPath)
			}
			st, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			runs, err := st.ListRuns(cmd.Context(), limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, "No provisioning runs recorded.")
				return nil
			}

			rows := make([][]string, 0, len(runs))
			for _, run := range runs {
				outcome := "failed"
				if run.Succeeded {
					outcome = "ok"
				}
				if run.FinishedAt.IsZero() {
					outcome = "interrupted"
				}
				rows = append(rows, []string{
					shortRunID(run.ID),
					run.StartedAt.Local().Format(time.DateTime),
					outcome,
					run.ToolVersion,
					stepSummary(run.Steps),
				})
			}
			fmt.Fprintln(out, renderTable([]string{"Run", "Started", "Result", "Version", "Steps"}, rows))
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 10, "Number of runs to show")
	return cmd
}

func stepSummary(steps []store.StepResult) string {
	var ok, skipped, failed int
	for _, step := range steps {
		switch step.Status {
		case store.StepOK:
			ok++
		case store.StepSkipped:
			skipped++
		case store.StepFailed:
			failed++
		}
	}
	summary := fmt.Sprintf("%d ok", ok)
	if skipped > 0 {
		summary += fmt.Sprintf(", %d skipped", skipped)
	}
	if failed > 0 {
		summary += fmt.Sprintf(", %d failed", failed)
	}
	return summary
}
