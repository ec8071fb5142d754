package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"botstrap/internal/envprobe"
	"botstrap/internal/preflight"
)

func newDoctorCommand(ctx *commandContext) *cobra.Command {
	var toolsOnly bool

	cmd := &cobra.Command{
		Use:   "doctor",
		Short: "Check host tools and the health of an installation",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			osInfo := envprobe.DetectOS()
			if osInfo.PrettyName != "" {
				fmt.Fprintf(out, "Host: %s\n\n", osInfo.PrettyName)
			}

			var missingRequired int
			rows := make([][]string, 0, 4)
			python := envprobe.ProbePython(cmd.Context(), "")
			rows = append(rows, []string{"Python", okMissing(python.Available), python.Detail, python.Description})
			if !python.Available {
				missingRequired++
			}
			for _, status := range envprobe.CheckBinaries(envprobe.Requirements()) {
				if status.Name == "Python" {
					continue
				}
				name := status.Name
				if status.Optional {
					name += " (optional)"
				}
				detail := status.Command
				if !status.Available {
					detail = status.Detail
					if !status.Optional {
						missingRequired++
					}
				}
				rows = append(rows, []string{name, okMissing(status.Available), detail, status.Description})
			}
			fmt.Fprintln(out, renderTable([]string{"Tool", "Status", "Detail", "Purpose"}, rows))

			if missingRequired > 0 {
				if hint := osInfo.PackageHint(); hint != "" {
					fmt.Fprintf(out, "\nHint: %s\n", hint)
				}
			}

			if toolsOnly {
				if missingRequired > 0 {
					return fmt.Errorf("%d required tools missing", missingRequired)
				}
				return nil
			}

			results := preflight.RunAll(cmd.Context(), ctx.base)
			rows = rows[:0]
			for _, result := range results {
				rows = append(rows, []string{result.Name, passFail(result.Passed), result.Detail})
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, renderTable([]string{"Check", "Status", "Detail"}, rows))

			failed := preflight.Failed(results)
			if len(failed) > 0 || missingRequired > 0 {
				return fmt.Errorf("%d checks failed", len(failed)+missingRequired)
			}
			fmt.Fprintln(out, "\nInstallation looks healthy.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&toolsOnly, "tools", false, "Only check host tools, not the installation")
	return cmd
}
