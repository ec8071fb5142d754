package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"botstrap/internal/venv"
)

func newDepsCommand(ctx *commandContext) *cobra.Command {
	var pythonBinary string

	depsCmd := &cobra.Command{
		Use:   "deps",
		Short: "Manage the bot's Python dependencies",
	}
	depsCmd.PersistentFlags().StringVar(&pythonBinary, "python", "", "Python interpreter to use (default python3)")

	depsCmd.AddCommand(&cobra.Command{
		Use:   "install",
		Short: "Install the pinned dependency manifest into the virtual environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			layout := ctx.layout()
			manager := venv.New(layout.VenvDir(), pythonBinary)
			manifest, err := manager.InstallRequirements(cmd.Context(), layout.RequirementsFile())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Installed %d packages (%d pinned) from %s\n",
				len(manifest.Packages), manifest.PinnedCount(), manifest.Path)
			return nil
		},
	})

	depsCmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "Show the dependency manifest without installing anything",
		RunE: func(cmd *cobra.Command, args []string) error {
			manifest, err := venv.LoadManifest(ctx.layout().RequirementsFile())
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(manifest.Packages))
			for _, pkg := range manifest.Packages {
				if pkg.Name == "" {
					continue
				}
				rows = append(rows, []string{pkg.Name, pkg.Spec, yesNo(pkg.Pinned())})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Package", "Constraint", "Pinned"}, rows))
			return nil
		},
	})

	return depsCmd
}
