package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"botstrap/internal/venv"
)

func newVenvCommand(ctx *commandContext) *cobra.Command {
	var pythonBinary string

	venvCmd := &cobra.Command{
		Use:   "venv",
		Short: "Manage the bot's Python virtual environment",
	}
	venvCmd.PersistentFlags().StringVar(&pythonBinary, "python", "", "Python interpreter to use (default python3)")

	venvCmd.AddCommand(&cobra.Command{
		Use:   "create",
		Short: "Create the virtual environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := venv.New(ctx.layout().VenvDir(), pythonBinary)
			if err := manager.Create(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created virtual environment at %s\n", manager.Dir)
			return nil
		},
	})

	venvCmd.AddCommand(&cobra.Command{
		Use:   "recreate",
		Short: "Delete and rebuild the virtual environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			manager := venv.New(ctx.layout().VenvDir(), pythonBinary)
			if err := manager.Recreate(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rebuilt virtual environment at %s\n", manager.Dir)
			fmt.Fprintln(cmd.OutOrStdout(), "Reinstall dependencies with: botstrap deps install")
			return nil
		},
	})

	return venvCmd
}
