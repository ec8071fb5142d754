package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"botstrap/internal/container"
)

func newDockerCommand(ctx *commandContext) *cobra.Command {
	dockerCmd := &cobra.Command{
		Use:   "docker",
		Short: "Container build utilities",
	}

	var overwrite bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the Dockerfile, compose file, and .dockerignore",
		RunE: func(cmd *cobra.Command, args []string) error {
			written, err := container.Write(ctx.base, overwrite)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(written) == 0 {
				fmt.Fprintln(out, "All container files already present (use --overwrite to replace them).")
				return nil
			}
			for _, name := range written {
				fmt.Fprintf(out, "wrote: %s\n", name)
			}
			fmt.Fprintln(out, "Build with: docker compose up -d --build")
			return nil
		},
	}
	initCmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace existing container files")

	dockerCmd.AddCommand(initCmd)
	return dockerCmd
}
