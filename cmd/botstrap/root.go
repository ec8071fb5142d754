package main

import (
	"github.com/spf13/cobra"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func newRootCommand() *cobra.Command {
	var dirFlag string

	ctx := newCommandContext(&dirFlag)

	rootCmd := &cobra.Command{
		Use:           "botstrap",
		Short:         "Provisioning tool for the Video Downloader Bot",
		Long:          "botstrap prepares a host to run the Video Downloader Bot: it probes dependencies, builds the Python environment, scaffolds the working directory, writes the runtime configuration, and optionally registers the bot as a systemd service.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return ctx.resolveBase()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&dirFlag, "dir", "C", "", "Installation directory (default: current directory)")

	rootCmd.AddCommand(newInstallCommand(ctx))
	rootCmd.AddCommand(newDoctorCommand(ctx))
	rootCmd.AddCommand(newConfigCommand(ctx))
	rootCmd.AddCommand(newGenkeyCommand(ctx))
	rootCmd.AddCommand(newDirsCommand(ctx))
	rootCmd.AddCommand(newDBCommand(ctx))
	rootCmd.AddCommand(newServiceCommand(ctx))
	rootCmd.AddCommand(newDockerCommand(ctx))
	rootCmd.AddCommand(newVenvCommand(ctx))
	rootCmd.AddCommand(newDepsCommand(ctx))
	rootCmd.AddCommand(newLangCommand(ctx))
	rootCmd.AddCommand(newHistoryCommand(ctx))

	return rootCmd
}
