package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"botstrap/internal/config"
	"botstrap/internal/installer"
	"botstrap/internal/logging"
	"botstrap/internal/profile"
	"botstrap/internal/prompt"
	"botstrap/internal/store"
)

func newInstallCommand(ctx *commandContext) *cobra.Command {
	var (
		profilePath      string
		assumeYes        bool
		skipVenv         bool
		skipService      bool
		overwriteEnv     bool
		continueNoFFmpeg bool
		pythonBinary     string
		logFormat        string
	)

	cmd := &cobra.Command{
		Use:   "install",
		Short: "Run the full provisioning pipeline",
		Long:  "Probes the host, scaffolds the working directory, builds the Python virtual environment, installs dependencies, writes the runtime configuration, initializes the database, and optionally registers the systemd unit. Re-running against a provisioned directory is safe: completed work is detected and an existing .env is never replaced without explicit consent.",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := installer.Options{
				Base:             ctx.base,
				Python:           pythonBinary,
				Version:          version,
				AssumeYes:        assumeYes,
				SkipVenv:         skipVenv,
				SkipService:      skipService,
				OverwriteEnv:     overwriteEnv,
				ContinueNoFFmpeg: continueNoFFmpeg,
			}

			if profilePath != "" {
				p, err := profile.Load(profilePath)
				if err != nil {
					return err
				}
				opts.Profile = p
			}

			if opts.Profile == nil && assumeYes {
				// Prompts are disabled and there is no answer file, so a
				// fresh install has no source for credentials.
				if _, statErr := os.Stat(ctx.layout().EnvFile()); os.IsNotExist(statErr) {
					return fmt.Errorf("--yes needs a credential source: pass --profile, or run interactively, or provision a .env first with `botstrap config init`")
				}
			}

			if opts.Profile != nil || assumeYes {
				opts.Prompter = &prompt.Scripted{}
			} else {
				opts.Prompter = prompt.NewTerminal()
			}

			// A provisioned directory already carries logging settings in
			// its .env; honor them on re-runs unless the flag overrides.
			var logger *slog.Logger
			var err error
			if cfg, _, cfgErr := config.Load(ctx.base); cfgErr == nil && !cmd.Flags().Changed("log-format") {
				logger, err = logging.NewFromConfig(cfg)
			} else {
				logger, err = logging.New(logging.Options{
					Level:        "info",
					Format:       logFormat,
					FilePath:     filepath.Join(ctx.layout().Logs(), "botstrap.log"),
					MaxMegabytes: 10,
					Backups:      5,
					MaxAgeDays:   30,
				})
			}
			if err != nil {
				return err
			}
			opts.Logger = logger

			report, runErr := installer.New(opts).Run(cmd.Context())

			out := cmd.OutOrStdout()
			if report != nil && len(report.Steps) > 0 {
				rows := make([][]string, 0, len(report.Steps))
				for _, step := range report.Steps {
					rows = append(rows, []string{
						step.Name,
						step.Status,
						step.Detail,
						step.Duration.Truncate(stepDurationResolution).String(),
					})
				}
				fmt.Fprintln(out, renderTable([]string{"Step", "Status", "Detail", "Duration"}, rows))
			}

			if runErr != nil {
				return runErr
			}

			fmt.Fprintf(out, "Installation complete (run %s).\n", shortRunID(report.RunID))
			if !hasStep(report, "service", store.StepOK) {
				fmt.Fprintln(out, "Start the bot manually with: venv/bin/python bot.py")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&profilePath, "profile", "", "TOML answer file for unattended installation")
	cmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "Accept default answers instead of prompting")
	cmd.Flags().BoolVar(&skipVenv, "skip-venv", false, "Skip virtual environment creation and dependency installation")
	cmd.Flags().BoolVar(&skipService, "skip-service", false, "Skip systemd service registration")
	cmd.Flags().BoolVar(&overwriteEnv, "overwrite-env", false, "Replace an existing .env (a backup is kept)")
	cmd.Flags().BoolVar(&continueNoFFmpeg, "continue-without-ffmpeg", false, "Proceed even when ffmpeg is not installed")
	cmd.Flags().StringVar(&pythonBinary, "python", "", "Python interpreter to use (default python3)")
	cmd.Flags().StringVar(&logFormat, "log-format", "console", "Log output format (console or json)")
	return cmd
}

func hasStep(report *installer.Report, name, status string) bool {
	for _, step := range report.Steps {
		if step.Name == name && step.Status == status {
			return true
		}
	}
	return false
}

func shortRunID(id string) string {
	if idx := strings.Index(id, "-"); idx > 0 {
		return id[:idx]
	}
	return id
}
