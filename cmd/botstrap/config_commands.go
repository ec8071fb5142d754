package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"botstrap/internal/config"
	"botstrap/internal/envfile"
	"botstrap/internal/fileutil"
)

func newConfigCommand(ctx *commandContext) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Runtime configuration utilities",
	}

	configCmd.AddCommand(newConfigInitCommand(ctx))
	configCmd.AddCommand(newConfigCheckCommand(ctx))
	configCmd.AddCommand(newConfigSetCommand(ctx))
	configCmd.AddCommand(newConfigGetCommand(ctx))

	return configCmd
}

func newConfigInitCommand(ctx *commandContext) *cobra.Command {
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the .env template and create .env from it",
		RunE: func(cmd *cobra.Command, args []string) error {
			layout := ctx.layout()
			out := cmd.OutOrStdout()

			if err := config.WriteTemplate(layout.EnvTemplate(), true); err != nil {
				return err
			}
			fmt.Fprintf(out, "Wrote %s\n", layout.EnvTemplate())

			if _, err := os.Stat(layout.EnvFile()); err == nil && !overwrite {
				fmt.Fprintf(out, "Kept existing %s (use --overwrite to replace it)\n", layout.EnvFile())
				return nil
			} else if err == nil {
				backup, err := fileutil.BackupFile(layout.EnvFile())
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Backed up existing .env to %s\n", backup)
			}

			if err := envfile.Materialize(layout.EnvTemplate(), layout.EnvFile(), nil, overwrite); err != nil {
				return err
			}
			fmt.Fprintf(out, "Wrote %s\n", layout.EnvFile())
			fmt.Fprintf(out, "Fill in the required keys (%s) before starting the bot.\n", strings.Join(config.RequiredKeys(), ", "))
			return nil
		},
	}

	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing .env (a backup is kept)")
	return cmd
}

func newConfigCheckCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Validate the installation's .env",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, exists, err := ctx.ensureConfig()
			if !exists {
				return fmt.Errorf("no .env found in %s (run `botstrap config init`)", ctx.base)
			}
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Configuration valid (%s)\n\n", ctx.layout().EnvFile())
			rows := [][]string{
				{"Owner id", fmt.Sprintf("%d", cfg.OwnerID)},
				{"Admins", fmt.Sprintf("%d", len(cfg.AdminIDs))},
				{"Default language", cfg.DefaultLanguage},
				{"Default quality", cfg.DefaultQuality},
				{"Session name", cfg.SessionName},
				{"Workers", fmt.Sprintf("%d", cfg.Workers)},
				{"Log level", cfg.LogLevel},
			}
			fmt.Fprintln(out, renderTable([]string{"Setting", "Value"}, rows))
			return nil
		},
	}
}

func newConfigSetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "set KEY VALUE",
		Short: "Update one key in .env, leaving every other line untouched",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.ToUpper(strings.TrimSpace(args[0]))
			if !templateHasKey(key) {
				return fmt.Errorf("unknown configuration key %q", key)
			}

			layout := ctx.layout()
			file, err := envfile.Load(layout.EnvFile())
			if err != nil {
				return fmt.Errorf("load %s: %w", layout.EnvFile(), err)
			}
			file.Set(key, args[1])
			if err := file.WriteTo(layout.EnvFile()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Set %s in %s\n", key, layout.EnvFile())
			return nil
		},
	}
}

func newConfigGetCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "get KEY",
		Short: "Print one value from .env",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			key := strings.ToUpper(strings.TrimSpace(args[0]))
			layout := ctx.layout()
			file, err := envfile.Load(layout.EnvFile())
			if err != nil {
				return fmt.Errorf("load %s: %w", layout.EnvFile(), err)
			}
			value, ok := file.Get(key)
			if !ok {
				return fmt.Errorf("key %q not present in %s", key, layout.EnvFile())
			}
			fmt.Fprintln(cmd.OutOrStdout(), value)
			return nil
		},
	}
}

// templateHasKey restricts config set to the keys the bot actually reads.
func templateHasKey(key string) bool {
	return envfile.Parse([]byte(config.Template())).Has(key)
}
