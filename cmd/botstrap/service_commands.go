package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"botstrap/internal/service"
)

func newServiceCommand(ctx *commandContext) *cobra.Command {
	var scopeFlag string

	serviceCmd := &cobra.Command{
		Use:   "service",
		Short: "Manage the bot's systemd unit",
	}
	serviceCmd.PersistentFlags().StringVar(&scopeFlag, "scope", "user", "Registration scope (user or system)")

	serviceCmd.AddCommand(newServiceUnitCommand(ctx, &scopeFlag))
	serviceCmd.AddCommand(newServiceInstallCommand(ctx, &scopeFlag))
	serviceCmd.AddCommand(newServiceUninstallCommand(&scopeFlag))

	return serviceCmd
}

func newServiceUnitCommand(ctx *commandContext, scopeFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "unit",
		Short: "Print the systemd unit file without installing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			scope := service.Scope(*scopeFlag)
			if _, err := service.NewRegistrar(scope); err != nil {
				return err
			}
			rendered, err := service.NewUnit(ctx.layout(), scope).Render()
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), rendered)
			return nil
		},
	}
}

func newServiceInstallCommand(ctx *commandContext, scopeFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "install",
		Short: "Write and enable the systemd unit",
		RunE: func(cmd *cobra.Command, args []string) error {
			scope := service.Scope(*scopeFlag)
			registrar, err := service.NewRegistrar(scope)
			if err != nil {
				return err
			}
			path, err := registrar.Install(cmd.Context(), service.NewUnit(ctx.layout(), scope))
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Installed %s\n", path)
			if scope == service.ScopeUser {
				fmt.Fprintf(out, "Start it with: systemctl --user start %s\n", service.UnitName)
			} else {
				fmt.Fprintf(out, "Start it with: sudo systemctl start %s\n", service.UnitName)
			}
			return nil
		},
	}
}

func newServiceUninstallCommand(scopeFlag *string) *cobra.Command {
	return &cobra.Command{
		Use:   "uninstall",
		Short: "Disable and remove the systemd unit",
		RunE: func(cmd *cobra.Command, args []string) error {
			registrar, err := service.NewRegistrar(service.Scope(*scopeFlag))
			if err != nil {
				return err
			}
			if err := registrar.Uninstall(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", service.UnitName)
			return nil
		},
	}
}
