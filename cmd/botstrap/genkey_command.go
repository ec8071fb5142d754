package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"botstrap/internal/envfile"
	"botstrap/internal/keygen"
)

func newGenkeyCommand(ctx *commandContext) *cobra.Command {
	var write bool

	cmd := &cobra.Command{
		Use:   "genkey",
		Short: "Generate a cookie encryption key",
		Long:  "Generates a fresh 32-byte key, base64 encoded, suitable for the ENCRYPTION_KEY setting.",
		RunE: func(cmd *cobra.Command, args []string) error {
			key, err := keygen.Generate()
			if err != nil {
				return err
			}
			if !write {
				fmt.Fprintln(cmd.OutOrStdout(), key)
				return nil
			}

			layout := ctx.layout()
			file, err := envfile.Load(layout.EnvFile())
			if err != nil {
				return fmt.Errorf("load %s: %w", layout.EnvFile(), err)
			}
			file.Set("ENCRYPTION_KEY", key)
			if err := file.WriteTo(layout.EnvFile()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote new ENCRYPTION_KEY to %s\n", layout.EnvFile())
			fmt.Fprintln(cmd.OutOrStdout(), "Cookies encrypted with the previous key can no longer be read.")
			return nil
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, "Store the key in .env instead of printing it")
	return cmd
}
