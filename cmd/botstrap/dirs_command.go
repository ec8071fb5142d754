package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDirsCommand(ctx *commandContext) *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "dirs",
		Short: "Create the bot's directory layout",
		RunE: func(cmd *cobra.Command, args []string) error {
			layout := ctx.layout()
			out := cmd.OutOrStdout()

			missing := layout.Missing()
			if check {
				if len(missing) == 0 {
					fmt.Fprintln(out, "All directories present.")
					return nil
				}
				for _, dir := range missing {
					fmt.Fprintf(out, "missing: %s\n", dir)
				}
				return fmt.Errorf("%d directories missing", len(missing))
			}

			if err := layout.Ensure(); err != nil {
				return err
			}
			if len(missing) == 0 {
				fmt.Fprintf(out, "All directories already present under %s\n", layout.Base)
				return nil
			}
			for _, dir := range missing {
				fmt.Fprintf(out, "created: %s\n", dir)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "Report missing directories without creating them")
	return cmd
}
