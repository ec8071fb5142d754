package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"botstrap/internal/language"
)

func newLangCommand(ctx *commandContext) *cobra.Command {
	langCmd := &cobra.Command{
		Use:   "lang",
		Short: "Manage the bot's language catalogs",
	}

	langCmd.AddCommand(&cobra.Command{
		Use:   "seed",
		Short: "Write the shipped language catalogs into languages/",
		Long:  "Writes the bundled catalogs into the languages directory. Catalogs already present are never replaced, so local translation edits survive.",
		RunE: func(cmd *cobra.Command, args []string) error {
			seeded, err := language.SeedCatalogs(ctx.layout().Languages())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(seeded) == 0 {
				fmt.Fprintln(out, "All shipped catalogs already present.")
				return nil
			}
			for _, path := range seeded {
				fmt.Fprintf(out, "seeded: %s\n", path)
			}
			return nil
		},
	})

	langCmd.AddCommand(&cobra.Command{
		Use:   "check",
		Short: "Validate every catalog in languages/",
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := language.LoadDir(ctx.layout().Languages(), "en")
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(set.Codes()))
			for _, code := range set.Codes() {
				catalog := set.Resolve(code)
				rows = append(rows, []string{
					code,
					catalog.Meta.Name,
					catalog.Meta.NativeName,
					yesNo(catalog.Meta.RTL),
					fmt.Sprintf("%d", len(catalog.Sections)),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Code", "Name", "Native", "RTL", "Sections"}, rows))
			return nil
		},
	})

	return langCmd
}
