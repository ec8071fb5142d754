package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"botstrap/internal/store"
)

func newDBCommand(ctx *commandContext) *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Bot database utilities",
	}

	dbCmd.AddCommand(newDBInitCommand(ctx))
	dbCmd.AddCommand(newDBStatsCommand(ctx))

	return dbCmd
}

func newDBInitCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the bot database and its schema",
		Long:  "Creates database/bot.db with the tables the bot expects. Safe to run against an existing database: the schema is applied idempotently and data is never touched.",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(ctx.layout().DatabaseFile())
			if err != nil {
				return err
			}
			defer st.Close()
			fmt.Fprintf(cmd.OutOrStdout(), "Database ready at %s\n", st.Path())
			return nil
		},
	}
}

func newDBStatsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show row counts for the bot tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(ctx.layout().DatabaseFile())
			if err != nil {
				return err
			}
			defer st.Close()

			counts, err := st.Counts(cmd.Context())
			if err != nil {
				return err
			}
			tables := make([]string, 0, len(counts))
			for name := range counts {
				tables = append(tables, name)
			}
			sort.Strings(tables)

			rows := make([][]string, 0, len(tables))
			for _, name := range tables {
				rows = append(rows, []string{name, fmt.Sprintf("%d", counts[name])})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable([]string{"Table", "Rows"}, rows))
			return nil
		},
	}
}
