package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newTablesCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "tables",
		Short: "List the tables currently in the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := setup(cmd, o)
			if err != nil {
				return err
			}
			defer env.close()

			st, err := env.open(cmd.Context())
			if err != nil {
				return err
			}
			defer st.Close()

			cat, err := st.ListTables(cmd.Context())
			if err != nil {
				return fmt.Errorf("list tables: %w", err)
			}
			for _, t := range cat.Tables {
				env.console.Infof("%s", t)
			}
			env.console.Infof("%d tables", len(cat.Tables))
			return nil
		},
	}
}
