package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sheetsync/internal/ddlgen"
	"sheetsync/internal/storage"
)

func newDDLCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "ddl",
		Short: "Draft build and drop statements from the current sources",
		Long:  "Reads every configured source, infers column types for the configured store kind and prints a ddl section to paste into the config file. The store is not contacted.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := setup(cmd, o)
			if err != nil {
				return err
			}
			defer env.close()

			d, err := storage.Lookup(env.cfg.Store.Kind)
			if err != nil {
				return err
			}
			set, err := env.reader().ReadAll(cmd.Context(), env.cfg.Sources)
			if err != nil {
				return err
			}
			draft, err := ddlgen.Generate(set, d, env.cfg.Load.IndexColumn)
			if err != nil {
				return err
			}
			b, err := draft.YAML()
			if err != nil {
				return err
			}
			if _, err := cmd.OutOrStdout().Write(b); err != nil {
				return fmt.Errorf("write ddl: %w", err)
			}
			return nil
		},
	}
}
