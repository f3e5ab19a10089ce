package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sheetsync/internal/schema"
	"sheetsync/internal/workflow"
)

func newRunCmd(o *options) *cobra.Command {
	valid := make([]string, len(schema.Operations))
	for i, op := range schema.Operations {
		valid[i] = string(op)
	}

	return &cobra.Command{
		Use:       "run <load|build|drop>",
		Short:     "Run a process: load spreadsheets, or apply build or drop DDL",
		Args:      cobra.ExactArgs(1),
		ValidArgs: valid,
		RunE: func(cmd *cobra.Command, args []string) error {
			op, err := workflow.ParseProcess(args[0])
			if err != nil {
				return err
			}

			env, err := setup(cmd, o)
			if err != nil {
				return err
			}
			defer env.close()

			runner, err := env.runner(cmd.InOrStdin())
			if err != nil {
				return err
			}
			res, err := runner.Run(cmd.Context(), op)
			if err != nil {
				return err
			}
			if !res.OK() {
				return fmt.Errorf("%d of %d tables failed", len(res.Report.Failed), len(res.Report.Requested))
			}
			return nil
		},
	}
}
