package main

import (
	"errors"

	"github.com/spf13/cobra"

	"sheetsync/internal/config"
)

var errInvalidConfig = errors.New("configuration is invalid")

func newValidateCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Validate the config file and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(o)
			if err != nil {
				return err
			}
			con := newConsole(cmd.OutOrStdout(), o.noColor)

			issues := config.Validate(cfg)
			for _, iss := range issues {
				line := "%s: %s: %s"
				if iss.Severity == config.SeverityError {
					con.Failf(line, iss.Severity, iss.Path, iss.Message)
				} else {
					con.Warnf(line, iss.Severity, iss.Path, iss.Message)
				}
			}
			if config.HasErrors(issues) {
				return errInvalidConfig
			}
			con.Successf("Configuration is valid: %s", o.configPath)
			return nil
		},
	}
}
