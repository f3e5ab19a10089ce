package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// options holds the persistent flags shared by every subcommand.
type options struct {
	configPath     string
	envFile        string
	verbose        bool
	noColor        bool
	metricsBackend string
	pushgatewayURL string
	statsdAddr     string
}

// Execute runs the CLI against the process streams and returns the exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return execute(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func execute(ctx context.Context, args []string, in io.Reader, out, errOut io.Writer) int {
	root := newRootCmd()
	root.SetArgs(args)
	root.SetIn(in)
	root.SetOut(out)
	root.SetErr(errOut)
	if err := root.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(errOut, "Error: %v\n", err)
		return 1
	}
	return 0
}

func newRootCmd() *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:           "sheetsync",
		Short:         "Sync spreadsheet tabs into a relational store",
		Long:          "Loads spreadsheet CSV exports into tables and applies build/drop DDL, confirming before anything existing is overwritten or dropped.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "sheetsync.yaml", "config file path")
	pf.StringVar(&o.envFile, "env-file", ".env", "dotenv file to load before reading the environment (optional)")
	pf.BoolVarP(&o.verbose, "verbose", "v", false, "enable debug logs")
	pf.BoolVar(&o.noColor, "no-color", false, "disable coloured output")
	pf.StringVar(&o.metricsBackend, "metrics-backend", "", "metrics backend: none, pushgateway or datadog (overrides METRICS_BACKEND)")
	pf.StringVar(&o.pushgatewayURL, "pushgateway-url", "", "Pushgateway base URL (overrides PUSHGATEWAY_URL)")
	pf.StringVar(&o.statsdAddr, "statsd-addr", "", "DogStatsD address (overrides DD_AGENT_ADDR)")

	root.AddCommand(newRunCmd(o))
	root.AddCommand(newTablesCmd(o))
	root.AddCommand(newValidateCmd(o))
	root.AddCommand(newDDLCmd(o))
	return root
}
