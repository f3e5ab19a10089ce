package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"sheetsync/internal/config"
	"sheetsync/internal/console"
	"sheetsync/internal/datasource/httpds"
	"sheetsync/internal/datasource/sheets"
	"sheetsync/internal/guard"
	"sheetsync/internal/logging"
	"sheetsync/internal/metrics"
	"sheetsync/internal/metrics/datadog"
	"sheetsync/internal/metrics/prompush"
	pcsv "sheetsync/internal/parser/csv"
	"sheetsync/internal/schema"
	"sheetsync/internal/storage"
	"sheetsync/internal/workflow"

	// register every dialect; the config picks one at runtime.
	_ "sheetsync/internal/storage/all"
)

const defaultStatsdAddr = "127.0.0.1:8125"

// env is everything a subcommand needs after config, logging and metrics
// have been resolved.
type env struct {
	cfg     *config.Config
	log     *slog.Logger
	console *console.Console
	closers []func()
}

// close flushes metrics and the log handlers, in reverse setup order.
func (e *env) close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// loadConfig resolves the config: flag, then environment (after the dotenv
// file), then file, then defaults.
func loadConfig(o *options) (*config.Config, error) {
	if err := config.LoadEnv(o.envFile); err != nil {
		return nil, err
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, err
	}
	config.ApplyEnv(cfg, os.Getenv)

	if o.metricsBackend != "" {
		cfg.Metrics.Backend = o.metricsBackend
	}
	if o.pushgatewayURL != "" {
		cfg.Metrics.PushgatewayURL = o.pushgatewayURL
	}
	if o.statsdAddr != "" {
		cfg.Metrics.StatsdAddr = o.statsdAddr
	}
	if o.verbose {
		cfg.Log.Level = "debug"
	}
	return cfg, nil
}

func setup(cmd *cobra.Command, o *options) (*env, error) {
	cfg, err := loadConfig(o)
	if err != nil {
		return nil, err
	}

	log, closeLog, err := logging.SetupLogger(logging.Options{
		Level:  cfg.Log.Level,
		SeqURL: cfg.Log.SeqURL,
		Out:    cmd.ErrOrStderr(),
	})
	if err != nil {
		return nil, err
	}
	log = log.With("run_id", uuid.NewString(), "job", cfg.Job)

	e := &env{
		cfg:     cfg,
		log:     log,
		console: newConsole(cmd.OutOrStdout(), o.noColor),
		closers: []func(){closeLog},
	}

	issues := config.Validate(cfg)
	for _, iss := range issues {
		if iss.Severity == config.SeverityError {
			e.console.Failf("%s: %s: %s", iss.Severity, iss.Path, iss.Message)
			continue
		}
		log.Warn("config issue", "path", iss.Path, "msg", iss.Message)
	}
	if config.HasErrors(issues) {
		e.close()
		return nil, errInvalidConfig
	}

	if flush := setupMetrics(cfg, log); flush != nil {
		e.closers = append(e.closers, flush)
	}
	return e, nil
}

// setupMetrics installs the configured backend and returns its flush
// function, or nil when metrics are disabled.
func setupMetrics(cfg *config.Config, log *slog.Logger) func() {
	var (
		b   metrics.Backend
		err error
	)
	switch strings.ToLower(cfg.Metrics.Backend) {
	case "pushgateway":
		b, err = prompush.NewBackend(cfg.Job, cfg.Metrics.PushgatewayURL)
		log.Debug("metrics", "backend", "pushgateway", "url", cfg.Metrics.PushgatewayURL)

	case "datadog":
		addr := cfg.Metrics.StatsdAddr
		if addr == "" {
			addr = defaultStatsdAddr
		}
		b, err = datadog.NewBackend(datadog.Config{
			Addr:       addr,
			GlobalTags: []string{"job:" + cfg.Job},
		})
		log.Debug("metrics", "backend", "datadog", "addr", addr)

	case "", "none":
		log.Debug("metrics disabled")
		return nil

	default:
		log.Warn("unknown metrics backend; metrics disabled", "backend", cfg.Metrics.Backend)
		return nil
	}
	if err != nil {
		log.Warn("metrics backend init failed; using nop", "err", err)
		return nil
	}

	metrics.SetBackend(b)
	return func() {
		if err := metrics.Flush(); err != nil {
			log.Warn("metrics flush failed", "err", err)
		}
	}
}

func newConsole(w io.Writer, noColor bool) *console.Console {
	if f, ok := w.(*os.File); ok {
		return console.Auto(f, noColor)
	}
	return console.New(w, false)
}

// open connects to the configured store.
func (e *env) open(ctx context.Context) (workflow.Store, error) {
	st, err := storage.Open(ctx, storage.Config{
		Kind:        e.cfg.Store.Kind,
		DSN:         e.cfg.Store.DSN,
		IndexColumn: e.cfg.Load.IndexColumn,
		Logger:      e.log,
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// runner wires the workflow; in feeds the confirmation prompt.
func (e *env) runner(in io.Reader) (*workflow.Runner, error) {
	var reg *schema.Registry
	if len(e.cfg.DDL) > 0 {
		var err error
		if reg, err = e.cfg.Registry(); err != nil {
			return nil, err
		}
	}

	return &workflow.Runner{
		Job:         e.cfg.Job,
		Sources:     e.cfg.Sources,
		Registry:    reg,
		IndexColumn: e.cfg.Load.IndexColumn,
		Reader:      e.reader(),
		Open:        e.open,
		Guard:       guard.New(in, e.console),
		Console:     e.console,
		Log:         e.log,
	}, nil
}

// reader builds the spreadsheet reader over the configured HTTP client.
func (e *env) reader() *sheets.Reader {
	headers := make(http.Header, len(e.cfg.HTTP.Headers))
	for k, v := range e.cfg.HTTP.Headers {
		headers.Set(k, v)
	}
	client := httpds.NewClient(httpds.Config{
		Timeout:            e.cfg.HTTP.Timeout,
		InsecureSkipVerify: e.cfg.HTTP.InsecureSkipVerify,
		BaseHeaders:        headers,
	})
	return sheets.NewReader(client, pcsv.Options{
		Comma:            ',',
		TrimSpace:        e.cfg.Load.TrimSpace,
		NormalizeHeaders: e.cfg.Load.NormalizeHeaders,
	}, e.log)
}
