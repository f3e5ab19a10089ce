// Package workflow composes the source reader, schema registry, store and
// drop guard into the load, build and drop processes.
//
// Every process is a short linear pipeline: gather the proposed tables,
// snapshot the store catalog, ask the guard, then write. A store connection
// is opened for the inspection and again for the write; none is held while
// sources are fetched or while the operator is prompted.
package workflow

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"sheetsync/internal/config"
	"sheetsync/internal/console"
	"sheetsync/internal/dataset"
	"sheetsync/internal/guard"
	"sheetsync/internal/metrics"
	"sheetsync/internal/schema"
	"sheetsync/internal/storage"
)

// Store is the part of *storage.Store the workflow uses.
type Store interface {
	ListTables(ctx context.Context) (schema.Catalog, error)
	Columns(ctx context.Context, table string) ([]string, error)
	ApplyDDL(ctx context.Context, op schema.Operation, stmts []schema.Statement) (storage.Report, error)
	WriteTables(ctx context.Context, set dataset.Set) (storage.Report, error)
	Close() error
}

// Opener opens a fresh store connection.
type Opener func(ctx context.Context) (Store, error)

// SourceReader fetches every configured source, all or nothing.
type SourceReader interface {
	ReadAll(ctx context.Context, sources []config.Source) (dataset.Set, error)
}

// Confirmer gates overlapping writes. *guard.Guard implements it.
type Confirmer interface {
	Evaluate(proposed []string, existing schema.Catalog, op schema.Operation, notes ...string) (guard.Decision, error)
}

// Runner runs one process per call. All fields except IndexColumn and Log
// are required.
type Runner struct {
	Job         string
	Sources     []config.Source
	Registry    *schema.Registry
	IndexColumn string

	Reader  SourceReader
	Open    Opener
	Guard   Confirmer
	Console *console.Console
	Log     *slog.Logger
}

// Result is the outcome of a run that got past its fatal checks. Report is
// empty unless the guard decided Proceed.
type Result struct {
	Op       schema.Operation
	Decision guard.Decision
	Report   storage.Report
}

// OK reports whether the run ended without per-table failures.
func (r Result) OK() bool { return r.Report.OK() }

// Run executes op. Batch-fatal failures are returned as *Error; per-table
// failures are only in the Result's report.
func (r *Runner) Run(ctx context.Context, op schema.Operation) (Result, error) {
	if !op.Valid() {
		_, err := ParseProcess(string(op))
		return Result{Op: op}, err
	}
	if r.Log == nil {
		r.Log = slog.Default()
	}
	log := r.Log.With("op", string(op))
	log.Info("run started")

	var (
		res Result
		err error
	)
	if op == schema.OpLoad {
		res, err = r.load(ctx, log)
	} else {
		res, err = r.schemaChange(ctx, op, log)
	}
	if err != nil {
		log.Error("run failed", "err", err)
		return res, err
	}
	log.Info("run finished",
		"decision", res.Decision.String(),
		"succeeded", len(res.Report.Succeeded),
		"failed", len(res.Report.Failed),
	)
	return res, nil
}

func (r *Runner) load(ctx context.Context, log *slog.Logger) (Result, error) {
	op := schema.OpLoad
	res := Result{Op: op}

	var set dataset.Set
	err := r.step("read_sources", func() error {
		var err error
		set, err = r.Reader.ReadAll(ctx, r.Sources)
		return err
	})
	if err != nil {
		return res, fail(KindSource, op, err)
	}
	log.Debug("sources read", "datasets", len(set))

	var (
		existing schema.Catalog
		notes    []string
	)
	err = r.step("inspect", func() error {
		return r.withStore(ctx, func(st Store) error {
			var err error
			if existing, err = st.ListTables(ctx); err != nil {
				return err
			}
			notes, err = driftNotes(ctx, st, set, existing, r.IndexColumn)
			return err
		})
	})
	if err != nil {
		return res, fail(KindStore, op, err)
	}

	if res.Decision, err = r.confirm(set.Names(), existing, op, notes); err != nil || res.Decision != guard.Proceed {
		return res, err
	}

	err = r.step("write", func() error {
		return r.withStore(ctx, func(st Store) error {
			var err error
			res.Report, err = st.WriteTables(ctx, set)
			return err
		})
	})
	r.report(res.Report)
	if err != nil {
		return res, fail(KindStore, op, err)
	}
	for _, name := range res.Report.Succeeded {
		if ds, ok := set.Get(name); ok {
			metrics.RecordRows(r.Job, name, len(ds.Rows))
		}
	}
	return res, nil
}

func (r *Runner) schemaChange(ctx context.Context, op schema.Operation, log *slog.Logger) (Result, error) {
	res := Result{Op: op}

	if r.Registry == nil {
		return res, fail(KindConfig, op, fmt.Errorf("workflow: no ddl statements configured"))
	}
	stmts, err := r.Registry.Statements(op)
	if err != nil {
		return res, fail(KindConfig, op, err)
	}
	tables := schema.Tables(stmts)
	r.Console.Infof("Tables to %s: %d", op, len(tables))
	log.Debug("statements resolved", "tables", tables)

	var existing schema.Catalog
	err = r.step("inspect", func() error {
		return r.withStore(ctx, func(st Store) error {
			var err error
			existing, err = st.ListTables(ctx)
			return err
		})
	})
	if err != nil {
		return res, fail(KindStore, op, err)
	}

	if res.Decision, err = r.confirm(tables, existing, op, nil); err != nil || res.Decision != guard.Proceed {
		return res, err
	}

	err = r.step("apply_ddl", func() error {
		return r.withStore(ctx, func(st Store) error {
			var err error
			res.Report, err = st.ApplyDDL(ctx, op, stmts)
			return err
		})
	})
	r.report(res.Report)
	if err != nil {
		return res, fail(KindStore, op, err)
	}
	return res, nil
}

func (r *Runner) confirm(proposed []string, existing schema.Catalog, op schema.Operation, notes []string) (guard.Decision, error) {
	var d guard.Decision
	err := r.step("confirm", func() error {
		var err error
		d, err = r.Guard.Evaluate(proposed, existing, op, notes...)
		return err
	})
	if err != nil {
		return guard.Abort, fail(KindPrompt, op, err)
	}
	return d, nil
}

// withStore opens a connection for the duration of fn.
func (r *Runner) withStore(ctx context.Context, fn func(Store) error) error {
	st, err := r.Open(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			r.Log.Warn("store close failed", "err", cerr)
		}
	}()
	return fn(st)
}

func (r *Runner) step(name string, fn func() error) error {
	start := time.Now()
	err := fn()
	metrics.RecordStep(r.Job, name, err, time.Since(start))
	return err
}

// report prints one line per requested table and the final count.
func (r *Runner) report(rep storage.Report) {
	if len(rep.Requested) == 0 {
		return
	}
	failed := make(map[string]*storage.TableError, len(rep.Failed))
	for _, te := range rep.Failed {
		failed[te.Table] = te
	}
	ok := make(map[string]bool, len(rep.Succeeded))
	for _, t := range rep.Succeeded {
		ok[t] = true
	}

	for _, t := range rep.Requested {
		switch {
		case ok[t]:
			r.Console.Successf("Successfully %s table %s", rep.Op.Past(), t)
		case failed[t] != nil:
			r.Console.Failf("Error with %s table %s: %v", rep.Op.Present(), t, failed[t].Err)
		}
	}
	r.Console.Infof("Finished %s %d of %d tables", rep.Op.Present(), len(rep.Succeeded), len(rep.Requested))
	metrics.RecordTables(r.Job, string(rep.Op), len(rep.Succeeded), len(rep.Failed))
}
