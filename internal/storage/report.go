package storage

import (
	"errors"
	"fmt"

	"sheetsync/internal/schema"
)

// TableError records the failure of one table within a batch. The rest of
// the batch is unaffected.
type TableError struct {
	Table string
	Op    schema.Operation
	Err   error
}

func (e *TableError) Error() string {
	return fmt.Sprintf("error with %s table %s: %v", e.Op.Present(), e.Table, e.Err)
}

func (e *TableError) Unwrap() error { return e.Err }

// Report summarises a DDL batch or a data write batch.
type Report struct {
	Op        schema.Operation
	Requested []string
	Succeeded []string
	Failed    []*TableError
}

// OK reports whether every requested table succeeded.
func (r Report) OK() bool { return len(r.Failed) == 0 }

// Err joins the per-table failures, or returns nil.
func (r Report) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failed))
	for i, f := range r.Failed {
		errs[i] = f
	}
	return errors.Join(errs...)
}

func (r *Report) succeed(table string) { r.Succeeded = append(r.Succeeded, table) }

func (r *Report) fail(table string, err error) *TableError {
	te := &TableError{Table: table, Op: r.Op, Err: err}
	r.Failed = append(r.Failed, te)
	return te
}
