package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"sheetsync/internal/dataset"
	"sheetsync/internal/ddl"
	"sheetsync/internal/schema"
)

// WriteTables replaces one table per dataset, in order. Each table is
// written independently: a failure is recorded in the report and the next
// table is attempted. Only context cancellation stops the batch early.
func (s *Store) WriteTables(ctx context.Context, set dataset.Set) (Report, error) {
	rep := Report{Op: schema.OpLoad, Requested: set.Names()}
	for _, ds := range set {
		if err := ctx.Err(); err != nil {
			return rep, fmt.Errorf("storage: write tables: %w", err)
		}
		if err := s.WriteTable(ctx, ds); err != nil {
			s.logFailure(rep.fail(ds.Name, err))
			continue
		}
		rep.succeed(ds.Name)
	}
	return rep, nil
}

// WriteTable replaces ds.Name with the contents of ds: drop if it exists,
// create from inferred column types, insert every row.
//
// With transactional DDL the three steps share one transaction, so a failed
// write leaves the previous table untouched. Otherwise (MySQL) the drop and
// create are autocommitted and only the inserts are transactional.
func (s *Store) WriteTable(ctx context.Context, ds dataset.Dataset) error {
	td, kinds, err := TableDefFor(ds, s.d, s.cfg.IndexColumn)
	if err != nil {
		return fmt.Errorf("storage: replace %s: %w", ds.Name, err)
	}
	create, err := ddl.CreateTable(td, s.d.Quote)
	if err != nil {
		return err
	}
	cols := make([]string, len(td.Columns))
	for i, c := range td.Columns {
		cols[i] = c.Name
	}
	insert, err := ddl.Insert(ds.Name, cols, s.d.Quote, s.d.Placeholder)
	if err != nil {
		return err
	}
	drop := ddl.DropTableIfExists(ds.Name, s.d.Quote)

	if !s.d.TransactionalDDL() {
		for _, q := range []string{drop, create} {
			if _, err := s.db.ExecContext(ctx, q); err != nil {
				return fmt.Errorf("storage: replace %s: %w", ds.Name, err)
			}
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("storage: replace %s: begin: %w", ds.Name, err)
	}
	defer func() { _ = ignoreDone(tx.Rollback()) }()

	if s.d.TransactionalDDL() {
		for _, q := range []string{drop, create} {
			if _, err := tx.ExecContext(ctx, q); err != nil {
				return fmt.Errorf("storage: replace %s: %w", ds.Name, err)
			}
		}
	}

	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return fmt.Errorf("storage: replace %s: prepare insert: %w", ds.Name, err)
	}
	defer stmt.Close()

	withIndex := s.cfg.IndexColumn != ""
	args := make([]any, len(cols))
	for i, row := range ds.Rows {
		if len(row) != len(ds.Columns) {
			return fmt.Errorf("storage: replace %s: row %d has %d cells, want %d", ds.Name, i+1, len(row), len(ds.Columns))
		}
		off := 0
		if withIndex {
			args[0] = int64(i)
			off = 1
		}
		for j, cell := range row {
			args[off+j] = dataset.Convert(kinds[j], cell)
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return fmt.Errorf("storage: replace %s: insert row %d: %w", ds.Name, i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("storage: replace %s: commit: %w", ds.Name, err)
	}
	s.log.Debug("table replaced", "table", ds.Name, "rows", len(ds.Rows), "fingerprint", fmt.Sprintf("%016x", ds.Fingerprint()))
	return nil
}

// TableDefFor infers the table definition d would create for ds, along with
// the per-column kinds used to convert cells. indexColumn, when set, comes
// first and must not collide with a data column.
func TableDefFor(ds dataset.Dataset, d Dialect, indexColumn string) (ddl.TableDef, []dataset.Kind, error) {
	kinds := dataset.InferKinds(ds)
	td := ddl.TableDef{Name: ds.Name, Columns: make([]ddl.ColumnDef, 0, len(ds.Columns)+1)}

	if indexColumn != "" {
		for _, c := range ds.Columns {
			if strings.EqualFold(c, indexColumn) {
				return td, nil, fmt.Errorf("index column %q collides with a data column", indexColumn)
			}
		}
		td.Columns = append(td.Columns, ddl.ColumnDef{Name: indexColumn, SQLType: d.ColumnType(dataset.KindInteger)})
	}
	for i, c := range ds.Columns {
		td.Columns = append(td.Columns, ddl.ColumnDef{Name: c, SQLType: d.ColumnType(kinds[i]), Nullable: true})
	}
	return td, kinds, nil
}

// ignoreDone drops the error Rollback returns after a successful Commit.
func ignoreDone(err error) error {
	if errors.Is(err, sql.ErrTxDone) {
		return nil
	}
	return err
}
