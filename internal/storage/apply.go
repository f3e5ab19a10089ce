package storage

import (
	"context"
	"errors"
	"fmt"

	"sheetsync/internal/schema"
)

// ApplyDDL runs stmts for op and reports which tables succeeded.
//
// On engines with transactional DDL the batch runs in one transaction, each
// statement under its own savepoint: a failing statement is rolled back on
// its own and recorded, the others are committed together at the end. Begin,
// savepoint and commit failures are fatal for the batch and leave nothing
// committed. Engines without transactional DDL run each statement in
// autocommit mode with the same per-statement bookkeeping.
func (s *Store) ApplyDDL(ctx context.Context, op schema.Operation, stmts []schema.Statement) (Report, error) {
	rep := Report{Op: op, Requested: schema.Tables(stmts)}
	if !op.IsDDL() {
		return rep, fmt.Errorf("storage: apply ddl: operation %s carries no ddl", op)
	}
	if len(stmts) == 0 {
		return rep, nil
	}

	if !s.d.TransactionalDDL() {
		for _, st := range stmts {
			if err := ctx.Err(); err != nil {
				return rep, fmt.Errorf("storage: apply ddl: %w", err)
			}
			if _, err := s.db.ExecContext(ctx, st.SQL); err != nil {
				s.logFailure(rep.fail(st.Table, err))
				continue
			}
			s.log.Debug("ddl applied", "op", string(op), "table", st.Table)
			rep.succeed(st.Table)
		}
		return rep, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return rep, fmt.Errorf("storage: apply ddl: begin: %w", err)
	}
	rollback := func(cause error) (Report, error) {
		rep.Succeeded = nil
		return rep, errors.Join(cause, ignoreDone(tx.Rollback()))
	}

	for i, st := range stmts {
		sp := fmt.Sprintf("sheetsync_%d", i)
		if _, err := tx.ExecContext(ctx, s.d.Savepoint(sp)); err != nil {
			return rollback(fmt.Errorf("storage: apply ddl: savepoint for %s: %w", st.Table, err))
		}
		if _, err := tx.ExecContext(ctx, st.SQL); err != nil {
			if _, rbErr := tx.ExecContext(ctx, s.d.RollbackTo(sp)); rbErr != nil {
				return rollback(fmt.Errorf("storage: apply ddl: rollback %s: %w", st.Table, rbErr))
			}
			s.logFailure(rep.fail(st.Table, err))
			continue
		}
		if rel := s.d.Release(sp); rel != "" {
			if _, err := tx.ExecContext(ctx, rel); err != nil {
				return rollback(fmt.Errorf("storage: apply ddl: release %s: %w", st.Table, err))
			}
		}
		s.log.Debug("ddl applied", "op", string(op), "table", st.Table)
		rep.succeed(st.Table)
	}

	if err := tx.Commit(); err != nil {
		rep.Succeeded = nil
		return rep, fmt.Errorf("storage: apply ddl: commit: %w", err)
	}
	return rep, nil
}

func (s *Store) logFailure(te *TableError) {
	s.log.Warn("table failed", "op", string(te.Op), "table", te.Table, "err", te.Err)
}
