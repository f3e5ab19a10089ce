package schema

import (
	"fmt"
	"strings"
)

// Statement is a single DDL statement attributed to the table it affects.
type Statement struct {
	Table string
	SQL   string
}

// Registry is the immutable catalog of DDL statements, keyed by operation.
// Statement order within an operation is preserved from the config file.
type Registry struct {
	sets map[Operation][]Statement
}

// NewRegistry validates sets and returns a Registry holding a private copy.
//
// Keys must name DDL operations (build, drop). Every statement needs a
// non-empty table name and SQL text, and table names must be unique within an
// operation.
func NewRegistry(sets map[string][]Statement) (*Registry, error) {
	r := &Registry{sets: make(map[Operation][]Statement, len(sets))}
	for key, stmts := range sets {
		op, err := ParseOperation(key)
		if err != nil {
			return nil, fmt.Errorf("schema: ddl: %w", err)
		}
		if !op.IsDDL() {
			return nil, fmt.Errorf("schema: ddl: operation %q has no DDL statements; use one of %s", op, joinOps(DDLOperations))
		}
		seen := make(map[string]struct{}, len(stmts))
		cp := make([]Statement, 0, len(stmts))
		for i, st := range stmts {
			table := strings.TrimSpace(st.Table)
			if table == "" {
				return nil, fmt.Errorf("schema: ddl.%s[%d]: table name must not be empty", op, i)
			}
			if strings.TrimSpace(st.SQL) == "" {
				return nil, fmt.Errorf("schema: ddl.%s.%s: statement must not be empty", op, table)
			}
			if _, dup := seen[table]; dup {
				return nil, fmt.Errorf("schema: ddl.%s.%s: duplicate table", op, table)
			}
			seen[table] = struct{}{}
			cp = append(cp, Statement{Table: table, SQL: st.SQL})
		}
		r.sets[op] = cp
	}
	return r, nil
}

// Statements returns the statements registered for op. An operation with no
// registered statements is an error so a typo in the config is not mistaken
// for an empty batch.
func (r *Registry) Statements(op Operation) ([]Statement, error) {
	if !op.IsDDL() {
		return nil, fmt.Errorf("schema: operation %q has no DDL statements", op)
	}
	stmts, ok := r.sets[op]
	if !ok || len(stmts) == 0 {
		return nil, fmt.Errorf("schema: no %s statements registered", op)
	}
	out := make([]Statement, len(stmts))
	copy(out, stmts)
	return out, nil
}

// Tables returns the table names of stmts in order.
func Tables(stmts []Statement) []string {
	names := make([]string, len(stmts))
	for i, st := range stmts {
		names[i] = st.Table
	}
	return names
}
