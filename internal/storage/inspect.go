package storage

import (
	"context"
	"database/sql"
	"fmt"

	"sheetsync/internal/schema"
)

// ListTables snapshots the user tables currently committed in the store.
func (s *Store) ListTables(ctx context.Context) (schema.Catalog, error) {
	names, err := s.queryNames(ctx, s.d.TablesQuery())
	if err != nil {
		return schema.Catalog{}, fmt.Errorf("storage: list tables: %w", err)
	}
	return schema.Catalog{Tables: names, FoldCase: s.d.FoldCase()}, nil
}

// Columns lists table's columns in ordinal order. A missing table yields an
// empty list.
func (s *Store) Columns(ctx context.Context, table string) ([]string, error) {
	cols, err := s.queryNames(ctx, s.d.ColumnsQuery(), table)
	if err != nil {
		return nil, fmt.Errorf("storage: columns of %s: %w", table, err)
	}
	return cols, nil
}

func (s *Store) queryNames(ctx context.Context, query string, args ...any) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var name sql.NullString
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		if name.Valid {
			out = append(out, name.String)
		}
	}
	return out, rows.Err()
}
