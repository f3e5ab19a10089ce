// Package sqlite registers the SQLite dialect (modernc.org/sqlite, pure Go)
// under the "sqlite" store kind. It is the default store: a local file.
package sqlite

import (
	"fmt"
	"strings"

	_ "modernc.org/sqlite"

	"sheetsync/internal/dataset"
	"sheetsync/internal/ddl"
	"sheetsync/internal/storage"
)

func init() { storage.Register("sqlite", Dialect{}) }

// Dialect implements storage.Dialect for SQLite.
type Dialect struct{}

var _ storage.Dialect = Dialect{}

func (Dialect) Driver() string { return "sqlite" }

// ValidateDSN accepts any non-empty file path or file: URI; the driver
// creates the file on first use.
func (Dialect) ValidateDSN(dsn string) error {
	if strings.TrimSpace(dsn) == "" {
		return fmt.Errorf("sqlite: DSN must not be empty")
	}
	return nil
}

func (Dialect) Quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func (Dialect) Placeholder(int) string { return "?" }

func (Dialect) TablesQuery() string {
	return `SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite\_%' ESCAPE '\' ORDER BY name`
}

func (Dialect) ColumnsQuery() string {
	return `SELECT name FROM pragma_table_info(?) ORDER BY cid`
}

// ColumnType maps kinds onto SQLite storage classes. Booleans are stored as
// 0/1 integers.
func (Dialect) ColumnType(k dataset.Kind) string {
	switch k {
	case dataset.KindInteger, dataset.KindBoolean:
		return "INTEGER"
	case dataset.KindReal:
		return "REAL"
	default:
		return "TEXT"
	}
}

func (Dialect) CreateIfAbsent(_, create string) string { return ddl.IfNotExists(create) }

func (Dialect) TransactionalDDL() bool { return true }

func (Dialect) Savepoint(name string) string  { return "SAVEPOINT " + name }
func (Dialect) RollbackTo(name string) string { return "ROLLBACK TO SAVEPOINT " + name }
func (Dialect) Release(name string) string    { return "RELEASE SAVEPOINT " + name }

func (Dialect) FoldCase() bool { return true }

// MaxOpenConns pins the pool to one connection so that transactions never
// wait on SQLite's database-level write lock held by a sibling connection.
func (Dialect) MaxOpenConns() int { return 1 }
