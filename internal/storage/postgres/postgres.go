// Package postgres registers the PostgreSQL dialect under the "postgres"
// store kind, using pgx v5 through its database/sql adapter.
package postgres

import (
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	_ "github.com/jackc/pgx/v5/stdlib"

	"sheetsync/internal/dataset"
	"sheetsync/internal/ddl"
	"sheetsync/internal/storage"
)

func init() { storage.Register("postgres", Dialect{}) }

// Dialect implements storage.Dialect for PostgreSQL.
type Dialect struct{}

var _ storage.Dialect = Dialect{}

func (Dialect) Driver() string { return "pgx" }

// ValidateDSN accepts URL and keyword/value connection strings.
func (Dialect) ValidateDSN(dsn string) error {
	_, err := pgx.ParseConfig(dsn)
	return err
}

func (Dialect) Quote(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

func (Dialect) Placeholder(n int) string { return "$" + strconv.Itoa(n) }

func (Dialect) TablesQuery() string {
	return `SELECT table_name FROM information_schema.tables
WHERE table_schema = current_schema() AND table_type = 'BASE TABLE'
ORDER BY table_name`
}

func (Dialect) ColumnsQuery() string {
	return `SELECT column_name FROM information_schema.columns
WHERE table_schema = current_schema() AND table_name = $1
ORDER BY ordinal_position`
}

func (Dialect) ColumnType(k dataset.Kind) string {
	switch k {
	case dataset.KindInteger:
		return "BIGINT"
	case dataset.KindReal:
		return "DOUBLE PRECISION"
	case dataset.KindBoolean:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}

func (Dialect) CreateIfAbsent(_, create string) string { return ddl.IfNotExists(create) }

func (Dialect) TransactionalDDL() bool { return true }

func (Dialect) Savepoint(name string) string  { return "SAVEPOINT " + name }
func (Dialect) RollbackTo(name string) string { return "ROLLBACK TO SAVEPOINT " + name }
func (Dialect) Release(name string) string    { return "RELEASE SAVEPOINT " + name }

// FoldCase is false: the writer quotes every identifier, so "Items" and
// "items" are distinct tables.
func (Dialect) FoldCase() bool { return false }

func (Dialect) MaxOpenConns() int { return 0 }
