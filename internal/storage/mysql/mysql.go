// Package mysql registers the MySQL dialect under the "mysql" store kind,
// using github.com/go-sql-driver/mysql.
//
// MySQL commits DDL implicitly, so statements in a DDL batch run one by one
// in autocommit mode and a table replace is not atomic.
package mysql

import (
	"strings"

	"github.com/go-sql-driver/mysql"

	"sheetsync/internal/dataset"
	"sheetsync/internal/ddl"
	"sheetsync/internal/storage"
)

func init() { storage.Register("mysql", Dialect{}) }

// Dialect implements storage.Dialect for MySQL.
type Dialect struct{}

var _ storage.Dialect = Dialect{}

func (Dialect) Driver() string { return "mysql" }

func (Dialect) ValidateDSN(dsn string) error {
	_, err := mysql.ParseDSN(dsn)
	return err
}

func (Dialect) Quote(ident string) string {
	return "`" + strings.ReplaceAll(ident, "`", "``") + "`"
}

func (Dialect) Placeholder(int) string { return "?" }

func (Dialect) TablesQuery() string {
	return `SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES
WHERE TABLE_SCHEMA = DATABASE() AND TABLE_TYPE = 'BASE TABLE'
ORDER BY TABLE_NAME`
}

func (Dialect) ColumnsQuery() string {
	return `SELECT COLUMN_NAME FROM INFORMATION_SCHEMA.COLUMNS
WHERE TABLE_SCHEMA = DATABASE() AND TABLE_NAME = ?
ORDER BY ORDINAL_POSITION`
}

func (Dialect) ColumnType(k dataset.Kind) string {
	switch k {
	case dataset.KindInteger:
		return "BIGINT"
	case dataset.KindReal:
		return "DOUBLE"
	case dataset.KindBoolean:
		return "BOOLEAN"
	default:
		return "TEXT"
	}
}

func (Dialect) CreateIfAbsent(_, create string) string { return ddl.IfNotExists(create) }

func (Dialect) TransactionalDDL() bool { return false }

func (Dialect) Savepoint(name string) string  { return "SAVEPOINT " + name }
func (Dialect) RollbackTo(name string) string { return "ROLLBACK TO SAVEPOINT " + name }
func (Dialect) Release(name string) string    { return "RELEASE SAVEPOINT " + name }

func (Dialect) FoldCase() bool { return true }

func (Dialect) MaxOpenConns() int { return 0 }
