// Package mssql registers the SQL Server dialect under the "mssql" store
// kind, using github.com/microsoft/go-mssqldb.
package mssql

import (
	"fmt"
	"strconv"
	"strings"

	_ "github.com/microsoft/go-mssqldb"
	"github.com/microsoft/go-mssqldb/msdsn"

	"sheetsync/internal/dataset"
	"sheetsync/internal/storage"
)

func init() { storage.Register("mssql", Dialect{}) }

// Dialect implements storage.Dialect for SQL Server.
type Dialect struct{}

var _ storage.Dialect = Dialect{}

func (Dialect) Driver() string { return "sqlserver" }

func (Dialect) ValidateDSN(dsn string) error {
	_, err := msdsn.Parse(dsn)
	return err
}

func (Dialect) Quote(ident string) string {
	return `[` + strings.ReplaceAll(ident, `]`, `]]`) + `]`
}

func (Dialect) Placeholder(n int) string { return "@p" + strconv.Itoa(n) }

func (Dialect) TablesQuery() string {
	return `SELECT TABLE_NAME FROM INFORMATION_SCHEMA.TABLES
WHERE TABLE_SCHEMA = SCHEMA_NAME() AND TABLE_TYPE = 'BASE TABLE'
ORDER BY TABLE_NAME`
}

func (Dialect) ColumnsQuery() string {
	return `SELECT COLUMN_NAME FROM INFORMATION_SCHEMA.COLUMNS
WHERE TABLE_SCHEMA = SCHEMA_NAME() AND TABLE_NAME = @p1
ORDER BY ORDINAL_POSITION`
}

func (Dialect) ColumnType(k dataset.Kind) string {
	switch k {
	case dataset.KindInteger:
		return "BIGINT"
	case dataset.KindReal:
		return "FLOAT"
	case dataset.KindBoolean:
		return "BIT"
	default:
		return "NVARCHAR(MAX)"
	}
}

// CreateIfAbsent prefixes an OBJECT_ID check; SQL Server has no
// CREATE TABLE IF NOT EXISTS.
func (Dialect) CreateIfAbsent(table, create string) string {
	return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NULL\n%s", strings.ReplaceAll(table, "'", "''"), create)
}

func (Dialect) TransactionalDDL() bool { return true }

// T-SQL savepoints are released with the enclosing transaction.
func (Dialect) Savepoint(name string) string  { return "SAVE TRANSACTION " + name }
func (Dialect) RollbackTo(name string) string { return "ROLLBACK TRANSACTION " + name }
func (Dialect) Release(string) string         { return "" }

// FoldCase assumes the default case-insensitive collation.
func (Dialect) FoldCase() bool { return true }

func (Dialect) MaxOpenConns() int { return 0 }
