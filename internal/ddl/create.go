// Package ddl renders the statements the store writer needs to replace a
// table: DROP TABLE IF EXISTS, CREATE TABLE and a parameterised INSERT.
//
// The package is dialect-neutral; identifier quoting and bind placeholders
// are supplied by the caller.
package ddl

import (
	"fmt"
	"strings"
)

// CreateTable renders a CREATE TABLE statement of the form:
//
//	CREATE TABLE "items" (
//	  "id" INTEGER,
//	  "name" TEXT NOT NULL
//	)
//
// No IF NOT EXISTS is emitted: the writer always drops first.
func CreateTable(t TableDef, quote Quoter) (string, error) {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return "", fmt.Errorf("ddl: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: table %s: at least one column is required", name)
	}

	cols := make([]string, 0, len(t.Columns))
	for _, c := range t.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return "", fmt.Errorf("ddl: column with empty name in table %s", name)
		}
		typ := strings.TrimSpace(c.SQLType)
		if typ == "" {
			return "", fmt.Errorf("ddl: column %s missing SQLType", c.Name)
		}

		var sb strings.Builder
		sb.WriteString(quote(c.Name))
		sb.WriteByte(' ')
		sb.WriteString(typ)
		if !c.Nullable {
			sb.WriteString(" NOT NULL")
		}
		cols = append(cols, sb.String())
	}

	return fmt.Sprintf("CREATE TABLE %s (\n  %s\n)", quote(name), strings.Join(cols, ",\n  ")), nil
}

// IfNotExists rewrites a CreateTable statement as CREATE TABLE IF NOT EXISTS.
func IfNotExists(create string) string {
	if strings.HasPrefix(create, "CREATE TABLE IF NOT EXISTS ") {
		return create
	}
	return strings.Replace(create, "CREATE TABLE ", "CREATE TABLE IF NOT EXISTS ", 1)
}

// DropTableIfExists renders DROP TABLE IF EXISTS for table.
func DropTableIfExists(table string, quote Quoter) string {
	return "DROP TABLE IF EXISTS " + quote(table)
}

// Insert renders a single-row INSERT for the given columns.
func Insert(table string, columns []string, quote Quoter, ph Placeholder) (string, error) {
	if strings.TrimSpace(table) == "" {
		return "", fmt.Errorf("ddl: insert: table name must not be empty")
	}
	if len(columns) == 0 {
		return "", fmt.Errorf("ddl: insert into %s: no columns", table)
	}
	names := make([]string, len(columns))
	params := make([]string, len(columns))
	for i, c := range columns {
		names[i] = quote(c)
		params[i] = ph(i + 1)
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(table), strings.Join(names, ", "), strings.Join(params, ", ")), nil
}
