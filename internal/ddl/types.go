package ddl

// ColumnDef describes one column of a table written from a dataset.
//
// Name is unquoted; quoting happens at render time with the dialect's quoter.
type ColumnDef struct {
	Name     string
	SQLType  string
	Nullable bool
}

// TableDef is a table name plus its ordered columns.
type TableDef struct {
	Name    string
	Columns []ColumnDef
}

// Quoter quotes a single identifier for a dialect.
type Quoter func(ident string) string

// Placeholder renders the n-th (1-based) bind parameter for a dialect.
type Placeholder func(n int) string
