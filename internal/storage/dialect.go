package storage

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"sheetsync/internal/dataset"
)

// Dialect captures everything that differs between the supported engines.
// Implementations live in the sqlite, postgres, mssql and mysql subpackages
// and register themselves in init.
type Dialect interface {
	// Driver is the database/sql driver name.
	Driver() string
	// ValidateDSN rejects malformed connection strings before sql.Open.
	ValidateDSN(dsn string) error

	Quote(ident string) string
	// Placeholder renders the n-th (1-based) bind parameter.
	Placeholder(n int) string

	// TablesQuery lists user tables, one name per row.
	TablesQuery() string
	// ColumnsQuery lists one table's columns in ordinal order; it takes the
	// table name as its only parameter.
	ColumnsQuery() string
	ColumnType(k dataset.Kind) string
	// CreateIfAbsent guards a CREATE TABLE for table so it is a no-op when
	// the table already exists.
	CreateIfAbsent(table, create string) string

	// TransactionalDDL reports whether CREATE/DROP can be rolled back.
	TransactionalDDL() bool
	Savepoint(name string) string
	RollbackTo(name string) string
	// Release returns "" when the engine has no RELEASE statement.
	Release(name string) string

	// FoldCase reports whether table names compare case-insensitively.
	FoldCase() bool
	// MaxOpenConns returns 0 for the database/sql default.
	MaxOpenConns() int
}

var (
	mu       sync.RWMutex
	dialects = map[string]Dialect{}
)

// Register makes a dialect available under kind. It panics on duplicates,
// like database/sql.Register.
func Register(kind string, d Dialect) {
	mu.Lock()
	defer mu.Unlock()

	kind = strings.ToLower(strings.TrimSpace(kind))
	if d == nil {
		panic("storage: Register dialect is nil")
	}
	if _, dup := dialects[kind]; dup {
		panic("storage: Register called twice for " + kind)
	}
	dialects[kind] = d
}

// Lookup returns the dialect registered under kind.
func Lookup(kind string) (Dialect, error) {
	mu.RLock()
	defer mu.RUnlock()

	d, ok := dialects[strings.ToLower(strings.TrimSpace(kind))]
	if !ok {
		return nil, fmt.Errorf("storage: unknown store kind %q (registered: %s)", kind, strings.Join(kindsLocked(), ", "))
	}
	return d, nil
}

// Kinds lists the registered store kinds in sorted order.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	return kindsLocked()
}

func kindsLocked() []string {
	out := make([]string, 0, len(dialects))
	for k := range dialects {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
