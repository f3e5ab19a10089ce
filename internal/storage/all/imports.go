// Package all registers every built-in store dialect. Import it for its side
// effects from the wiring layer:
//
//	import _ "sheetsync/internal/storage/all"
//
// After that, storage.Open accepts the kinds "sqlite", "postgres", "mssql"
// and "mysql". Binaries that need fewer engines can import the individual
// dialect packages instead.
package all

import (
	_ "sheetsync/internal/storage/mssql"
	_ "sheetsync/internal/storage/mysql"
	_ "sheetsync/internal/storage/postgres"
	_ "sheetsync/internal/storage/sqlite"
)
