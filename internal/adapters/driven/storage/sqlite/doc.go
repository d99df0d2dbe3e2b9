// Package sqlite provides a SQLite-based implementation of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO, enabling easy cross-compilation. It implements multiple store interfaces
// through a single database connection:
//
//   - ResolutionStore: The cross-run institution resolution table
//   - RunStore: Pipeline run history
//
// # Schema
//
// The database schema is managed through versioned migrations stored in the
// migrations/ directory. Each migration is a pair of .up.sql and .down.sql files.
//
// # Data Location
//
// By default, the database is stored at ~/.fresq/data/fresq.db
//
// # Atomicity
//
// The resolution table is only ever replaced as a whole, inside a single
// transaction: a failed run leaves the previous table intact.
package sqlite
