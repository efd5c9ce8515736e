// Package sqlite provides SQLite implementations of the store interfaces
// defined in internal/store, backed by the pure-Go modernc.org/sqlite driver.
//
// Timestamps are stored as unix milliseconds and UUIDs as text. Write
// transactions take the database lock up front (_txlock=immediate), so
// read-modify-write sequences inside store.RunInTransaction are serialized
// the same way row locks serialize them on PostgreSQL.
package sqlite
