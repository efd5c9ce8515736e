// Package testdb opens migrated databases for tests.
//
// OpenSQLite gives every test its own database file under t.TempDir(), so
// SQLite-backed tests always run. GetTestDBWithT connects to the PostgreSQL
// database named by OVERLOAD_TEST_DB_URL or DATABASE_URL and skips the test
// when neither is set; combine it with WithTx so each test's writes are
// rolled back when it finishes.
package testdb
