package testdb

import "os"

// databaseURLVars are checked in order by GetTestDatabaseURL.
var databaseURLVars = []string{"OVERLOAD_TEST_DB_URL", "DATABASE_URL"}

// GetTestDatabaseURL returns the PostgreSQL URL to use for tests, or "" when
// none is configured.
func GetTestDatabaseURL() string {
	for _, name := range databaseURLVars {
		if v := os.Getenv(name); v != "" {
			return v
		}
	}
	return ""
}

// ShouldSkipDatabaseTest reports whether PostgreSQL integration tests
// should be skipped.
func ShouldSkipDatabaseTest() bool {
	return GetTestDatabaseURL() == ""
}
