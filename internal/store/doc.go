// Package store defines the persistence interfaces for users, progress
// records and workout sessions, the errors implementations return, and the
// transaction helper services use to group writes.
//
// Implementations live under internal/platform (postgres, sqlite). Each
// store can be rebound to a transaction with WithTx.
package store
