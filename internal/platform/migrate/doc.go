// Package migrate applies the embedded goose migrations of the configured
// database driver and reports schema status through slog.
package migrate
