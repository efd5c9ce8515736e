// Package config loads application settings from an optional YAML file and
// OVERLOAD_* environment variables, and validates them before use.
package config
