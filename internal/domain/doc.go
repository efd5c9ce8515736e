// Package domain contains the core training entities of the application:
// users, per-exercise progress records and workout sessions. Entities
// validate themselves and never touch storage or transport.
package domain
