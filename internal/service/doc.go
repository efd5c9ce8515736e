// Package service contains the application use cases. It opens the
// transaction each request runs in, binds the stores to it and hands the
// progression engine a unit of work over them.
//
// Services return errors that unwrap to the sentinels of the domain, store
// and progression packages, so the API layer can map them with errors.Is.
package service
