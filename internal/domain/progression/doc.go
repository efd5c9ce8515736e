// Package progression applies the progressive-overload rules to a user's
// per-exercise progress and to the workout sessions logged against it.
//
// The engine holds no state of its own. Each operation receives a UnitOfWork
// bound to the caller's transaction, reads and writes through it, and relies
// on the caller to commit or roll back as a whole.
package progression
