// Package difficulty implements the three-tier rep model used for progressive
// overload: the fixed rep range of each tier, the starting reps a tier resets
// to, classification of a rep count into a tier, and the promotion thresholds
// between tiers.
//
// Everything here is pure and stateless. Callers apply the results.
package difficulty
