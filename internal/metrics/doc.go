// Package metrics provides lock-free counters for login-flow outcomes.
// Counters are fixed at compile time and read via point-in-time snapshots;
// the package never exports to an external metrics system itself.
package metrics
