// Package schedule derives schedule analytics for a construction project:
// task enrichment (critical path flag, risk level), phase aggregation,
// the project timeline and per-task slippage.
//
// Every function here is a pure projection over a snapshot of a project and
// its tasks. The current time is always passed in, never read inline, so the
// same inputs always yield the same outputs.
package schedule
