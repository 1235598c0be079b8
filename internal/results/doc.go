// Package results persists trial outcomes.
//
// Two sinks are provided:
//   - CSV: the per-subject result table, one row per trial in presentation
//     order, written once at session end.
//   - Store: a SQLite log that receives each result as its trial ends, so an
//     aborted session still leaves every completed trial on disk.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - busy_timeout=5000: Wait for locks up to 5 seconds
//   - foreign_keys=ON: Enforce referential integrity
//
// All queries order by seq, the 1-based presentation position, never by
// wall-clock time.
package results
