// Package testutil provides shared test helpers for curvr.
//
// # Timeouts
//
//   - ContextWithTestDeadline(t, fallback) - context bounded by the test deadline
//   - ShortOperationContext(t) - the same with a short fallback
//   - CommitWait, CommitTick - bounds for waiting on a debounced commit
//
// # Environment
//
//   - WriteConfig(t, base, content) - writes .curvr/config.yaml under base
//   - SyncBuffer - an io.Writer safe to read while another goroutine writes
package testutil
