// Package logs reads the daemon log file for `taildrop logs`.
//
// Tail returns the last N lines or everything after a byte offset, and can
// wait for new lines in follow mode. Filter narrows JSON-formatted lines by
// component, level or correlation ID so a single send or refresh can be
// traced end to end.
package logs
