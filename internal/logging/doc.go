// Package logging provides concrete implementations of the kagglefetch.Logger interface.
//
// Available implementations:
//   - ConsoleLogger: Writes progress notices to stderr with thread-safe output
//   - NullLogger: Discards all messages (useful for testing and spinner mode)
//
// All logger implementations are safe for concurrent use by multiple goroutines.
package logging
