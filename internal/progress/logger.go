// Package progress provides the diagnostic logging and progress
// reporting contract described in spec.md §5: a LogType (None, Cout,
// Cerr, ProgressBar) selects the Reporter that NewReporter returns, and
// start/progress/end events go through that Reporter, which must be
// non-blocking and thread-safe or disabled in parallel blocks. No
// SetLogType setter is provided on components.
package progress

import "log"

// Logf is the package-level diagnostic logger. It defaults to log.Printf but may
// be replaced by SetLogger. Tests or production code can redirect or mute it.
var Logf func(format string, v ...interface{}) = log.Printf

// SetLogger replaces the package logger. Passing nil will set a no-op logger.
func SetLogger(f func(format string, v ...interface{})) {
	if f == nil {
		Logf = func(string, ...interface{}) {}
		return
	}
	Logf = f
}
