package kagglefetch

// Logger provides a pluggable logging interface for fetch and load operations.
// Implementations must be safe for concurrent use by multiple goroutines.
//
// Progress notices are advisory: they never carry error information, which is
// only ever returned to the caller.
type Logger interface {
	// Verbose logs detailed diagnostic information.
	// Only logged when verbose mode is enabled.
	Verbose(format string, args ...interface{})

	// Info logs progress notices about normal operations.
	Info(format string, args ...interface{})

	// Error logs error messages.
	Error(format string, args ...interface{})
}
