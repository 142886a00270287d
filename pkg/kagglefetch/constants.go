package kagglefetch

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess        = 0  // Command completed successfully
	ExitGeneralError   = 1  // Unknown or unclassified error
	ExitUsageError     = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic          = 3  // Internal panic (unexpected crash)
	ExitConfigError    = 10 // Invalid configuration
	ExitDownloadFailed = 11 // Registry, network or auth failure
	ExitArchiveError   = 12 // Malformed archive or failed extraction
	ExitParseError     = 13 // Malformed NDJSON line
	ExitAccessError    = 14 // Missing or unreadable file
)

const (
	// NoLimit as a byte budget reads every line of the input file.
	NoLimit int64 = -1

	// DefaultEndpoint is the base URL of the Kaggle public API.
	DefaultEndpoint = "https://www.kaggle.com"

	// DefaultHTTPTimeout bounds a single registry request, body included.
	DefaultHTTPTimeout = 5 * time.Minute

	// DefaultCacheSubdir is appended to the user cache directory when no cache dir is configured.
	DefaultCacheSubdir = "kagglehub"

	// ArchiveExtension replaces the downloaded artifact's extension before extraction.
	ArchiveExtension = ".zip"
)
