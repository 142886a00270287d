package kagglefetch

import (
	"errors"
	"strings"
)

// Sentinel errors for the failure classes of fetching and loading.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	path, err := f.GetFile(ctx, ref, "data.json")
//	if errors.Is(err, kagglefetch.ErrDownloadFailed) {
//	    // registry, network or auth failure; the cause is wrapped
//	}
var (
	// ErrDownloadFailed indicates the registry could not deliver the artifact.
	// The underlying registry, network or authentication error is wrapped alongside it.
	ErrDownloadFailed = errors.New("download failed")

	// ErrArchive indicates a malformed zip archive or a failed extraction.
	ErrArchive = errors.New("archive error")

	// ErrParse indicates a line that is not a single JSON object.
	ErrParse = errors.New("parse error")

	// ErrAccess indicates a missing or unreadable file.
	ErrAccess = errors.New("file access error")

	// ErrInvalidReference indicates an empty handle, empty filename or negative version.
	ErrInvalidReference = errors.New("invalid dataset reference")

	// ErrInvalidByteLimit indicates a byte budget below NoLimit.
	ErrInvalidByteLimit = errors.New("invalid byte limit")

	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrUnsupportedAuthMethod indicates an unknown PostgreSQL authentication method.
	ErrUnsupportedAuthMethod = errors.New("unsupported authentication method")

	// ErrExportFailed indicates the loaded table could not be written to its destination.
	ErrExportFailed = errors.New("export failed")
)

// usageErrorPatterns are the message prefixes cobra uses for command line misuse.
var usageErrorPatterns = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"requires at least",
	"required flag",
	"invalid argument",
	"flag needs an argument",
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig), errors.Is(err, ErrUnsupportedAuthMethod):
		return ExitConfigError
	case errors.Is(err, ErrDownloadFailed):
		return ExitDownloadFailed
	case errors.Is(err, ErrArchive):
		return ExitArchiveError
	case errors.Is(err, ErrParse):
		return ExitParseError
	case errors.Is(err, ErrAccess):
		return ExitAccessError
	case errors.Is(err, ErrInvalidReference), errors.Is(err, ErrInvalidByteLimit):
		return ExitUsageError
	}

	errStr := err.Error()
	for _, p := range usageErrorPatterns {
		if strings.HasPrefix(errStr, p) {
			return ExitUsageError
		}
	}

	return ExitGeneralError
}
