package filesystem

import "io"

// FileSystemProvider gives read access to input files.
//
// Errors for missing paths wrap fs.ErrNotExist so callers can classify them
// with errors.Is regardless of the implementation.
type FileSystemProvider interface {
	// Open opens the file at path for sequential reading.
	// The caller must close the returned reader.
	Open(path string) (io.ReadCloser, error)
}
