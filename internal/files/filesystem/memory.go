package filesystem

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"path"
	"path/filepath"
	"strings"
	"sync"
)

// memoryReader tracks whether a reader handed out by Open was closed.
type memoryReader struct {
	*bytes.Reader
	fs   *MemoryFileSystem
	path string
}

func (r *memoryReader) Close() error {
	r.fs.mu.Lock()
	defer r.fs.mu.Unlock()
	r.fs.open[r.path]--
	return nil
}

// MemoryFileSystem implements FileSystemProvider for in-memory testing.
// Directories are implicit: any prefix of a file path is a directory.
type MemoryFileSystem struct {
	mu    sync.Mutex
	files map[string][]byte // map of absolute path -> content
	open  map[string]int    // open readers per path
	root  string            // root directory path
}

// NewMemoryFileSystem creates a new in-memory filesystem.
// The root path is normalized to use forward slashes for virtual filesystem consistency.
func NewMemoryFileSystem(root string) *MemoryFileSystem {
	return &MemoryFileSystem{
		files: make(map[string][]byte),
		open:  make(map[string]int),
		root:  path.Clean(filepath.ToSlash(root)),
	}
}

// resolve maps a relative or absolute path onto the virtual filesystem.
func (mfs *MemoryFileSystem) resolve(p string) string {
	p = filepath.ToSlash(p)
	if p == "" || p == "." {
		return mfs.root
	}
	if !path.IsAbs(p) {
		p = path.Join(mfs.root, p)
	}
	return path.Clean(p)
}

// AddFile adds a file to the in-memory filesystem
func (mfs *MemoryFileSystem) AddFile(filePath string, content string) {
	absPath := mfs.resolve(filePath)

	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	mfs.files[absPath] = []byte(content)
}

// OpenReaders returns how many readers of path are still open.
func (mfs *MemoryFileSystem) OpenReaders(filePath string) int {
	mfs.mu.Lock()
	defer mfs.mu.Unlock()
	return mfs.open[mfs.resolve(filePath)]
}

func (mfs *MemoryFileSystem) isDir(absPath string) bool {
	if absPath == mfs.root {
		return true
	}
	for p := range mfs.files {
		if strings.HasPrefix(p, absPath+"/") {
			return true
		}
	}
	return false
}

// Open implements FileSystemProvider.Open
func (mfs *MemoryFileSystem) Open(filePath string) (io.ReadCloser, error) {
	absPath := mfs.resolve(filePath)

	mfs.mu.Lock()
	defer mfs.mu.Unlock()

	content, exists := mfs.files[absPath]
	if !exists {
		if mfs.isDir(absPath) {
			return nil, fmt.Errorf("path is a directory, not a file: %s", filePath)
		}
		return nil, &fs.PathError{Op: "open", Path: filePath, Err: fs.ErrNotExist}
	}

	mfs.open[absPath]++
	return &memoryReader{Reader: bytes.NewReader(content), fs: mfs, path: absPath}, nil
}
