package testinfra

import (
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zip"
)

// ZipMember is a single entry written by WriteZip.
type ZipMember struct {
	Name    string
	Content string
}

// WriteZip writes a zip archive containing members, in order, to path.
// Names ending in "/" become directory entries.
func WriteZip(path string, members ...ZipMember) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	for _, m := range members {
		w, err := zw.Create(m.Name)
		if err != nil {
			return err
		}
		if _, err := w.Write([]byte(m.Content)); err != nil {
			return err
		}
	}
	return zw.Close()
}
