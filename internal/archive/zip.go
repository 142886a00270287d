package archive

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zip"
)

// IsZip reports whether the file at path is a readable zip archive.
// Only a missing or unreadable file produces an error; content that is not a
// zip archive, including an empty file, yields false.
func IsZip(path string) (bool, error) {
	r, err := zip.OpenReader(path)
	if r != nil {
		// Insecure member names still make a zip archive; Extract rejects them.
		r.Close()
		return true, nil
	}
	if errors.Is(err, zip.ErrFormat) || errors.Is(err, zip.ErrAlgorithm) || errors.Is(err, zip.ErrChecksum) {
		return false, nil
	}
	if _, statErr := os.Stat(path); statErr != nil {
		return false, statErr
	}
	// Readable but not parseable as a central directory.
	return false, nil
}

// Extract writes every member of the archive at zipPath into destDir and
// returns the extracted file paths in archive order.
// Members whose names would resolve outside destDir are rejected.
func Extract(zipPath, destDir string) ([]string, error) {
	r, err := zip.OpenReader(zipPath)
	if r == nil {
		return nil, fmt.Errorf("failed to open archive %s: %w", zipPath, err)
	}
	defer r.Close()

	absDest, err := filepath.Abs(destDir)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	var extracted []string
	for _, f := range r.File {
		target, err := memberPath(absDest, f.Name)
		if err != nil {
			return extracted, err
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return extracted, fmt.Errorf("failed to create directory %s: %w", target, err)
			}
			continue
		}

		if err := extractFile(f, target); err != nil {
			return extracted, err
		}
		extracted = append(extracted, target)
	}

	return extracted, nil
}

// memberPath resolves an archive member name under root.
func memberPath(root, name string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(name))
	if target != root && !strings.HasPrefix(target, root+string(os.PathSeparator)) {
		return "", fmt.Errorf("archive member %q escapes destination directory", name)
	}
	return target, nil
}

func extractFile(f *zip.File, target string) error {
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", target, err)
	}

	src, err := f.Open()
	if err != nil {
		return fmt.Errorf("failed to open archive member %s: %w", f.Name, err)
	}
	defer src.Close()

	mode := f.Mode().Perm()
	if mode == 0 {
		mode = 0644
	}

	dst, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}

	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return fmt.Errorf("failed to extract %s: %w", f.Name, err)
	}

	if err := dst.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", target, err)
	}

	return nil
}
