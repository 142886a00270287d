package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/vvka-141/kagglefetch/internal/archive"
	"github.com/vvka-141/kagglefetch/pkg/kagglefetch"
)

// Fetcher downloads dataset files through a Registry and unwraps zip archives.
// A Fetcher holds no per-call state and may be shared.
type Fetcher struct {
	registry kagglefetch.Registry
	logger   kagglefetch.Logger
}

// NewFetcher creates a Fetcher. It panics on nil dependencies.
func NewFetcher(registry kagglefetch.Registry, logger kagglefetch.Logger) *Fetcher {
	if registry == nil {
		panic("registry cannot be nil")
	}
	if logger == nil {
		panic("logger cannot be nil")
	}
	return &Fetcher{registry: registry, logger: logger}
}

// GetFile downloads filename from the dataset release ref and returns the path
// of a local, uncompressed copy.
//
// When the registry delivers a zip archive, whatever its name, the archive is
// extracted next to it and deleted on every exit path. Download errors are
// returned as ErrDownloadFailed wrapping the registry's error.
func (f *Fetcher) GetFile(ctx context.Context, ref kagglefetch.Reference, filename string) (string, error) {
	if err := ref.Validate(filename); err != nil {
		return "", err
	}

	f.logger.Info("Starting download of: %s (%s)...", filename, ref.VersionLabel())

	downloaded, err := f.registry.DatasetDownload(ctx, ref.FullHandle(), filename)
	if err != nil {
		return "", fmt.Errorf("%w: %w", kagglefetch.ErrDownloadFailed, err)
	}
	f.logger.Verbose("Registry delivered %s", downloaded)

	isZip, err := archive.IsZip(downloaded)
	if err != nil {
		return "", fmt.Errorf("%w: %w", kagglefetch.ErrAccess, err)
	}

	ready := downloaded
	if isZip {
		ready, err = f.unpack(downloaded, filename)
		if err != nil {
			return "", err
		}
	} else {
		f.logger.Info("Normal file detected (no decompression required).")
	}

	f.logger.Info("Ready to use at: %s", ready)
	return ready, nil
}

// unpack renames the archive to a uniquely named .zip path, extracts it into
// its directory and returns the location of filename among the extracted
// members. Other files in the directory, cached .zip members included, are
// never used as the temporary archive.
func (f *Fetcher) unpack(downloaded, filename string) (ready string, err error) {
	f.logger.Info("Compressed file detected. Processing...")

	zipPath := temporaryArchivePath(downloaded)
	if err := os.Rename(downloaded, zipPath); err != nil {
		return "", fmt.Errorf("%w: failed to rename %s: %w", kagglefetch.ErrArchive, downloaded, err)
	}

	defer func() {
		if _, statErr := os.Stat(zipPath); statErr != nil {
			return
		}
		if rmErr := os.Remove(zipPath); rmErr != nil {
			f.logger.Error("Failed to delete temporary zip file %s: %v", zipPath, rmErr)
			err = errors.Join(err, fmt.Errorf("%w: failed to delete %s: %w", kagglefetch.ErrArchive, zipPath, rmErr))
			ready = ""
			return
		}
		f.logger.Info("Temporary zip file deleted.")
	}()

	dir := filepath.Dir(zipPath)
	extracted, err := archive.Extract(zipPath, dir)
	if err != nil {
		return "", fmt.Errorf("%w: %w", kagglefetch.ErrArchive, err)
	}
	f.logger.Info("File extracted successfully.")
	f.logger.Verbose("Extracted %d files into %s", len(extracted), dir)

	ready = filepath.Join(dir, filepath.Base(filename))
	if info, statErr := os.Stat(ready); statErr != nil || info.IsDir() {
		return "", fmt.Errorf("%w: archive does not contain %s", kagglefetch.ErrArchive, filepath.Base(filename))
	}

	return ready, nil
}

// temporaryArchivePath returns ".{stem}.{uuid}.zip" next to downloaded.
func temporaryArchivePath(downloaded string) string {
	base := filepath.Base(downloaded)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	name := fmt.Sprintf(".%s.%s%s", stem, uuid.NewString(), kagglefetch.ArchiveExtension)
	return filepath.Join(filepath.Dir(downloaded), name)
}
