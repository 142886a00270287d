package kagglefetch

import "context"

// Registry downloads a single member file of a hosted dataset to local storage.
//
// handle is a fully qualified dataset handle: "owner/dataset" requests the
// latest release, "owner/dataset/versions/N" a specific one. The returned path
// points at the downloaded artifact, which may be a zip archive wrapping the
// requested file regardless of its name.
type Registry interface {
	DatasetDownload(ctx context.Context, handle string, path string) (string, error)
}
