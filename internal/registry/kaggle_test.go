package registry

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vvka-141/kagglefetch/pkg/kagglefetch"
)

type fakeAPI struct {
	current   int
	files     map[string]string // "owner/ds/N/path" -> body
	downloads atomic.Int32
	lastAuth  atomic.Value
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/datasets/view/{owner}/{dataset}", func(w http.ResponseWriter, r *http.Request) {
		if r.PathValue("owner") == "private" {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		fmt.Fprintf(w, `{"ref":"%s/%s","currentVersionNumber":%d}`, r.PathValue("owner"), r.PathValue("dataset"), f.current)
	})
	mux.HandleFunc("GET /api/v1/datasets/download/{owner}/{dataset}/{path...}", func(w http.ResponseWriter, r *http.Request) {
		user, key, _ := r.BasicAuth()
		f.lastAuth.Store(user + ":" + key)
		f.downloads.Add(1)

		if r.PathValue("owner") == "broken" {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		k := r.PathValue("owner") + "/" + r.PathValue("dataset") + "/" + r.URL.Query().Get("datasetVersionNumber") + "/" + r.PathValue("path")
		body, ok := f.files[k]
		if !ok {
			http.NotFound(w, r)
			return
		}
		fmt.Fprint(w, body)
	})
	return mux
}

func newTestClient(t *testing.T, api *fakeAPI) (*Kaggle, string) {
	t.Helper()
	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	cache := t.TempDir()
	return NewKaggle(Options{Endpoint: srv.URL, Username: "alice", Key: "secret", CacheDir: cache}), cache
}

func TestDatasetDownload_LatestVersion(t *testing.T) {
	api := &fakeAPI{current: 6, files: map[string]string{"owner/ds/6/data.json": "{\"a\":1}\n"}}
	k, cache := newTestClient(t, api)

	path, err := k.DatasetDownload(context.Background(), "owner/ds", "data.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cache, "datasets", "owner", "ds", "versions", "6", "data.json"), path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "{\"a\":1}\n", string(content))
	assert.Equal(t, "alice:secret", api.lastAuth.Load())

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no staging files left behind")
}

func TestDatasetDownload_PinnedVersionAndNestedPath(t *testing.T) {
	api := &fakeAPI{current: 6, files: map[string]string{"owner/ds/2/sub dir/x.json": "{}"}}
	k, cache := newTestClient(t, api)

	path, err := k.DatasetDownload(context.Background(), "owner/ds/versions/2", "sub dir/x.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cache, "datasets", "owner", "ds", "versions", "2", "sub dir", "x.json"), path)
}

func TestDatasetDownload_UsesCache(t *testing.T) {
	api := &fakeAPI{current: 1, files: map[string]string{"owner/ds/1/data.json": "{}"}}
	k, _ := newTestClient(t, api)

	first, err := k.DatasetDownload(context.Background(), "owner/ds/versions/1", "data.json")
	require.NoError(t, err)
	second, err := k.DatasetDownload(context.Background(), "owner/ds/versions/1", "data.json")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, int32(1), api.downloads.Load())
}

func TestDatasetDownload_StatusMapping(t *testing.T) {
	api := &fakeAPI{current: 1, files: map[string]string{}}
	k, cache := newTestClient(t, api)

	tests := []struct {
		name   string
		handle string
		want   error
	}{
		{"forbidden metadata", "private/ds", ErrUnauthorized},
		{"missing file", "owner/ds/versions/1", ErrNotFound},
		{"server error", "broken/ds/versions/1", ErrUnexpectedStatus},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := k.DatasetDownload(context.Background(), tt.handle, "data.json")
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.Contains(t, err.Error(), "/api/v1/datasets/")
		})
	}

	_, err := os.Stat(filepath.Join(cache, "datasets", "owner", "ds", "versions", "1", "data.json"))
	assert.True(t, errors.Is(err, os.ErrNotExist))
}

func TestDatasetDownload_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	k := NewKaggle(Options{Endpoint: srv.URL, CacheDir: t.TempDir()})
	_, err := k.DatasetDownload(context.Background(), "owner/ds/versions/1", "data.json")
	assert.True(t, errors.Is(err, ErrUnauthorized))
	assert.Contains(t, err.Error(), "401")
}

func TestDatasetDownload_InvalidInput(t *testing.T) {
	k := NewKaggle(Options{Endpoint: "http://127.0.0.1:0", CacheDir: t.TempDir()})

	_, err := k.DatasetDownload(context.Background(), "not-a-handle", "data.json")
	assert.True(t, errors.Is(err, ErrInvalidHandle))

	_, err = k.DatasetDownload(context.Background(), "owner/ds/versions/1", "../escape.json")
	assert.True(t, errors.Is(err, kagglefetch.ErrInvalidReference))

	_, err = k.DatasetDownload(context.Background(), "owner/ds/versions/1", "")
	assert.True(t, errors.Is(err, kagglefetch.ErrInvalidReference))
}

func TestDatasetDownload_Cancelled(t *testing.T) {
	api := &fakeAPI{current: 1, files: map[string]string{"owner/ds/1/data.json": "{}"}}
	k, _ := newTestClient(t, api)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := k.DatasetDownload(ctx, "owner/ds/versions/1", "data.json")
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestNewKaggle_Defaults(t *testing.T) {
	k := NewKaggle(Options{})
	assert.Equal(t, kagglefetch.DefaultEndpoint, k.endpoint)
	assert.Equal(t, DefaultCacheDir(), k.cacheDir)
	assert.Equal(t, kagglefetch.DefaultHTTPTimeout, k.client.Timeout)
}

func TestCleanMemberPath(t *testing.T) {
	got, err := cleanMemberPath("./a/b.json")
	require.NoError(t, err)
	assert.Equal(t, "a/b.json", got)

	got, err = cleanMemberPath(`a\b.json`)
	require.NoError(t, err)
	assert.Equal(t, "a/b.json", got)
}
