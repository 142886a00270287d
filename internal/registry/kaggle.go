package registry

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/vvka-141/kagglefetch/internal/logging"
	"github.com/vvka-141/kagglefetch/pkg/kagglefetch"
)

// Status errors returned by the API. Each is wrapped with the request URL and
// the HTTP status line.
var (
	ErrUnauthorized     = errors.New("registry rejected credentials")
	ErrNotFound         = errors.New("dataset or file not found")
	ErrUnexpectedStatus = errors.New("unexpected registry response")
)

const userAgent = "kagglefetch"

// Options configures a Kaggle client.
type Options struct {
	// Endpoint is the API base URL. Defaults to kagglefetch.DefaultEndpoint.
	Endpoint string

	// Username and Key are sent as HTTP basic auth when both are set.
	Username string
	Key      string

	// CacheDir is the download cache root. Defaults to DefaultCacheDir().
	CacheDir string

	// Timeout bounds each request, body included. Defaults to kagglefetch.DefaultHTTPTimeout.
	Timeout time.Duration

	// HTTPClient overrides the client built from Timeout.
	HTTPClient *http.Client

	Logger kagglefetch.Logger
}

// Kaggle downloads dataset files from the Kaggle public API.
type Kaggle struct {
	endpoint string
	username string
	key      string
	cacheDir string
	client   *http.Client
	logger   kagglefetch.Logger
}

var _ kagglefetch.Registry = (*Kaggle)(nil)

// DefaultCacheDir returns ~/.cache/kagglehub, falling back to the working
// directory when no home directory is known.
func DefaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".cache", kagglefetch.DefaultCacheSubdir)
	}
	return filepath.Join(home, ".cache", kagglefetch.DefaultCacheSubdir)
}

// NewKaggle creates a client, filling unset options with defaults.
func NewKaggle(opts Options) *Kaggle {
	if opts.Endpoint == "" {
		opts.Endpoint = kagglefetch.DefaultEndpoint
	}
	if opts.CacheDir == "" {
		opts.CacheDir = DefaultCacheDir()
	}
	if opts.Timeout <= 0 {
		opts.Timeout = kagglefetch.DefaultHTTPTimeout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNullLogger()
	}

	return &Kaggle{
		endpoint: strings.TrimRight(opts.Endpoint, "/"),
		username: opts.Username,
		key:      opts.Key,
		cacheDir: opts.CacheDir,
		client:   opts.HTTPClient,
		logger:   opts.Logger,
	}
}

// DatasetDownload downloads the member file path of the dataset identified by
// handle and returns its location in the cache.
func (k *Kaggle) DatasetDownload(ctx context.Context, handle string, path string) (string, error) {
	h, err := ParseHandle(handle)
	if err != nil {
		return "", err
	}

	member, err := cleanMemberPath(path)
	if err != nil {
		return "", err
	}

	if h.Version == 0 {
		v, err := k.ResolveVersion(ctx, h.Owner, h.Dataset)
		if err != nil {
			return "", err
		}
		k.logger.Verbose("Resolved %s to version %d", h, v)
		h.Version = v
	}

	dest := k.cachePath(h, member)
	if info, err := os.Stat(dest); err == nil && !info.IsDir() {
		k.logger.Verbose("Using cached file: %s", dest)
		return dest, nil
	}

	q := url.Values{}
	q.Set("datasetVersionNumber", strconv.Itoa(h.Version))
	u := k.endpoint + "/api/v1/datasets/download/" + url.PathEscape(h.Owner) + "/" + url.PathEscape(h.Dataset) +
		"/" + escapeMember(member) + "?" + q.Encode()

	if err := k.download(ctx, u, dest); err != nil {
		return "", err
	}
	return dest, nil
}

// ResolveVersion returns the current version number of a dataset.
func (k *Kaggle) ResolveVersion(ctx context.Context, owner, dataset string) (int, error) {
	u := k.endpoint + "/api/v1/datasets/view/" + url.PathEscape(owner) + "/" + url.PathEscape(dataset)

	resp, err := k.get(ctx, u)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var view struct {
		CurrentVersionNumber int `json:"currentVersionNumber"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&view); err != nil {
		return 0, fmt.Errorf("failed to decode dataset metadata from %s: %w", u, err)
	}
	if view.CurrentVersionNumber <= 0 {
		return 0, fmt.Errorf("%w: %s reported no current version", ErrUnexpectedStatus, u)
	}
	return view.CurrentVersionNumber, nil
}

func (k *Kaggle) cachePath(h DatasetHandle, member string) string {
	return filepath.Join(k.cacheDir, "datasets", h.Owner, h.Dataset, "versions", strconv.Itoa(h.Version), filepath.FromSlash(member))
}

// download streams the body of u into a staging file next to dest and renames
// it into place once complete.
func (k *Kaggle) download(ctx context.Context, u, dest string) error {
	resp, err := k.get(ctx, u)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create cache directory %s: %w", dir, err)
	}

	staging := filepath.Join(dir, "."+uuid.NewString()+".part")
	out, err := os.Create(staging)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", staging, err)
	}

	n, copyErr := io.Copy(out, resp.Body)
	closeErr := out.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(staging)
		return fmt.Errorf("failed to download %s: %w", u, errors.Join(copyErr, closeErr))
	}

	if err := os.Rename(staging, dest); err != nil {
		_ = os.Remove(staging)
		return fmt.Errorf("failed to move download into %s: %w", dest, err)
	}

	k.logger.Verbose("Downloaded %d bytes to %s", n, dest)
	return nil
}

// get issues an authenticated GET and maps non-2xx responses to status errors.
// On success the caller owns the response body.
func (k *Kaggle) get(ctx context.Context, u string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request for %s: %w", u, err)
	}
	req.Header.Set("User-Agent", userAgent)
	if k.username != "" && k.key != "" {
		req.SetBasicAuth(k.username, k.key)
	}

	k.logger.Verbose("GET %s", u)
	resp, err := k.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to request %s: %w", u, err)
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
	resp.Body.Close()
	return nil, statusError(u, resp)
}

func statusError(u string, resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: GET %s: %s", ErrUnauthorized, u, resp.Status)
	case http.StatusNotFound:
		return fmt.Errorf("%w: GET %s: %s", ErrNotFound, u, resp.Status)
	default:
		return fmt.Errorf("%w: GET %s: %s", ErrUnexpectedStatus, u, resp.Status)
	}
}

// cleanMemberPath normalizes a dataset member path and rejects paths that
// would leave the dataset directory.
func cleanMemberPath(p string) (string, error) {
	p = strings.ReplaceAll(p, "\\", "/")
	clean := strings.TrimPrefix(filepath.ToSlash(filepath.Clean("/"+p)), "/")
	if clean == "" || clean == "." {
		return "", fmt.Errorf("%w: empty file path", kagglefetch.ErrInvalidReference)
	}
	for _, seg := range strings.Split(p, "/") {
		if seg == ".." {
			return "", fmt.Errorf("%w: file path %q escapes the dataset", kagglefetch.ErrInvalidReference, p)
		}
	}
	return clean, nil
}

func escapeMember(member string) string {
	segs := strings.Split(member, "/")
	for i, s := range segs {
		segs[i] = url.PathEscape(s)
	}
	return strings.Join(segs, "/")
}
