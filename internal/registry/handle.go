package registry

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidHandle is returned for handles that are not "owner/dataset" or
// "owner/dataset/versions/N".
var ErrInvalidHandle = errors.New("invalid dataset handle")

// DatasetHandle is a parsed dataset handle. Version 0 means latest.
type DatasetHandle struct {
	Owner   string
	Dataset string
	Version int
}

// ParseHandle parses "owner/dataset" and "owner/dataset/versions/N".
func ParseHandle(s string) (DatasetHandle, error) {
	parts := strings.Split(strings.Trim(s, "/"), "/")

	switch len(parts) {
	case 2:
	case 4:
		if parts[2] != "versions" {
			return DatasetHandle{}, fmt.Errorf("%w: %q: expected owner/dataset/versions/N", ErrInvalidHandle, s)
		}
	default:
		return DatasetHandle{}, fmt.Errorf("%w: %q: expected owner/dataset", ErrInvalidHandle, s)
	}

	h := DatasetHandle{Owner: parts[0], Dataset: parts[1]}
	if h.Owner == "" || h.Dataset == "" {
		return DatasetHandle{}, fmt.Errorf("%w: %q: empty owner or dataset", ErrInvalidHandle, s)
	}

	if len(parts) == 4 {
		v, err := strconv.Atoi(parts[3])
		if err != nil || v <= 0 {
			return DatasetHandle{}, fmt.Errorf("%w: %q: version must be a positive integer", ErrInvalidHandle, s)
		}
		h.Version = v
	}

	return h, nil
}

func (h DatasetHandle) String() string {
	if h.Version > 0 {
		return fmt.Sprintf("%s/%s/versions/%d", h.Owner, h.Dataset, h.Version)
	}
	return h.Owner + "/" + h.Dataset
}
