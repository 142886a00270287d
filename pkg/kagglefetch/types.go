package kagglefetch

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Reference identifies a dataset release in the registry.
type Reference struct {
	// Handle is the dataset identifier, e.g. "yelp-dataset/yelp-dataset".
	Handle string

	// Version selects a specific release. Zero requests the latest one.
	Version int
}

// FullHandle returns the handle qualified with "/versions/N" when a version is set.
func (r Reference) FullHandle() string {
	if r.Version > 0 {
		return r.Handle + "/versions/" + strconv.Itoa(r.Version)
	}
	return r.Handle
}

// VersionLabel returns "vN" for a pinned release and "latest" otherwise.
func (r Reference) VersionLabel() string {
	if r.Version > 0 {
		return "v" + strconv.Itoa(r.Version)
	}
	return "latest"
}

// Validate checks the reference and the member filename requested from it.
func (r Reference) Validate(filename string) error {
	var errs []error

	if strings.TrimSpace(r.Handle) == "" {
		errs = append(errs, fmt.Errorf("handle is required: %w", ErrInvalidReference))
	}
	if strings.TrimSpace(filename) == "" {
		errs = append(errs, fmt.Errorf("filename is required: %w", ErrInvalidReference))
	}
	if r.Version < 0 {
		errs = append(errs, fmt.Errorf("version must not be negative, got %d: %w", r.Version, ErrInvalidReference))
	}

	return errors.Join(errs...)
}

// String returns the full handle with its version label.
func (r Reference) String() string {
	return fmt.Sprintf("%s (%s)", r.Handle, r.VersionLabel())
}

// AuthMethod selects how the PostgreSQL sink authenticates.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // Password from the connection URL or $PGPASSWORD
	AuthMethodAWSIAM                         // AWS RDS IAM database authentication
	AuthMethodGoogleIAM                      // Google Cloud SQL IAM via the Cloud SQL connector
	AuthMethodAzureEntraID                   // Azure Entra ID token as password
)

// String returns a human-readable string representation of the AuthMethod.
func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "Standard"
	case AuthMethodAWSIAM:
		return "AWS IAM"
	case AuthMethodGoogleIAM:
		return "Google IAM"
	case AuthMethodAzureEntraID:
		return "Azure Entra ID"
	default:
		return fmt.Sprintf("Unknown(%d)", a)
	}
}

// ParseAuthMethod maps a --pg-auth value to an AuthMethod. The empty string
// selects AuthMethodStandard.
func ParseAuthMethod(s string) (AuthMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "password":
		return AuthMethodStandard, nil
	case "aws":
		return AuthMethodAWSIAM, nil
	case "google":
		return AuthMethodGoogleIAM, nil
	case "azure":
		return AuthMethodAzureEntraID, nil
	}
	return AuthMethodStandard, fmt.Errorf("%w: %q (expected password|aws|google|azure)", ErrUnsupportedAuthMethod, s)
}
