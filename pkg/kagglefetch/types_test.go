package kagglefetch_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/kagglefetch/pkg/kagglefetch"
)

func TestReference_FullHandle(t *testing.T) {
	tests := []struct {
		name  string
		ref   kagglefetch.Reference
		want  string
		label string
	}{
		{"latest", kagglefetch.Reference{Handle: "yelp-dataset/yelp-dataset"}, "yelp-dataset/yelp-dataset", "latest"},
		{"pinned", kagglefetch.Reference{Handle: "yelp-dataset/yelp-dataset", Version: 4}, "yelp-dataset/yelp-dataset/versions/4", "v4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.ref.FullHandle())
			assert.Equal(t, tt.label, tt.ref.VersionLabel())
		})
	}
}

func TestReference_Validate(t *testing.T) {
	require.NoError(t, kagglefetch.Reference{Handle: "a/b", Version: 1}.Validate("data.json"))
	require.NoError(t, kagglefetch.Reference{Handle: "a/b"}.Validate("data.json"))

	err := kagglefetch.Reference{Handle: " ", Version: -2}.Validate("")
	require.Error(t, err)
	assert.True(t, errors.Is(err, kagglefetch.ErrInvalidReference))
	assert.Contains(t, err.Error(), "handle is required")
	assert.Contains(t, err.Error(), "filename is required")
	assert.Contains(t, err.Error(), "version must not be negative")
}

func TestParseAuthMethod(t *testing.T) {
	tests := []struct {
		input string
		want  kagglefetch.AuthMethod
	}{
		{"", kagglefetch.AuthMethodStandard},
		{"password", kagglefetch.AuthMethodStandard},
		{"aws", kagglefetch.AuthMethodAWSIAM},
		{"Google", kagglefetch.AuthMethodGoogleIAM},
		{" azure ", kagglefetch.AuthMethodAzureEntraID},
	}
	for _, tt := range tests {
		got, err := kagglefetch.ParseAuthMethod(tt.input)
		require.NoError(t, err, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}

	_, err := kagglefetch.ParseAuthMethod("kerberos")
	assert.ErrorIs(t, err, kagglefetch.ErrUnsupportedAuthMethod)
	assert.Contains(t, err.Error(), "kerberos")
}

func TestAuthMethod_String(t *testing.T) {
	assert.Equal(t, "AWS IAM", kagglefetch.AuthMethodAWSIAM.String())
	assert.Equal(t, "Azure Entra ID", kagglefetch.AuthMethodAzureEntraID.String())
	assert.Equal(t, "Unknown(42)", kagglefetch.AuthMethod(42).String())
}
