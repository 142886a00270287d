package registry

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHandle(t *testing.T) {
	tests := []struct {
		in      string
		want    DatasetHandle
		wantErr bool
	}{
		{in: "yelp-dataset/yelp-dataset", want: DatasetHandle{Owner: "yelp-dataset", Dataset: "yelp-dataset"}},
		{in: "yelp-dataset/yelp-dataset/versions/4", want: DatasetHandle{Owner: "yelp-dataset", Dataset: "yelp-dataset", Version: 4}},
		{in: "/owner/ds/", want: DatasetHandle{Owner: "owner", Dataset: "ds"}},
		{in: "owner", wantErr: true},
		{in: "", wantErr: true},
		{in: "owner/ds/extra", wantErr: true},
		{in: "owner/ds/releases/4", wantErr: true},
		{in: "owner/ds/versions/0", wantErr: true},
		{in: "owner/ds/versions/x", wantErr: true},
		{in: "owner//versions/2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseHandle(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrInvalidHandle))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDatasetHandle_String(t *testing.T) {
	assert.Equal(t, "a/b", DatasetHandle{Owner: "a", Dataset: "b"}.String())
	assert.Equal(t, "a/b/versions/3", DatasetHandle{Owner: "a", Dataset: "b", Version: 3}.String())
}
