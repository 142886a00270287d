package components

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSpinner_StatusUpdatesMessage(t *testing.T) {
	s := NewSpinner("Starting")
	s, cmd := s.Update(SpinnerStatusMsg("Compressed file detected. Processing..."))

	assert.Nil(t, cmd)
	assert.Equal(t, "Compressed file detected. Processing...", s.message)
	assert.Contains(t, s.View(), "Compressed file detected. Processing...")
	assert.False(t, s.done)
}

func TestSpinner_ElapsedTime(t *testing.T) {
	s := NewSpinner("Downloading")
	start := s.started
	s.now = func() time.Time { return start.Add(2500 * time.Millisecond) }

	assert.Contains(t, s.View(), "(2s)")
}

func TestSpinner_Done(t *testing.T) {
	s := NewSpinner("Downloading")
	s, _ = s.Update(SpinnerDone("/cache/data.json"))

	assert.True(t, s.done)
	assert.NoError(t, s.err)
	assert.Contains(t, s.View(), "✓ /cache/data.json")
}

func TestSpinner_Failed(t *testing.T) {
	s := NewSpinner("Downloading")
	s, _ = s.Update(SpinnerFailed(errors.New("download failed: 404")))

	assert.True(t, s.done)
	assert.EqualError(t, s.err, "download failed: 404")
	assert.Contains(t, s.View(), "✗ download failed: 404")
}
