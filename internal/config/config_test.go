package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_AllFields(t *testing.T) {
	dir := t.TempDir()
	content := `registry:
  endpoint: https://kaggle.example
  username: alice
  key: secret
  timeout: 90s

cache_dir: /data/kagglehub

postgres:
  url: postgres://localhost/yelp
  table: staging.business
  auth_method: google
  google_instance: proj:us-central1:yelp
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "https://kaggle.example", cfg.Registry.Endpoint)
	assert.Equal(t, "alice", cfg.Registry.Username)
	assert.Equal(t, "secret", cfg.Registry.Key)
	assert.Equal(t, "90s", cfg.Registry.Timeout)
	assert.Equal(t, "/data/kagglehub", cfg.CacheDir)
	assert.Equal(t, "postgres://localhost/yelp", cfg.Postgres.URL)
	assert.Equal(t, "staging.business", cfg.Postgres.Table)
	assert.Equal(t, "google", cfg.Postgres.AuthMethod)
	assert.Equal(t, "proj:us-central1:yelp", cfg.Postgres.GoogleInstance)
}

func TestLoad_MinimalYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("cache_dir: /tmp/c\n"), 0644))

	cfg, err := Load(dir)
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "", cfg.Registry.Endpoint)
	assert.Equal(t, "/tmp/c", cfg.CacheDir)
}

func TestLoad_FileNotFound(t *testing.T) {
	cfg, err := Load(t.TempDir())
	assert.True(t, errors.Is(err, ErrConfigNotFound), "expected ErrConfigNotFound, got: %v", err)
	assert.Nil(t, cfg)
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("{{invalid"), 0644))

	cfg, err := Load(dir)
	assert.Error(t, err)
	assert.Nil(t, cfg)
}

func TestLoadKaggleCredentials(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "kaggle.json"), []byte(`{"username":"bob","key":"k123"}`), 0600))

	creds, err := LoadKaggleCredentials(dir)
	require.NoError(t, err)
	assert.Equal(t, &KaggleCredentials{Username: "bob", Key: "k123"}, creds)

	creds, err = LoadKaggleCredentials(t.TempDir())
	require.NoError(t, err)
	assert.Nil(t, creds)

	bad := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(bad, "kaggle.json"), []byte(`not json`), 0600))
	_, err = LoadKaggleCredentials(bad)
	assert.Error(t, err)
}

func TestKaggleConfigDir(t *testing.T) {
	lookup := func(key string) (string, bool) {
		if key == EnvKaggleConfigDir {
			return "/etc/kaggle", true
		}
		return "", false
	}
	assert.Equal(t, "/etc/kaggle", KaggleConfigDir(lookup))

	none := func(string) (string, bool) { return "", false }
	assert.Equal(t, ".kaggle", filepath.Base(KaggleConfigDir(none)))
}
