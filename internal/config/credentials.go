package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// KaggleCredentials is the content of kaggle.json as issued by the Kaggle website.
type KaggleCredentials struct {
	Username string `json:"username"`
	Key      string `json:"key"`
}

// KaggleConfigDir returns $KAGGLE_CONFIG_DIR or ~/.kaggle.
func KaggleConfigDir(lookup LookupFunc) string {
	if dir, ok := lookup(EnvKaggleConfigDir); ok && dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".kaggle"
	}
	return filepath.Join(home, ".kaggle")
}

// LoadKaggleCredentials reads kaggle.json from dir. A missing file yields nil
// credentials and no error.
func LoadKaggleCredentials(dir string) (*KaggleCredentials, error) {
	path := filepath.Join(dir, "kaggle.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var creds KaggleCredentials
	if err := json.Unmarshal(data, &creds); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &creds, nil
}
