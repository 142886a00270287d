package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// ErrConfigNotFound is returned when the config file does not exist.
// Callers can check for this with errors.Is(err, config.ErrConfigNotFound).
var ErrConfigNotFound = errors.New("config file not found")

type RegistryConfig struct {
	Endpoint string `yaml:"endpoint,omitempty"`
	Username string `yaml:"username,omitempty"`
	Key      string `yaml:"key,omitempty"`
	Timeout  string `yaml:"timeout,omitempty"`
}

type PostgresConfig struct {
	URL            string `yaml:"url,omitempty"`
	Table          string `yaml:"table,omitempty"`
	AuthMethod     string `yaml:"auth_method,omitempty"`
	AWSRegion      string `yaml:"aws_region,omitempty"`
	AzureTenantID  string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID  string `yaml:"azure_client_id,omitempty"`
	GoogleInstance string `yaml:"google_instance,omitempty"`
}

// ProjectConfig is the content of kagglefetch.yaml.
type ProjectConfig struct {
	Registry RegistryConfig `yaml:"registry"`
	CacheDir string         `yaml:"cache_dir,omitempty"`
	Postgres PostgresConfig `yaml:"postgres"`
}

const ConfigFileName = "kagglefetch.yaml"

// Load reads kagglefetch.yaml from dir.
func Load(dir string) (*ProjectConfig, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads a project config from an explicit path.
func LoadFile(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}
