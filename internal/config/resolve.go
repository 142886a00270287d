package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/vvka-141/kagglefetch/internal/registry"
	"github.com/vvka-141/kagglefetch/pkg/kagglefetch"
)

// Environment variables read during resolution.
const (
	EnvUsername        = "KAGGLE_USERNAME"
	EnvKey             = "KAGGLE_KEY"
	EnvCacheDir        = "KAGGLEHUB_CACHE"
	EnvEndpoint        = "KAGGLE_API_ENDPOINT"
	EnvTimeout         = "KAGGLEFETCH_TIMEOUT"
	EnvDatabaseURL     = "DATABASE_URL"
	EnvKaggleConfigDir = "KAGGLE_CONFIG_DIR"

	EnvPostgresAuth      = "KAGGLEFETCH_PG_AUTH"
	EnvAWSRegion         = "AWS_REGION"
	EnvAzureTenantID     = "AZURE_TENANT_ID"
	EnvAzureClientID     = "AZURE_CLIENT_ID"
	EnvAzureClientSecret = "AZURE_CLIENT_SECRET"
)

// DefaultEnvFile is read when no env file is given explicitly.
const DefaultEnvFile = ".env"

// LookupFunc matches os.LookupEnv.
type LookupFunc func(key string) (string, bool)

// Settings is the fully resolved configuration of a command.
type Settings struct {
	Endpoint string
	// Username and Key are the registry credentials found in the environment,
	// .env or kagglefetch.yaml. Use Credentials to include kaggle.json.
	Username string
	Key      string
	CacheDir string
	Timeout  time.Duration

	PostgresURL       string
	PostgresTable     string
	PostgresAuth      kagglefetch.AuthMethod
	AWSRegion         string
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
	GoogleInstance    string

	// KaggleConfigDir holds kaggle.json; it is only read by Credentials.
	KaggleConfigDir string
}

// Overrides carries command line values; empty fields are unset.
type Overrides struct {
	CacheDir       string
	PostgresURL    string
	PostgresTable  string
	PostgresAuth   string
	AWSRegion      string
	AzureTenantID  string
	AzureClientID  string
	GoogleInstance string
}

// Sources are the inputs of Resolve, highest precedence first after Overrides.
type Sources struct {
	Env     LookupFunc
	DotEnv  map[string]string
	Project *ProjectConfig
	Kaggle  *KaggleCredentials
}

// Resolve merges sources with precedence
// flags > process env > .env > kagglefetch.yaml > kaggle.json > defaults.
func Resolve(src Sources, flags Overrides) (*Settings, error) {
	if src.Env == nil {
		src.Env = func(string) (string, bool) { return "", false }
	}
	project := src.Project
	if project == nil {
		project = &ProjectConfig{}
	}
	kaggle := src.Kaggle
	if kaggle == nil {
		kaggle = &KaggleCredentials{}
	}

	env := func(key string) string {
		if v, ok := src.Env(key); ok && v != "" {
			return v
		}
		return src.DotEnv[key]
	}

	s := &Settings{
		Endpoint:      first(env(EnvEndpoint), project.Registry.Endpoint, kagglefetch.DefaultEndpoint),
		CacheDir:      first(flags.CacheDir, env(EnvCacheDir), project.CacheDir, registry.DefaultCacheDir()),
		PostgresURL:   first(flags.PostgresURL, env(EnvDatabaseURL), project.Postgres.URL),
		PostgresTable: first(flags.PostgresTable, project.Postgres.Table),
		Timeout:       kagglefetch.DefaultHTTPTimeout,

		AWSRegion:         first(flags.AWSRegion, env(EnvAWSRegion), project.Postgres.AWSRegion),
		AzureTenantID:     first(flags.AzureTenantID, env(EnvAzureTenantID), project.Postgres.AzureTenantID),
		AzureClientID:     first(flags.AzureClientID, env(EnvAzureClientID), project.Postgres.AzureClientID),
		AzureClientSecret: env(EnvAzureClientSecret),
		GoogleInstance:    first(flags.GoogleInstance, project.Postgres.GoogleInstance),
	}

	auth, err := kagglefetch.ParseAuthMethod(first(flags.PostgresAuth, env(EnvPostgresAuth), project.Postgres.AuthMethod))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", kagglefetch.ErrInvalidConfig, err)
	}
	s.PostgresAuth = auth

	// Credentials travel as a pair so a username never meets another source's key.
	switch {
	case env(EnvUsername) != "" || env(EnvKey) != "":
		s.Username, s.Key = env(EnvUsername), env(EnvKey)
	case project.Registry.Username != "" || project.Registry.Key != "":
		s.Username, s.Key = project.Registry.Username, project.Registry.Key
	default:
		s.Username, s.Key = kaggle.Username, kaggle.Key
	}

	if raw := first(env(EnvTimeout), project.Registry.Timeout); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid registry timeout %q: %w: %w", raw, kagglefetch.ErrInvalidConfig, err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("registry timeout must be positive, got %s: %w", raw, kagglefetch.ErrInvalidConfig)
		}
		s.Timeout = d
	}

	return s, nil
}

// LoadOptions locates the configuration files read by LoadSettings.
type LoadOptions struct {
	// ConfigPath is an explicit kagglefetch.yaml; it must exist when set.
	ConfigPath string
	// EnvFile is an explicit .env file; it must exist when set.
	EnvFile string
	// Dir is searched for kagglefetch.yaml and .env when no explicit path is given.
	Dir string
	// Lookup reads the process environment. Defaults to os.LookupEnv.
	Lookup LookupFunc
}

// LoadSettings reads every configuration source and resolves them.
func LoadSettings(opts LoadOptions, flags Overrides) (*Settings, error) {
	if opts.Lookup == nil {
		opts.Lookup = os.LookupEnv
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}

	project, err := loadProject(opts)
	if err != nil {
		return nil, err
	}

	dotEnv, err := readEnvFile(opts)
	if err != nil {
		return nil, err
	}

	s, err := Resolve(Sources{Env: opts.Lookup, DotEnv: dotEnv, Project: project}, flags)
	if err != nil {
		return nil, err
	}
	s.KaggleConfigDir = KaggleConfigDir(opts.Lookup)
	return s, nil
}

// Credentials returns the registry username and key. When no other source set
// them, kaggle.json in KaggleConfigDir is read, so commands that never reach
// the registry do not depend on that file.
func (s *Settings) Credentials() (username, key string, err error) {
	if s.Username != "" || s.Key != "" || s.KaggleConfigDir == "" {
		return s.Username, s.Key, nil
	}

	creds, err := LoadKaggleCredentials(s.KaggleConfigDir)
	if err != nil {
		return "", "", fmt.Errorf("%w: %w", kagglefetch.ErrInvalidConfig, err)
	}
	if creds == nil {
		return "", "", nil
	}
	return creds.Username, creds.Key, nil
}

func loadProject(opts LoadOptions) (*ProjectConfig, error) {
	var (
		cfg *ProjectConfig
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = LoadFile(opts.ConfigPath)
	} else {
		cfg, err = Load(opts.Dir)
		if errors.Is(err, ErrConfigNotFound) {
			return nil, nil // Config file not found is not an error
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w: %w", first(opts.ConfigPath, ConfigFileName), kagglefetch.ErrInvalidConfig, err)
	}
	return cfg, nil
}

func readEnvFile(opts LoadOptions) (map[string]string, error) {
	path := opts.EnvFile
	explicit := path != ""
	if !explicit {
		path = filepath.Join(opts.Dir, DefaultEnvFile)
	}

	values, err := godotenv.Read(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read env file %s: %w: %w", path, kagglefetch.ErrInvalidConfig, err)
	}
	return values, nil
}

func first(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
