package db

import (
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/kagglefetch/internal/logging"
	"github.com/vvka-141/kagglefetch/pkg/kagglefetch"
)

// ConnectOptions selects how NewConnector authenticates.
type ConnectOptions struct {
	AuthMethod kagglefetch.AuthMethod

	// AWSRegion is required for AuthMethodAWSIAM.
	AWSRegion string

	// Azure service principal; when any value is missing the default
	// credential chain is used instead.
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string

	// GoogleInstance is the Cloud SQL instance connection name, required for
	// AuthMethodGoogleIAM.
	GoogleInstance string

	Logger kagglefetch.Logger
}

// NewConnector builds the connector for opts.AuthMethod. Host, port, user and
// database always come from connStr; cloud methods replace the password.
// Connectors that hold resources also implement io.Closer.
func NewConnector(connStr string, opts ConnectOptions) (Connector, error) {
	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse connection config: %w", err)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NewNullLogger()
	}
	cc := poolConfig.ConnConfig

	switch opts.AuthMethod {
	case kagglefetch.AuthMethodStandard:
		return NewStandardConnector(poolConfig), nil

	case kagglefetch.AuthMethodAWSIAM:
		provider, err := NewAWSIAMTokenProvider(fmt.Sprintf("%s:%d", cc.Host, cc.Port), opts.AWSRegion, cc.User)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", kagglefetch.ErrInvalidConfig, err)
		}
		return NewTokenBasedConnector(poolConfig, provider, "AWS IAM", opts.Logger), nil

	case kagglefetch.AuthMethodAzureEntraID:
		provider, err := azureProvider(opts)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", kagglefetch.ErrInvalidConfig, err)
		}
		return NewTokenBasedConnector(poolConfig, provider, "Azure", opts.Logger), nil

	case kagglefetch.AuthMethodGoogleIAM:
		if opts.GoogleInstance == "" {
			return nil, fmt.Errorf("Google IAM auth requires an instance connection name (use --google-instance): %w", kagglefetch.ErrInvalidConfig)
		}
		if cc.User == "" {
			return nil, fmt.Errorf("Google IAM auth requires a user in the connection URL: %w", kagglefetch.ErrInvalidConfig)
		}
		return NewGoogleCloudSQLConnector(poolConfig, opts.GoogleInstance), nil
	}

	return nil, fmt.Errorf("%w: %s", kagglefetch.ErrUnsupportedAuthMethod, opts.AuthMethod)
}

func azureProvider(opts ConnectOptions) (TokenProvider, error) {
	if opts.AzureTenantID != "" && opts.AzureClientID != "" && opts.AzureClientSecret != "" {
		return NewAzureServicePrincipalProvider(opts.AzureTenantID, opts.AzureClientID, opts.AzureClientSecret)
	}
	return NewAzureDefaultCredentialProvider()
}
