package db

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/vvka-141/kagglefetch/pkg/kagglefetch"
)

// TokenBasedConnector connects with a token from a TokenProvider in place of
// the password (AWS IAM, Azure Entra ID).
type TokenBasedConnector struct {
	config        *pgxpool.Config
	tokenProvider TokenProvider
	providerName  string
	logger        kagglefetch.Logger
	now           func() time.Time
}

// NewTokenBasedConnector creates a connector for config that authenticates
// through tokenProvider. providerName appears in errors and warnings.
func NewTokenBasedConnector(config *pgxpool.Config, tokenProvider TokenProvider, providerName string, logger kagglefetch.Logger) *TokenBasedConnector {
	return &TokenBasedConnector{
		config:        config,
		tokenProvider: tokenProvider,
		providerName:  providerName,
		logger:        logger,
		now:           time.Now,
	}
}

func (c *TokenBasedConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	poolConfig, err := c.configWithToken(ctx)
	if err != nil {
		return nil, err
	}
	return openPool(ctx, poolConfig)
}

// configWithToken returns a copy of the pool config whose password is a fresh token.
func (c *TokenBasedConnector) configWithToken(ctx context.Context) (*pgxpool.Config, error) {
	token, expiresOn, err := c.tokenProvider.GetToken(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire %s token: %w", c.providerName, err)
	}
	c.logger.Verbose("Acquired %s token from %s", c.providerName, c.tokenProvider)

	if left := expiresOn.Sub(c.now()); left < tokenExpiryWarning {
		c.logger.Info("Warning: %s token expires in %v", c.providerName, left.Round(time.Second))
	}

	poolConfig := c.config.Copy()
	poolConfig.ConnConfig.Password = token
	return poolConfig, nil
}
