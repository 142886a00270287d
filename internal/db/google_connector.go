package db

import (
	"context"
	"fmt"
	"net"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GoogleCloudSQLConnector connects to Cloud SQL with IAM database
// authentication through the Cloud SQL Go connector, which also provides TLS.
//
// Close must be called after the returned pool is closed.
type GoogleCloudSQLConnector struct {
	config   *pgxpool.Config
	instance string
	dialer   *cloudsqlconn.Dialer
}

// NewGoogleCloudSQLConnector takes the user and database from config and the
// instance connection name as project:region:instance.
func NewGoogleCloudSQLConnector(config *pgxpool.Config, instance string) *GoogleCloudSQLConnector {
	return &GoogleCloudSQLConnector{config: config, instance: instance}
}

func (c *GoogleCloudSQLConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	dialer, err := cloudsqlconn.NewDialer(ctx, cloudsqlconn.WithIAMAuthN())
	if err != nil {
		return nil, fmt.Errorf("failed to create Cloud SQL dialer: %w", err)
	}

	pool, err := openPool(ctx, c.dialConfig(dialer.Dial))
	if err != nil {
		dialer.Close()
		return nil, err
	}

	c.dialer = dialer
	return pool, nil
}

type instanceDialFunc func(ctx context.Context, instance string, opts ...cloudsqlconn.DialOption) (net.Conn, error)

// dialConfig routes every connection of the pool to the Cloud SQL instance.
// The dialer handles TLS and the IAM login, so pgx's own TLS and host lookup
// are turned off.
func (c *GoogleCloudSQLConnector) dialConfig(dial instanceDialFunc) *pgxpool.Config {
	poolConfig := c.config.Copy()
	cc := poolConfig.ConnConfig
	cc.TLSConfig = nil
	cc.Fallbacks = nil
	cc.LookupFunc = func(_ context.Context, host string) ([]string, error) {
		return []string{host}, nil
	}
	cc.DialFunc = func(ctx context.Context, _, _ string) (net.Conn, error) {
		return dial(ctx, c.instance)
	}
	return poolConfig
}

// Close releases the Cloud SQL dialer.
func (c *GoogleCloudSQLConnector) Close() error {
	if c.dialer != nil {
		err := c.dialer.Close()
		c.dialer = nil
		return err
	}
	return nil
}
