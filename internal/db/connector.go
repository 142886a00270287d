package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Connection pool configuration constants
const (
	// DefaultMaxConns bounds a sink that only ever runs one COPY at a time.
	DefaultMaxConns = 2

	// DefaultMinConns maintains at least one connection in the pool.
	DefaultMinConns = 1

	// DefaultMaxConnIdleTime keeps the connection alive while a large table loads.
	DefaultMaxConnIdleTime = 30 * time.Minute
)

func configurePool(poolConfig *pgxpool.Config) {
	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime
}

// Connector opens a verified connection pool. The caller must close the pool.
type Connector interface {
	Connect(ctx context.Context) (*pgxpool.Pool, error)
}

// StandardConnector authenticates with the password carried by the parsed
// connection string.
type StandardConnector struct {
	config *pgxpool.Config
}

func NewStandardConnector(config *pgxpool.Config) *StandardConnector {
	return &StandardConnector{config: config}
}

func (c *StandardConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	return openPool(ctx, c.config.Copy())
}

// openPool sizes the pool, opens it and pings it.
func openPool(ctx context.Context, poolConfig *pgxpool.Config) (*pgxpool.Pool, error) {
	configurePool(poolConfig)
	cc := poolConfig.ConnConfig

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, wrapConnectionError(err, cc.Host, cc.Port, cc.Database)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, wrapConnectionError(err, cc.Host, cc.Port, cc.Database)
	}

	return pool, nil
}

// wrapConnectionError wraps raw pgx connection errors with actionable guidance.
func wrapConnectionError(err error, host string, port uint16, database string) error {
	errStr := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	switch {
	case strings.Contains(errStr, "connection refused") || strings.Contains(errStr, "actively refused"):
		return fmt.Errorf(`connection refused to %s

Possible causes:
  - PostgreSQL is not running (check: pg_isready -h %s -p %d)
  - Wrong host or port in --postgres or DATABASE_URL

Original error: %w`, addr, host, port, err)

	case strings.Contains(errStr, "no such host") || strings.Contains(errStr, "no host"):
		return fmt.Errorf(`cannot resolve host "%s"

Possible causes:
  - Hostname is misspelled
  - DNS is not configured or reachable

Original error: %w`, host, err)

	case strings.Contains(errStr, "password authentication failed"):
		return fmt.Errorf(`password authentication failed for database "%s"

Possible causes:
  - Wrong password in the connection URL (or $PGPASSWORD)
  - User does not have access to the database

Original error: %w`, database, err)

	case strings.Contains(errStr, "does not exist"):
		return fmt.Errorf(`database "%s" does not exist

To create it:
  createdb %s

Original error: %w`, database, database, err)

	case strings.Contains(errStr, "timeout") || strings.Contains(errStr, "timed out"):
		return fmt.Errorf(`connection timed out to %s

Possible causes:
  - Server is overloaded or unresponsive
  - Firewall silently dropping packets

Original error: %w`, addr, err)

	default:
		return fmt.Errorf("failed to connect to database: %w", err)
	}
}
