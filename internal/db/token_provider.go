package db

import (
	"context"
	"time"
)

// TokenProvider acquires short-lived cloud tokens used as the PostgreSQL password.
type TokenProvider interface {
	// GetToken returns a token and the time it stops being accepted.
	GetToken(ctx context.Context) (token string, expiresOn time.Time, err error)

	// String describes the provider for logs. It must not include secrets.
	String() string
}

// AzurePostgreSQLScope is the OAuth scope Azure Entra ID issues PostgreSQL tokens for.
const AzurePostgreSQLScope = "https://ossrdbms-aad.database.windows.net/.default"

// tokenExpiryWarning is the remaining lifetime below which a token is reported.
const tokenExpiryWarning = 5 * time.Minute
