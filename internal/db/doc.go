// Package db writes record tables into PostgreSQL.
//
// NewConnector turns a connection URL or keyword/value string into a Connector
// for the selected authentication method: the password in the URL, an AWS RDS
// IAM token, an Azure Entra ID token, or a Google Cloud SQL IAM dialer.
// Sink creates the target table from the record table's inferred column kinds
// and bulk loads the rows with the COPY protocol.
package db
