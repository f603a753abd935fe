// Package db writes conversion results to PostgreSQL.
//
// NewConnector opens a pgxpool according to aipx.ConnectionConfig. Standard
// auth takes the password from the URL or the usual libpq sources. AWS IAM
// and Azure Entra ID fetch a short-lived token before every new physical
// connection. Google Cloud SQL dials through the Cloud SQL connector.
//
// PostgresStore implements aipx.ItemStore on top of the pool. Each Store call
// replaces one collection inside a single transaction.
package db
