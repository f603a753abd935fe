package aipx

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AuthMethod selects how the item store authenticates to PostgreSQL.
type AuthMethod int

const (
	AuthMethodStandard     AuthMethod = iota // password from the URL, PGPASSWORD or ~/.pgpass
	AuthMethodAWSIAM                         // RDS IAM token
	AuthMethodGoogleIAM                      // Cloud SQL IAM through the Go connector
	AuthMethodAzureEntraID                   // Entra ID access token
)

func (a AuthMethod) String() string {
	switch a {
	case AuthMethodStandard:
		return "standard"
	case AuthMethodAWSIAM:
		return "aws"
	case AuthMethodGoogleIAM:
		return "google"
	case AuthMethodAzureEntraID:
		return "azure"
	default:
		return fmt.Sprintf("unknown(%d)", int(a))
	}
}

// IsValid reports whether a is a defined AuthMethod.
func (a AuthMethod) IsValid() bool {
	return a >= AuthMethodStandard && a <= AuthMethodAzureEntraID
}

// ParseAuthMethod converts a configuration value into an AuthMethod.
// The empty string means AuthMethodStandard.
func ParseAuthMethod(s string) (AuthMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "standard", "password":
		return AuthMethodStandard, nil
	case "aws", "aws-iam":
		return AuthMethodAWSIAM, nil
	case "google", "gcp", "google-iam":
		return AuthMethodGoogleIAM, nil
	case "azure", "entra", "azure-entra-id":
		return AuthMethodAzureEntraID, nil
	default:
		return AuthMethodStandard, fmt.Errorf("unknown auth method %q (want standard, aws, google or azure): %w", s, ErrUnsupportedAuthMethod)
	}
}

// ConnectionConfig describes the item store database.
type ConnectionConfig struct {
	// URL is a PostgreSQL URI or keyword/value connection string.
	URL string

	AuthMethod AuthMethod

	// AWSRegion is required for AuthMethodAWSIAM.
	AWSRegion string

	// GoogleInstance is the Cloud SQL instance (project:region:instance)
	// for AuthMethodGoogleIAM.
	GoogleInstance string

	// With all three set, Entra ID uses a service principal; otherwise the
	// default Azure credential chain.
	AzureTenantID     string
	AzureClientID     string
	AzureClientSecret string
}

// Validate checks the fields required by the selected AuthMethod.
func (c ConnectionConfig) Validate() error {
	if strings.TrimSpace(c.URL) == "" {
		return fmt.Errorf("database url is required: %w", ErrInvalidConfig)
	}
	switch c.AuthMethod {
	case AuthMethodStandard, AuthMethodAzureEntraID:
		return nil
	case AuthMethodAWSIAM:
		if c.AWSRegion == "" {
			return fmt.Errorf("aws auth requires a region: %w", ErrInvalidConfig)
		}
		return nil
	case AuthMethodGoogleIAM:
		if c.GoogleInstance == "" {
			return fmt.Errorf("google auth requires an instance (project:region:instance): %w", ErrInvalidConfig)
		}
		return nil
	default:
		return fmt.Errorf("auth method %v: %w", c.AuthMethod, ErrUnsupportedAuthMethod)
	}
}

// Connector opens a connection pool to the item store database.
// The caller closes the pool.
type Connector interface {
	Connect(ctx context.Context) (*pgxpool.Pool, error)
}
