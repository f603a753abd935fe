package db

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/aipx/internal/retry"
	"github.com/vvka-141/aipx/pkg/aipx"
)

// Pool limits. MaxConns covers DefaultJobs parallel ingests plus one
// connection for schema bootstrap.
const (
	DefaultMaxConns        = aipx.DefaultJobs + 1
	DefaultMinConns        = 0
	DefaultMaxConnIdleTime = 5 * time.Minute

	applicationName = "aipx"

	// tokenExpiryWarning is the remaining lifetime below which a freshly
	// acquired token is reported.
	tokenExpiryWarning = 5 * time.Minute
)

// PoolConnector opens a pgxpool with retry on transient failures. When
// tokens is set, every new physical connection authenticates with a fresh
// token instead of a static password.
type PoolConnector struct {
	config   aipx.ConnectionConfig
	tokens   TokenProvider
	logger   aipx.Logger
	executor *retry.Executor
}

// NewPoolConnector creates a password-authenticated connector.
func NewPoolConnector(config aipx.ConnectionConfig, logger aipx.Logger) *PoolConnector {
	return &PoolConnector{
		config:   config,
		logger:   logger,
		executor: retry.NewDefaultExecutor(logger, "connect"),
	}
}

// NewTokenConnector creates a connector that uses tokens as the password.
func NewTokenConnector(config aipx.ConnectionConfig, tokens TokenProvider, logger aipx.Logger) *PoolConnector {
	c := NewPoolConnector(config, logger)
	c.tokens = tokens
	return c
}

// Connect opens the pool and pings it.
func (c *PoolConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	poolConfig, err := parsePoolConfig(c.config.URL, c.logger)
	if err != nil {
		return nil, err
	}
	if c.tokens != nil {
		poolConfig.BeforeConnect = tokenHook(c.tokens, c.logger)
	}

	var pool *pgxpool.Pool
	err = c.executor.Execute(ctx, func(ctx context.Context) error {
		pool, err = openPool(ctx, poolConfig)
		return err
	})
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// NewConnector returns the connector for config.AuthMethod.
func NewConnector(config aipx.ConnectionConfig, logger aipx.Logger) (aipx.Connector, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	switch config.AuthMethod {
	case aipx.AuthMethodStandard:
		return NewPoolConnector(config, logger), nil
	case aipx.AuthMethodAWSIAM:
		return newAWSConnector(config, logger)
	case aipx.AuthMethodGoogleIAM:
		return NewGoogleCloudSQLConnector(config, logger), nil
	case aipx.AuthMethodAzureEntraID:
		return newAzureConnector(config, logger)
	default:
		return nil, fmt.Errorf("auth method %v: %w", config.AuthMethod, aipx.ErrUnsupportedAuthMethod)
	}
}

func newAWSConnector(config aipx.ConnectionConfig, logger aipx.Logger) (aipx.Connector, error) {
	connConfig, err := pgconn.ParseConfig(config.URL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w: %w", aipx.ErrInvalidConfig, err)
	}
	endpoint := fmt.Sprintf("%s:%d", connConfig.Host, connConfig.Port)

	tokens, err := NewAWSIAMTokenProvider(endpoint, config.AWSRegion, connConfig.User)
	if err != nil {
		return nil, err
	}
	return NewTokenConnector(config, tokens, logger), nil
}

func newAzureConnector(config aipx.ConnectionConfig, logger aipx.Logger) (aipx.Connector, error) {
	var tokens TokenProvider
	var err error
	if config.AzureTenantID != "" && config.AzureClientID != "" && config.AzureClientSecret != "" {
		tokens, err = NewAzureServicePrincipalProvider(config.AzureTenantID, config.AzureClientID, config.AzureClientSecret)
	} else {
		tokens, err = NewAzureDefaultCredentialProvider()
	}
	if err != nil {
		return nil, err
	}
	return NewTokenConnector(config, tokens, logger), nil
}

func parsePoolConfig(url string, logger aipx.Logger) (*pgxpool.Config, error) {
	poolConfig, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w: %w", aipx.ErrInvalidConfig, err)
	}

	poolConfig.MaxConns = DefaultMaxConns
	poolConfig.MinConns = DefaultMinConns
	poolConfig.MaxConnIdleTime = DefaultMaxConnIdleTime

	connConfig := poolConfig.ConnConfig
	if connConfig.RuntimeParams["application_name"] == "" {
		connConfig.RuntimeParams["application_name"] = applicationName
	}
	if logger != nil {
		connConfig.OnNotice = func(_ *pgconn.PgConn, notice *pgconn.Notice) {
			logger.Verbose("postgres %s: %s", strings.ToLower(notice.Severity), notice.Message)
		}
	}
	return poolConfig, nil
}

func openPool(ctx context.Context, poolConfig *pgxpool.Config) (*pgxpool.Pool, error) {
	connConfig := poolConfig.ConnConfig
	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, wrapConnectionError(err, connConfig.Host, connConfig.Port, connConfig.Database)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, wrapConnectionError(err, connConfig.Host, connConfig.Port, connConfig.Database)
	}
	return pool, nil
}

// tokenHook sets a fresh token as the password of each new connection.
func tokenHook(tokens TokenProvider, logger aipx.Logger) func(context.Context, *pgx.ConnConfig) error {
	return func(ctx context.Context, cc *pgx.ConnConfig) error {
		token, expiresOn, err := tokens.GetToken(ctx)
		if err != nil {
			return fmt.Errorf("acquire token from %s: %w", tokens, err)
		}
		if remaining := time.Until(expiresOn); remaining < tokenExpiryWarning && logger != nil {
			logger.Verbose("%s token expires in %s", tokens, remaining.Round(time.Second))
		}
		cc.Password = token
		return nil
	}
}

// wrapConnectionError adds a hint for the common ways a connection fails.
// The original error stays in the chain so retry classification still works.
func wrapConnectionError(err error, host string, port uint16, database string) error {
	msg := strings.ToLower(err.Error())
	addr := fmt.Sprintf("%s:%d", host, port)

	var hint string
	switch {
	case strings.Contains(msg, "connection refused") || strings.Contains(msg, "actively refused"):
		hint = fmt.Sprintf("connection refused by %s; is PostgreSQL running (pg_isready -h %s -p %d)?", addr, host, port)
	case strings.Contains(msg, "no such host"):
		hint = fmt.Sprintf("cannot resolve host %q; check the database url", host)
	case strings.Contains(msg, "password authentication failed"):
		hint = fmt.Sprintf("authentication failed for database %q; check the url, PGPASSWORD or ~/.pgpass", database)
	case strings.Contains(msg, "does not exist"):
		hint = fmt.Sprintf("database %q does not exist; create it with: createdb %s", database, database)
	case strings.Contains(msg, "timeout") || strings.Contains(msg, "timed out"):
		hint = fmt.Sprintf("connection to %s timed out", addr)
	case strings.Contains(msg, "ssl") || strings.Contains(msg, "tls"):
		hint = "TLS negotiation failed; check sslmode in the database url"
	case strings.Contains(msg, "too many connections"):
		hint = fmt.Sprintf("too many connections to database %q; lower --jobs", database)
	default:
		return fmt.Errorf("connect to %s: %w", addr, err)
	}
	return fmt.Errorf("%s: %w", hint, err)
}
