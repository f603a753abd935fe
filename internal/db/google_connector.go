package db

import (
	"context"
	"fmt"
	"net"
	"sync"

	"cloud.google.com/go/cloudsqlconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vvka-141/aipx/pkg/aipx"
)

// GoogleCloudSQLConnector reaches a Cloud SQL instance through the Cloud SQL
// Go connector with IAM database authentication. The user and database come
// from the URL; its host is ignored.
//
// Close releases the dialer once the pool is closed.
type GoogleCloudSQLConnector struct {
	config aipx.ConnectionConfig
	logger aipx.Logger

	mu     sync.Mutex
	dialer *cloudsqlconn.Dialer
}

// NewGoogleCloudSQLConnector creates a connector for config.GoogleInstance.
func NewGoogleCloudSQLConnector(config aipx.ConnectionConfig, logger aipx.Logger) *GoogleCloudSQLConnector {
	return &GoogleCloudSQLConnector{config: config, logger: logger}
}

func (c *GoogleCloudSQLConnector) Connect(ctx context.Context) (*pgxpool.Pool, error) {
	poolConfig, err := parsePoolConfig(c.config.URL, c.logger)
	if err != nil {
		return nil, err
	}
	if poolConfig.ConnConfig.User == "" {
		return nil, fmt.Errorf("google auth requires a database user in the url: %w", aipx.ErrInvalidConfig)
	}

	dialer, err := cloudsqlconn.NewDialer(ctx, cloudsqlconn.WithIAMAuthN())
	if err != nil {
		return nil, fmt.Errorf("create cloud sql dialer: %w", err)
	}

	instance := c.config.GoogleInstance
	poolConfig.ConnConfig.TLSConfig = nil
	poolConfig.ConnConfig.Fallbacks = nil
	poolConfig.ConnConfig.DialFunc = func(ctx context.Context, _, _ string) (net.Conn, error) {
		return dialer.Dial(ctx, instance)
	}

	pool, err := openPool(ctx, poolConfig)
	if err != nil {
		dialer.Close()
		return nil, fmt.Errorf("cloud sql instance %s: %w", instance, err)
	}

	c.mu.Lock()
	c.dialer = dialer
	c.mu.Unlock()
	return pool, nil
}

// Close releases the dialer. Safe to call more than once.
func (c *GoogleCloudSQLConnector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.dialer == nil {
		return nil
	}
	err := c.dialer.Close()
	c.dialer = nil
	return err
}
