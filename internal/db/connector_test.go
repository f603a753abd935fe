package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/aipx/internal/logging"
	"github.com/vvka-141/aipx/pkg/aipx"
)

func TestNewConnector_ByAuthMethod(t *testing.T) {
	url := "postgres://ingest@db.example.com:5433/items"

	standard, err := NewConnector(aipx.ConnectionConfig{URL: url}, logging.NewNullLogger())
	require.NoError(t, err)
	assert.IsType(t, &PoolConnector{}, standard)
	assert.Nil(t, standard.(*PoolConnector).tokens)

	awsConn, err := NewConnector(aipx.ConnectionConfig{URL: url, AuthMethod: aipx.AuthMethodAWSIAM, AWSRegion: "eu-west-1"}, logging.NewNullLogger())
	require.NoError(t, err)
	provider, ok := awsConn.(*PoolConnector).tokens.(*AWSIAMTokenProvider)
	require.True(t, ok)
	assert.Equal(t, "db.example.com:5433", provider.endpoint)
	assert.Equal(t, "ingest", provider.username)
	assert.Equal(t, "eu-west-1", provider.region)

	google, err := NewConnector(aipx.ConnectionConfig{URL: url, AuthMethod: aipx.AuthMethodGoogleIAM, GoogleInstance: "proj:region:inst"}, logging.NewNullLogger())
	require.NoError(t, err)
	assert.IsType(t, &GoogleCloudSQLConnector{}, google)
}

func TestNewConnector_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		config aipx.ConnectionConfig
		target error
	}{
		{"missing url", aipx.ConnectionConfig{}, aipx.ErrInvalidConfig},
		{"aws without region", aipx.ConnectionConfig{URL: "postgres://u@h/d", AuthMethod: aipx.AuthMethodAWSIAM}, aipx.ErrInvalidConfig},
		{"google without instance", aipx.ConnectionConfig{URL: "postgres://u@h/d", AuthMethod: aipx.AuthMethodGoogleIAM}, aipx.ErrInvalidConfig},
		{"unknown method", aipx.ConnectionConfig{URL: "postgres://u@h/d", AuthMethod: aipx.AuthMethod(42)}, aipx.ErrUnsupportedAuthMethod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewConnector(tt.config, logging.NewNullLogger())
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.target), "got %v", err)
		})
	}
}

func TestNewAWSIAMTokenProvider_RequiresFields(t *testing.T) {
	_, err := NewAWSIAMTokenProvider("", "eu-west-1", "u")
	assert.ErrorIs(t, err, aipx.ErrInvalidConfig)
	_, err = NewAWSIAMTokenProvider("h:5432", "eu-west-1", "")
	assert.ErrorIs(t, err, aipx.ErrInvalidConfig)

	p, err := NewAWSIAMTokenProvider("h:5432", "eu-west-1", "u")
	require.NoError(t, err)
	assert.Equal(t, "aws-iam(u@h:5432, eu-west-1)", p.String())
}

func TestParsePoolConfig(t *testing.T) {
	cfg, err := parsePoolConfig("postgres://u:p@localhost:5432/aipx?sslmode=disable", logging.NewNullLogger())
	require.NoError(t, err)
	assert.EqualValues(t, DefaultMaxConns, cfg.MaxConns)
	assert.Equal(t, DefaultMaxConnIdleTime, cfg.MaxConnIdleTime)
	assert.Equal(t, "aipx", cfg.ConnConfig.RuntimeParams["application_name"])
	assert.NotNil(t, cfg.ConnConfig.OnNotice)

	cfg, err = parsePoolConfig("host=localhost dbname=aipx application_name=nightly", nil)
	require.NoError(t, err)
	assert.Equal(t, "nightly", cfg.ConnConfig.RuntimeParams["application_name"])
	assert.Nil(t, cfg.ConnConfig.OnNotice)

	_, err = parsePoolConfig("postgres://localhost:notaport/aipx", nil)
	assert.ErrorIs(t, err, aipx.ErrInvalidConfig)
}

type staticTokens struct {
	token     string
	expiresOn time.Time
	err       error
	calls     int
}

func (s *staticTokens) GetToken(context.Context) (string, time.Time, error) {
	s.calls++
	return s.token, s.expiresOn, s.err
}

func (s *staticTokens) String() string { return "static" }

type lineRecorder struct{ verbose []string }

func (r *lineRecorder) Verbose(format string, _ ...interface{}) { r.verbose = append(r.verbose, format) }
func (r *lineRecorder) Info(string, ...interface{})             {}
func (r *lineRecorder) Error(string, ...interface{})            {}

func TestTokenHook(t *testing.T) {
	tokens := &staticTokens{token: "secret-token", expiresOn: time.Now().Add(time.Hour)}
	logger := &lineRecorder{}
	hook := tokenHook(tokens, logger)

	cc := &pgx.ConnConfig{}
	require.NoError(t, hook(context.Background(), cc))
	require.NoError(t, hook(context.Background(), cc))
	assert.Equal(t, "secret-token", cc.Password)
	assert.Equal(t, 2, tokens.calls)
	assert.Empty(t, logger.verbose)

	tokens.expiresOn = time.Now().Add(time.Minute)
	require.NoError(t, hook(context.Background(), cc))
	assert.Len(t, logger.verbose, 1)
}

func TestTokenHook_Failure(t *testing.T) {
	hook := tokenHook(&staticTokens{err: errors.New("expired credentials")}, nil)
	err := hook(context.Background(), &pgx.ConnConfig{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "static")
	assert.Contains(t, err.Error(), "expired credentials")
}

func TestWrapConnectionError(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{"dial tcp 127.0.0.1:5432: connect: connection refused", "pg_isready -h localhost -p 5432"},
		{"lookup nowhere: no such host", `cannot resolve host "localhost"`},
		{"FATAL: password authentication failed for user \"u\"", `authentication failed for database "items"`},
		{"FATAL: database \"items\" does not exist", "createdb items"},
		{"i/o timeout", "timed out"},
		{"server does not support SSL", "sslmode"},
		{"FATAL: sorry, too many connections already", "--jobs"},
		{"something else", "connect to localhost:5432"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			raw := errors.New(tt.raw)
			err := wrapConnectionError(raw, "localhost", 5432, "items")
			assert.Contains(t, err.Error(), tt.want)
			assert.ErrorIs(t, err, raw)
		})
	}
}
