// Package config loads aipx.yaml and turns it into profiles and database
// settings. Environment variables override the file; CLI flags override both.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vvka-141/aipx/internal/profiles"
	"github.com/vvka-141/aipx/pkg/aipx"
)

// ErrConfigNotFound is returned when the config file does not exist.
var ErrConfigNotFound = errors.New("config file not found")

const ConfigFileName = "aipx.yaml"

// Environment variables read by Connection, highest precedence first.
const (
	EnvDatabaseURL       = "AIPX_DATABASE_URL"
	EnvDatabaseURLStd    = "DATABASE_URL"
	EnvAWSRegion         = "AWS_REGION"
	EnvAzureTenantID     = "AZURE_TENANT_ID"
	EnvAzureClientID     = "AZURE_CLIENT_ID"
	EnvAzureClientSecret = "AZURE_CLIENT_SECRET"
)

type TextRuleConfig struct {
	Pattern  string `yaml:"pattern"`
	Type     string `yaml:"type,omitempty"`
	Language string `yaml:"language,omitempty"`
}

type ProfileConfig struct {
	Mode      string           `yaml:"mode"`
	StructMap string           `yaml:"struct_map,omitempty"`
	Files     []string         `yaml:"files,omitempty"`
	Texts     []TextRuleConfig `yaml:"texts,omitempty"`
}

// DatabaseConfig holds no secrets: passwords come from the URL, PGPASSWORD
// or ~/.pgpass, and the Azure client secret from AZURE_CLIENT_SECRET.
type DatabaseConfig struct {
	URL            string `yaml:"url"`
	AuthMethod     string `yaml:"auth_method,omitempty"`
	AWSRegion      string `yaml:"aws_region,omitempty"`
	GoogleInstance string `yaml:"google_instance,omitempty"`
	AzureTenantID  string `yaml:"azure_tenant_id,omitempty"`
	AzureClientID  string `yaml:"azure_client_id,omitempty"`
}

type LogConfig struct {
	Format string `yaml:"format"`
}

type ProjectConfig struct {
	Profile  ProfileConfig  `yaml:"profile"`
	Database DatabaseConfig `yaml:"database"`
	Log      LogConfig      `yaml:"log"`
	Timeout  string         `yaml:"timeout"`
	Jobs     int            `yaml:"jobs"`
}

// Load reads ConfigFileName from dir.
func Load(dir string) (*ProjectConfig, error) {
	return LoadFile(filepath.Join(dir, ConfigFileName))
}

// LoadFile reads the config file at path.
func LoadFile(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%s: %w: %w", path, aipx.ErrInvalidConfig, err)
	}
	return &cfg, nil
}

// LoadDotEnv loads dir/.env into the process environment. Variables that
// are already set win. A missing file is not an error.
func LoadDotEnv(dir string) error {
	path := filepath.Join(dir, ".env")
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// Build converts the profile section into an aipx.Profile. Custom profiles
// get the default structMap hooks from the profiles package.
func (c ProfileConfig) Build() (aipx.Profile, error) {
	mode, err := aipx.ParseMode(c.Mode)
	if err != nil {
		return nil, err
	}

	files, err := compileAll(c.Files)
	if err != nil {
		return nil, err
	}

	switch mode {
	case aipx.ModeRoot:
		return aipx.RootProfile{IsFile: profiles.MatchAny(files...)}, nil
	case aipx.ModeCustom:
		rules := make([]profiles.TextRule, 0, len(c.Texts))
		for i, t := range c.Texts {
			rule, err := t.build()
			if err != nil {
				return nil, fmt.Errorf("profile.texts[%d]: %w", i, err)
			}
			rules = append(rules, rule)
		}
		profile := profiles.Custom(c.StructMap, files, rules)
		if err := profile.Validate(); err != nil {
			return nil, err
		}
		return profile, nil
	default:
		if len(c.Files) > 0 || len(c.Texts) > 0 {
			return nil, fmt.Errorf("files and texts apply to root and custom modes only: %w", aipx.ErrInvalidConfig)
		}
		return aipx.FolderProfile{}, nil
	}
}

func (t TextRuleConfig) build() (profiles.TextRule, error) {
	pattern, err := compile(t.Pattern)
	if err != nil {
		return profiles.TextRule{}, err
	}
	rule := profiles.TextRule{Pattern: pattern, Language: t.Language}
	if t.Type != "" {
		if rule.Type, err = aipx.ParseTextType(t.Type); err != nil {
			return profiles.TextRule{}, err
		}
	}
	return rule, nil
}

func compileAll(patterns []string) ([]*regexp.Regexp, error) {
	out := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		re, err := compile(p)
		if err != nil {
			return nil, err
		}
		out = append(out, re)
	}
	return out, nil
}

func compile(pattern string) (*regexp.Regexp, error) {
	if pattern == "" {
		return nil, fmt.Errorf("empty pattern: %w", aipx.ErrInvalidConfig)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("pattern %q: %w: %w", pattern, aipx.ErrInvalidConfig, err)
	}
	return re, nil
}

// Connection merges the database section with the environment read through
// getenv (os.Getenv in production).
func (c DatabaseConfig) Connection(getenv func(string) string) (aipx.ConnectionConfig, error) {
	method, err := aipx.ParseAuthMethod(c.AuthMethod)
	if err != nil {
		return aipx.ConnectionConfig{}, err
	}

	cfg := aipx.ConnectionConfig{
		URL:               firstNonEmpty(getenv(EnvDatabaseURL), getenv(EnvDatabaseURLStd), c.URL),
		AuthMethod:        method,
		AWSRegion:         firstNonEmpty(getenv(EnvAWSRegion), c.AWSRegion),
		GoogleInstance:    c.GoogleInstance,
		AzureTenantID:     firstNonEmpty(getenv(EnvAzureTenantID), c.AzureTenantID),
		AzureClientID:     firstNonEmpty(getenv(EnvAzureClientID), c.AzureClientID),
		AzureClientSecret: getenv(EnvAzureClientSecret),
	}
	return cfg, nil
}

// TimeoutOrDefault parses Timeout, falling back to aipx.DefaultTimeout.
func (c *ProjectConfig) TimeoutOrDefault() (time.Duration, error) {
	if c == nil || c.Timeout == "" {
		return aipx.DefaultTimeout, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("timeout %q must be a positive duration such as 5m: %w", c.Timeout, aipx.ErrInvalidConfig)
	}
	return d, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
