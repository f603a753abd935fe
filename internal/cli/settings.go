package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/vvka-141/aipx/internal/config"
	"github.com/vvka-141/aipx/internal/logging"
	"github.com/vvka-141/aipx/pkg/aipx"
)

const configFileHint = config.ConfigFileName

// settings is the resolved state shared by all commands.
type settings struct {
	config  *config.ProjectConfig
	logger  aipx.Logger
	verbose bool
}

// loadSettings reads .env from the working directory, the optional config
// file and builds the logger. A missing default config file is not an error;
// a missing --config file is.
func loadSettings(cmd *cobra.Command) (*settings, error) {
	if err := config.LoadDotEnv("."); err != nil {
		return nil, err
	}

	cfg, err := loadProjectConfig(cmd)
	if err != nil {
		return nil, err
	}

	format, _ := cmd.Flags().GetString("log-format")
	if format == "" && cfg != nil {
		format = cfg.Log.Format
	}

	verbose := getVerboseFlag(cmd)
	logger, err := logging.New(format, verbose)
	if err != nil {
		return nil, err
	}

	if cfg != nil {
		logger.Verbose("using config %s", configSource(cmd))
	}
	return &settings{config: cfg, logger: logger, verbose: verbose}, nil
}

func loadProjectConfig(cmd *cobra.Command) (*config.ProjectConfig, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		cfg, err := config.LoadFile(path)
		if errors.Is(err, config.ErrConfigNotFound) {
			return nil, fmt.Errorf("%s: %w: %w", path, aipx.ErrInvalidConfig, err)
		}
		return cfg, err
	}

	cfg, err := config.Load(".")
	if errors.Is(err, config.ErrConfigNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", config.ConfigFileName, err)
	}
	return cfg, nil
}

func configSource(cmd *cobra.Command) string {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		return path
	}
	return config.ConfigFileName
}

// profileFlags override the profile section of the config file.
type profileFlags struct {
	mode      string
	structMap string
	files     []string
}

func (f *profileFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.mode, "mode", "m", "",
		"Profile mode: folder|root|custom (default: folder, or profile.mode from the config file)")
	cmd.Flags().StringVar(&f.structMap, "struct-map", "",
		"ID or LABEL of the custom structMap (custom mode)")
	cmd.Flags().StringArrayVar(&f.files, "file", nil,
		"Regex selecting content paths (root and custom modes, repeatable).\n"+
			"Replaces profile.files from the config file.")
	_ = cmd.RegisterFlagCompletionFunc("mode", completeModes)
}

// resolve merges the flags over the config profile and builds it.
func (f *profileFlags) resolve(cfg *config.ProjectConfig) (aipx.Profile, error) {
	var pc config.ProfileConfig
	if cfg != nil {
		pc = cfg.Profile
	}
	if f.mode != "" && f.mode != pc.Mode {
		// Content and text rules of the config belong to its own mode.
		pc.Mode, pc.Files, pc.Texts = f.mode, nil, nil
	}
	if f.structMap != "" {
		pc.StructMap = f.structMap
	}
	if len(f.files) > 0 {
		pc.Files = f.files
	}
	return pc.Build()
}

// connectionFlags override the database section of the config file.
type connectionFlags struct {
	url            string
	authMethod     string
	awsRegion      string
	googleInstance string
}

func (f *connectionFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.url, "database-url", "",
		"PostgreSQL connection string.\n"+
			"Precedence: --database-url > $"+config.EnvDatabaseURL+" > $"+config.EnvDatabaseURLStd+" > database.url")
	cmd.Flags().StringVar(&f.authMethod, "auth-method", "",
		"Authentication: standard|aws|google|azure (default: standard)")
	cmd.Flags().StringVar(&f.awsRegion, "aws-region", "",
		"AWS region for RDS IAM authentication (default: $"+config.EnvAWSRegion+")")
	cmd.Flags().StringVar(&f.googleInstance, "google-instance", "",
		"Cloud SQL instance connection name (project:region:instance)")
	_ = cmd.RegisterFlagCompletionFunc("auth-method", completeAuthMethods)
}

// resolve merges flags over environment over the config file and validates
// the result.
func (f *connectionFlags) resolve(cfg *config.ProjectConfig) (aipx.ConnectionConfig, error) {
	var dc config.DatabaseConfig
	if cfg != nil {
		dc = cfg.Database
	}
	if f.authMethod != "" {
		dc.AuthMethod = f.authMethod
	}
	if f.googleInstance != "" {
		dc.GoogleInstance = f.googleInstance
	}

	conn, err := dc.Connection(os.Getenv)
	if err != nil {
		return aipx.ConnectionConfig{}, err
	}
	if f.url != "" {
		conn.URL = f.url
	}
	if f.awsRegion != "" {
		conn.AWSRegion = f.awsRegion
	}

	if err := conn.Validate(); err != nil {
		return aipx.ConnectionConfig{}, err
	}
	return conn, nil
}

// resolveTimeout prefers an explicit --timeout, then the config file, then
// aipx.DefaultTimeout.
func resolveTimeout(cmd *cobra.Command, cfg *config.ProjectConfig, flagTimeout time.Duration) (time.Duration, error) {
	if cmd.Flags().Changed("timeout") {
		if flagTimeout <= 0 {
			return 0, fmt.Errorf("--timeout must be positive: %w", aipx.ErrInvalidConfig)
		}
		return flagTimeout, nil
	}
	return cfg.TimeoutOrDefault()
}
