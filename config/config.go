// Package config handles loading and validation of SDK configuration
// from environment variables and an optional YAML configuration file.
package config

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/CrashCrew/crash-crew-sdk/logger"
)

// Environment represents the embedding application's running environment.
type Environment string

const (
	EnvDevelopment Environment = "development"
	EnvProduction  Environment = "production"

	// DefaultBaseURL is the production ingestion endpoint.
	DefaultBaseURL = "https://rink.crashcrew.io"
	// DefaultUserAgent is sent on every request unless overridden.
	DefaultUserAgent = "CrashCrew/1.0 (Go SDK)"
)

// appIDPattern matches the 32-hex-digit application identifier issued by the
// backend when an app is registered.
var appIDPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

// ClientConfig holds settings shared by the feedback and crash clients.
type ClientConfig struct {
	// AppID is the 32-hex-digit application identifier.
	AppID string `mapstructure:"APP_ID" yaml:"app_id"`
	// BaseURL is the API root; endpoints are app-scoped beneath it.
	BaseURL string `mapstructure:"BASE_URL" yaml:"base_url"`
	// UserAgent is sent on every request.
	UserAgent string `mapstructure:"USER_AGENT" yaml:"user_agent"`
	// TimeoutSeconds is the HTTP client timeout for a single request.
	TimeoutSeconds int `mapstructure:"TIMEOUT_SECONDS" yaml:"timeout_seconds"`
}

// CrashConfig holds settings for the crash-report spool and uploader.
type CrashConfig struct {
	// SpoolDir is where pending crash reports are kept between launches.
	SpoolDir string `mapstructure:"SPOOL_DIR" yaml:"spool_dir"`
	// MaxPending caps the number of spooled reports; older reports are
	// dropped first once the cap is reached.
	MaxPending int `mapstructure:"MAX_PENDING" yaml:"max_pending"`
	// UploadAttempts bounds retries for a single report upload.
	UploadAttempts int `mapstructure:"UPLOAD_ATTEMPTS" yaml:"upload_attempts"`
	// PackageName identifies the embedding app in crash log headers.
	PackageName string `mapstructure:"PACKAGE_NAME" yaml:"package_name"`
	// AppVersion identifies the embedding app version in crash log headers.
	AppVersion string `mapstructure:"APP_VERSION" yaml:"app_version"`
}

// Config aggregates all SDK configuration sections.
type Config struct {
	Environment Environment  `mapstructure:"ENVIRONMENT" yaml:"environment"`
	Client      ClientConfig `mapstructure:"CLIENT" yaml:"client"`
	Crash       CrashConfig  `mapstructure:"CRASH" yaml:"crash"`
}

// IsDevelopment returns true if the SDK is running in development environment.
func (c *Config) IsDevelopment() bool {
	return c.Environment == EnvDevelopment
}

// IsProduction returns true if the SDK is running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == EnvProduction
}

// bindEnvVars binds multiple environment variables to config keys.
// Format: []{configKey, envVar}
func bindEnvVars(v *viper.Viper, bindings [][2]string) error {
	for _, b := range bindings {
		if err := v.BindEnv(b[0], b[1]); err != nil {
			return fmt.Errorf("failed to bind %s: %w", b[0], err)
		}
	}
	return nil
}

// LoadConfig loads configuration from environment variables (and an optional
// config file named by CRASHCREW_CONFIG_FILE) using Viper, sets default
// values, unmarshals the configuration, and validates it.
func LoadConfig() (*Config, error) {
	v := viper.New()
	log := logger.GetLogger()

	v.SetDefault("ENVIRONMENT", EnvDevelopment)
	v.SetDefault("CLIENT.BASE_URL", DefaultBaseURL)
	v.SetDefault("CLIENT.USER_AGENT", DefaultUserAgent)
	v.SetDefault("CLIENT.TIMEOUT_SECONDS", 10)
	v.SetDefault("CRASH.SPOOL_DIR", "crashes")
	v.SetDefault("CRASH.MAX_PENDING", 100)
	v.SetDefault("CRASH.UPLOAD_ATTEMPTS", 4)
	v.SetDefault("LOG_LEVEL", "info")

	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	envBindings := [][2]string{
		{"ENVIRONMENT", "ENVIRONMENT"},
		// Client config
		{"CLIENT.APP_ID", "CRASHCREW_APP_ID"},
		{"CLIENT.BASE_URL", "CRASHCREW_BASE_URL"},
		{"CLIENT.USER_AGENT", "CRASHCREW_USER_AGENT"},
		{"CLIENT.TIMEOUT_SECONDS", "CRASHCREW_TIMEOUT_SECONDS"},
		// Crash config
		{"CRASH.SPOOL_DIR", "CRASHCREW_SPOOL_DIR"},
		{"CRASH.MAX_PENDING", "CRASHCREW_MAX_PENDING"},
		{"CRASH.UPLOAD_ATTEMPTS", "CRASHCREW_UPLOAD_ATTEMPTS"},
		{"CRASH.PACKAGE_NAME", "CRASHCREW_PACKAGE_NAME"},
		{"CRASH.APP_VERSION", "CRASHCREW_APP_VERSION"},
	}

	if err := bindEnvVars(v, envBindings); err != nil {
		return nil, err
	}

	if cfgFile := v.GetString("CRASHCREW_CONFIG_FILE"); cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", cfgFile, err)
		}
	}

	log.Infow("Configuration loaded",
		"environment", v.GetString("ENVIRONMENT"),
		"base_url", v.GetString("CLIENT.BASE_URL"),
		"app_id", logger.MaskSensitiveString(v.GetString("CLIENT.APP_ID"), 4, 4),
		"spool_dir", v.GetString("CRASH.SPOOL_DIR"),
	)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("config unmarshal failed: %w", err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	log.Info("Configuration validated successfully")
	return &cfg, nil
}

// validateConfig checks if the loaded configuration values are valid.
func validateConfig(cfg *Config) error {
	if err := cfg.Client.Validate(); err != nil {
		return err
	}
	if cfg.Crash.MaxPending < 1 {
		return fmt.Errorf("crash max pending must be at least 1")
	}
	if cfg.Crash.UploadAttempts < 1 {
		return fmt.Errorf("crash upload attempts must be at least 1")
	}
	return nil
}

// Validate checks client settings in isolation, for callers that construct
// ClientConfig directly instead of going through LoadConfig.
func (c *ClientConfig) Validate() error {
	if !appIDPattern.MatchString(c.AppID) {
		return fmt.Errorf("app ID must be 32 lowercase hex characters")
	}
	if c.BaseURL == "" {
		return fmt.Errorf("base URL is required")
	}
	parsed, err := url.Parse(c.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("invalid base URL %q", c.BaseURL)
	}
	if c.TimeoutSeconds < 1 {
		return fmt.Errorf("timeout must be at least 1 second")
	}
	return nil
}
