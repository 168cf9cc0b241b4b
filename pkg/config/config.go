// Package config loads engine configuration from config.yaml with
// environment variable overrides. Secrets (API keys, passwords) must only
// come from environment variables.
package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"

	"github.com/healthsignal/health-engine/pkg/apperrors"
	"github.com/healthsignal/health-engine/pkg/models"
)

// Config holds all configuration for the customer health engine.
type Config struct {
	Env     string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version string `yaml:"-"` // Set at load time, not from config

	// Transport selects how the MCP server is exposed: "stdio" for agent
	// hosts that spawn the process, "http" for the streamable HTTP endpoint.
	Transport string `yaml:"transport" env:"TRANSPORT" env-default:"stdio"`
	Port      string `yaml:"port" env:"PORT" env-default:"3443"`

	// DefaultSource is the data source selected at startup.
	DefaultSource string `yaml:"default_source" env:"DEFAULT_DATA_SOURCE" env-default:"static"`

	// StaticDataDir holds the bundled sample CSV files.
	StaticDataDir string `yaml:"static_data_dir" env:"STATIC_DATA_DIR" env-default:"data"`

	// Timeouts for bounded operations, in seconds.
	SingleTimeoutSeconds int `yaml:"single_timeout_seconds" env:"SINGLE_TIMEOUT_SECONDS" env-default:"60"`
	BatchTimeoutSeconds  int `yaml:"batch_timeout_seconds" env:"BATCH_TIMEOUT_SECONDS" env-default:"120"`

	Airtable AirtableConfig `yaml:"airtable"`
	Postgres PostgresConfig `yaml:"postgres"`
	AI       AIConfig       `yaml:"ai"`
}

// AirtableConfig holds credentials for the Airtable source.
type AirtableConfig struct {
	// APIKey is a Personal Access Token. Secret - env only.
	APIKey string `yaml:"-" env:"AIRTABLE_API_KEY"`
	// BaseID is the default base to connect to (appXXXXXXXXXXXXXX).
	BaseID string `yaml:"base_id" env:"AIRTABLE_BASE_ID" env-default:""`
	// Endpoint overrides the API base URL, mainly for tests.
	Endpoint string `yaml:"endpoint" env:"AIRTABLE_ENDPOINT" env-default:"https://api.airtable.com"`
}

// Configured reports whether the Airtable source has credentials.
func (c *AirtableConfig) Configured() bool {
	return c.APIKey != ""
}

// Validate returns a ConfigError naming the missing credential, or nil.
func (c *AirtableConfig) Validate() error {
	if c.APIKey == "" {
		return &apperrors.ConfigError{
			Missing: "AIRTABLE_API_KEY",
			Hint:    "set a Personal Access Token in the environment",
		}
	}
	return nil
}

// PostgresConfig holds connection settings for the SQL source.
type PostgresConfig struct {
	Host     string `yaml:"host" env:"PGHOST" env-default:""`
	Port     int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User     string `yaml:"user" env:"PGUSER" env-default:""`
	Password string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database string `yaml:"database" env:"PGDATABASE" env-default:""`
	SSLMode  string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`
}

// Configured reports whether the Postgres source has connection settings.
func (c *PostgresConfig) Configured() bool {
	return c.Host != "" && c.Database != ""
}

// Validate returns a ConfigError naming the missing setting, or nil.
func (c *PostgresConfig) Validate() error {
	if c.Host == "" {
		return &apperrors.ConfigError{Missing: "PGHOST", Hint: "set the database host to enable the postgres source"}
	}
	if c.Database == "" {
		return &apperrors.ConfigError{Missing: "PGDATABASE", Hint: "set the database name to enable the postgres source"}
	}
	return nil
}

// ConnectionString returns a PostgreSQL connection string.
func (c *PostgresConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// AIConfig holds settings for the optional LLM recommendation collaborator.
// When unconfigured the engine uses rule-based recommendations only.
type AIConfig struct {
	// Provider is "openai", "anthropic", or "" to disable.
	Provider string `yaml:"provider" env:"AI_PROVIDER" env-default:""`
	// Endpoint overrides the provider base URL (optional, for proxies).
	Endpoint string `yaml:"endpoint" env:"AI_ENDPOINT" env-default:""`
	Model    string `yaml:"model" env:"AI_MODEL" env-default:""`
	APIKey   string `yaml:"-" env:"AI_API_KEY"` // Secret - env only
}

// Configured reports whether an LLM provider is usable.
func (c *AIConfig) Configured() bool {
	return c.Provider != "" && c.APIKey != ""
}

// Load reads configuration from config.yaml with environment variable
// overrides. If config.yaml is absent, configuration comes from the
// environment alone. The version parameter is injected at build time.
func Load(version string) (*Config, error) {
	cfg := &Config{Version: version}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment config: %w", err)
		}
	}

	if !models.SourceType(cfg.DefaultSource).Valid() {
		return nil, fmt.Errorf("invalid default_source %q", cfg.DefaultSource)
	}

	return cfg, nil
}
