package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/healthsignal/health-engine/pkg/apperrors"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("1.2.3")
	require.NoError(t, err)

	assert.Equal(t, "1.2.3", cfg.Version)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "stdio", cfg.Transport)
	assert.Equal(t, "3443", cfg.Port)
	assert.Equal(t, "static", cfg.DefaultSource)
	assert.Equal(t, "data", cfg.StaticDataDir)
	assert.Equal(t, 60, cfg.SingleTimeoutSeconds)
	assert.Equal(t, 120, cfg.BatchTimeoutSeconds)
	assert.Equal(t, "https://api.airtable.com", cfg.Airtable.Endpoint)
	assert.Equal(t, 5432, cfg.Postgres.Port)
	assert.Equal(t, "disable", cfg.Postgres.SSLMode)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("TRANSPORT", "http")
	t.Setenv("PORT", "8080")
	t.Setenv("AIRTABLE_API_KEY", "patTESTTESTTEST")
	t.Setenv("AIRTABLE_BASE_ID", "appTEST")

	cfg, err := Load("dev")
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "http", cfg.Transport)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "patTESTTESTTEST", cfg.Airtable.APIKey)
	assert.Equal(t, "appTEST", cfg.Airtable.BaseID)
	assert.True(t, cfg.Airtable.Configured())
}

func TestLoadRejectsInvalidDefaultSource(t *testing.T) {
	t.Setenv("DEFAULT_DATA_SOURCE", "salesforce")

	_, err := Load("dev")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid default_source")
}

func TestAirtableValidate(t *testing.T) {
	c := AirtableConfig{}
	err := c.Validate()
	require.Error(t, err)
	assert.True(t, apperrors.IsConfig(err))
	assert.Contains(t, err.Error(), "AIRTABLE_API_KEY")

	c.APIKey = "patX"
	assert.NoError(t, c.Validate())
}

func TestPostgresValidate(t *testing.T) {
	c := PostgresConfig{}
	err := c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PGHOST")

	c.Host = "localhost"
	err = c.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PGDATABASE")

	c.Database = "crm"
	assert.NoError(t, c.Validate())
	assert.True(t, c.Configured())
}

func TestPostgresConnectionString(t *testing.T) {
	c := PostgresConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "engine",
		Password: "secret",
		Database: "crm",
		SSLMode:  "require",
	}
	got := c.ConnectionString()
	assert.Equal(t,
		"host=db.internal port=5432 user=engine password=secret dbname=crm sslmode=require",
		got)
}

func TestAIConfigured(t *testing.T) {
	c := AIConfig{}
	assert.False(t, c.Configured())

	c.Provider = "openai"
	assert.False(t, c.Configured())

	c.APIKey = "sk-test"
	assert.True(t, c.Configured())
}
