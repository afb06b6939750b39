package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("ENV", "")
	t.Setenv("DEDUP_LEGACY_KEY_FIELDS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.AppEnv)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 30*time.Second, cfg.InsertTimeout)
	assert.Equal(t, 5000, cfg.ImportMaxRecords)
	assert.Empty(t, cfg.LegacyKeyFields)
	assert.False(t, cfg.IsProd())
}

func TestLoad_LegacyKeyFields(t *testing.T) {
	t.Setenv("DEDUP_LEGACY_KEY_FIELDS", " Name, email ,,property_address")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "email", "property_address"}, cfg.LegacyKeyFields)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT", "soon")

	_, err := Load()
	assert.ErrorContains(t, err, "REQUEST_TIMEOUT")
}

func TestLoad_ProdRequiresSecret(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/leads")

	_, err := Load()
	assert.ErrorContains(t, err, "JWT_SECRET")
}

func TestLoad_ProdRequiresPostgres(t *testing.T) {
	t.Setenv("APP_ENV", "release")
	t.Setenv("JWT_SECRET", "a-real-secret")
	t.Setenv("DATABASE_URL", "local.db")

	_, err := Load()
	assert.ErrorContains(t, err, "postgres")
}

func TestLoad_LockTTLShorterThanInsert(t *testing.T) {
	t.Setenv("INSERT_TIMEOUT", "2m")
	t.Setenv("IMPORT_LOCK_TTL", "1m")

	_, err := Load()
	assert.ErrorContains(t, err, "IMPORT_LOCK_TTL")
}
