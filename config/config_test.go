package config

import (
	"testing"

	"github.com/BigDee2008/FAQForge/repository"
	"github.com/BigDee2008/FAQForge/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	// empty variables count as unset
	for _, key := range []string{"PORT", "DAILY_LIMIT", "STORE_BACKEND", "STORAGE_TYPE", "GEMINI_MODEL", "AUTH_TOKENS", "QUOTA_TIMEZONE"} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 3, cfg.DailyLimit)
	assert.Equal(t, repository.BackendMemory, cfg.Store.Backend)
	assert.Equal(t, storage.StorageTypeLocal, cfg.Storage.Type)
	assert.Equal(t, "gemini-2.0-flash", cfg.GeminiModel)
	assert.NotNil(t, cfg.QuotaLocation)
	assert.Empty(t, cfg.AuthTokens)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DAILY_LIMIT", "5")
	t.Setenv("STORE_BACKEND", "SQLite")
	t.Setenv("QUOTA_TIMEZONE", "UTC")
	t.Setenv("AUTH_TOKENS", "abc:user_1, def:user_2")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, 5, cfg.DailyLimit)
	assert.Equal(t, repository.BackendSQLite, cfg.Store.Backend)
	assert.Equal(t, "UTC", cfg.QuotaLocation.String())
	assert.Equal(t, map[string]string{"abc": "user_1", "def": "user_2"}, cfg.AuthTokens)
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("non-positive limit", func(t *testing.T) {
		t.Setenv("DAILY_LIMIT", "0")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("unknown backend", func(t *testing.T) {
		t.Setenv("STORE_BACKEND", "cassandra")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("unknown timezone", func(t *testing.T) {
		t.Setenv("QUOTA_TIMEZONE", "Mars/Olympus_Mons")
		_, err := Load()
		assert.Error(t, err)
	})

	t.Run("malformed auth tokens", func(t *testing.T) {
		t.Setenv("AUTH_TOKENS", "missing-separator")
		_, err := Load()
		assert.Error(t, err)
	})
}
