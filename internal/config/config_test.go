package config

import (
	"testing"
	"time"

	"github.com/VitaminP8/blogery/internal/apperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	t.Run("Memory storage with defaults", func(t *testing.T) {
		t.Setenv("SECRET_KEY", "test_secret")
		t.Setenv("PORT", "")
		t.Setenv("SESSION_IDLE_TIMEOUT", "")

		cfg, err := Load(StorageMemory)
		require.NoError(t, err)
		assert.Equal(t, "8080", cfg.Port)
		assert.Equal(t, StorageMemory, cfg.Storage)
		assert.Equal(t, "test_secret", cfg.Auth.SecretKey)
		assert.Zero(t, cfg.Auth.SessionIdleTimeout)
		assert.False(t, cfg.SMTP.Enabled())
	})

	t.Run("Postgres storage needs database settings", func(t *testing.T) {
		t.Setenv("SECRET_KEY", "test_secret")
		t.Setenv("DB_HOST", "")
		t.Setenv("DB_USER", "")
		t.Setenv("DB_PASSWORD", "")
		t.Setenv("DB_NAME", "")

		_, err := Load(StoragePostgres)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "DB_HOST")
		assert.Contains(t, err.Error(), "DB_NAME")
	})

	t.Run("Postgres storage builds a DSN", func(t *testing.T) {
		t.Setenv("SECRET_KEY", "test_secret")
		t.Setenv("DB_HOST", "db")
		t.Setenv("DB_USER", "blog")
		t.Setenv("DB_PASSWORD", "pw")
		t.Setenv("DB_NAME", "blog")
		t.Setenv("DB_PORT", "")

		cfg, err := Load(StoragePostgres)
		require.NoError(t, err)
		assert.Equal(t, "host=db user=blog password=pw dbname=blog port=5432 sslmode=disable", cfg.DB.DSN())
	})

	t.Run("All problems are reported together", func(t *testing.T) {
		t.Setenv("SECRET_KEY", "")
		t.Setenv("SESSION_IDLE_TIMEOUT", "soon")
		t.Setenv("COOKIE_SECURE", "maybe")

		_, err := Load("sqlite")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SECRET_KEY")
		assert.Contains(t, err.Error(), "SESSION_IDLE_TIMEOUT")
		assert.Contains(t, err.Error(), "COOKIE_SECURE")
		assert.Contains(t, err.Error(), "unknown storage type: sqlite")
		assert.Equal(t, apperror.Config, apperror.TypeOf(err))
	})

	t.Run("Optional values are parsed", func(t *testing.T) {
		t.Setenv("SECRET_KEY", "test_secret")
		t.Setenv("SESSION_IDLE_TIMEOUT", "30m")
		t.Setenv("CORS_ALLOWED_ORIGINS", "http://a.test, http://b.test")
		t.Setenv("SMTP_HOST", "smtp.test")
		t.Setenv("CONTACT_RECIPIENT", "owner@blog.test")

		cfg, err := Load(StorageMemory)
		require.NoError(t, err)
		assert.Equal(t, 30*time.Minute, cfg.Auth.SessionIdleTimeout)
		assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins)
		assert.True(t, cfg.SMTP.Enabled())
	})

	t.Run("Durable storage is the default", func(t *testing.T) {
		t.Setenv("SECRET_KEY", "test_secret")
		t.Setenv("STORAGE", "")
		t.Setenv("DB_HOST", "localhost")
		t.Setenv("DB_USER", "blog")
		t.Setenv("DB_PASSWORD", "secret")
		t.Setenv("DB_NAME", "blog")

		cfg, err := Load("")
		require.NoError(t, err)
		assert.Equal(t, StoragePostgres, cfg.Storage)

		t.Setenv("STORAGE", StorageMemory)
		cfg, err = Load("")
		require.NoError(t, err)
		assert.Equal(t, StorageMemory, cfg.Storage)
	})
}
