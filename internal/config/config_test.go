package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "")
	t.Setenv("AUTH_SESSION_SECRET", "")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("STORE_DRIVER", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverMongo, cfg.Store.Driver)
	assert.Equal(t, "speakfree", cfg.Mongo.Database)
	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, time.Hour, cfg.Auth.VerificationCodeTTL())
	assert.Equal(t, 30*24*time.Hour, cfg.Auth.SessionTTL())
	assert.Equal(t, 100, cfg.Suggestions.MaxTokens)
	assert.InDelta(t, 0.9, cfg.Suggestions.Temperature, 1e-9)
	assert.Equal(t, "gemini-2.0-flash", cfg.Suggestions.Model)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "POSTGRES")
	t.Setenv("POSTGRES_DSN", "postgres://u:p@localhost:5432/speakfree")
	t.Setenv("AUTH_VERIFICATION_CODE_TTL_MINUTES", "15")
	t.Setenv("AUTH_BCRYPT_COST", "not-a-number")
	t.Setenv("REDIS_ADDR", "127.0.0.1:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverPostgres, cfg.Store.Driver)
	assert.Equal(t, 15*time.Minute, cfg.Auth.VerificationCodeTTL())
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, "127.0.0.1:6379", cfg.Redis.Addr)
}

func TestLoad_RejectsMissingConnectionString(t *testing.T) {
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("MONGODB_URI", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MONGODB_URI")
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORE_DRIVER", "sqlite")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("REDIS_DB", "x")

	_, err := Load()
	require.Error(t, err)
}

func TestLoad_MemoryDriverNeedsNoConnectionString(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("MONGODB_URI", "")
	t.Setenv("POSTGRES_DSN", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, StoreDriverMemory, cfg.Store.Driver)
}

func TestLoad_RejectsDefaultSecretOutsideDevelopment(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_SESSION_SECRET", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AUTH_SESSION_SECRET")

	t.Setenv("AUTH_SESSION_SECRET", "a-long-random-secret")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "a-long-random-secret", cfg.Auth.SessionSecret)
}

func TestLoad_DefaultSecretAllowedInDevelopment(t *testing.T) {
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("APP_ENV", "development")
	t.Setenv("AUTH_SESSION_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, DefaultSessionSecret, cfg.Auth.SessionSecret)
}
