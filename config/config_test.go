package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, DriverMySQL, cfg.DBDriver)
	assert.Equal(t, "HS256", cfg.Algorithm)
	assert.Equal(t, 30, cfg.AccessTokenExpireMinutes)
	assert.Equal(t, 30*time.Minute, cfg.TokenTTL())
	assert.Equal(t, []string{"*"}, cfg.CORSOrigins)
	assert.NotEmpty(t, cfg.SecretKey)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("ALGORITHM", "hs512")
	t.Setenv("ACCESS_TOKEN_EXPIRE_MINUTES", "90")
	t.Setenv("AI_API_KEY", "sk-test")
	t.Setenv("CORS_ORIGINS", "http://localhost:3000, https://rent.example.com")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, "s3cret", cfg.SecretKey)
	assert.Equal(t, "HS512", cfg.Algorithm)
	assert.Equal(t, 90*time.Minute, cfg.TokenTTL())
	assert.Equal(t, "sk-test", cfg.AIAPIKey)
	assert.Equal(t, []string{"http://localhost:3000", "https://rent.example.com"}, cfg.CORSOrigins)
	require.NoError(t, cfg.Validate())
}

func TestReleaseModeRequiresSecret(t *testing.T) {
	t.Setenv("GIN_MODE", "release")
	t.Setenv("SECRET_KEY", "")

	cfg := Load()
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownValues(t *testing.T) {
	cfg := Load()
	cfg.DBDriver = "oracle"
	assert.Error(t, cfg.Validate())

	cfg = Load()
	cfg.Algorithm = "RS256"
	assert.Error(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	t.Run("mysql url", func(t *testing.T) {
		cfg := &Config{DBDriver: DriverMySQL, DatabaseURL: "mysql://user:pw@db.internal:3307/rentals"}
		dsn, err := cfg.DSN()
		require.NoError(t, err)
		assert.Equal(t, "user:pw@tcp(db.internal:3307)/rentals?charset=utf8mb4&loc=UTC&parseTime=True", dsn)
	})

	t.Run("mysql url without database", func(t *testing.T) {
		cfg := &Config{DBDriver: DriverMySQL, DatabaseURL: "mysql://user:pw@db.internal/"}
		_, err := cfg.DSN()
		assert.Error(t, err)
	})

	t.Run("mysql pieces", func(t *testing.T) {
		cfg := &Config{DBDriver: DriverMySQL, DBUser: "root", DBPass: "pw", DBHost: "127.0.0.1", DBName: "rental_db"}
		dsn, err := cfg.DSN()
		require.NoError(t, err)
		assert.Equal(t, "root:pw@tcp(127.0.0.1:3306)/rental_db?charset=utf8mb4&parseTime=True&loc=UTC", dsn)
	})

	t.Run("postgres pieces on localhost disable ssl", func(t *testing.T) {
		cfg := &Config{DBDriver: DriverPostgres, DBUser: "app", DBPass: "pw", DBHost: "localhost", DBName: "rental_db"}
		dsn, err := cfg.DSN()
		require.NoError(t, err)
		assert.Contains(t, dsn, "port=5432")
		assert.Contains(t, dsn, "sslmode=disable")
	})

	t.Run("sqlite path", func(t *testing.T) {
		cfg := &Config{DBDriver: DriverSQLite, SQLitePath: "/tmp/rental.db"}
		dsn, err := cfg.DSN()
		require.NoError(t, err)
		assert.Equal(t, "/tmp/rental.db", dsn)
	})
}
