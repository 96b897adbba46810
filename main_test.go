package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBootstrapReportsMissingEnvFile(t *testing.T) {
	logFile := filepath.Join(t.TempDir(), "rental.log")
	t.Setenv("LOG_FILE", logFile)
	t.Setenv("LOG_LEVEL", "info")
	t.Setenv("GIN_MODE", "debug")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "file:bootstrap?mode=memory&cache=shared")
	t.Setenv("ADMIN_PASSWORD", "admin-pass")
	t.Setenv("SECRET_KEY", "test-secret")

	envErr = errors.New("open .env: no such file or directory")
	t.Cleanup(func() { envErr = nil })

	a, err := bootstrap(true)
	require.NoError(t, err)
	a.cleanup()

	logged, err := os.ReadFile(logFile)
	require.NoError(t, err)
	assert.Contains(t, string(logged), ".env not loaded")
	assert.Contains(t, string(logged), "default admin seeded")
}
