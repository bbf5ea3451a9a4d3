package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))

	assert.Equal(t, 3001, cfg.Web.Port)
	assert.Equal(t, "sqlite", cfg.Database.Type)
	assert.Equal(t, "919688484344", cfg.WhatsApp.Phone)
	assert.Equal(t, 3, cfg.Admin.MaxAttempts)
	assert.Equal(t, 300, cfg.Cache.TTLSeconds)
	assert.Equal(t, 1000, cfg.Cache.MaxEntries)
	require.NoError(t, cfg.Validate())
}

func TestLoadConfigFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	cfile := filepath.Join(dir, "storefront.yml")
	content := `
system:
  workdir: ` + dir + `
web:
  port: 8080
database:
  type: postgres
  name: sarees
storage:
  driver: snapshot
admin:
  username: owner
  max_attempts: 5
`
	require.NoError(t, os.WriteFile(cfile, []byte(content), 0o644))

	t.Setenv("ADMIN_PASS", "s3cret")
	t.Setenv("PORT", "9090")
	t.Setenv("TWILIO_ACCOUNT_SID", "AC123")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")

	cfg := LoadConfig(cfile)
	assert.Equal(t, dir, cfg.System.Workdir)
	assert.Equal(t, 9090, cfg.Web.Port)
	assert.Equal(t, "postgres", cfg.Database.Type)
	assert.Equal(t, "snapshot", cfg.Storage.Driver)
	assert.Equal(t, "owner", cfg.Admin.Username)
	assert.Equal(t, "s3cret", cfg.Admin.Password)
	assert.Equal(t, 5, cfg.Admin.MaxAttempts)
	assert.Equal(t, "AC123", cfg.Twilio.AccountSid)
	assert.False(t, cfg.Twilio.Enabled())
	assert.Equal(t, "redis://localhost:6379/0", cfg.Cache.RedisURL)
	assert.Equal(t, filepath.Join(dir, "data", "storefront.snapshot.db"), cfg.GetSnapshotPath())
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsUnknownValues(t *testing.T) {
	cfg := *DefaultAppConfig
	cfg.Database.Type = "mysql"
	assert.Error(t, cfg.Validate())

	cfg = *DefaultAppConfig
	cfg.Storage.Driver = "localstorage"
	assert.Error(t, cfg.Validate())

	cfg = *DefaultAppConfig
	cfg.Admin.MaxAttempts = 0
	assert.Error(t, cfg.Validate())

	cfg = *DefaultAppConfig
	cfg.Cache.MaxEntries = 0
	assert.Error(t, cfg.Validate())
}

func TestGetSqlitePath(t *testing.T) {
	cfg := *DefaultAppConfig
	cfg.System.Workdir = "/srv/shop"
	assert.Equal(t, "/srv/shop/data/sarees.db", cfg.GetSqlitePath())

	cfg.Database.Name = ":memory:"
	assert.Equal(t, ":memory:", cfg.GetSqlitePath())
}
