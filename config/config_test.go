package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.Mode)

	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "payment_gateway", cfg.Database.DBName)
	assert.Equal(t, int32(20), cfg.Database.MaxConns)

	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, 6379, cfg.Redis.Port)

	assert.Equal(t, 24*time.Hour, cfg.JWT.Expiry)
	assert.Equal(t, "payment-gateway", cfg.JWT.Issuer)

	assert.Equal(t, 2*time.Second, cfg.Worker.PollTimeout)
	assert.Equal(t, 5*time.Second, cfg.Worker.ShutdownGrace)
	assert.Equal(t, 5*time.Second, cfg.Worker.WebhookTimeout)
	assert.Equal(t, 10*time.Second, cfg.Worker.RetrySweepInterval)
	assert.Equal(t, time.Minute, cfg.Worker.RetryLease)
	assert.False(t, cfg.Worker.TestMode)
	assert.True(t, cfg.Worker.TestPaymentSuccess)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.False(t, cfg.Log.Pretty)
}

func TestLoad_FromYAMLFile(t *testing.T) {
	content := []byte(`
server:
  host: "127.0.0.1"
  port: 9090
  mode: "release"
database:
  host: "db.example.com"
  port: 5433
  user: "appuser"
  password: "secret123"
  dbname: "gateway_test"
  sslmode: "require"
redis:
  host: "redis.example.com"
  port: 6380
  db: 2
worker:
  test_mode: true
  retry_sweep_interval: "1s"
  webhook_timeout: "500ms"
log:
  level: "debug"
  pretty: true
`)
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "127.0.0.1", cfg.Server.Host)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "release", cfg.Server.Mode)
	assert.Equal(t, "db.example.com", cfg.Database.Host)
	assert.Equal(t, "require", cfg.Database.SSLMode)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.True(t, cfg.Worker.TestMode)
	assert.Equal(t, time.Second, cfg.Worker.RetrySweepInterval)
	assert.Equal(t, 500*time.Millisecond, cfg.Worker.WebhookTimeout)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Log.Pretty)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PGW_DATABASE_HOST", "env-db")
	t.Setenv("PGW_WORKER_TEST_MODE", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "env-db", cfg.Database.Host)
	assert.True(t, cfg.Worker.TestMode)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{
		Host: "localhost", Port: 5432,
		User: "u", Password: "p", DBName: "gw", SSLMode: "disable",
	}
	assert.Equal(t, "postgres://u:p@localhost:5432/gw?sslmode=disable", d.DSN())
}

func TestRedisConfig_Addr(t *testing.T) {
	r := RedisConfig{Host: "cache", Port: 6379}
	assert.Equal(t, "cache:6379", r.Addr())
}
