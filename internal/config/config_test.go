package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfigContent = `
[development]
host = "localhost"
port = 9000
environment = "development"
log_level = "trace"
log_to_stdout = true
postgres_host = "localhost"
postgres_port = "5432"
postgres_db_name = "pushups"
redis_host = "localhost"
redis_port = "6379"
prometheus_metrics_host = "localhost"
prometheus_metrics_port = "9001"

[production]
host = ""
port = 8080
environment = "production"
log_level = "info"
logs_path = "/var/log/pushup-tracker"
sentry_enabled = true
postgres_host = "db"
postgres_port = "5432"
postgres_db_name = "pushups"
postgres_user = "pushups"
redis_host = "redis"
redis_port = "6379"
prometheus_metrics_host = ""
prometheus_metrics_port = "9001"
join_rate_limit_allowed_per_min = 5
reminder_check_interval_seconds = 60
`

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(testConfigContent), 0o600))

	devCfg, err := Load("dev", path)
	require.NoError(t, err)
	assert.Equal(t, 9000, devCfg.Port)
	assert.Equal(t, "trace", devCfg.LogLevel)
	assert.True(t, devCfg.LogToStdout)
	// defaults applied
	assert.Equal(t, 30, devCfg.ReminderCheckIntervalSeconds)
	assert.Equal(t, 10, devCfg.JoinRateLimitAllowedPerMin)

	prodCfg, err := Load("production", path)
	require.NoError(t, err)
	assert.Equal(t, 8080, prodCfg.Port)
	assert.True(t, prodCfg.SentryEnabled)
	assert.Equal(t, "pushups", prodCfg.PostgresUser)
	assert.Equal(t, 5, prodCfg.JoinRateLimitAllowedPerMin)
	assert.Equal(t, 60, prodCfg.ReminderCheckIntervalSeconds)

	_, err = Load("staging", path)
	require.Error(t, err)
}
