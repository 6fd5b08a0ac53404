// internal/config/config_test.go
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:    AppConfig{Environment: "development"},
		Server: ServerConfig{Port: "8080"},
		Database: DatabaseConfig{
			Host: "localhost",
			Name: "cart_db",
			User: "cart_user",
		},
		Redis: RedisConfig{Host: "localhost", Port: "6379"},
		JWT:   JWTConfig{Secret: "test-secret-that-is-long-enough-for-hmac"},
		Reminder: ReminderConfig{
			Threshold:    4 * time.Hour,
			ScanInterval: 15 * time.Minute,
		},
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validConfig().Validate())
}

func TestValidate_ShortJWTSecret(t *testing.T) {
	cfg := validConfig()
	cfg.JWT.Secret = "short"

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
}

func TestValidate_MissingDatabaseHost(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Host = ""

	require.Error(t, cfg.Validate())
}

func TestValidate_NonPositiveReminderThreshold(t *testing.T) {
	cfg := validConfig()
	cfg.Reminder.Threshold = 0

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "REMINDER_THRESHOLD")
}

func TestValidate_NonPositiveScanInterval(t *testing.T) {
	cfg := validConfig()
	cfg.Reminder.ScanInterval = -time.Minute

	err := cfg.Validate()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "REMINDER_SCAN_INTERVAL")
}

func TestEnvironmentHelpers(t *testing.T) {
	cfg := validConfig()
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.IsProduction())

	cfg.App.Environment = "production"
	assert.True(t, cfg.IsProduction())
}

func TestGetDatabaseDSN(t *testing.T) {
	cfg := validConfig()
	cfg.Database.Port = "5432"
	cfg.Database.Password = "pw"
	cfg.Database.SSLMode = "disable"

	dsn := cfg.GetDatabaseDSN()

	assert.Contains(t, dsn, "host=localhost")
	assert.Contains(t, dsn, "dbname=cart_db")
	assert.Contains(t, dsn, "sslmode=disable")
}

func TestGetRedisAddr(t *testing.T) {
	assert.Equal(t, "localhost:6379", validConfig().GetRedisAddr())
}
