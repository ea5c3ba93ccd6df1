package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnv(t *testing.T) {
	t.Run("returns value when set", func(t *testing.T) {
		t.Setenv("TEST_STRING", "hello")
		assert.Equal(t, "hello", GetEnv("TEST_STRING", "fallback"))
	})

	t.Run("returns default when unset", func(t *testing.T) {
		assert.Equal(t, "fallback", GetEnv("TEST_STRING_UNSET", "fallback"))
	})
}

func TestGetEnvAsInt(t *testing.T) {
	t.Run("parses integer", func(t *testing.T) {
		t.Setenv("TEST_INT", "42")
		assert.Equal(t, 42, GetEnvAsInt("TEST_INT", 7))
	})

	t.Run("falls back on junk", func(t *testing.T) {
		t.Setenv("TEST_INT", "not-a-number")
		assert.Equal(t, 7, GetEnvAsInt("TEST_INT", 7))
	})
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")
	assert.True(t, GetEnvAsBool("TEST_BOOL", false))

	t.Setenv("TEST_BOOL", "nope")
	assert.False(t, GetEnvAsBool("TEST_BOOL", false))
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "45s")
	assert.Equal(t, 45*time.Second, GetEnvAsDuration("TEST_DURATION", time.Minute))

	t.Setenv("TEST_DURATION", "later")
	assert.Equal(t, time.Minute, GetEnvAsDuration("TEST_DURATION", time.Minute))
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("APP_NAME", "jetfront-test")
	t.Setenv("SERVER_PORT", "9099")
	t.Setenv("NATS_URL", "nats://broker:4222")
	t.Setenv("JWT_KEY", "secret")
	t.Setenv("STREAM_PREFIX", "records")
	t.Setenv("WS_KEEPALIVE_INTERVAL", "10s")

	cfg := loadConfigFromEnv()

	assert.Equal(t, "jetfront-test", cfg.App.Name)
	assert.Equal(t, 9099, cfg.Server.Port)
	assert.Equal(t, "nats://broker:4222", cfg.NATS.URL)
	assert.Equal(t, "secret", cfg.JWT.Key)
	assert.Equal(t, "records", cfg.Stream.DefaultPrefix)
	assert.Equal(t, 10*time.Second, cfg.WS.KeepaliveInterval)
}

func TestLoadConfigDefaults(t *testing.T) {
	cfg := loadConfigFromEnv()

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "nats://localhost:4222", cfg.NATS.URL)
	assert.Empty(t, cfg.JWT.Key)
	assert.Equal(t, "events", cfg.Stream.DefaultPrefix)
	assert.Equal(t, 30*time.Second, cfg.WS.KeepaliveInterval)
	assert.Equal(t, 30, cfg.Server.ShutdownTimeout)
}
