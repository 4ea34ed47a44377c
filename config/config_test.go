package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"ADDR", "DATABASE_URL", "JWT_SECRET", "AUTH_REQUIRED", "NATS_URL", "NATS_SUBJECT_PREFIX",
		"ALLOWED_ORIGINS", "BANNED_WORDS", "MAX_MESSAGE_LENGTH", "MAX_USERNAME_LENGTH",
		"MAX_ROOM_LENGTH", "MAX_FRAME_SIZE", "RATE_LIMIT_PER_SECOND", "RATE_LIMIT_BURST", "SHUTDOWN_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, "dev-secret", cfg.JWTSecret)
	assert.False(t, cfg.AuthRequired)
	assert.Equal(t, "chat.presence", cfg.NatsSubjectPrefix)
	assert.Empty(t, cfg.AllowedOrigins)
	assert.Equal(t, 2000, cfg.MaxMessageLength)
	assert.Equal(t, 24, cfg.MaxUsernameLength)
	assert.Equal(t, 64, cfg.MaxRoomLength)
	assert.Equal(t, int64(16*1024), cfg.MaxFrameSize)
	assert.Equal(t, 5.0, cfg.RateLimitPerSecond)
	assert.Equal(t, 10, cfg.RateLimitBurst)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DATABASE_URL", "postgres://localhost/chat")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("AUTH_REQUIRED", "true")
	t.Setenv("NATS_URL", "nats://localhost:4222")
	t.Setenv("ALLOWED_ORIGINS", "http://localhost:8080, https://chat.example.com ,")
	t.Setenv("BANNED_WORDS", "spam,eggs")
	t.Setenv("MAX_MESSAGE_LENGTH", "500")
	t.Setenv("RATE_LIMIT_PER_SECOND", "0.5")
	t.Setenv("SHUTDOWN_TIMEOUT", "3s")

	cfg := Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "postgres://localhost/chat", cfg.DatabaseURL)
	assert.Equal(t, "s3cret", cfg.JWTSecret)
	assert.True(t, cfg.AuthRequired)
	assert.Equal(t, "nats://localhost:4222", cfg.NatsURL)
	assert.Equal(t, []string{"http://localhost:8080", "https://chat.example.com"}, cfg.AllowedOrigins)
	assert.Equal(t, []string{"spam", "eggs"}, cfg.BannedWords)
	assert.Equal(t, 500, cfg.MaxMessageLength)
	assert.Equal(t, 0.5, cfg.RateLimitPerSecond)
	assert.Equal(t, 3*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("AUTH_REQUIRED", "maybe")
	t.Setenv("MAX_MESSAGE_LENGTH", "-1")
	t.Setenv("MAX_ROOM_LENGTH", "abc")
	t.Setenv("RATE_LIMIT_PER_SECOND", "fast")
	t.Setenv("SHUTDOWN_TIMEOUT", "soon")

	cfg := Load()

	assert.False(t, cfg.AuthRequired)
	assert.Equal(t, 2000, cfg.MaxMessageLength)
	assert.Equal(t, 64, cfg.MaxRoomLength)
	assert.Equal(t, 5.0, cfg.RateLimitPerSecond)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}
