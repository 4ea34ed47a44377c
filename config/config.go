package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config хранит все переменные окружения для проекта.
type Config struct {
	Addr         string
	DatabaseURL  string // пусто — аккаунты в памяти
	JWTSecret    string
	AuthRequired bool

	NatsURL           string // пусто — события присутствия никуда не публикуются
	NatsSubjectPrefix string

	AllowedOrigins []string // пусто — разрешены любые
	BannedWords    []string

	MaxMessageLength  int
	MaxUsernameLength int
	MaxRoomLength     int
	MaxFrameSize      int64

	RateLimitPerSecond float64
	RateLimitBurst     int

	ShutdownTimeout time.Duration
}

// Load собирает конфигурацию из переменных окружения.
// .env читается заранее (godotenv в main). Некорректные значения заменяются значениями по умолчанию.
func Load() *Config {
	cfg := &Config{
		Addr:               getString("ADDR", ":8080"),
		DatabaseURL:        os.Getenv("DATABASE_URL"),
		JWTSecret:          os.Getenv("JWT_SECRET"),
		AuthRequired:       getBool("AUTH_REQUIRED", false),
		NatsURL:            os.Getenv("NATS_URL"),
		NatsSubjectPrefix:  getString("NATS_SUBJECT_PREFIX", "chat.presence"),
		AllowedOrigins:     getList("ALLOWED_ORIGINS"),
		BannedWords:        getList("BANNED_WORDS"),
		MaxMessageLength:   getInt("MAX_MESSAGE_LENGTH", 2000),
		MaxUsernameLength:  getInt("MAX_USERNAME_LENGTH", 24),
		MaxRoomLength:      getInt("MAX_ROOM_LENGTH", 64),
		MaxFrameSize:       int64(getInt("MAX_FRAME_SIZE", 16*1024)),
		RateLimitPerSecond: getFloat("RATE_LIMIT_PER_SECOND", 5),
		RateLimitBurst:     getInt("RATE_LIMIT_BURST", 10),
		ShutdownTimeout:    getDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "dev-secret" // для локальной разработки
		log.Printf("[dev] JWT_SECRET not set, using default secret")
	}
	return cfg
}

func getString(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("invalid %s=%q, using %d", key, v, def)
		return def
	}
	return n
}

func getFloat(key string, def float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || f < 0 {
		log.Printf("invalid %s=%q, using %g", key, v, def)
		return def
	}
	return f
}

func getBool(key string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("invalid %s=%q, using %t", key, v, def)
		return def
	}
	return b
}

func getDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("invalid %s=%q, using %s", key, v, def)
		return def
	}
	return d
}

// getList разбирает список через запятую
func getList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
