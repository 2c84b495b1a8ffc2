package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type StoreDriver string

const (
	StoreMemory   StoreDriver = "memory"
	StoreSQLite   StoreDriver = "sqlite"
	StorePostgres StoreDriver = "postgres"
	StoreRedis    StoreDriver = "redis"
)

type Config struct {
	HTTPAddr string

	StoreDriver StoreDriver
	DBDSN       string

	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string

	CORSOrigins []string

	QuestionBankDir string // optional directory of YAML banks
	SeedDemo        bool
	VerifyScores    bool // recompute submitted scores against the bank

	RequestTimeout time.Duration
	LogLevel       slog.Level
}

// Load reads .env (when present) and then the process environment.
// Variables already set in the environment win over .env entries.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() Config {
	return Config{
		HTTPAddr:        envOr("HTTP_ADDR", ":8080"),
		StoreDriver:     StoreDriver(strings.ToLower(envOr("STORE_DRIVER", string(StoreMemory)))),
		DBDSN:           envOr("DB_DSN", ""),
		RedisAddr:       envOr("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         envInt("REDIS_DB", 0),
		RedisPrefix:     envOr("REDIS_PREFIX", "cognitrack"),
		CORSOrigins:     csvOr("CORS_ORIGINS", "http://localhost:5000,http://localhost:5173"),
		QuestionBankDir: os.Getenv("QUESTION_BANK_DIR"),
		SeedDemo:        envBool("SEED_DEMO", true),
		VerifyScores:    envBool("VERIFY_SCORES", false),
		RequestTimeout:  envDuration("REQUEST_TIMEOUT", 30*time.Second),
		LogLevel:        ParseLevel(envOr("LOG_LEVEL", "info")),
	}
}

// ParseLevel maps debug|info|warn|error to a slog level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func envOr(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}
func envBool(k string, def bool) bool {
	switch os.Getenv(k) {
	case "1", "true", "TRUE", "yes", "YES":
		return true
	case "0", "false", "FALSE", "no", "NO":
		return false
	default:
		return def
	}
}
func envInt(k string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(k)); err == nil {
		return v
	}
	return def
}
func envDuration(k string, def time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(k)); err == nil && d > 0 {
		return d
	}
	return def
}
func csvOr(k, def string) []string {
	v := envOr(k, def)
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
