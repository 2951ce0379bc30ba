package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
)

type Config struct {
	Port        string
	Driver      string
	DSN         string
	StorageDir  string
	LogLevel    zerolog.Level
	MaxUploadMB int
}

// Load reads the process environment. Call godotenv.Load first to pick up a
// .env file.
func Load() Config {
	cfg := Config{
		Port:        env("PORT", "8080"),
		Driver:      strings.ToLower(env("DB_DRIVER", "postgres")),
		DSN:         dsn(),
		StorageDir:  env("STORAGE_DIR", "uploads"),
		LogLevel:    zerolog.InfoLevel,
		MaxUploadMB: 25,
	}
	if lvl, err := zerolog.ParseLevel(strings.ToLower(os.Getenv("LOG_LEVEL"))); err == nil && lvl != zerolog.NoLevel {
		cfg.LogLevel = lvl
	}
	if n, err := strconv.Atoi(os.Getenv("MAX_UPLOAD_MB")); err == nil && n > 0 {
		cfg.MaxUploadMB = n
	}
	return cfg
}

// InMemory reports whether variants live in process memory instead of
// Postgres.
func (c Config) InMemory() bool { return c.Driver == "memory" }

func dsn() string {
	if d := strings.TrimSpace(os.Getenv("DB_DSN")); d != "" {
		return d
	}
	host := env("DB_HOST", "localhost")
	port := env("DB_PORT", "5432")
	user := env("DB_USER", env("POSTGRES_USER", "postgres"))
	pass := env("DB_PASSWORD", env("POSTGRES_PASSWORD", "postgres"))
	name := env("DB_NAME", env("POSTGRES_DB", "variantstudio"))
	ssl := env("DB_SSLMODE", "disable")
	return "host=" + host + " user=" + user + " password=" + pass + " dbname=" + name + " port=" + port + " sslmode=" + ssl
}

func env(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}
