package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2/log"
)

type Config struct {
	Addr          string
	AllowedOrigin string
	DBDir         string
	LogLevel      log.Level
	Seed          uint64
}

var logLevels = map[string]log.Level{
	"trace": log.LevelTrace,
	"debug": log.LevelDebug,
	"info":  log.LevelInfo,
	"warn":  log.LevelWarn,
	"error": log.LevelError,
}

// Load reads the CHESS_* environment variables. A zero or unset
// CHESS_SEED seeds the computer opponents from the clock.
func Load() (Config, error) {
	cfg := Config{
		Addr:          getenv("CHESS_ADDR", ":3000"),
		AllowedOrigin: getenv("CHESS_ALLOWED_ORIGIN", "http://localhost:5173"),
		DBDir:         os.Getenv("CHESS_DB_DIR"),
	}

	level, ok := logLevels[getenv("CHESS_LOG_LEVEL", "info")]
	if !ok {
		return Config{}, fmt.Errorf("unknown CHESS_LOG_LEVEL %q", os.Getenv("CHESS_LOG_LEVEL"))
	}
	cfg.LogLevel = level

	if raw := os.Getenv("CHESS_SEED"); raw != "" {
		seed, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("parse CHESS_SEED: %w", err)
		}
		cfg.Seed = seed
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
