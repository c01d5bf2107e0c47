package config

import (
	"testing"

	"github.com/gofiber/fiber/v2/log"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"CHESS_ADDR", "CHESS_ALLOWED_ORIGIN", "CHESS_DB_DIR", "CHESS_LOG_LEVEL", "CHESS_SEED"} {
		t.Setenv(k, "")
	}
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":3000" || cfg.DBDir != "" || cfg.LogLevel != log.LevelInfo {
		t.Fatalf("defaults: %+v", cfg)
	}
	if cfg.Seed == 0 {
		t.Fatal("seed should come from the clock")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("CHESS_ADDR", ":8080")
	t.Setenv("CHESS_DB_DIR", "/tmp/chess")
	t.Setenv("CHESS_LOG_LEVEL", "debug")
	t.Setenv("CHESS_SEED", "42")

	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Addr != ":8080" || cfg.DBDir != "/tmp/chess" || cfg.LogLevel != log.LevelDebug || cfg.Seed != 42 {
		t.Fatalf("got %+v", cfg)
	}
}

func TestLoadRejects(t *testing.T) {
	t.Setenv("CHESS_LOG_LEVEL", "loud")
	if _, err := Load(); err == nil {
		t.Fatal("unknown level should fail")
	}
	t.Setenv("CHESS_LOG_LEVEL", "")
	t.Setenv("CHESS_SEED", "-1")
	if _, err := Load(); err == nil {
		t.Fatal("negative seed should fail")
	}
}
