package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load defaults: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "board.yaml")
	content := `
storage:
  driver: sqlite
  path: data/board.db
board:
  refresh_interval: 5s
  page_size: 25
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("TASKBOARD_BOARD_PAGE_SIZE", "40")
	t.Setenv("TASKBOARD_SERVER_ADDR", ":9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Storage.Path != "data/board.db" || cfg.Board.RefreshInterval != 5*time.Second {
		t.Fatalf("file values not applied: %+v", cfg)
	}
	if cfg.Board.PageSize != 40 || cfg.Server.Addr != ":9090" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if cfg.Log.Level != "debug" || cfg.Board.AlertBuffer != 64 {
		t.Fatalf("unexpected merged config: %+v", cfg)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config file")
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.Storage.Driver = "mongo"
	if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected ErrInvalid for driver, got %v", err)
	}

	cfg = Default()
	cfg.Storage.Driver = "postgres"
	if err := cfg.Validate(); err == nil || !strings.Contains(err.Error(), "dsn") {
		t.Fatalf("expected dsn error, got %v", err)
	}

	cfg = Default()
	cfg.Board.RefreshInterval = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected refresh interval error")
	}

	t.Setenv("TASKBOARD_LOG_LEVEL", "loud")
	t.Chdir(t.TempDir())
	if _, err := Load(""); !errors.Is(err, ErrInvalid) {
		t.Fatalf("expected invalid log level from env, got %v", err)
	}
}

func TestWriteDefaultRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conf", DefaultFile)
	if err := WriteDefault(path, false); err != nil {
		t.Fatalf("write default: %v", err)
	}
	if err := WriteDefault(path, false); err == nil {
		t.Fatal("expected refusal to overwrite")
	}
	if err := WriteDefault(path, true); err != nil {
		t.Fatalf("forced write: %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read written config: %v", err)
	}
	if !strings.HasPrefix(string(raw), "# taskboard configuration") {
		t.Fatalf("missing header comment: %q", raw)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load written config: %v", err)
	}
	if cfg != Default() {
		t.Fatalf("round trip mismatch: %+v", cfg)
	}
}
