package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestConfigInitAndShow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "taskboard.yaml")
	out, err := run(t, "config", "init", path)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	if !strings.Contains(out, "wrote "+path) {
		t.Fatalf("unexpected output: %q", out)
	}
	if _, err := run(t, "config", "init", path); err == nil {
		t.Fatalf("expected init to refuse overwriting")
	}

	t.Setenv("TASKBOARD_BOARD_PAGE_SIZE", "25")
	out, err = run(t, "--config", path, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "page_size: 25") {
		t.Fatalf("expected env override in output:\n%s", out)
	}
}

func TestMigrateRoundTrip(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TASKBOARD_STORAGE_PATH", filepath.Join(dir, "board.db"))
	t.Setenv("TASKBOARD_LOG_PATH", filepath.Join(dir, "board.log"))
	t.Chdir(dir)

	for _, direction := range []string{"down", "up"} {
		out, err := run(t, "migrate", direction)
		if err != nil {
			t.Fatalf("migrate %s: %v", direction, err)
		}
		if !strings.Contains(out, "migrate "+direction+": ok") {
			t.Fatalf("unexpected output: %q", out)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "board.log")); err != nil {
		t.Fatalf("expected log file: %v", err)
	}
	if _, err := run(t, "migrate", "sideways"); err == nil {
		t.Fatalf("expected invalid argument error")
	}
}
