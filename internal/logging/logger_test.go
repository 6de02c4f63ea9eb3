package logging

import (
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoggerWritesLeveledLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "taskboard.log")
	logger, err := New(path, LevelInfo)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	defer logger.Close()
	logger.clock = func() time.Time { return time.Date(2026, 2, 9, 12, 0, 0, 0, time.UTC) }

	logger.Debugf("hidden %d", 1)
	logger.Infof("sync ok: %d tasks", 3)
	logger.Warnf("update failed for %s\n", "task-1")

	lines := logger.Tail(10)
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %v", len(lines), lines)
	}
	if lines[0] != "2026-02-09T12:00:00Z INFO  sync ok: 3 tasks" {
		t.Fatalf("unexpected first line: %q", lines[0])
	}
	if !strings.Contains(lines[1], "WARN  update failed for task-1") {
		t.Fatalf("unexpected second line: %q", lines[1])
	}
}

func TestLoggerTailLimitsAndWriter(t *testing.T) {
	logger, err := New(filepath.Join(t.TempDir(), "a.log"), LevelDebug)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	defer logger.Close()

	if _, err := logger.Write([]byte("GET /api/tasks 200\n\nPUT /api/tasks/1 404\n")); err != nil {
		t.Fatalf("write: %v", err)
	}
	lines := logger.Tail(1)
	if len(lines) != 1 || !strings.HasSuffix(lines[0], "PUT /api/tasks/1 404") {
		t.Fatalf("unexpected tail: %v", lines)
	}
}

func TestNilLoggerIsSafe(t *testing.T) {
	var logger *Logger
	logger.Infof("nothing")
	if logger.Tail(5) != nil || logger.Path() != "" || logger.Close() != nil {
		t.Fatal("expected nil logger to be inert")
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("warn") != LevelWarn || ParseLevel("bogus") != LevelInfo {
		t.Fatal("unexpected level parsing")
	}
}
