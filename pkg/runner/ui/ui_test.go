package ui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLoggerWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tasks.log")
	logger, closeLog, err := NewLogger(path)
	if err != nil {
		t.Fatalf("new logger: %v", err)
	}
	logger.Debug("stale fetch discarded", "token", 3)
	closeLog()

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(b), "stale fetch discarded") || !strings.Contains(string(b), "token=3") {
		t.Fatalf("unexpected log contents %q", b)
	}
}

func TestNewLoggerDiscardsWithoutPath(t *testing.T) {
	logger, closeLog, err := NewLogger("")
	if err != nil || logger == nil {
		t.Fatalf("expected discard logger, got %v %v", logger, err)
	}
	closeLog()
}
