package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFileWritesJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "prepctl.log")
	logger, err := NewFile(path, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Debug("code entry complete")
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), `"msg":"code entry complete"`) {
		t.Fatalf("expected debug line in log, got %q", data)
	}
}

func TestNewFileInfoLevelDropsDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prepctl.log")
	logger, err := NewFile(path, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	logger.Debug("hidden")
	logger.Info("shown")
	_ = logger.Sync()

	data, _ := os.ReadFile(path)
	if strings.Contains(string(data), "hidden") || !strings.Contains(string(data), "shown") {
		t.Fatalf("unexpected log contents %q", data)
	}
}
