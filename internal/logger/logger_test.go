package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNew_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "musicsite.log")

	l, err := New(Config{Level: "info", Format: "json", File: path, MaxSize: 1})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	l.Debug("hidden")
	l.Info("track changed", zap.Int("index", 3))
	_ = l.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1: %s", len(lines), data)
	}
	var rec map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &rec); err != nil {
		t.Fatalf("log line is not JSON: %v", err)
	}
	if rec["msg"] != "track changed" || rec["index"] != float64(3) || rec["level"] != "info" {
		t.Errorf("record = %v", rec)
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	if _, err := New(Config{Level: "loud"}); err == nil {
		t.Error("unknown level should fail")
	}
	if _, err := New(Config{Format: "xml"}); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestInit_ReplacesGlobal(t *testing.T) {
	before := L()
	t.Cleanup(func() {
		mu.Lock()
		global = before
		mu.Unlock()
	})

	l, err := Init(Config{Level: "warn"})
	if err != nil {
		t.Fatal(err)
	}
	if L() != l {
		t.Error("L() should return the initialized logger")
	}
	if L().Core().Enabled(zap.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
}
