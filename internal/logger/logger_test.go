package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	tests := []struct {
		name      string
		level     Level
		wantDebug bool
		wantInfo  bool
	}{
		{"off", LevelOff, false, false},
		{"normal", LevelNormal, false, true},
		{"verbose", LevelVerbose, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log := New(tt.level, &buf)
			log.Debug("dbg %d", 1)
			log.Info("inf %d", 2)

			out := buf.String()
			if got := strings.Contains(out, "[DBG] "); got != tt.wantDebug {
				t.Fatalf("debug present=%v, want %v: %q", got, tt.wantDebug, out)
			}
			if got := strings.Contains(out, "[INF] "); got != tt.wantInfo {
				t.Fatalf("info present=%v, want %v: %q", got, tt.wantInfo, out)
			}
		})
	}
}

func TestNamedSharesLevel(t *testing.T) {
	var buf bytes.Buffer
	root := New(LevelOff, &buf)
	child := root.Named("guide").Named("status")

	child.Error("boom")
	if buf.Len() != 0 {
		t.Fatalf("expected no output while off, got %q", buf.String())
	}

	root.SetLevel(LevelNormal)
	child.Error("boom")
	if !strings.Contains(buf.String(), "guide: status: boom") {
		t.Fatalf("expected prefixed line, got %q", buf.String())
	}
	if child.GetLevel() != LevelNormal {
		t.Fatalf("expected child level normal, got %s", child.GetLevel())
	}
}

func TestOpenFileCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "nested", "guide.log")

	f, err := OpenFile(path)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	New(LevelNormal, f).Info("hello")
	f.Close()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Fatalf("log line missing: %q", data)
	}
}

func TestOpenFileDirectoryError(t *testing.T) {
	dir := t.TempDir()
	blocker := filepath.Join(dir, "taken")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	// The parent "directory" is a regular file, so MkdirAll must fail.
	if _, err := OpenFile(filepath.Join(blocker, "sub", "guide.log")); err == nil {
		t.Fatal("expected an error when the log directory cannot be created")
	}
}
