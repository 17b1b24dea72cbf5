package bot

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewLogger_Stdout(t *testing.T) {
	var buf bytes.Buffer
	logger, closer, err := NewLogger(&Config{LogLevel: slog.LevelInfo}, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer closer.Close()

	logger.Debug("hidden")
	logger.Info("shown", "guild", "42")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 1 {
		t.Fatalf("expected 1 record, got %d: %q", len(lines), buf.String())
	}

	var record map[string]any
	if err := json.Unmarshal([]byte(lines[0]), &record); err != nil {
		t.Fatalf("expected JSON record: %v", err)
	}
	if record["msg"] != "shown" || record["guild"] != "42" {
		t.Errorf("unexpected record %v", record)
	}
}

func TestNewLogger_LogVolume(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")
	var buf bytes.Buffer

	logger, closer, err := NewLogger(&Config{LogLevel: slog.LevelDebug, LogVolume: dir}, &buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	logger.Debug("written twice")
	if err := closer.Close(); err != nil {
		t.Fatalf("unexpected close error: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	if err != nil {
		t.Fatalf("expected log file: %v", err)
	}
	if !strings.Contains(string(data), "written twice") {
		t.Errorf("expected record in log file, got %q", data)
	}
	if !strings.Contains(buf.String(), "written twice") {
		t.Errorf("expected record on stdout, got %q", buf.String())
	}
}

func TestNewLogFile_Rotation(t *testing.T) {
	dir := t.TempDir()
	file := newLogFile(dir)
	t.Cleanup(func() { _ = file.Close() })

	if file.Filename != filepath.Join(dir, LogFileName) {
		t.Errorf("expected file %q, got %q", filepath.Join(dir, LogFileName), file.Filename)
	}
	if file.MaxSize != 32 {
		t.Errorf("expected rotation at 32 MB, got %d", file.MaxSize)
	}
	if file.MaxBackups != 5 {
		t.Errorf("expected 5 backups, got %d", file.MaxBackups)
	}
	if file.MaxAge != 0 || file.Compress {
		t.Errorf("expected backups to be kept uncompressed by count only, got %+v", file)
	}
}
