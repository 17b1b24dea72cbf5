package bot

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	slogmulti "github.com/samber/slog-multi"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Log file settings inside Config.LogVolume.
const (
	LogFileName       = "bot.log"
	LogFileMaxSizeMB  = 32
	LogFileMaxBackups = 5
)

// NewLogger builds a JSON logger writing to stdout and, when the config
// names a log volume, to a rotating LogFileName inside it. The returned
// closer releases the log file and is never nil.
func NewLogger(cfg *Config, stdout io.Writer) (*slog.Logger, io.Closer, error) {
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	handlers := []slog.Handler{slog.NewJSONHandler(stdout, opts)}

	var closer io.Closer = nopCloser{}
	if cfg.LogVolume != "" {
		if err := os.MkdirAll(cfg.LogVolume, 0o755); err != nil {
			return nil, nil, fmt.Errorf("failed to create log volume: %w", err)
		}
		file := newLogFile(cfg.LogVolume)
		handlers = append(handlers, slog.NewJSONHandler(file, opts))
		closer = file
	}

	return slog.New(slogmulti.Fanout(handlers...)), closer, nil
}

// newLogFile rotates at LogFileMaxSizeMB and keeps LogFileMaxBackups old
// files.
func newLogFile(dir string) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   filepath.Join(dir, LogFileName),
		MaxSize:    LogFileMaxSizeMB,
		MaxBackups: LogFileMaxBackups,
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
