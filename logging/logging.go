// Package logging builds the slog loggers of the plugin and the host. A plugin
// has no console worth speaking of, so by default it logs to a file in the user
// config directory.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Config selects where logs go and how much of them.
type Config struct {
	Level string `yaml:"level"`
	// File is the log file path; empty or "stderr" logs to standard error.
	File string `yaml:"file"`
}

const (
	EnvLog      = "CAVE_LOG"
	EnvLogLevel = "CAVE_LOG_LEVEL"
	Stderr      = "stderr"

	DefaultLevel = "info"

	dirPermissions  = 0o700
	filePermissions = 0o600
)

// ParseLevel converts a level name to a slog level; unknown names are info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns a text logger writing to w.
func New(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// DefaultFile is the log file of the plugin: cave.log in the Cave config
// directory.
func DefaultFile() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "Cave", "cave.log"), nil
}

// FromEnv reads the configuration from CAVE_LOG and CAVE_LOG_LEVEL, falling
// back to the default log file at info level.
func FromEnv() Config {
	cfg := Config{Level: os.Getenv(EnvLogLevel), File: os.Getenv(EnvLog)}
	if cfg.Level == "" {
		cfg.Level = DefaultLevel
	}
	if cfg.File == "" {
		if f, err := DefaultFile(); err == nil {
			cfg.File = f
		} else {
			cfg.File = Stderr
		}
	}
	return cfg
}

// Open builds the logger described by cfg. The returned closer releases the
// log file; it is a no-op for standard error.
func Open(cfg Config) (*slog.Logger, io.Closer, error) {
	level := ParseLevel(cfg.Level)
	if cfg.File == "" || cfg.File == Stderr {
		return New(os.Stderr, level), nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), dirPermissions); err != nil {
		return nil, nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, filePermissions)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file %s: %w", cfg.File, err)
	}
	return New(f, level), f, nil
}

// OpenOrDiscard is Open for contexts that cannot report errors, like a plugin
// being instantiated: on failure logs are dropped.
func OpenOrDiscard(cfg Config) (*slog.Logger, io.Closer) {
	l, c, err := Open(cfg)
	if err != nil {
		return slog.New(slog.DiscardHandler), nopCloser{}
	}
	return l, c
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
