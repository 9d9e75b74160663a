package gioui

import (
	"bytes"
	"context"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"gopkg.in/yaml.v3"
)

type Preferences struct {
	Zoom            float32       `yaml:"zoom"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
}

const (
	minZoom            = 0.25
	maxZoom            = 4
	minRefreshInterval = 5 * time.Millisecond
)

//go:embed preferences.yml
var defaultPreferencesYaml []byte

// DefaultPreferences returns the preferences embedded in the binary.
func DefaultPreferences() Preferences {
	var p Preferences
	if err := decodePreferences(defaultPreferencesYaml, &p); err != nil {
		panic(fmt.Errorf("failed to unmarshal default preferences: %w", err))
	}
	return p
}

// PreferencesPath returns where the user's preferences.yml lives.
func PreferencesPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "Cave", "preferences.yml"), nil
}

// LoadPreferences returns the defaults overridden by the file at path. A
// missing file is not an error. Out-of-range values are clamped.
func LoadPreferences(path string) (Preferences, error) {
	p := DefaultPreferences()
	if path == "" {
		return p, nil
	}
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return p, nil
	}
	if err != nil {
		return p, err
	}
	if err := decodePreferences(data, &p); err != nil {
		return DefaultPreferences(), fmt.Errorf("%s: %w", path, err)
	}
	return p.clamped(), nil
}

func decodePreferences(data []byte, target *Preferences) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(target); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (p Preferences) clamped() Preferences {
	p.Zoom = min(max(p.Zoom, minZoom), maxZoom)
	p.RefreshInterval = max(p.RefreshInterval, minRefreshInterval)
	return p
}

// WatchPreferences reloads the preferences whenever the file at path changes,
// until ctx is done. The directory of the file is created if missing, since
// fsnotify can only watch existing directories. Blocks; run it in its own
// goroutine.
func (o *Opener) WatchPreferences(ctx context.Context, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("preferences dir: %w", err)
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify: %w", err)
	}
	defer watcher.Close()
	// watch the directory: editors often replace the file instead of writing it
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(path) || ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			p, err := LoadPreferences(path)
			if err != nil {
				o.logger.Warn("reloading preferences failed", "path", path, "err", err)
				continue
			}
			o.SetPreferences(p)
			o.logger.Debug("preferences reloaded", slog.Float64("zoom", float64(p.Zoom)), slog.Duration("refresh", p.RefreshInterval))
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			o.logger.Warn("watching preferences", "err", err)
		}
	}
}
