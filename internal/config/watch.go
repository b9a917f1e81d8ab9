package config

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/thruflo/curvr/internal/logging"
)

// reloadSettle is how long the config file must go without events before it
// is reloaded. A save usually arrives as a truncate and one or more writes.
const reloadSettle = 50 * time.Millisecond

// Watch monitors the config file under basePath and calls onChange with the
// reloaded Config once a save has settled. It blocks until ctx is cancelled.
//
// The directory is watched rather than the file so that editors which save
// by rename are picked up. A reload that fails to parse or validate, or
// that finds the file empty, is logged and the previous config stays in
// effect.
func Watch(ctx context.Context, basePath string, onChange func(*Config)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	path := Path(basePath)
	dir := filepath.Dir(path)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create config watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	log := logging.With("path", path)
	log.Info("watching config")

	// Each event re-arms the timer; a timer that fires after being replaced
	// carries a stale generation and is ignored.
	var (
		timer      *time.Timer
		generation uint64
	)
	reload := make(chan uint64)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			if timer != nil {
				timer.Stop()
			}
			generation++
			gen := generation
			timer = time.AfterFunc(reloadSettle, func() {
				select {
				case reload <- gen:
				case <-ctx.Done():
				}
			})

		case gen := <-reload:
			if gen != generation {
				continue
			}
			cfg, err := reloadFile(path)
			if err != nil {
				log.Warn("config reload failed, keeping previous config", "error", err)
				continue
			}
			if cfg == nil {
				log.Debug("config file empty, waiting for the rest of the save")
				continue
			}

			log.Info("config reloaded", "default_pipe_radius", cfg.Pipe.DefaultRadiusMM)
			onChange(cfg)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("config watcher error", "error", err)
		}
	}
}

// reloadFile loads the config at path for a live reload. An empty file is
// most likely a save in progress, so it returns nil rather than defaults.
func reloadFile(path string) (*Config, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	if info.Size() == 0 {
		return nil, nil
	}
	return LoadFile(path)
}
