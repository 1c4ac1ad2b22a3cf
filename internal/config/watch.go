package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watch re-reads the config file whenever it changes and hands the logging
// section to apply. Everything outside logging is immutable for the process
// lifetime, so a changed file otherwise takes effect on restart only.
//
// The parent directory is watched, not the file: editors and configuration
// management tend to replace the file, which would silently detach a
// file-level watch.
func Watch(ctx context.Context, path string, log zerolog.Logger, apply func(LoggingConfig)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		_ = w.Close()
		return err
	}
	base := filepath.Base(path)

	go func() {
		defer w.Close()

		// Debounce: editors fire several events per save.
		var pending *time.Timer
		const settle = 250 * time.Millisecond

		reload := func() {
			cfg, err := Load(path)
			if err != nil {
				log.Warn().Err(err).Str("path", path).Msg("config reload skipped")
				return
			}
			apply(cfg.Logging)
			log.Info().Str("level", cfg.Logging.Level).Msg("logging config reloaded")
		}

		for {
			select {
			case <-ctx.Done():
				if pending != nil {
					pending.Stop()
				}
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Base(ev.Name) != base {
					continue
				}
				if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
					continue
				}
				if pending != nil {
					pending.Stop()
				}
				pending = time.AfterFunc(settle, reload)
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Warn().Err(err).Msg("config watcher error")
			}
		}
	}()

	return nil
}
