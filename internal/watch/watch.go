// Package watch reruns a build whenever its configuration file changes.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce collapses the burst of events an editor save produces.
const DefaultDebounce = 300 * time.Millisecond

// Watcher calls OnChange after the watched file settles.
type Watcher struct {
	Path     string
	Debounce time.Duration
	OnChange func(ctx context.Context) error
	Log      *zap.Logger
}

// Run blocks until ctx is done. It watches the directory holding Path so
// that editors replacing the file are still seen. OnChange errors are
// logged and watching continues.
func (w *Watcher) Run(ctx context.Context) error {
	log := w.Log
	if log == nil {
		log = zap.NewNop()
	}
	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	target, err := filepath.Abs(w.Path)
	if err != nil {
		return err
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()
	if err := fw.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(target), err)
	}
	log.Info("watching", zap.String("path", target))

	tick := time.NewTicker(debounce / 4)
	defer tick.Stop()
	var pending time.Time
	for {
		select {
		case <-ctx.Done():
			log.Info("watch stopped")
			return nil

		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			log.Debug("config event", zap.String("op", ev.Op.String()))
			pending = time.Now()

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", zap.Error(err))

		case <-tick.C:
			if pending.IsZero() || time.Since(pending) < debounce {
				continue
			}
			pending = time.Time{}
			log.Info("config changed, rebuilding")
			if err := w.OnChange(ctx); err != nil {
				log.Error("rebuild failed", zap.Error(err))
			}
		}
	}
}
