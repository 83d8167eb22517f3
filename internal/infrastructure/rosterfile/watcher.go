package rosterfile

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/johnquangdev/standup-assistant/internal/domain/entities"
)

// Importer stores freshly loaded rosters
type Importer interface {
	Import(ctx context.Context, rosters []entities.Roster) (int, error)
}

// Watcher reimports the seed file whenever it changes
type Watcher struct {
	path     string
	importer Importer
	logger   *zap.Logger
	watcher  *fsnotify.Watcher
	settle   time.Duration
}

// NewWatcher watches the directory of path, so editors that replace the
// file on save are still noticed.
func NewWatcher(path string, importer Importer, logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("add watch path: %w", err)
	}

	return &Watcher{
		path:     filepath.Clean(path),
		importer: importer,
		logger:   logger,
		watcher:  fw,
		settle:   200 * time.Millisecond,
	}, nil
}

// Sync imports the file once
func (w *Watcher) Sync(ctx context.Context) (int, error) {
	rosters, err := Load(w.path)
	if err != nil {
		return 0, err
	}
	return w.importer.Import(ctx, rosters)
}

// Run blocks until ctx is done, reimporting on every write
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info("👀 Watching roster file", zap.String("path", w.path))

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			// let the writer finish
			select {
			case <-time.After(w.settle):
			case <-ctx.Done():
				return ctx.Err()
			}

			saved, err := w.Sync(ctx)
			if err != nil {
				w.logger.Error("❌ Failed to reload roster file", zap.String("path", w.path), zap.Error(err))
				continue
			}
			w.logger.Info("✅ Roster file reloaded", zap.Int("teams", saved))

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("Watcher error", zap.Error(err))
		}
	}
}

// Close stops watching
func (w *Watcher) Close() error {
	return w.watcher.Close()
}
