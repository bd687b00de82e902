package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// fileWatcher reports writes to one file. The parent directory is watched
// so that editors which save by renaming a temp file are still seen.
type fileWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	onWrite func()
	logger  *slog.Logger
}

// watchFile calls onWrite after each write to path until ctx ends or the
// watcher is closed.
func watchFile(ctx context.Context, path string, onWrite func(), logger *slog.Logger) (*fileWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	path = filepath.Clean(path)
	if err := w.Add(filepath.Dir(path)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}

	fw := &fileWatcher{watcher: w, path: path, onWrite: onWrite, logger: logger}
	go fw.loop(ctx)
	return fw, nil
}

func (fw *fileWatcher) loop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fw.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != fw.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				fw.logger.Debug("file changed", "path", fw.path, "op", event.Op.String())
				fw.onWrite()
			}
		case err, ok := <-fw.watcher.Errors:
			if !ok {
				return
			}
			fw.logger.Warn("watcher error", "path", fw.path, "error", err)
		}
	}
}

// Close stops watching.
func (fw *fileWatcher) Close() error {
	return fw.watcher.Close()
}
