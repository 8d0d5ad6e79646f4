// Package watcher runs the planner whenever new media lands in a source
// directory.
package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"

	"github.com/Nomadcxx/aniarr/internal/extras"
	"github.com/Nomadcxx/aniarr/internal/logging"
	"github.com/Nomadcxx/aniarr/internal/naming"
)

type EventType string

const (
	EventCreate EventType = "create"
	EventWrite  EventType = "write"
	EventMove   EventType = "move"
	EventDelete EventType = "delete"
)

type FileEvent struct {
	Type EventType
	Path string
}

type Handler interface {
	HandleFileEvent(event FileEvent) error
	IsMediaFile(path string) bool
}

type Watcher struct {
	fsWatcher *fsnotify.Watcher
	handler   Handler
	recursive bool
	exclude   []string
	logger    *logging.Logger
}

type Option func(*Watcher)

// WithRecursive watches every subdirectory instead of only the root and
// its extras containers.
func WithRecursive(recursive bool) Option {
	return func(w *Watcher) {
		w.recursive = recursive
	}
}

// WithExclude ignores events at or below the given paths.
func WithExclude(paths ...string) Option {
	return func(w *Watcher) {
		for _, p := range paths {
			if p != "" {
				w.exclude = append(w.exclude, filepath.Clean(p))
			}
		}
	}
}

func WithLogger(logger *logging.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

func NewWatcher(handler Handler, opts ...Option) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("unable to create watcher: %w", err)
	}

	w := &Watcher{
		fsWatcher: fsWatcher,
		handler:   handler,
		logger:    logging.Nop(),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w, nil
}

// Watch adds root and the directories below it that the planner reads.
func (w *Watcher) Watch(root string) error {
	if err := w.add(root); err != nil {
		return err
	}
	entries, err := os.ReadDir(root)
	if err != nil {
		return fmt.Errorf("unable to read %s: %w", root, err)
	}
	for _, e := range entries {
		if e.IsDir() && w.wantsDir(filepath.Join(root, e.Name())) {
			if err := w.addTree(filepath.Join(root, e.Name())); err != nil {
				return err
			}
		}
	}
	return nil
}

func (w *Watcher) add(path string) error {
	if err := w.fsWatcher.Add(path); err != nil {
		return fmt.Errorf("unable to watch %s: %w", path, err)
	}
	w.logger.Info("watcher", "watching", logging.F("path", path))
	return nil
}

func (w *Watcher) addTree(root string) error {
	if !w.recursive {
		return w.add(root)
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		if path != root && !w.wantsDir(path) {
			return filepath.SkipDir
		}
		return w.add(path)
	})
}

// wantsDir reports whether a directory below the root should be watched.
func (w *Watcher) wantsDir(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") || w.excluded(path) {
		return false
	}
	return w.recursive || extras.IsContainerDir(base)
}

func (w *Watcher) excluded(path string) bool {
	path = filepath.Clean(path)
	for _, ex := range w.exclude {
		if path == ex || strings.HasPrefix(path, ex+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// Start delivers events to the handler until ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if w.excluded(event.Name) {
				continue
			}

			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if w.wantsDir(event.Name) {
						if err := w.addTree(event.Name); err != nil {
							w.logger.Warn("watcher", "unable to watch new directory", logging.F("path", event.Name), logging.F("error", err))
						}
					}
					continue
				}
			}

			if err := w.handleEvent(event); err != nil {
				w.logger.Error("watcher", "error handling event", err, logging.F("path", event.Name))
			}

		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Warn("watcher", "watcher error", logging.F("error", err))
		}
	}
}

func (w *Watcher) Close() error {
	return w.fsWatcher.Close()
}

func (w *Watcher) handleEvent(event fsnotify.Event) error {
	if !w.handler.IsMediaFile(event.Name) {
		return nil
	}

	eventType := EventCreate
	switch {
	case event.Has(fsnotify.Write):
		eventType = EventWrite
	case event.Has(fsnotify.Rename):
		eventType = EventMove
	case event.Has(fsnotify.Remove):
		eventType = EventDelete
	}

	w.logger.Debug("watcher", "event", logging.F("type", eventType), logging.F("file", filepath.Base(event.Name)))

	return w.handler.HandleFileEvent(FileEvent{Type: eventType, Path: event.Name})
}

// IsMediaFile reports whether path has a video or subtitle extension.
func IsMediaFile(path string) bool {
	return naming.IsVideo(path) || naming.IsSubtitle(path)
}
