// Package watch re-runs the pipeline when module sources change.
//
// Every pass is triggered from scratch: the watcher only collects which
// files changed, it never carries pipeline state from one pass to the next.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/roach88/modgen/internal/config"
	"github.com/roach88/modgen/internal/manifest"
	"github.com/roach88/modgen/internal/render"
	"github.com/roach88/modgen/internal/scan"
)

// DefaultDebounce is how long the watcher waits for changes to settle.
const DefaultDebounce = 300 * time.Millisecond

// Trigger runs one pass. changed lists the files that changed since the
// previous pass, sorted.
type Trigger func(ctx context.Context, changed []string) error

// Watcher watches a module tree.
type Watcher struct {
	root     string
	extra    []string
	debounce time.Duration
	trigger  Trigger
	log      *zap.Logger
	fsw      *fsnotify.Watcher
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the settle delay.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(w *Watcher) { w.log = l }
}

// WithDirs watches additional directory trees, e.g. a manifest or template
// directory outside the module.
func WithDirs(dirs ...string) Option {
	return func(w *Watcher) { w.extra = append(w.extra, dirs...) }
}

// New creates a watcher for the tree at root.
func New(root string, trigger Trigger, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	w := &Watcher{
		root:     root,
		debounce: DefaultDebounce,
		trigger:  trigger,
		log:      zap.NewNop(),
		fsw:      fsw,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Relevant reports whether a change to the named file should trigger a pass.
func Relevant(name string) bool {
	base := filepath.Base(name)
	switch {
	case base == config.FileName:
		return true
	case strings.HasSuffix(base, ".go"):
		return scan.SourceFile(base)
	case strings.HasSuffix(base, manifest.Ext), strings.HasSuffix(base, render.Ext):
		return true
	default:
		return false
	}
}

// Run watches until ctx is done. Trigger errors are logged and do not stop
// the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()

	if err := w.addTree(w.root); err != nil {
		return err
	}
	for _, dir := range w.extra {
		if _, err := os.Stat(dir); err != nil {
			w.log.Debug("not watching missing directory", zap.String("dir", dir))
			continue
		}
		if err := w.addTree(dir); err != nil {
			return err
		}
	}
	w.log.Info("watching", zap.String("root", w.root), zap.Duration("debounce", w.debounce))

	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if !scan.SkipDir(info.Name()) {
						if err := w.addTree(ev.Name); err != nil {
							w.log.Warn("watching new directory", zap.String("dir", ev.Name), zap.Error(err))
						}
					}
					continue
				}
			}
			if ev.Op == fsnotify.Chmod || !Relevant(ev.Name) {
				continue
			}
			w.log.Debug("change", zap.String("file", ev.Name), zap.String("op", ev.Op.String()))
			pending[ev.Name] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watcher error", zap.Error(err))

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
			}
			sort.Strings(changed)
			pending = make(map[string]struct{})

			if err := w.trigger(ctx, changed); err != nil {
				w.log.Error("pass failed", zap.Error(err))
			}
		}
	}
}

// addTree watches dir and every directory below it that the scanner would
// descend into.
func (w *Watcher) addTree(dir string) error {
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && scan.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		return w.fsw.Add(p)
	})
	if err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	return nil
}
