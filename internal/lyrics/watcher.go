package lyrics

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher reports .lrc files created or rewritten under a directory tree.
type Watcher struct {
	root string
	w    *fsnotify.Watcher
	log  *zap.Logger
}

// NewWatcher watches root and every directory below it.
func NewWatcher(root string, log *zap.Logger) (*Watcher, error) {
	if log == nil {
		log = zap.NewNop()
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	w := &Watcher{root: abs, w: fw, log: log}
	if err := w.addTree(abs); err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) addTree(dir string) error {
	return filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable subtrees are skipped, the root must be watchable.
			if p == dir {
				return err
			}
			return fs.SkipDir
		}
		if !d.IsDir() {
			return nil
		}
		if strings.HasPrefix(d.Name(), ".") && p != dir {
			return fs.SkipDir
		}
		if err := w.w.Add(p); err != nil {
			return fmt.Errorf("watch %s: %w", p, err)
		}
		return nil
	})
}

// Run delivers the slash-separated path, relative to the root, of every
// .lrc file that is created or written until ctx is done or Close is
// called.
func (w *Watcher) Run(ctx context.Context, fn func(rel string)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err, ok := <-w.w.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("lyrics watcher error", zap.Error(err))
		case ev, ok := <-w.w.Events:
			if !ok {
				return nil
			}
			w.handle(ev, fn)
		}
	}
}

func (w *Watcher) handle(ev fsnotify.Event, fn func(rel string)) {
	if ev.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := w.addTree(ev.Name); err != nil {
				w.log.Warn("watch new directory", zap.String("dir", ev.Name), zap.Error(err))
			}
			return
		}
	}
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return
	}
	if !strings.EqualFold(filepath.Ext(ev.Name), ".lrc") {
		return
	}
	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil || strings.HasPrefix(rel, "..") {
		return
	}
	w.log.Debug("lyrics file changed", zap.String("path", rel))
	fn(filepath.ToSlash(rel))
}

// Close stops watching.
func (w *Watcher) Close() error {
	err := w.w.Close()
	if errors.Is(err, fsnotify.ErrClosed) {
		return nil
	}
	return err
}
