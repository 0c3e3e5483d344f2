package units

import (
	"context"
	"path/filepath"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/Simplici0/recipecost/internal/logger"
)

// Source hands out the catalog to use for one engine call.
type Source interface {
	Current() *Catalog
}

type staticSource struct{ c *Catalog }

func (s staticSource) Current() *Catalog { return s.c }

// Static wraps a fixed catalog as a Source.
func Static(c *Catalog) Source { return staticSource{c: c} }

// Watcher serves a catalog loaded from a file and swaps in a new one
// whenever the file changes. A catalog that fails to parse is logged and
// the previous one stays in service.
type Watcher struct {
	path    string
	current atomic.Pointer[Catalog]
	fsw     *fsnotify.Watcher
	log     *logger.Logger
}

// NewWatcher loads path and prepares to watch it. Call Run to start
// reloading and Close when done.
func NewWatcher(path string, log *logger.Logger) (*Watcher, error) {
	c, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	// Editors often replace the file instead of writing it, so watch the
	// directory and filter by name.
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, err
	}

	w := &Watcher{path: filepath.Clean(path), fsw: fsw, log: log}
	w.current.Store(c)
	return w, nil
}

// Current returns the most recently loaded catalog.
func (w *Watcher) Current() *Catalog {
	return w.current.Load()
}

// Run reloads the catalog on file changes until ctx is done or the
// underlying watcher is closed.
func (w *Watcher) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.reload()
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("unit catalog watcher: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	c, err := LoadFile(w.path)
	if err != nil {
		w.log.Error("reload unit catalog, keeping previous: %v", err)
		return
	}
	w.current.Store(c)
	w.log.Info("unit catalog reloaded from %s (%d units)", w.path, len(c.defs))
}

// Close stops watching.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
