package server

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/livefir/storefront/internal/live"
)

const reloadDebounce = 100 * time.Millisecond

// templateWatcher re-parses page templates when their files change. Each
// page reads from <dir>/<page>/templates, the layout of internal/app.
type templateWatcher struct {
	dir     string
	pages   map[string]*live.Template
	watcher *fsnotify.Watcher
	log     *zap.Logger
}

func newTemplateWatcher(dir string, pages map[string]*live.Template, logger *zap.Logger) (*templateWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	tw := &templateWatcher{dir: dir, pages: pages, watcher: w, log: logger.Named("reload")}
	for name := range pages {
		path := filepath.Join(dir, name, "templates")
		if err := w.Add(path); err != nil {
			w.Close()
			return nil, fmt.Errorf("watch %s: %w", path, err)
		}
	}
	return tw, nil
}

// page returns the page a changed file belongs to.
func (tw *templateWatcher) page(path string) (string, bool) {
	if !strings.HasSuffix(path, ".tmpl") {
		return "", false
	}
	name := filepath.Base(filepath.Dir(filepath.Dir(path)))
	_, ok := tw.pages[name]
	return name, ok
}

func (tw *templateWatcher) reload(name string) {
	fsys := os.DirFS(filepath.Join(tw.dir, name))
	if err := tw.pages[name].Reload(fsys); err != nil {
		tw.log.Error("template reload failed, keeping previous version", zap.String("page", name), zap.Error(err))
		return
	}
	tw.log.Info("templates reloaded", zap.String("page", name))
}

// run handles events until ctx is done. Bursts of writes to one page
// collapse into a single reload.
func (tw *templateWatcher) run(ctx context.Context) error {
	defer tw.watcher.Close()

	pending := make(map[string]time.Time)
	ticker := time.NewTicker(reloadDebounce / 2)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-tw.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if name, ok := tw.page(event.Name); ok {
				pending[name] = time.Now()
			}
		case err, ok := <-tw.watcher.Errors:
			if !ok {
				return nil
			}
			tw.log.Warn("watch error", zap.Error(err))
		case now := <-ticker.C:
			for name, at := range pending {
				if now.Sub(at) >= reloadDebounce {
					delete(pending, name)
					tw.reload(name)
				}
			}
		}
	}
}
