// Package watch monitors the save location and re-converges the manifest
// when script files change. Change bursts are debounced so a bulk edit
// triggers one convergence, not one per file.
package watch

import (
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher monitors one directory for script/style changes.
type Watcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	dir       string
	ignored   []string
	onChange  func([]string) error
	log       *zap.Logger
	stopChan  chan struct{}
	stopOnce  sync.Once
	wg        sync.WaitGroup
}

// New creates a watcher over dir. ignored names (exact base-name matches,
// e.g. the manifest file) never trigger onChange.
func New(dir string, ignored []string, onChange func([]string) error, log *zap.Logger) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = zap.NewNop()
	}

	w := &Watcher{
		watcher:   fsw,
		debouncer: NewDebouncer(100 * time.Millisecond),
		dir:       dir,
		ignored:   ignored,
		onChange:  onChange,
		log:       log,
		stopChan:  make(chan struct{}),
	}
	w.debouncer.SetCallback(func(files []string) {
		if err := w.onChange(files); err != nil {
			w.log.Error("change handler failed", zap.Error(err))
		}
	})
	return w, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(w.dir); err != nil {
		return err
	}
	w.log.Info("watching save location", zap.String("dir", w.dir))

	w.wg.Add(1)
	go w.loop()
	return nil
}

// Stop stops the watcher and waits for the loop to exit.
func (w *Watcher) Stop() error {
	w.stopOnce.Do(func() { close(w.stopChan) })
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) loop() {
	defer w.wg.Done()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if w.shouldIgnore(event.Name) {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0 {
				w.log.Debug("file changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
				w.debouncer.Add(event.Name)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))

		case <-w.stopChan:
			return
		}
	}
}

// shouldIgnore filters out hidden entries (the trash and resource cache live
// under dot-directories), non-script extensions, and explicitly ignored
// names.
func (w *Watcher) shouldIgnore(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	rel, err := filepath.Rel(w.dir, path)
	if err == nil && strings.HasPrefix(rel, ".") {
		return true
	}
	ext := filepath.Ext(base)
	if ext != ".js" && ext != ".css" {
		return true
	}
	for _, name := range w.ignored {
		if base == name {
			return true
		}
	}
	return false
}
