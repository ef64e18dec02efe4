// Package watcher provides live reload for the user configuration
// file. Changes on disk trigger a debounced reload callback so the
// host can re-run the merge without restarting.
package watcher

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Handler is called with the config file path after a change settles.
type Handler func(path string)

// Watcher monitors one configuration file via fsnotify.
//
// The parent directory is watched rather than the file itself, so
// editors that replace the file on save (rename-over) keep working.
type Watcher struct {
	mu sync.Mutex

	watcher  *fsnotify.Watcher
	path     string
	handler  Handler
	debounce time.Duration

	timer  *time.Timer
	closed bool
	done   chan struct{}
	wg     sync.WaitGroup
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long events must settle before the handler
// fires. Default 100ms.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// New starts watching the given config file.
func New(path string, handler Handler, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fsw,
		path:     abs,
		handler:  handler,
		debounce: 100 * time.Millisecond,
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := fsw.Add(filepath.Dir(abs)); err != nil {
		fsw.Close()
		return nil, err
	}

	w.wg.Add(1)
	go w.loop()

	return w, nil
}

// Path returns the watched file path.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops the watcher. Safe to call multiple times. A reload
// already scheduled may still fire.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	close(w.done)
	err := w.watcher.Close()
	w.wg.Wait()
	return err
}

// loop drains fsnotify events, filtering to the watched file.
func (w *Watcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.schedule()
		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Watch errors are not fatal for a config file; the next
			// successful event still reloads.
		}
	}
}

// relevant filters directory events down to writes touching our file.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if filepath.Clean(event.Name) != w.path {
		return false
	}
	return event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename)
}

// schedule arms (or re-arms) the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		w.handler(w.path)
	})
}
