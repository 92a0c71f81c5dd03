// Package watch reports when the mesh file shown in the viewer changes on
// disk so the UI loop can reload it.
package watch

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/Faultbox/n3mesh-editor/internal/logger"
)

// ErrClosed is returned by Watch after Close.
var ErrClosed = errors.New("watcher closed")

// DefaultDebounce coalesces the burst of events an editor produces on save.
const DefaultDebounce = 150 * time.Millisecond

// Watcher watches a single file. It runs one goroutine that never touches
// viewer state; reload requests are delivered on Reloads.
type Watcher struct {
	fs       *fsnotify.Watcher
	reloads  chan string
	done     chan struct{}
	wg       sync.WaitGroup
	debounce time.Duration

	mu     sync.Mutex
	target string
	dir    string
	closed bool
}

// New starts a watcher with the given debounce interval.
func New(debounce time.Duration) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	w := &Watcher{
		fs:       fsw,
		reloads:  make(chan string, 1),
		done:     make(chan struct{}),
		debounce: debounce,
	}
	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Reloads delivers the watched path after it was written or replaced.
// Requests that are not drained in time are merged.
func (w *Watcher) Reloads() <-chan string { return w.reloads }

// Watch switches the watched file. The parent directory is watched because
// many programs save by writing a temp file and renaming it over the target.
func (w *Watcher) Watch(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolving %s: %w", path, err)
	}
	dir := filepath.Dir(abs)

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if dir != w.dir {
		if err := w.fs.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
		if w.dir != "" {
			_ = w.fs.Remove(w.dir)
		}
		w.dir = dir
	}
	w.target = abs
	logger.Debug("watching mesh file", zap.String("path", abs))
	return nil
}

// Stop stops reporting changes until the next Watch.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.dir != "" && !w.closed {
		_ = w.fs.Remove(w.dir)
	}
	w.dir, w.target = "", ""
}

// Close stops the goroutine and releases the OS watch.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	w.mu.Unlock()

	close(w.done)
	w.wg.Wait()
	return w.fs.Close()
}

func (w *Watcher) current() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.target
}

func (w *Watcher) run() {
	defer w.wg.Done()

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending string
	)
	for {
		select {
		case e, ok := <-w.fs.Events:
			if !ok {
				return
			}
			target := w.current()
			if target == "" || filepath.Clean(e.Name) != target {
				continue
			}
			if e.Op&(fsnotify.Create|fsnotify.Write) == 0 {
				continue
			}
			pending = target
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C

		case <-fire:
			fire = nil
			select {
			case w.reloads <- pending:
				logger.Debug("mesh file changed", zap.String("path", pending))
			default:
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			logger.Warn("file watcher error", zap.Error(err))

		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}
