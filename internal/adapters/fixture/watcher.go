package fixture

import (
	"errors"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for writes to settle
const DefaultDebounce = 200 * time.Millisecond

var (
	ErrFileRemoved    = errors.New("watched fixture was removed")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// WatcherOption configures a Watcher
type WatcherOption func(*Watcher)

// WithDebounce sets the debounce duration
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// WithOnError sets the callback invoked on watch errors
func WithOnError(fn func(error)) WatcherOption {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// Watcher reports changes to a fixture file. Events are coalesced so an
// editor saving in several steps produces one change.
type Watcher struct {
	path     string
	debounce time.Duration
	onError  func(error)

	mu       sync.Mutex
	fsw      *fsnotify.Watcher
	timer    *time.Timer
	done     chan struct{}
	changeCh chan struct{}
}

// NewWatcher creates a watcher for the fixture at path
func NewWatcher(path string, opts ...WatcherOption) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:     abs,
		debounce: DefaultDebounce,
		onError:  func(error) {},
		changeCh: make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Start begins watching
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fsw != nil {
		return ErrAlreadyStarted
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	// Watch the directory: editors often replace the file on save
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return err
	}
	w.fsw = fsw
	w.done = make(chan struct{})
	go w.loop(fsw.Events, fsw.Errors, w.done)
	return nil
}

// Stop stops watching. Changed is left open.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fsw == nil {
		return
	}
	close(w.done)
	w.fsw.Close()
	w.fsw = nil
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// Changed receives once per settled change
func (w *Watcher) Changed() <-chan struct{} {
	return w.changeCh
}

// Path returns the watched file
func (w *Watcher) Path() string {
	return w.path
}

func (w *Watcher) loop(events <-chan fsnotify.Event, errs <-chan error, done <-chan struct{}) {
	target := filepath.Base(w.path)
	for {
		select {
		case <-done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != target {
				continue
			}
			switch {
			case ev.Op&fsnotify.Remove != 0:
				w.onError(ErrFileRemoved)
			case ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				w.trigger()
			}
		case err, ok := <-errs:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.fsw == nil {
		return
	}
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.notify)
}

func (w *Watcher) notify() {
	select {
	case w.changeCh <- struct{}{}:
	default:
	}
}
