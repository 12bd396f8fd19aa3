// Package watch re-recognizes source files when they change on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/aledsdavies/mrecognizer/core/logging"
	"github.com/aledsdavies/mrecognizer/runtime/recognizer"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long a file must stay quiet before it is
// recognized again.
const DefaultDebounce = 100 * time.Millisecond

// Handler receives the result of re-recognizing one changed file. Calls are
// serialized.
type Handler func(path string, result recognizer.Result)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger for watch events.
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// WithRecognizerOptions passes options through to every recognition.
func WithRecognizerOptions(opts ...recognizer.Option) Option {
	return func(w *Watcher) {
		w.recognize = append(w.recognize, opts...)
	}
}

// Watcher monitors a fixed set of files through their parent directories.
type Watcher struct {
	fs        *fsnotify.Watcher
	files     map[string]string // absolute path -> path as given
	buildTree bool
	handler   Handler
	recognize []recognizer.Option
	debounce  time.Duration
	logger    *slog.Logger

	mu     sync.Mutex
	timers map[string]*time.Timer

	handlerMu sync.Mutex
}

// New starts watching the directories that hold paths. Events that arrive
// before Run is called are buffered.
func New(paths []string, buildTree bool, handler Handler, opts ...Option) (*Watcher, error) {
	if handler == nil {
		return nil, fmt.Errorf("watch: nil handler")
	}
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch: %w", err)
	}

	w := &Watcher{
		fs:        fsWatcher,
		files:     make(map[string]string, len(paths)),
		buildTree: buildTree,
		handler:   handler,
		debounce:  DefaultDebounce,
		logger:    logging.FromEnv(),
		timers:    make(map[string]*time.Timer),
	}
	for _, opt := range opts {
		opt(w)
	}

	dirs := make(map[string]bool)
	for _, path := range paths {
		abs, err := filepath.Abs(path)
		if err != nil {
			_ = fsWatcher.Close()
			return nil, fmt.Errorf("watch %s: %w", path, err)
		}
		w.files[abs] = path
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsWatcher.Add(dir); err != nil {
			_ = fsWatcher.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		w.logger.Debug("watching", "dir", dir)
	}
	return w, nil
}

// Run processes change events until ctx is done, then releases the
// watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.close()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			if path, watched := w.files[abs]; watched {
				w.schedule(ctx, path)
			}

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("watcher error", "error", err)
		}
	}
}

// schedule (re)starts the quiet period for path.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[path]; ok {
		t.Reset(w.debounce)
		return
	}
	w.timers[path] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, path)
		w.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		w.fire(path)
	})
}

func (w *Watcher) fire(path string) {
	w.logger.Debug("file changed", "path", path)
	result := recognizer.RecognizeFiles([]string{path}, w.buildTree, nil, w.recognize...)

	w.handlerMu.Lock()
	defer w.handlerMu.Unlock()
	w.handler(path, result)
}

func (w *Watcher) close() {
	w.mu.Lock()
	for path, t := range w.timers {
		t.Stop()
		delete(w.timers, path)
	}
	w.mu.Unlock()
	_ = w.fs.Close()
}
