// Package watch re-checks Java files as they change on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"

	"tagcheck/internal/driver"
	"tagcheck/internal/project"
	"tagcheck/internal/source"
)

// Config configures a Watcher.
type Config struct {
	// Root is the directory to watch recursively.
	Root string

	// Debounce is how long changes accumulate before a re-check.
	Debounce time.Duration

	Filter project.FileFilter
	Check  driver.Options

	Logger *slog.Logger
}

// Operation is the kind of change that triggered an Event.
type Operation string

const (
	OpCreate Operation = "create"
	OpModify Operation = "modify"
	OpDelete Operation = "delete"
)

// Event is the outcome of re-checking one changed file. Result is nil for
// deletions and failed checks.
type Event struct {
	Path   string
	Op     Operation
	Result *driver.Result
	Err    error
}

// Watcher turns fsnotify events into per-file checks.
type Watcher struct {
	cfg     Config
	watcher *fsnotify.Watcher
	logger  *slog.Logger
	base    string

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	hashMu sync.RWMutex
	hashes map[string][32]byte

	events  chan Event
	done    chan struct{}
	running atomic.Bool
}

func New(cfg Config) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = 100 * time.Millisecond
	}
	base := cfg.Check.BaseDir
	if base == "" {
		base = cfg.Root
	}
	return &Watcher{
		cfg:     cfg,
		watcher: fsw,
		logger:  logger,
		base:    base,
		pending: make(map[string]fsnotify.Op),
		hashes:  make(map[string][32]byte),
		events:  make(chan Event, 64),
		done:    make(chan struct{}),
	}, nil
}

// Events is closed once the watcher stops.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Seed records the content hashes of an initial full check so unchanged
// files touched later are not reported again.
func (w *Watcher) Seed(res *driver.Result) {
	if res == nil {
		return
	}
	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	for i := range res.Files {
		if f := res.FileSet.Get(res.Files[i].FileID); f != nil && res.Files[i].Err == nil {
			w.hashes[f.Path] = f.Hash
		}
	}
}

// Start adds watches below Root and processes changes until ctx is done or
// Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	if err := w.addWatchesRecursive(w.cfg.Root); err != nil {
		return err
	}
	w.running.Store(true)
	go w.processEvents(ctx)
	w.logger.Info("file watcher started", "root", w.cfg.Root, "debounce", w.cfg.Debounce)
	return nil
}

// Stop closes the underlying watcher and waits for processing to end. It is
// safe to call after a failed Start.
func (w *Watcher) Stop() error {
	err := w.watcher.Close()
	if w.running.Load() {
		<-w.done
	}
	return err
}

func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && project.SkipDir(d.Name()) {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("failed to watch directory", "path", path, "error", err)
		} else {
			w.logger.Debug("watching directory", "path", path)
		}
		return nil
	})
}

func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.done)
	defer close(w.events)
	ticker := time.NewTicker(w.cfg.Debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("watcher error", "error", err)

		case <-ticker.C:
			w.flushPending(ctx)
		}
	}
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name
	if !w.cfg.Filter.Match(path) {
		if event.Has(fsnotify.Create) {
			if info, err := os.Stat(path); err == nil && info.IsDir() && !project.SkipDir(filepath.Base(path)) {
				if err := w.addWatchesRecursive(path); err != nil {
					w.logger.Warn("failed to watch new directory", "path", path, "error", err)
				}
			}
		}
		return
	}

	w.pendingMu.Lock()
	w.pending[path] |= event.Op
	w.pendingMu.Unlock()
	w.logger.Debug("file change detected", "path", path, "op", event.Op.String())
}

func (w *Watcher) flushPending(ctx context.Context) {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	paths := make([]string, 0, len(toProcess))
	for p := range toProcess {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if ctx.Err() != nil {
			return
		}
		w.process(ctx, path, toProcess[path])
	}
}

func (w *Watcher) process(ctx context.Context, path string, op fsnotify.Op) {
	key := filepath.ToSlash(filepath.Clean(path))
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		w.hashMu.Lock()
		_, known := w.hashes[key]
		delete(w.hashes, key)
		w.hashMu.Unlock()
		if known || op.Has(fsnotify.Remove) || op.Has(fsnotify.Rename) {
			w.send(Event{Path: path, Op: OpDelete})
		}
		return
	}

	// each re-check gets its own FileSet; the result carries it
	files := source.NewFileSetWithBase(w.base)
	res, err := driver.CheckFile(ctx, files, path, w.cfg.Check)
	if err != nil {
		w.send(Event{Path: path, Op: OpModify, Err: err})
		return
	}
	f := files.Get(res.Files[0].FileID)

	w.hashMu.Lock()
	old, hadHash := w.hashes[f.Path]
	if res.Files[0].Err == nil {
		w.hashes[f.Path] = f.Hash
	}
	w.hashMu.Unlock()
	if hadHash && old == f.Hash {
		w.logger.Debug("content unchanged", "path", path)
		return
	}

	ev := Event{Path: path, Op: OpModify, Result: res, Err: res.Files[0].Err}
	if !hadHash {
		ev.Op = OpCreate
	}
	w.send(ev)
}

func (w *Watcher) send(ev Event) {
	select {
	case w.events <- ev:
		w.logger.Debug("sent watch event", "path", ev.Path, "op", ev.Op)
	default:
		w.logger.Warn("event channel full, dropping event", "path", ev.Path)
	}
}
