package cli

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	cerrors "github.com/cockroachdb/errors"
	"github.com/fsnotify/fsnotify"

	"github.com/bisgardo/reification/internal/parser"
	"github.com/bisgardo/reification/internal/utils"
)

// DefaultDebounce coalesces bursts of file events into one round
const DefaultDebounce = 500 * time.Millisecond

// RoundFunc runs one generation round after inputs changed
type RoundFunc func() error

// Watcher reruns generation when input files change
type Watcher struct {
	watcher        *fsnotify.Watcher
	round          RoundFunc
	diagnostics    *utils.DiagnosticSystem
	debouncePeriod time.Duration
	roots          []string // bases of recursive patterns

	mu            sync.Mutex
	debounceTimer *time.Timer
	rounds        chan struct{}
}

// NewWatcher watches the input directories. Recursive patterns watch every
// directory below their base.
func NewWatcher(inputs []string, diagnostics *utils.DiagnosticSystem, round RoundFunc) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, cerrors.Wrap(err, "create fsnotify watcher")
	}

	w := &Watcher{
		watcher:        fw,
		round:          round,
		diagnostics:    diagnostics,
		debouncePeriod: DefaultDebounce,
		rounds:         make(chan struct{}, 1),
	}

	for _, input := range inputs {
		if err := w.add(input); err != nil {
			fw.Close()
			return nil, err
		}
	}
	return w, nil
}

// SetDebounce changes the quiet period before a round starts
func (w *Watcher) SetDebounce(d time.Duration) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.debouncePeriod = d
}

func (w *Watcher) add(pattern string) error {
	dir, recursive := utils.SplitPattern(pattern)
	if !recursive {
		return cerrors.Wrapf(w.watcher.Add(dir), "watch %s", dir)
	}
	w.roots = append(w.roots, filepath.Clean(dir))
	return w.addTree(dir)
}

// addTree watches dir and every directory below it that the default filter keeps
func (w *Watcher) addTree(dir string) error {
	filter := utils.DefaultDirectoryFilter()
	return filepath.WalkDir(dir, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return cerrors.Wrapf(err, "walk %s", path)
		}
		if !entry.IsDir() {
			return nil
		}
		if path != dir && !filter(path, entry) {
			return filepath.SkipDir
		}
		return cerrors.Wrapf(w.watcher.Add(path), "watch %s", path)
	})
}

// Run blocks until ctx is done, running a round for every debounced batch of
// input changes. Rounds never overlap.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.watcher.Close()

	for {
		select {
		case <-ctx.Done():
			w.mu.Lock()
			if w.debounceTimer != nil {
				w.debounceTimer.Stop()
			}
			w.mu.Unlock()
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op.Has(fsnotify.Create) && w.watchCreated(event.Name) {
				w.scheduleRound()
				continue
			}
			if !relevant(event) {
				continue
			}
			w.diagnostics.Verbose("Detected %s of %s", event.Op, event.Name)
			w.scheduleRound()

		case <-w.rounds:
			w.diagnostics.Info("Inputs changed, regenerating")
			if err := w.round(); err != nil {
				w.diagnostics.Error("Generation failed: %v", err)
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.diagnostics.Warn("Watcher error: %v", err)
		}
	}
}

// watchCreated starts watching a directory created below a recursive root.
// The new tree may already hold inputs, so the caller schedules a round.
func (w *Watcher) watchCreated(path string) bool {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() || !w.underRoot(path) {
		return false
	}
	if !utils.DefaultDirectoryFilter()(path, fs.FileInfoToDirEntry(info)) {
		return false
	}
	if err := w.addTree(path); err != nil {
		w.diagnostics.Warn("Cannot watch %s: %v", path, err)
		return false
	}
	w.diagnostics.Verbose("Watching new directory %s", path)
	return true
}

func (w *Watcher) underRoot(path string) bool {
	path = filepath.Clean(path)
	for _, root := range w.roots {
		if root == "." && !filepath.IsAbs(path) {
			return true
		}
		if path == root || strings.HasPrefix(path, root+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

// scheduleRound debounces rapid file changes into one pending round
func (w *Watcher) scheduleRound() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounceTimer != nil {
		w.debounceTimer.Stop()
	}
	w.debounceTimer = time.AfterFunc(w.debouncePeriod, func() {
		select {
		case w.rounds <- struct{}{}:
		default:
		}
	})
}

// relevant reports whether an event touches an input file
func relevant(event fsnotify.Event) bool {
	if !parser.IsInputFile(event.Name) {
		return false
	}
	return event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}
