package artifact

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"deadclick/internal/logging"
)

// Watcher signals when any artifact file is rewritten, debounced so a batch
// of writes from the observer triggers a single reload.
type Watcher struct {
	fs       *fsnotify.Watcher
	paths    map[string]bool
	debounce time.Duration
}

// NewWatcher watches the directories containing the artifact files. Watching
// directories rather than the files themselves survives the rename-over
// pattern most writers use.
func NewWatcher(paths Paths, debounce time.Duration) (*Watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	watched := map[string]bool{}
	dirs := map[string]bool{}
	for _, p := range []string{paths.Expectations, paths.Observations, paths.RunInputs} {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			fs.Close()
			return nil, err
		}
		watched[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fs.Add(dir); err != nil {
			fs.Close()
			return nil, err
		}
	}

	return &Watcher{fs: fs, paths: watched, debounce: debounce}, nil
}

// Run delivers a tick on out after each debounced batch of artifact writes.
// Blocks until ctx is done.
func (w *Watcher) Run(ctx context.Context, out chan<- struct{}) error {
	var timer *time.Timer
	var fire <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			logging.ArtifactDebug("artifact change: %s %s", ev.Op, ev.Name)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				fire = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logging.Get(logging.CategoryArtifact).Warn("watch error: %v", err)
		case <-fire:
			timer = nil
			fire = nil
			select {
			case out <- struct{}{}:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(ev.Name)
	if err != nil {
		return false
	}
	return w.paths[abs]
}
