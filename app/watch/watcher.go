package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/Givikap120/pp-rework/app/beatmap/difficulty"
	"github.com/Givikap120/pp-rework/app/beatmap/objects"
	"github.com/Givikap120/pp-rework/app/rulesets/osu/performance/api"
	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 300 * time.Millisecond

// Watcher calls OnChange when a watched beatmap file is rewritten
type Watcher struct {
	watcher  *fsnotify.Watcher
	files    map[string]*fileState
	mu       sync.Mutex
	debounce time.Duration

	OnChange func(path string) error
	OnError  func(path string, err error)
}

type fileState struct {
	lastModified time.Time
	size         int64
	processing   bool
}

func NewWatcher(debounce time.Duration) (*Watcher, error) {
	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	return &Watcher{
		watcher:  fsWatcher,
		files:    make(map[string]*fileState),
		debounce: debounce,
	}, nil
}

func (w *Watcher) Watch(path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve path: %w", err)
	}

	stat, err := os.Stat(absPath)
	if err != nil {
		return fmt.Errorf("failed to stat file: %w", err)
	}

	w.mu.Lock()
	w.files[absPath] = &fileState{
		lastModified: stat.ModTime(),
		size:         stat.Size(),
	}
	w.mu.Unlock()

	// Editors replace files on save, so the directory is watched instead of the file
	if err := w.watcher.Add(filepath.Dir(absPath)); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}

	return nil
}

// Run blocks until ctx is cancelled or the watcher is closed
func (w *Watcher) Run(ctx context.Context) error {
	timers := make(map[string]*time.Timer)

	defer func() {
		for _, timer := range timers {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			w.watcher.Close()
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			absPath, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}

			w.mu.Lock()
			state, watched := w.files[absPath]
			w.mu.Unlock()

			if !watched {
				continue
			}

			if timer, exists := timers[absPath]; exists {
				timer.Stop()
			}

			timers[absPath] = time.AfterFunc(w.debounce, func() {
				w.handleChange(absPath, state)
			})

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}

			w.reportError("", err)
		}
	}
}

func (w *Watcher) handleChange(path string, state *fileState) {
	w.mu.Lock()
	if state.processing {
		w.mu.Unlock()
		return
	}

	state.processing = true
	w.mu.Unlock()

	defer func() {
		w.mu.Lock()
		state.processing = false
		w.mu.Unlock()
	}()

	stat, err := os.Stat(path)
	if err != nil {
		w.reportError(path, err)
		return
	}

	w.mu.Lock()
	unchanged := stat.ModTime().Equal(state.lastModified) && stat.Size() == state.size
	state.lastModified = stat.ModTime()
	state.size = stat.Size()
	w.mu.Unlock()

	if unchanged || w.OnChange == nil {
		return
	}

	if err := w.OnChange(path); err != nil {
		w.reportError(path, err)
	}
}

func (w *Watcher) reportError(path string, err error) {
	if w.OnError != nil {
		w.OnError(path, err)
	}
}

func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Recalculate returns an OnChange callback that reloads the beatmap and reports its new attributes
func Recalculate(calculator api.IDifficultyCalculator, mods difficulty.Modifier, report func(beatmap *objects.Beatmap, attribs api.Attributes)) func(path string) error {
	return func(path string) error {
		beatmap, err := objects.Load(path)
		if err != nil {
			return err
		}

		report(beatmap, calculator.CalculateSingle(beatmap.HitObjects, beatmap.Difficulty(mods)))

		return nil
	}
}
