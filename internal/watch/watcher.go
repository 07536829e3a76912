// Package watch re-runs generation when snapshot files change.
package watch

import (
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/ecsact-dev/ecsact-lang-cpp/internal/logx"
)

// DefaultDebounce is the quiet period used when none is configured.
const DefaultDebounce = 100 * time.Millisecond

// Watcher monitors a fixed set of files and calls onChange with the
// changed ones once they have been quiet for the debounce period.
//
// The parent directories are watched rather than the files themselves, so
// editors that save by replacing the file keep being tracked.
type Watcher struct {
	watcher   *fsnotify.Watcher
	debouncer *Debouncer
	files     map[string]struct{}
	dirs      []string
	onChange  func([]string) error
	log       logx.Logger
	stopChan  chan struct{}
	wg        sync.WaitGroup
}

// New creates a watcher for files. A non-positive debounce means
// DefaultDebounce; a nil log discards messages.
func New(files []string, debounce time.Duration, log logx.Logger, onChange func([]string) error) (*Watcher, error) {
	if len(files) == 0 {
		return nil, fmt.Errorf("watch: no files to watch")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = logx.NewZapLogger(nil)
	}
	w := &Watcher{
		files:    make(map[string]struct{}, len(files)),
		onChange: onChange,
		log:      log,
		stopChan: make(chan struct{}),
	}
	seen := map[string]bool{}
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return nil, fmt.Errorf("watch: resolve %s: %w", f, err)
		}
		w.files[abs] = struct{}{}
		if dir := filepath.Dir(abs); !seen[dir] {
			seen[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}
	sort.Strings(w.dirs)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w.watcher = fw
	w.debouncer = NewDebouncer(debounce)
	w.debouncer.SetCallback(func(changed []string) {
		if err := w.onChange(changed); err != nil {
			w.log.Error("handling file changes", zap.Strings("files", changed), zap.Error(err))
		}
	})
	return w, nil
}

// Dirs returns the watched directories.
func (w *Watcher) Dirs() []string {
	return w.dirs
}

// Start begins watching in the background.
func (w *Watcher) Start() error {
	for _, dir := range w.dirs {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch directory %s: %w", dir, err)
		}
		w.log.Debug("watching directory", zap.String("dir", dir))
	}
	w.wg.Add(1)
	go w.watch()
	return nil
}

// Stop stops watching and waits for a running onChange to return. Pending
// changes are dropped. Stop is idempotent.
func (w *Watcher) Stop() error {
	select {
	case <-w.stopChan:
		return nil
	default:
		close(w.stopChan)
	}
	w.wg.Wait()
	w.debouncer.Stop()
	return w.watcher.Close()
}

func (w *Watcher) watch() {
	defer w.wg.Done()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !w.tracked(event.Name) {
				continue
			}
			w.log.Debug("file changed", zap.String("file", event.Name), zap.String("op", event.Op.String()))
			w.debouncer.Add(filepath.Clean(event.Name))

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

func (w *Watcher) tracked(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	_, ok := w.files[abs]
	return ok
}

// Debouncer collects file changes and triggers the callback once no change
// has arrived for the configured duration.
type Debouncer struct {
	duration time.Duration
	timer    *time.Timer
	files    map[string]struct{}
	mutex    sync.Mutex
	callback func([]string)
	stopChan chan struct{}
	running  sync.WaitGroup
}

// NewDebouncer creates a debouncer.
func NewDebouncer(duration time.Duration) *Debouncer {
	return &Debouncer{
		duration: duration,
		files:    make(map[string]struct{}),
		stopChan: make(chan struct{}),
	}
}

// Add records a change and restarts the quiet period. It does nothing
// after Stop.
func (d *Debouncer) Add(file string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	select {
	case <-d.stopChan:
		return
	default:
	}

	d.files[file] = struct{}{}
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, d.flush)
}

// flush hands the accumulated files, sorted, to the callback. The callback
// runs without the lock held so it may call Add.
func (d *Debouncer) flush() {
	d.mutex.Lock()
	select {
	case <-d.stopChan:
		d.mutex.Unlock()
		return
	default:
	}
	if len(d.files) == 0 {
		d.mutex.Unlock()
		return
	}
	files := make([]string, 0, len(d.files))
	for file := range d.files {
		files = append(files, file)
	}
	d.files = make(map[string]struct{})
	callback := d.callback
	d.running.Add(1)
	d.mutex.Unlock()
	defer d.running.Done()

	sort.Strings(files)
	if callback != nil {
		callback(files)
	}
}

// SetCallback sets the function receiving batches of changed files.
func (d *Debouncer) SetCallback(callback func([]string)) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.callback = callback
}

// Stop cancels a pending flush and waits for a running callback to
// return. It must not be called from the callback.
func (d *Debouncer) Stop() {
	d.mutex.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	select {
	case <-d.stopChan:
	default:
		close(d.stopChan)
	}
	d.mutex.Unlock()
	d.running.Wait()
}
