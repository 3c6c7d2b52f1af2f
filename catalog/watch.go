package catalog

import (
	"log"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors one catalog file and emits freshly loaded body sets when
// it changes. The parent directory is watched rather than the file itself so
// editor save strategies that replace the file (write temp + rename) are
// still observed. Invalid intermediate states are logged and skipped; only
// sets that pass validation are emitted.
type Watcher struct {
	Path    string
	Records <-chan []Record // Read-only external channel

	records chan []Record // Internal write channel
	done    chan struct{}
	watcher *fsnotify.Watcher
}

// NewWatcher creates a watcher for the given catalog file.
//
// Parameters:
//   - path: catalog file to watch
//
// Returns:
//   - *Watcher: the watcher, not yet started
//   - error: fsnotify initialization failure
func NewWatcher(path string) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ch := make(chan []Record, 4)
	w := &Watcher{
		Path:    path,
		Records: ch,
		records: ch,
		done:    make(chan struct{}),
		watcher: fw,
	}
	return w, nil
}

// Start begins watching the catalog file's directory for changes.
func (w *Watcher) Start() error {
	if err := w.watcher.Add(filepath.Dir(w.Path)); err != nil {
		return err
	}

	go w.loop()
	return nil
}

// Stop closes the watcher and channels.
func (w *Watcher) Stop() {
	w.watcher.Close()
	<-w.done // Wait for loop to exit
	close(w.records)
}

func (w *Watcher) loop() {
	defer close(w.done)

	// Debounce rapid write bursts before reloading.
	const debounce = 100 * time.Millisecond
	var pending time.Time
	ticker := time.NewTicker(debounce)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				if !pending.IsZero() {
					w.emitReload()
				}
				return
			}

			if filepath.Clean(event.Name) != filepath.Clean(w.Path) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.Now()
			}

		case _, ok := <-ticker.C:
			if !ok {
				return
			}
			if !pending.IsZero() && time.Since(pending) >= debounce {
				pending = time.Time{}
				w.emitReload()
			}

		case _, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			// Ignore watch errors; they're non-fatal.
		}
	}
}

func (w *Watcher) emitReload() {
	records, err := Load(w.Path)
	if err != nil {
		log.Printf("catalog: reload %s skipped: %v", w.Path, err)
		return
	}

	select {
	case w.records <- records:
	default:
		// Consumer is behind; drop the older pending set in favor of this one.
		select {
		case <-w.records:
		default:
		}
		w.records <- records
	}
}
