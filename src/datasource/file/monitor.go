// monitor.go
package file

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// SnapshotMonitor watches the snapshot directory and fires when a snapshot
// xlsx file is rewritten, so refresh mode can re-run the analysis on
// externally replaced data.
type SnapshotMonitor struct {
	watchDir string
	watcher  *fsnotify.Watcher
	lastFile string
	lastMod  time.Time
	ignored  map[string]time.Time
	mu       sync.Mutex
}

// selfWriteWindow bounds how long a snapshot written by the run itself stays
// suppressed. A manual replacement of the same file later still fires.
const selfWriteWindow = 3 * time.Second

func NewSnapshotMonitor(dir string) (*SnapshotMonitor, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	if err := watcher.Add(dir); err != nil {
		return nil, err
	}

	return &SnapshotMonitor{
		watchDir: dir,
		watcher:  watcher,
		ignored:  make(map[string]time.Time),
	}, nil
}

// IgnoreNext suppresses events for a path the run is about to write itself,
// so a scheduled refresh does not re-trigger the analysis over its own
// snapshot. Call it right before writing the file.
func (m *SnapshotMonitor) IgnoreNext(path string) {
	m.mu.Lock()
	m.ignored[filepath.Clean(path)] = time.Now().Add(selfWriteWindow)
	m.mu.Unlock()
}

// selfWrite reports whether the path was marked as a run-written snapshot
// whose suppression window is still open, expiring stale marks as it goes.
func (m *SnapshotMonitor) selfWrite(path string) bool {
	clean := filepath.Clean(path)

	m.mu.Lock()
	defer m.mu.Unlock()

	deadline, ok := m.ignored[clean]
	if !ok {
		return false
	}
	if time.Now().After(deadline) {
		delete(m.ignored, clean)
		return false
	}
	return true
}

func (m *SnapshotMonitor) Close() error {
	return m.watcher.Close()
}

// Watch blocks, invoking handler with the path of each freshly written
// snapshot. Non-xlsx writes are ignored.
func (m *SnapshotMonitor) Watch(handler func(string)) error {
	for {
		select {
		case event, ok := <-m.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&fsnotify.Write != fsnotify.Write {
				continue
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".xlsx") {
				continue
			}
			if m.selfWrite(event.Name) {
				continue
			}
			info, err := os.Stat(event.Name)
			if err != nil {
				continue
			}

			m.mu.Lock()
			if info.ModTime().After(m.lastMod) {
				m.lastMod = info.ModTime()
				m.lastFile = event.Name
				go handler(event.Name)
			}
			m.mu.Unlock()
		case err, ok := <-m.watcher.Errors:
			if !ok {
				return nil
			}
			return err
		}
	}
}
