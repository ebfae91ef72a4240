// monitor_test.go
package file

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// A snapshot the run writes itself must not re-trigger the handler, while an
// external replacement in the same directory still does.
func TestMonitorSuppressesOwnSnapshotWrites(t *testing.T) {
	dir := t.TempDir()

	monitor, err := NewSnapshotMonitor(dir)
	if err != nil {
		t.Fatalf("NewSnapshotMonitor: %v", err)
	}
	defer monitor.Close()

	events := make(chan string, 4)
	go monitor.Watch(func(path string) {
		events <- path
	})

	own := filepath.Join(dir, "indicators_2023.xlsx")
	monitor.IgnoreNext(own)
	if err := os.WriteFile(own, []byte("snapshot"), 0644); err != nil {
		t.Fatalf("write own snapshot: %v", err)
	}

	select {
	case path := <-events:
		t.Fatalf("handler fired for the run's own snapshot: %s", path)
	case <-time.After(500 * time.Millisecond):
	}

	external := filepath.Join(dir, "corrected.xlsx")
	if err := os.WriteFile(external, []byte("correction"), 0644); err != nil {
		t.Fatalf("write external snapshot: %v", err)
	}

	select {
	case path := <-events:
		if path != external {
			t.Errorf("handler fired for %s, want %s", path, external)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not fire for an external snapshot replacement")
	}
}
