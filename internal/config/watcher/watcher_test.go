package watcher

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestOperation_String(t *testing.T) {
	tests := []struct {
		op   Operation
		want string
	}{
		{OpWrite, "write"},
		{OpCreate, "create"},
		{OpRemove, "remove"},
		{OpRename, "rename"},
		{Operation(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("%d.String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}

func TestNew_WithOptions(t *testing.T) {
	w, err := New(WithDebounce(50 * time.Millisecond))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer w.Stop()

	if w.debounce != 50*time.Millisecond {
		t.Errorf("debounce = %v, want 50ms", w.debounce)
	}
}

func TestWatcher_WatchUnwatch(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.toml")
	b := filepath.Join(dir, "b.toml")

	w, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer w.Stop()

	if err := w.Watch(a); err != nil {
		t.Fatalf("Watch(a) error: %v", err)
	}
	if err := w.Watch(b); err != nil {
		t.Fatalf("Watch(b) error: %v", err)
	}
	if err := w.Watch(a); err != nil {
		t.Fatalf("Watch(a) again error: %v", err)
	}
	if got := len(w.WatchedFiles()); got != 2 {
		t.Errorf("WatchedFiles() has %d entries, want 2", got)
	}
	if w.dirs[dir] != 2 {
		t.Errorf("dir refcount = %d, want 2", w.dirs[dir])
	}

	if err := w.Unwatch(a); err != nil {
		t.Fatalf("Unwatch(a) error: %v", err)
	}
	if err := w.Unwatch(b); err != nil {
		t.Fatalf("Unwatch(b) error: %v", err)
	}
	if len(w.dirs) != 0 {
		t.Errorf("dirs = %v, want empty", w.dirs)
	}
}

func TestWatcher_DeliversWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "minicalc.toml")
	if err := os.WriteFile(path, []byte("[ui]\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	w, err := New(WithDebounce(0))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer w.Stop()

	events := make(chan Event, 16)
	w.OnChange(func(ev Event) { events <- ev })
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch() error: %v", err)
	}
	w.Start()
	if !w.IsRunning() {
		t.Fatal("watcher should be running")
	}

	// Unrelated files in the same directory are ignored.
	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[ui]\nmouse = false\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case ev := <-events:
		want, _ := filepath.Abs(path)
		if ev.Path != want {
			t.Errorf("event path = %q, want %q", ev.Path, want)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change event")
	}
}

func TestWatcher_Debounce(t *testing.T) {
	w, err := New(WithDebounce(20 * time.Millisecond))
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	defer w.Stop()

	var got []Event
	w.OnChange(func(ev Event) { got = append(got, ev) })

	start := time.Now()
	w.queueEvent(Event{Path: "/x", Op: OpCreate, Time: start})
	w.queueEvent(Event{Path: "/x", Op: OpWrite, Time: start.Add(time.Millisecond)})
	w.queueEvent(Event{Path: "/y", Op: OpWrite, Time: start})
	w.queueEvent(Event{Path: "/y", Op: OpRemove, Time: start.Add(time.Millisecond)})

	w.flushPending(start.Add(5 * time.Millisecond))
	if len(got) != 0 {
		t.Fatalf("flushed %d events before the window elapsed", len(got))
	}

	w.flushPending(start.Add(time.Second))
	if len(got) != 2 {
		t.Fatalf("flushed %d events, want 2", len(got))
	}
	ops := map[string]Operation{}
	for _, ev := range got {
		ops[ev.Path] = ev.Op
	}
	if ops["/x"] != OpCreate {
		t.Errorf("/x op = %v, want create", ops["/x"])
	}
	if ops["/y"] != OpRemove {
		t.Errorf("/y op = %v, want remove", ops["/y"])
	}
}

func TestWatcher_StopTwice(t *testing.T) {
	w, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	w.Start()
	if err := w.Stop(); err != nil {
		t.Errorf("Stop() error: %v", err)
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop() error: %v", err)
	}
	if err := w.Watch(filepath.Join(t.TempDir(), "x.toml")); err != ErrWatcherClosed {
		t.Errorf("Watch after Stop error = %v, want ErrWatcherClosed", err)
	}
}
