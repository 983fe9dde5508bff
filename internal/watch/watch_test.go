package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

const testDebounce = 20 * time.Millisecond

// suffixMatcher includes files by extension and excludes named directories.
type suffixMatcher struct {
	suffix string
	skip   string
}

func (m suffixMatcher) Included(rel string) bool {
	return strings.HasSuffix(rel, m.suffix) && !m.Excluded(rel)
}

func (m suffixMatcher) Excluded(rel string) bool {
	return m.skip != "" && (rel == m.skip || strings.HasPrefix(rel, m.skip+"/"))
}

// tempDir returns a temporary directory with symlinks resolved so paths
// match what fsnotify reports.
func tempDir(t *testing.T) string {
	t.Helper()
	dir, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("EvalSymlinks: %v", err)
	}
	return dir
}

// start runs w in the background until the test ends.
func start(t *testing.T, w *Watcher) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Error("Run did not return after cancel")
		}
	})
}

func collector(events chan Event) Handler {
	return func(ctx context.Context, ev Event) error {
		events <- ev
		return nil
	}
}

func waitEvent(t *testing.T, events <-chan Event) Event {
	t.Helper()
	select {
	case ev := <-events:
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func expectNoEvent(t *testing.T, events <-chan Event, wait time.Duration) {
	t.Helper()
	select {
	case ev := <-events:
		t.Errorf("unexpected event %+v", ev)
	case <-time.After(wait):
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestAddMissingPath(t *testing.T) {
	w, err := New(func(context.Context, Event) error { return nil })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer w.Close()

	err = w.Add(filepath.Join(tempDir(t), "missing"))
	if !errors.Is(err, ErrPathNotExist) {
		t.Errorf("got error %v, want ErrPathNotExist", err)
	}
}

func TestAddAfterClose(t *testing.T) {
	w, err := New(func(context.Context, Event) error { return nil })
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}

	if err := w.Add(tempDir(t)); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("got error %v, want ErrWatcherClosed", err)
	}
}

func TestRunReportsWrite(t *testing.T) {
	dir := tempDir(t)
	path := filepath.Join(dir, "A.java")
	writeFile(t, path, "class A {}\n")

	events := make(chan Event, 16)
	w, err := New(collector(events), WithDebounce(testDebounce))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Add(dir); err != nil {
		t.Fatalf("Add: %v", err)
	}
	start(t, w)

	writeFile(t, path, "class A {\n}\n")

	ev := waitEvent(t, events)
	if ev.Path != path {
		t.Errorf("got path %q, want %q", ev.Path, path)
	}
	if ev.Op&OpWrite == 0 {
		t.Errorf("got op %v, want write", ev.Op)
	}
}

func TestRunExplicitFile(t *testing.T) {
	dir := tempDir(t)
	path := filepath.Join(dir, "notes.txt")
	writeFile(t, path, "a\n")

	events := make(chan Event, 16)
	w, err := New(collector(events),
		WithDebounce(testDebounce),
		WithMatcher(suffixMatcher{suffix: ".java"}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Add(path); err != nil {
		t.Fatalf("Add: %v", err)
	}
	start(t, w)

	writeFile(t, path, "b\n")

	if ev := waitEvent(t, events); ev.Path != path {
		t.Errorf("got path %q, want %q", ev.Path, path)
	}
}

func TestRunMatcherFilters(t *testing.T) {
	dir := tempDir(t)
	if err := os.Mkdir(filepath.Join(dir, "build"), 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}

	events := make(chan Event, 16)
	w, err := New(collector(events),
		WithDebounce(testDebounce),
		WithMatcher(suffixMatcher{suffix: ".java", skip: "build"}),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Add(dir); err != nil {
		t.Fatalf("Add: %v", err)
	}
	start(t, w)

	writeFile(t, filepath.Join(dir, "README.txt"), "x\n")
	writeFile(t, filepath.Join(dir, "build", "Gen.java"), "x\n")
	want := filepath.Join(dir, "A.java")
	writeFile(t, want, "class A {}\n")

	if ev := waitEvent(t, events); ev.Path != want {
		t.Errorf("got path %q, want %q", ev.Path, want)
	}
	expectNoEvent(t, events, 10*testDebounce)
}

func TestRunWatchesNewDirectories(t *testing.T) {
	dir := tempDir(t)

	events := make(chan Event, 16)
	w, err := New(collector(events), WithDebounce(testDebounce))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := w.Add(dir); err != nil {
		t.Fatalf("Add: %v", err)
	}
	start(t, w)

	sub := filepath.Join(dir, "pkg")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	// Let the watcher pick up the new directory.
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(sub, "B.java")
	writeFile(t, path, "class B {}\n")

	if ev := waitEvent(t, events); ev.Path != path {
		t.Errorf("got path %q, want %q", ev.Path, path)
	}
}

func TestScheduleCoalesces(t *testing.T) {
	events := make(chan Event, 16)
	w, err := New(collector(events), WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	start(t, w)

	w.schedule(Event{Path: "/src/A.java", Op: OpCreate, Time: time.Now()})
	w.schedule(Event{Path: "/src/A.java", Op: OpWrite, Time: time.Now()})
	w.schedule(Event{Path: "/src/A.java", Op: OpWrite, Time: time.Now()})

	ev := waitEvent(t, events)
	if ev.Op != OpCreate|OpWrite {
		t.Errorf("got op %v, want create|write", ev.Op)
	}
	expectNoEvent(t, events, 150*time.Millisecond)
}

func TestScheduleSeparatePaths(t *testing.T) {
	events := make(chan Event, 16)
	w, err := New(collector(events), WithDebounce(testDebounce))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	start(t, w)

	w.schedule(Event{Path: "/src/A.java", Op: OpWrite})
	w.schedule(Event{Path: "/src/B.java", Op: OpWrite})

	seen := map[string]bool{}
	for i := 0; i < 2; i++ {
		seen[waitEvent(t, events).Path] = true
	}
	if !seen["/src/A.java"] || !seen["/src/B.java"] {
		t.Errorf("got events for %v, want both files", seen)
	}
}

func TestCancelDropsPending(t *testing.T) {
	events := make(chan Event, 16)
	w, err := New(collector(events), WithDebounce(50*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	start(t, w)

	w.schedule(Event{Path: "/src/A.java", Op: OpWrite})
	w.cancel("/src/A.java")

	expectNoEvent(t, events, 150*time.Millisecond)
}

func TestHandlerErrorKeepsRunning(t *testing.T) {
	events := make(chan Event, 16)
	handler := func(ctx context.Context, ev Event) error {
		events <- ev
		return errors.New("boom")
	}
	w, err := New(handler, WithDebounce(testDebounce))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	start(t, w)

	w.schedule(Event{Path: "/src/A.java", Op: OpWrite})
	waitEvent(t, events)

	w.schedule(Event{Path: "/src/A.java", Op: OpWrite})
	waitEvent(t, events)
}

func TestRunStopsOnCancel(t *testing.T) {
	w, err := New(func(context.Context, Event) error { return nil })
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx)
	}()
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run returned %v, want nil", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return")
	}

	if err := w.Add(tempDir(t)); !errors.Is(err, ErrWatcherClosed) {
		t.Errorf("got error %v, want ErrWatcherClosed", err)
	}
}

func TestOpString(t *testing.T) {
	tests := []struct {
		op   Op
		want string
	}{
		{0, "none"},
		{OpCreate, "create"},
		{OpWrite, "write"},
		{OpCreate | OpWrite, "create|write"},
	}

	for _, tt := range tests {
		if got := tt.op.String(); got != tt.want {
			t.Errorf("Op(%d).String() = %q, want %q", tt.op, got, tt.want)
		}
	}
}
