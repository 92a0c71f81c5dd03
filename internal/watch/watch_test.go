package watch

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const wait = 3 * time.Second

func newWatcher(t *testing.T) *Watcher {
	t.Helper()
	w, err := New(20 * time.Millisecond)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func write(t *testing.T, path, data string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestReloadOnWrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.n3mesh")
	write(t, path, "v1")

	w := newWatcher(t)
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	write(t, path, "v2")

	select {
	case got := <-w.Reloads():
		if got != path {
			t.Errorf("reload path = %q, want %q", got, path)
		}
	case <-time.After(wait):
		t.Fatal("no reload after write")
	}
}

func TestReloadOnReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.n3vmesh")
	write(t, path, "v1")

	w := newWatcher(t)
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	tmp := filepath.Join(dir, "a.n3vmesh.tmp")
	write(t, tmp, "v2")
	if err := os.Rename(tmp, path); err != nil {
		t.Fatalf("Rename: %v", err)
	}

	select {
	case <-w.Reloads():
	case <-time.After(wait):
		t.Fatal("no reload after rename over target")
	}
}

func TestIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.n3mesh")
	write(t, path, "v1")

	w := newWatcher(t)
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	write(t, filepath.Join(dir, "b.n3mesh"), "other")

	select {
	case got := <-w.Reloads():
		t.Fatalf("unexpected reload of %q", got)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestBurstCoalesced(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.n3mesh")
	write(t, path, "v0")

	w := newWatcher(t)
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	for i := 0; i < 5; i++ {
		write(t, path, "v")
	}

	select {
	case <-w.Reloads():
	case <-time.After(wait):
		t.Fatal("no reload after burst")
	}
	// The buffered channel holds at most one pending request.
	if n := len(w.Reloads()); n > 1 {
		t.Errorf("pending reloads = %d, want at most 1", n)
	}
}

func TestStopAndClose(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.n3mesh")
	write(t, path, "v1")

	w := newWatcher(t)
	if err := w.Watch(path); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	w.Stop()
	write(t, path, "v2")
	select {
	case <-w.Reloads():
		t.Fatal("reload after Stop")
	case <-time.After(200 * time.Millisecond):
	}

	if err := w.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close: %v", err)
	}
	if err := w.Watch(path); err != ErrClosed {
		t.Errorf("Watch after Close = %v, want ErrClosed", err)
	}
}

func TestRelativePathReportedAbsolute(t *testing.T) {
	chdir(t, t.TempDir())
	write(t, "m.n3mesh", "v1")
	want, err := filepath.Abs("m.n3mesh")
	if err != nil {
		t.Fatalf("Abs: %v", err)
	}

	w := newWatcher(t)
	if err := w.Watch("m.n3mesh"); err != nil {
		t.Fatalf("Watch: %v", err)
	}
	write(t, "m.n3mesh", "v2")

	select {
	case got := <-w.Reloads():
		if got != want {
			t.Errorf("reload path = %q, want %q", got, want)
		}
	case <-time.After(wait):
		t.Fatal("no reload after write")
	}
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (stand-in for testing.T.Chdir, added in Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir: %v", err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatalf("restore working directory: %v", err)
		}
	})
}
