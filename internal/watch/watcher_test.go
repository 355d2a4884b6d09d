// SPDX-License-Identifier: MPL-2.0

package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"
)

// start runs w in the background and returns a stop function that cancels
// it and reports Run's error.
func start(t *testing.T, w *Watcher) func() error {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	var once sync.Once
	stop := func() error {
		var err error
		once.Do(func() {
			cancel()
			err = <-errCh
		})
		return err
	}
	t.Cleanup(func() { _ = stop() })
	return stop
}

func write(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("module"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWatcherDebounce(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	var (
		mu    sync.Mutex
		calls [][]string
	)
	fired := make(chan struct{}, 4)
	w, err := New(Config{
		Roots:    []string{dir},
		Debounce: 100 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			mu.Lock()
			calls = append(calls, changed)
			mu.Unlock()
			fired <- struct{}{}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := start(t, w)

	for _, name := range []string{"c.dll", "a.dll", "b.exe"} {
		write(t, filepath.Join(dir, name))
		time.Sleep(10 * time.Millisecond)
	}

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
	time.Sleep(250 * time.Millisecond)
	if err := stop(); err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 1 {
		t.Fatalf("callbacks = %d, want 1 (%v)", len(calls), calls)
	}
	want := []string{filepath.Join(dir, "a.dll"), filepath.Join(dir, "b.exe"), filepath.Join(dir, "c.dll")}
	for _, p := range want {
		if !slices.Contains(calls[0], p) {
			t.Errorf("changed = %v, missing %s", calls[0], p)
		}
	}
	if !slices.IsSorted(calls[0]) {
		t.Errorf("changed not sorted: %v", calls[0])
	}
}

func TestWatcherFiltersNonModules(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fired := make(chan []string, 4)
	w, err := New(Config{
		Roots:    []string{dir},
		Ignore:   []string{"**/Skip.dll"},
		Debounce: 50 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			fired <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	start(t, w)

	write(t, filepath.Join(dir, "notes.txt"))
	write(t, filepath.Join(dir, "Skip.dll"))
	write(t, filepath.Join(dir, ".DS_Store"))
	select {
	case changed := <-fired:
		t.Fatalf("callback fired for ignored files: %v", changed)
	case <-time.After(300 * time.Millisecond):
	}

	write(t, filepath.Join(dir, "Game.dll"))
	select {
	case changed := <-fired:
		if !slices.Equal(changed, []string{filepath.Join(dir, "Game.dll")}) {
			t.Errorf("changed = %v", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
}

func TestWatcherMultipleRoots(t *testing.T) {
	t.Parallel()

	bcl := t.TempDir()
	refs := t.TempDir()
	missing := filepath.Join(t.TempDir(), "nope")
	fired := make(chan []string, 4)
	w, err := New(Config{
		Roots:    []string{bcl, missing, refs, bcl},
		Debounce: 50 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			fired <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	if got := w.Roots(); !slices.Equal(got, []string{bcl, refs}) {
		t.Errorf("Roots() = %v", got)
	}
	start(t, w)

	write(t, filepath.Join(refs, "Newtonsoft.Json.dll"))
	select {
	case changed := <-fired:
		if len(changed) != 1 || filepath.Dir(changed[0]) != refs {
			t.Errorf("changed = %v", changed)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for callback")
	}
}

func TestWatcherNewSubdirectory(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	fired := make(chan []string, 4)
	w, err := New(Config{
		Roots:    []string{dir},
		Debounce: 50 * time.Millisecond,
		OnChange: func(_ context.Context, changed []string) error {
			fired <- changed
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	start(t, w)

	sub := filepath.Join(dir, "android")
	if err := os.Mkdir(sub, 0o755); err != nil {
		t.Fatal(err)
	}
	time.Sleep(100 * time.Millisecond)
	write(t, filepath.Join(sub, "Mono.Android.dll"))

	deadline := time.After(5 * time.Second)
	for {
		select {
		case changed := <-fired:
			if slices.Contains(changed, filepath.Join(sub, "Mono.Android.dll")) {
				return
			}
		case <-deadline:
			t.Fatal("change in new subdirectory not seen")
		}
	}
}

func TestWatcherContextCancel(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Roots: []string{t.TempDir()}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	stop := start(t, w)
	if err := stop(); err != nil {
		t.Errorf("Run() after cancel = %v, want nil", err)
	}
}

func TestWatcherDoubleRun(t *testing.T) {
	t.Parallel()

	w, err := New(Config{Roots: []string{t.TempDir()}})
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	start(t, w)
	time.Sleep(20 * time.Millisecond)
	if err := w.Run(context.Background()); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Run() = %v, want ErrAlreadyRunning", err)
	}
}

func TestNewErrors(t *testing.T) {
	t.Parallel()

	if _, err := New(Config{Roots: []string{filepath.Join(t.TempDir(), "missing")}}); !errors.Is(err, ErrNoRoots) {
		t.Errorf("missing roots: error = %v, want ErrNoRoots", err)
	}
	if _, err := New(Config{Roots: []string{t.TempDir()}, Patterns: []string{"[unclosed"}}); !errors.Is(err, ErrInvalidPattern) {
		t.Errorf("bad pattern: error = %v, want ErrInvalidPattern", err)
	}
}

func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"zero value", Config{}, false},
		{"valid", Config{Patterns: []string{"**/*.dll"}, Ignore: []string{"**/obj/**"}}, false},
		{"empty pattern", Config{Patterns: []string{""}}, true},
		{"bad ignore", Config{Ignore: []string{"a/[b"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestDefaultIgnores(t *testing.T) {
	t.Parallel()

	got := DefaultIgnores()
	got[0] = "mutated"
	if DefaultIgnores()[0] == "mutated" {
		t.Error("DefaultIgnores returned the shared slice")
	}

	w := &Watcher{ignores: DefaultIgnores()}
	for rel, want := range map[string]bool{
		"obj/Debug/Game.dll":         true,
		".git/HEAD":                  true,
		"Obfuscator_Output/Game.dll": true,
		"bin/.DS_Store":              true,
		"android/Mono.Android.dll":   false,
		"Game.dll":                   false,
	} {
		if got := w.isIgnored(rel); got != want {
			t.Errorf("isIgnored(%q) = %v, want %v", rel, got, want)
		}
	}
}
