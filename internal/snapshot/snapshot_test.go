package snapshot

import (
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"
)

type fakeStore struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeStore) SnapshotTo(dstPath string) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(dstPath, []byte("snapshot"), 0644)
}

func (f *fakeStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

// steppingClock advances one minute per call so each snapshot gets its own name.
func steppingClock() func() time.Time {
	var mu sync.Mutex
	t := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Minute)
		return t
	}
}

func TestNewManager_Disabled(t *testing.T) {
	t.Parallel()

	m, err := NewManager(&fakeStore{}, Config{})
	if err != nil {
		t.Fatalf("NewManager error: %v", err)
	}
	if m != nil {
		t.Fatal("expected nil manager when disabled")
	}
}

func TestNewManager_RequiresDir(t *testing.T) {
	t.Parallel()

	if _, err := NewManager(&fakeStore{}, Config{Enabled: true}); err == nil {
		t.Fatal("expected error without dir")
	}
}

func TestRunOnce_WritesAndPrunes(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	m, err := NewManager(&fakeStore{}, Config{
		Enabled:  true,
		Dir:      dir,
		KeepLast: 2,
		Clock:    steppingClock(),
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	var written []string
	for range 4 {
		path, err := m.RunOnce()
		if err != nil {
			t.Fatalf("RunOnce: %v", err)
		}
		written = append(written, path)
	}

	matches, _ := filepath.Glob(filepath.Join(dir, "tp-updater-*.duckdb"))
	if len(matches) != 2 {
		t.Fatalf("kept %d snapshots, want 2: %v", len(matches), matches)
	}
	for _, newest := range written[2:] {
		if _, err := os.Stat(newest); err != nil {
			t.Errorf("newest snapshot %s pruned: %v", newest, err)
		}
	}
	if want := "tp-updater-20250301-120100.duckdb"; filepath.Base(written[0]) != want {
		t.Errorf("first snapshot name = %s, want %s", filepath.Base(written[0]), want)
	}
}

func TestRunOnce_PropagatesStoreError(t *testing.T) {
	t.Parallel()

	m, err := NewManager(&fakeStore{err: ErrNoDatabaseFile}, Config{Enabled: true, Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	if _, err := m.RunOnce(); !errors.Is(err, ErrNoDatabaseFile) {
		t.Fatalf("RunOnce err = %v, want ErrNoDatabaseFile", err)
	}
}

func TestStartStop(t *testing.T) {
	t.Parallel()

	store := &fakeStore{}
	m, err := NewManager(store, Config{
		Enabled:  true,
		Dir:      t.TempDir(),
		Interval: 5 * time.Millisecond,
		Clock:    steppingClock(),
	})
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	m.Start()

	deadline := time.After(2 * time.Second)
	for store.callCount() < 3 {
		select {
		case <-deadline:
			t.Fatalf("only %d snapshots after 2s", store.callCount())
		case <-time.After(5 * time.Millisecond):
		}
	}

	done := make(chan struct{})
	go func() {
		m.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}
