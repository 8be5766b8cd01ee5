package store

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/dvrpc/tp-updater/internal/catalog"
	"github.com/dvrpc/tp-updater/internal/model"
)

// fakeClock is a settable time source for deterministic marked-at values.
type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

func newTestStore(t *testing.T, clock *fakeClock) *Store {
	t.Helper()
	cat, err := catalog.New("test", []string{"Air Quality", "Congestion", "Income", "Water Quality"})
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	store, err := Open(DriverDuckDB, "", Options{Catalog: cat, Clock: clock.Now})
	if err != nil {
		t.Fatalf("Open(duckdb, \"\") failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func baseTime() time.Time {
	return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
}

func TestAdd_ThenListIncludes(t *testing.T) {
	clock := &fakeClock{now: baseTime()}
	store := newTestStore(t, clock)
	ctx := context.Background()

	if err := store.Add(ctx, "Air Quality"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	got, err := store.List(ctx, clock.now)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if want := []string{"Air Quality"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("List = %v, want %v", got, want)
	}
}

func TestList_EmptyIsNonNil(t *testing.T) {
	clock := &fakeClock{now: baseTime()}
	store := newTestStore(t, clock)

	got, err := store.List(context.Background(), clock.now)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Fatalf("List = %#v, want empty non-nil slice", got)
	}
}

func TestList_SortedAscending(t *testing.T) {
	clock := &fakeClock{now: baseTime()}
	store := newTestStore(t, clock)
	ctx := context.Background()

	for _, name := range []string{"Water Quality", "Air Quality", "Income"} {
		if err := store.Add(ctx, name); err != nil {
			t.Fatalf("Add(%q): %v", name, err)
		}
	}

	got, err := store.List(ctx, clock.now)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	want := []string{"Air Quality", "Income", "Water Quality"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("List = %v, want %v", got, want)
	}
}

func TestAdd_RejectsUnknownIndicator(t *testing.T) {
	clock := &fakeClock{now: baseTime()}
	store := newTestStore(t, clock)
	ctx := context.Background()

	err := store.Add(ctx, "Innovataion")
	if !errors.Is(err, model.ErrInvalidIndicator) {
		t.Fatalf("Add(unknown) err = %v, want ErrInvalidIndicator", err)
	}

	got, err := store.List(ctx, clock.now)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("List = %v after rejected add, want empty", got)
	}
}

func TestAdd_IsIdempotentUpsert(t *testing.T) {
	clock := &fakeClock{now: baseTime()}
	store := newTestStore(t, clock)
	ctx := context.Background()

	if err := store.Add(ctx, "Congestion"); err != nil {
		t.Fatalf("first Add: %v", err)
	}
	second := baseTime().Add(48 * time.Hour)
	clock.now = second
	if err := store.Add(ctx, "Congestion"); err != nil {
		t.Fatalf("second Add: %v", err)
	}

	var rows int
	if err := store.db.QueryRow("SELECT COUNT(*) FROM updates WHERE indicator = 'Congestion'").Scan(&rows); err != nil {
		t.Fatalf("count: %v", err)
	}
	if rows != 1 {
		t.Fatalf("rows for Congestion = %d, want 1", rows)
	}

	rec, err := store.Record(ctx, "Congestion")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if !rec.Updated.Equal(second) {
		t.Fatalf("marked-at = %v, want %v", rec.Updated, second)
	}
}

func TestRemove_ThenListExcludes(t *testing.T) {
	clock := &fakeClock{now: baseTime()}
	store := newTestStore(t, clock)
	ctx := context.Background()

	for _, name := range []string{"Air Quality", "Income"} {
		if err := store.Add(ctx, name); err != nil {
			t.Fatalf("Add(%q): %v", name, err)
		}
	}
	if err := store.Remove(ctx, "Air Quality"); err != nil {
		t.Fatalf("Remove: %v", err)
	}

	got, err := store.List(ctx, clock.now)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if want := []string{"Income"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("List = %v, want %v", got, want)
	}
}

func TestRemove_AbsentReturnsNotFound(t *testing.T) {
	clock := &fakeClock{now: baseTime()}
	store := newTestStore(t, clock)

	err := store.Remove(context.Background(), "Congestion")
	if !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("Remove(absent) err = %v, want ErrNotFound", err)
	}
}

func TestRemove_TwiceSecondIsNotFound(t *testing.T) {
	clock := &fakeClock{now: baseTime()}
	store := newTestStore(t, clock)
	ctx := context.Background()

	if err := store.Add(ctx, "Income"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := store.Remove(ctx, "Income"); err != nil {
		t.Fatalf("first Remove: %v", err)
	}
	if err := store.Remove(ctx, "Income"); !errors.Is(err, model.ErrNotFound) {
		t.Fatalf("second Remove err = %v, want ErrNotFound", err)
	}
}

func TestList_WindowBoundary(t *testing.T) {
	clock := &fakeClock{now: baseTime()}
	store := newTestStore(t, clock)
	ctx := context.Background()

	if err := store.Add(ctx, "Water Quality"); err != nil {
		t.Fatalf("Add: %v", err)
	}

	tests := []struct {
		name string
		now  time.Time
		want int
	}{
		{"same instant", baseTime(), 1},
		{"29 days later", baseTime().Add(29 * 24 * time.Hour), 1},
		{"exactly 30 days later", baseTime().Add(model.ExpiryWindow), 1},
		{"30 days and a second later", baseTime().Add(model.ExpiryWindow + time.Second), 0},
		{"60 days later", baseTime().Add(2 * model.ExpiryWindow), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := store.List(ctx, tt.now)
			if err != nil {
				t.Fatalf("List: %v", err)
			}
			if len(got) != tt.want {
				t.Fatalf("List(%v) = %v, want %d entries", tt.now, got, tt.want)
			}
		})
	}
}

func TestList_ExpiryIsLazy(t *testing.T) {
	clock := &fakeClock{now: baseTime()}
	store := newTestStore(t, clock)
	ctx := context.Background()

	if err := store.Add(ctx, "Income"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if _, err := store.List(ctx, baseTime().Add(90*24*time.Hour)); err != nil {
		t.Fatalf("List: %v", err)
	}

	// The expired record is hidden from listings but still stored.
	if _, err := store.Record(ctx, "Income"); err != nil {
		t.Fatalf("Record after expiry: %v", err)
	}
	if err := store.Remove(ctx, "Income"); err != nil {
		t.Fatalf("Remove expired record: %v", err)
	}
}

func TestReAddAfterExpiryRestoresOverlay(t *testing.T) {
	clock := &fakeClock{now: baseTime()}
	store := newTestStore(t, clock)
	ctx := context.Background()

	if err := store.Add(ctx, "Income"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	later := baseTime().Add(45 * 24 * time.Hour)
	clock.now = later
	if err := store.Add(ctx, "Income"); err != nil {
		t.Fatalf("re-Add: %v", err)
	}

	got, err := store.List(ctx, later)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if want := []string{"Income"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("List = %v, want %v", got, want)
	}
}

func TestClosedStoreIsUnavailable(t *testing.T) {
	clock := &fakeClock{now: baseTime()}
	store := newTestStore(t, clock)
	ctx := context.Background()
	store.Close()

	if err := store.Add(ctx, "Income"); !errors.Is(err, model.ErrUnavailable) {
		t.Errorf("Add on closed store err = %v, want ErrUnavailable", err)
	}
	if err := store.Remove(ctx, "Income"); !errors.Is(err, model.ErrUnavailable) {
		t.Errorf("Remove on closed store err = %v, want ErrUnavailable", err)
	}
	if _, err := store.List(ctx, clock.now); !errors.Is(err, model.ErrUnavailable) {
		t.Errorf("List on closed store err = %v, want ErrUnavailable", err)
	}
}

func TestOpen_UnsupportedDriver(t *testing.T) {
	if _, err := Open("sqlite", "", Options{}); err == nil {
		t.Fatal("Open(sqlite) succeeded, want error")
	}
}

func TestOpen_PostgresRequiresDSN(t *testing.T) {
	if _, err := Open(DriverPostgres, "", Options{}); err == nil {
		t.Fatal("Open(pgx, \"\") succeeded, want error")
	}
}
