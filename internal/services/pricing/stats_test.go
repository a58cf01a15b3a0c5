package pricing

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/officialpathway/pathwei-website/internal/platform/blob"
	apperrors "github.com/officialpathway/pathwei-website/internal/platform/errors"
)

func newTestStats(t *testing.T) (*StatsStore, *blob.Memory) {
	t.Helper()
	store := blob.NewMemory()
	stats := NewStatsStore(store, newTestExperiment(t, 0))
	stats.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return stats, store
}

func TestRecordIncrementsCounters(t *testing.T) {
	ctx := context.Background()
	stats, _ := newTestStats(t)

	if _, err := stats.RecordClick(ctx, "9.99"); err != nil {
		t.Fatalf("click: %v", err)
	}
	if _, err := stats.RecordClick(ctx, "9.99"); err != nil {
		t.Fatalf("click: %v", err)
	}
	got, err := stats.RecordConversion(ctx, "9.99")
	if err != nil {
		t.Fatalf("conversion: %v", err)
	}
	want := PriceStat{Clicks: 2, Conversions: 1, LastUpdated: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("stat mismatch (-want +got):\n%s", diff)
	}
}

func TestRecordRejectsUnknownPrice(t *testing.T) {
	stats, _ := newTestStats(t)
	_, err := stats.RecordClick(context.Background(), "99.00")
	if !apperrors.IsCode(err, apperrors.CodePriceUnknown) {
		t.Fatalf("error = %v, want PRICE_UNKNOWN", err)
	}
}

func TestSnapshotFillsMissingPrices(t *testing.T) {
	ctx := context.Background()
	stats, _ := newTestStats(t)

	empty, err := stats.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if len(empty) != 3 {
		t.Fatalf("snapshot = %v, want three zero entries", empty)
	}

	if _, err := stats.RecordConversion(ctx, "14.99"); err != nil {
		t.Fatalf("conversion: %v", err)
	}
	snapshot, err := stats.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snapshot["14.99"].Conversions != 1 || snapshot["9.99"].Clicks != 0 {
		t.Fatalf("snapshot = %+v", snapshot)
	}
}

func TestSnapshotReadsLegacyDocument(t *testing.T) {
	ctx := context.Background()
	stats, store := newTestStats(t)
	legacy := `{"19.99":{"clicks":7,"conversions":2,"lastUpdated":"2025-11-02T10:00:00Z"}}`
	if _, err := store.Put(ctx, StatsKey, []byte(legacy), blob.PutOptions{}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	snapshot, err := stats.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if snapshot["19.99"].Clicks != 7 || snapshot["19.99"].Conversions != 2 {
		t.Fatalf("snapshot = %+v", snapshot)
	}
}

func TestResetZeroesCounters(t *testing.T) {
	ctx := context.Background()
	stats, _ := newTestStats(t)
	if _, err := stats.RecordClick(ctx, "19.99"); err != nil {
		t.Fatalf("click: %v", err)
	}
	if _, err := stats.Reset(ctx); err != nil {
		t.Fatalf("reset: %v", err)
	}
	snapshot, err := stats.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	for price, entry := range snapshot {
		if entry.Clicks != 0 || entry.Conversions != 0 {
			t.Fatalf("price %s not reset: %+v", price, entry)
		}
	}
}

func TestConcurrentStoresDoNotLoseClicks(t *testing.T) {
	ctx := context.Background()
	shared := blob.NewMemory()
	exp := newTestExperiment(t, 0)
	// Two stores over one blob emulate the site and admin processes.
	first := NewStatsStore(shared, exp)
	second := NewStatsStore(shared, exp)

	const perStore = 25
	var wg sync.WaitGroup
	for _, store := range []*StatsStore{first, second} {
		for i := 0; i < perStore; i++ {
			wg.Add(1)
			go func(s *StatsStore) {
				defer wg.Done()
				if _, err := s.RecordClick(ctx, "14.99"); err != nil {
					t.Errorf("click: %v", err)
				}
			}(store)
		}
	}
	wg.Wait()

	snapshot, err := first.Snapshot(ctx)
	if err != nil {
		t.Fatalf("snapshot: %v", err)
	}
	if got := snapshot["14.99"].Clicks; got != 2*perStore {
		t.Fatalf("clicks = %d, want %d", got, 2*perStore)
	}
}
