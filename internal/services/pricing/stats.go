package pricing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/officialpathway/pathwei-website/internal/platform/blob"
	apperrors "github.com/officialpathway/pathwei-website/internal/platform/errors"
)

// StatsKey is the blob key holding per-price counters.
const StatsKey = "ab-testing/price-stats.json"

// Event is a tracked interaction with the pricing call-to-action.
type Event string

const (
	EventClick      Event = "click"
	EventConversion Event = "conversion"
)

// PriceStat holds the counters for one price.
type PriceStat struct {
	Clicks      int64     `json:"clicks"`
	Conversions int64     `json:"conversions"`
	LastUpdated time.Time `json:"lastUpdated"`
}

// Stats maps a price string to its counters.
type Stats map[string]PriceStat

// StatsStore reads and updates the counters document.
type StatsStore struct {
	blob   blob.Store
	key    string
	prices []string
	valid  func(string) bool
	now    func() time.Time

	// mu serialises writers in this process so they do not conflict with each
	// other; cross-process writers are reconciled by blob.UpdateJSON.
	mu sync.Mutex
}

// NewStatsStore returns a store for the experiment's counters.
func NewStatsStore(store blob.Store, exp *Experiment) *StatsStore {
	return &StatsStore{
		blob:   store,
		key:    StatsKey,
		prices: exp.Prices(),
		valid:  exp.IsValid,
		now:    time.Now,
	}
}

// RecordClick counts a click on price.
func (s *StatsStore) RecordClick(ctx context.Context, price string) (PriceStat, error) {
	return s.Record(ctx, price, EventClick)
}

// RecordConversion counts a conversion on price.
func (s *StatsStore) RecordConversion(ctx context.Context, price string) (PriceStat, error) {
	return s.Record(ctx, price, EventConversion)
}

// Record increments the counter for event on price and returns the updated
// counters for that price.
func (s *StatsStore) Record(ctx context.Context, price string, event Event) (PriceStat, error) {
	if !s.valid(price) {
		return PriceStat{}, apperrors.WithMetadata(
			apperrors.CodePriceUnknown,
			"price is not part of the experiment",
			map[string]string{"Price": price},
		)
	}
	if event != EventClick && event != EventConversion {
		return PriceStat{}, apperrors.New(apperrors.CodeInvalidArgument, "unknown tracking event")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	updated, err := blob.UpdateJSON(ctx, s.blob, s.key, func(stats *Stats) error {
		if *stats == nil {
			*stats = s.zeroStats(time.Time{})
		}
		entry := (*stats)[price]
		switch event {
		case EventClick:
			entry.Clicks++
		case EventConversion:
			entry.Conversions++
		}
		entry.LastUpdated = s.now().UTC()
		(*stats)[price] = entry
		return nil
	})
	if err != nil {
		return PriceStat{}, fmt.Errorf("record %s for %s: %w", event, price, err)
	}
	return updated[price], nil
}

// Snapshot returns the counters for every configured price. Prices without
// recorded events are reported with zero counters.
func (s *StatsStore) Snapshot(ctx context.Context) (Stats, error) {
	stored, _, err := blob.ReadJSON[Stats](ctx, s.blob, s.key)
	if err != nil {
		return nil, fmt.Errorf("read price stats: %w", err)
	}
	snapshot := s.zeroStats(time.Time{})
	for price, entry := range stored {
		snapshot[price] = entry
	}
	return snapshot, nil
}

// Reset zeroes all counters.
func (s *StatsStore) Reset(ctx context.Context) (Stats, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	zero := s.zeroStats(s.now().UTC())
	if err := blob.WriteJSON(ctx, s.blob, s.key, zero); err != nil {
		return nil, fmt.Errorf("reset price stats: %w", err)
	}
	return zero, nil
}

func (s *StatsStore) zeroStats(stamp time.Time) Stats {
	stats := make(Stats, len(s.prices))
	for _, price := range s.prices {
		stats[price] = PriceStat{LastUpdated: stamp}
	}
	return stats
}
