package application

import (
	"context"
	"io"
	"log/slog"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/ports"
	"github.com/Apurer/pet-adoption-catalog/internal/domains/pets/search"
)

const defaultStaleAfter = 30 * time.Second

type compatEntry struct {
	scores    search.CompatibilityMap
	revision  uint64
	fetchedAt time.Time
}

// CompatibilityTracker keeps the last known score map per adopter.
//
// Lookups answer from the last known map right away and revalidate it in the
// background once it is older than the stale window; with nothing cached the
// first lookup fetches synchronously. Concurrent fetches for the same adopter
// share one backend call. A failed fetch keeps the previous map.
//
// After Close, results that arrive late are discarded. In-flight calls are
// never cancelled.
type CompatibilityTracker struct {
	source     ports.CompatibilitySource
	logger     *slog.Logger
	now        func() time.Time
	staleAfter time.Duration

	group singleflight.Group

	mu       sync.Mutex
	entries  map[int64]compatEntry
	revision uint64
	closed   bool
}

// TrackerOption configures a CompatibilityTracker.
type TrackerOption func(*CompatibilityTracker)

// WithTrackerLogger injects a slog logger.
func WithTrackerLogger(logger *slog.Logger) TrackerOption {
	return func(t *CompatibilityTracker) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithStaleAfter sets how old a map may get before a lookup revalidates it.
func WithStaleAfter(d time.Duration) TrackerOption {
	return func(t *CompatibilityTracker) {
		t.staleAfter = d
	}
}

// WithTrackerClock overrides time.Now.
func WithTrackerClock(now func() time.Time) TrackerOption {
	return func(t *CompatibilityTracker) {
		if now != nil {
			t.now = now
		}
	}
}

// NewCompatibilityTracker builds a tracker reading scores from source.
func NewCompatibilityTracker(source ports.CompatibilitySource, opts ...TrackerOption) *CompatibilityTracker {
	t := &CompatibilityTracker{
		source:     source,
		logger:     slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:        time.Now,
		staleAfter: defaultStaleAfter,
		entries:    map[int64]compatEntry{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// Lookup returns the score map for adopterID and its revision. Revisions are
// unique per stored map, so they identify the map across adopters. An unknown
// adopter, a zero id or a failed first fetch yields (nil, 0).
func (t *CompatibilityTracker) Lookup(ctx context.Context, adopterID int64) (search.CompatibilityMap, uint64) {
	if t == nil || adopterID <= 0 {
		return nil, 0
	}
	t.mu.Lock()
	entry, ok := t.entries[adopterID]
	closed := t.closed
	t.mu.Unlock()

	if closed {
		return entry.scores, entry.revision
	}
	if !ok {
		t.fetch(ctx, adopterID)
		t.mu.Lock()
		entry = t.entries[adopterID]
		t.mu.Unlock()
		return entry.scores, entry.revision
	}
	if t.now().Sub(entry.fetchedAt) >= t.staleAfter {
		bg := context.WithoutCancel(ctx)
		go t.fetch(bg, adopterID)
	}
	return entry.scores, entry.revision
}

// Invalidate forgets the map for adopterID so the next lookup fetches again.
func (t *CompatibilityTracker) Invalidate(adopterID int64) {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, adopterID)
}

// Close stops accepting fetch results.
func (t *CompatibilityTracker) Close() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.closed = true
}

func (t *CompatibilityTracker) fetch(ctx context.Context, adopterID int64) {
	_, _, _ = t.group.Do(strconv.FormatInt(adopterID, 10), func() (any, error) {
		scores, err := t.source.Compatibility(ctx, adopterID)
		if err != nil {
			t.logger.WarnContext(ctx, "compatibility fetch failed, keeping last known scores",
				slog.Int64("adopter_id", adopterID), slog.String("error", err.Error()))
			return nil, err
		}
		t.store(adopterID, scores)
		return nil, nil
	})
}

func (t *CompatibilityTracker) store(adopterID int64, scores map[int64]int) {
	copied := make(search.CompatibilityMap, len(scores))
	for id, score := range scores {
		copied[id] = score
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		t.logger.Debug("discarding compatibility result after close", slog.Int64("adopter_id", adopterID))
		return
	}
	t.revision++
	t.entries[adopterID] = compatEntry{scores: copied, revision: t.revision, fetchedAt: t.now()}
}
