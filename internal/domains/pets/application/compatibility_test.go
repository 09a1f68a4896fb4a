package application

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeCompat struct {
	mu     sync.Mutex
	scores map[int64]int
	err    error
	calls  atomic.Int32
	gate   chan struct{}
}

func (f *fakeCompat) Compatibility(context.Context, int64) (map[int64]int, error) {
	f.calls.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := make(map[int64]int, len(f.scores))
	for k, v := range f.scores {
		out[k] = v
	}
	return out, nil
}

func (f *fakeCompat) set(scores map[int64]int, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.scores = scores
	f.err = err
}

func TestTracker_FirstLookupFetchesSynchronously(t *testing.T) {
	source := &fakeCompat{scores: map[int64]int{1: 90}}
	tracker := NewCompatibilityTracker(source)

	scores, revision := tracker.Lookup(context.Background(), 5)

	require.Equal(t, 90, scores[1])
	require.NotZero(t, revision)
	require.Equal(t, int32(1), source.calls.Load())
}

func TestTracker_ZeroAdopterSkipsBackend(t *testing.T) {
	source := &fakeCompat{}
	tracker := NewCompatibilityTracker(source)

	scores, revision := tracker.Lookup(context.Background(), 0)

	require.Nil(t, scores)
	require.Zero(t, revision)
	require.Zero(t, source.calls.Load())
}

func TestTracker_ServesStaleAndRevalidates(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	var clockMu sync.Mutex
	clock := func() time.Time {
		clockMu.Lock()
		defer clockMu.Unlock()
		return now
	}
	source := &fakeCompat{scores: map[int64]int{1: 10}}
	tracker := NewCompatibilityTracker(source, WithStaleAfter(time.Minute), WithTrackerClock(clock))
	ctx := context.Background()

	_, first := tracker.Lookup(ctx, 5)

	// Fresh data: no revalidation.
	scores, revision := tracker.Lookup(ctx, 5)
	require.Equal(t, 10, scores[1])
	require.Equal(t, first, revision)
	require.Equal(t, int32(1), source.calls.Load())

	source.set(map[int64]int{1: 70}, nil)
	clockMu.Lock()
	now = now.Add(2 * time.Minute)
	clockMu.Unlock()

	stale, _ := tracker.Lookup(ctx, 5)
	require.Equal(t, 10, stale[1])

	require.Eventually(t, func() bool {
		fresh, rev := tracker.Lookup(ctx, 5)
		return fresh[1] == 70 && rev > first
	}, time.Second, 5*time.Millisecond)
}

func TestTracker_FailureKeepsLastKnownScores(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	source := &fakeCompat{scores: map[int64]int{1: 55}}
	tracker := NewCompatibilityTracker(source, WithStaleAfter(0), WithTrackerClock(func() time.Time { return now }))
	ctx := context.Background()

	tracker.Lookup(ctx, 5)
	source.set(nil, errors.New("backend down"))

	for i := 0; i < 3; i++ {
		scores, _ := tracker.Lookup(ctx, 5)
		require.Equal(t, 55, scores[1])
	}
}

func TestTracker_FailedFirstFetchYieldsNoScores(t *testing.T) {
	tracker := NewCompatibilityTracker(&fakeCompat{err: errors.New("down")})

	scores, revision := tracker.Lookup(context.Background(), 5)

	require.Nil(t, scores)
	require.Zero(t, revision)
}

func TestTracker_DiscardsResultsAfterClose(t *testing.T) {
	source := &fakeCompat{scores: map[int64]int{1: 90}, gate: make(chan struct{})}
	tracker := NewCompatibilityTracker(source)

	done := make(chan struct{})
	go func() {
		defer close(done)
		tracker.Lookup(context.Background(), 5)
	}()
	require.Eventually(t, func() bool { return source.calls.Load() == 1 }, time.Second, time.Millisecond)

	tracker.Close()
	close(source.gate)
	<-done

	scores, revision := tracker.Lookup(context.Background(), 5)
	require.Nil(t, scores)
	require.Zero(t, revision)
}

func TestTracker_RevisionsDifferAcrossAdopters(t *testing.T) {
	tracker := NewCompatibilityTracker(&fakeCompat{scores: map[int64]int{1: 1}})

	_, a := tracker.Lookup(context.Background(), 1)
	_, b := tracker.Lookup(context.Background(), 2)

	require.NotEqual(t, a, b)
}
