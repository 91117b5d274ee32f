package popularity

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pders01/flik/internal/catalog"
	"github.com/pders01/flik/internal/metrics"
)

const imageBase = "https://image.tmdb.org/t/p/w500"

func newTestRecorder(store Store) *Recorder {
	return NewRecorder(store, RecorderOptions{ImageBaseURL: imageBase, Timeout: time.Second})
}

func TestRecorder_CreatesNewRecord(t *testing.T) {
	store := newFakeStore()
	rec := newTestRecorder(store)

	rec.Go("batman", catalog.Movie{ID: 268, Title: "Batman", PosterPath: "/bat.jpg"})
	rec.Wait()

	records := store.snapshot()
	require.Len(t, records, 1)
	assert.Equal(t, "batman", records[0].SearchTerm)
	assert.Equal(t, 1, records[0].Count)
	assert.Equal(t, 268, records[0].MovieID)
	assert.Equal(t, imageBase+"/bat.jpg", records[0].PosterURL)
}

func TestRecorder_IncrementsExistingRecord(t *testing.T) {
	store := newFakeStore(Record{SearchTerm: "batman", Count: 4, MovieID: 268})
	rec := newTestRecorder(store)

	rec.Go("batman", catalog.Movie{ID: 999, PosterPath: "/other.jpg"})
	rec.Wait()

	records := store.snapshot()
	require.Len(t, records, 1)
	assert.Equal(t, 5, records[0].Count)
	// The representative movie is fixed at creation.
	assert.Equal(t, 268, records[0].MovieID)
	assert.Equal(t, 0, store.callCount("create"))
}

func TestRecorder_RecordingTwiceYieldsCountTwo(t *testing.T) {
	store := newFakeStore()
	rec := newTestRecorder(store)
	movie := catalog.Movie{ID: 603, PosterPath: "/matrix.jpg"}

	rec.Go("matrix", movie)
	rec.Wait()
	rec.Go("matrix", movie)
	rec.Wait()

	records := store.snapshot()
	require.Len(t, records, 1)
	assert.Equal(t, 2, records[0].Count)
}

func TestRecorder_ExactMatchOnly(t *testing.T) {
	store := newFakeStore(Record{SearchTerm: "Batman", Count: 1})
	rec := newTestRecorder(store)

	rec.Go("batman", catalog.Movie{ID: 1})
	rec.Wait()

	assert.Len(t, store.snapshot(), 2)
}

func TestRecorder_IgnoresEmptyQuery(t *testing.T) {
	store := newFakeStore()
	rec := newTestRecorder(store)

	rec.Go("", catalog.Movie{ID: 1})
	rec.Wait()

	assert.Empty(t, store.snapshot())
	assert.Equal(t, 0, store.callCount("find"))
}

func TestRecorder_FailuresAreSwallowed(t *testing.T) {
	tests := []struct {
		name  string
		setup func(*fakeStore)
	}{
		{name: "lookup fails", setup: func(s *fakeStore) { s.findErr = errUnavailable }},
		{name: "create fails", setup: func(s *fakeStore) { s.createErr = errUnavailable }},
		{name: "increment fails", setup: func(s *fakeStore) {
			s.records = append(s.records, Record{ID: "doc-1", SearchTerm: "heat", Count: 1})
			s.incrementErr = errUnavailable
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newFakeStore()
			tt.setup(store)
			rec := newTestRecorder(store)

			failed := metrics.PopularityRecordsTotal.WithLabelValues(metrics.OutcomeFailed)
			before := testutil.ToFloat64(failed)

			assert.NotPanics(t, func() {
				rec.Go("heat", catalog.Movie{ID: 949})
				rec.Wait()
			})
			assert.Equal(t, before+1, testutil.ToFloat64(failed))
		})
	}
}

type slowLookupStore struct {
	*fakeStore
	delay time.Duration
}

func (s *slowLookupStore) FindByTerm(ctx context.Context, term string) (Record, error) {
	time.Sleep(s.delay)
	return s.fakeStore.FindByTerm(ctx, term)
}

func TestRecorder_OverlappingRecordingsOfOneTerm(t *testing.T) {
	store := &slowLookupStore{fakeStore: newFakeStore(), delay: 50 * time.Millisecond}
	rec := newTestRecorder(store)
	movie := catalog.Movie{ID: 603, PosterPath: "/matrix.jpg"}

	rec.Go("matrix", movie)
	rec.Go("matrix", movie)
	rec.Go("matrix", movie)
	rec.Wait()

	records := store.snapshot()
	require.Len(t, records, 1, "one record per term")
	assert.Equal(t, 3, records[0].Count)
	assert.Equal(t, 1, store.callCount("create"))
	assert.Empty(t, rec.terms.locks, "term locks are released")
}

func TestRecorder_DistinctTermsRunConcurrently(t *testing.T) {
	store := &blockingStore{fakeStore: newFakeStore(), release: make(chan struct{})}
	rec := newTestRecorder(store)

	rec.Go("alien", catalog.Movie{ID: 348})
	rec.Go("heat", catalog.Movie{ID: 949})

	require.Eventually(t, func() bool {
		return store.entered.Load() == 2
	}, time.Second, 5*time.Millisecond, "both lookups are in flight at once")

	close(store.release)
	rec.Wait()
	assert.Len(t, store.snapshot(), 2)
}

type blockingStore struct {
	*fakeStore
	release chan struct{}
	entered atomic.Int32
}

func (s *blockingStore) FindByTerm(ctx context.Context, term string) (Record, error) {
	s.entered.Add(1)
	<-s.release
	return s.fakeStore.FindByTerm(ctx, term)
}

func TestRecorder_GoDoesNotBlock(t *testing.T) {
	store := &blockingStore{fakeStore: newFakeStore(), release: make(chan struct{})}
	rec := newTestRecorder(store)

	done := make(chan struct{})
	go func() {
		rec.Go("alien", catalog.Movie{ID: 348})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Go blocked on the store")
	}

	close(store.release)
	rec.Wait()
	assert.Len(t, store.snapshot(), 1)
}

type panickingStore struct{ *fakeStore }

func (panickingStore) FindByTerm(context.Context, string) (Record, error) {
	panic("driver bug")
}

func TestRecorder_WaitRecoversPanics(t *testing.T) {
	rec := newTestRecorder(panickingStore{newFakeStore()})

	assert.NotPanics(t, func() {
		rec.Go("alien", catalog.Movie{ID: 1})
		rec.Wait()
	})
}
