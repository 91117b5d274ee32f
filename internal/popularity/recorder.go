package popularity

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sourcegraph/conc"

	"github.com/pders01/flik/internal/catalog"
	"github.com/pders01/flik/internal/debuglog"
	"github.com/pders01/flik/internal/metrics"
)

const defaultRecordTimeout = 10 * time.Second

type RecorderOptions struct {
	ImageBaseURL string
	Timeout      time.Duration
}

// Recorder counts successful searches in the background. Callers never
// wait on it and never see its errors.
type Recorder struct {
	store Store
	opts  RecorderOptions
	wg    conc.WaitGroup
	log   *debuglog.FieldLogger
	terms termLocks
}

// termLocks serializes recordings of one term so the find-then-create
// sequence cannot run twice for the same term at once.
type termLocks struct {
	mu    sync.Mutex
	locks map[string]*termLock
}

type termLock struct {
	sync.Mutex
	refs int
}

func (t *termLocks) lock(term string) func() {
	t.mu.Lock()
	if t.locks == nil {
		t.locks = make(map[string]*termLock)
	}
	l, ok := t.locks[term]
	if !ok {
		l = &termLock{}
		t.locks[term] = l
	}
	l.refs++
	t.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		t.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(t.locks, term)
		}
		t.mu.Unlock()
	}
}

func NewRecorder(store Store, opts RecorderOptions) *Recorder {
	if opts.Timeout <= 0 {
		opts.Timeout = defaultRecordTimeout
	}
	return &Recorder{
		store: store,
		opts:  opts,
		log:   debuglog.WithFields(map[string]interface{}{"component": "recorder"}),
	}
}

// Go records one search for query with top as its representative movie.
// It returns immediately. Empty queries are ignored.
func (r *Recorder) Go(query string, top catalog.Movie) {
	if query == "" {
		return
	}
	r.wg.Go(func() {
		r.record(query, top)
	})
}

// Wait blocks until every recording started so far has finished.
func (r *Recorder) Wait() {
	if rec := r.wg.WaitAndRecover(); rec != nil {
		metrics.RecordPopularity(metrics.OutcomeFailed)
		r.log.Errorf("recording panicked: %v", rec.Value)
	}
}

func (r *Recorder) record(query string, top catalog.Movie) {
	unlock := r.terms.lock(query)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), r.opts.Timeout)
	defer cancel()

	log := r.log.WithField("term", query)

	existing, err := r.store.FindByTerm(ctx, query)
	switch {
	case err == nil:
		if _, err := r.store.Increment(ctx, existing); err != nil {
			metrics.RecordPopularity(metrics.OutcomeFailed)
			log.Errorf("incrementing search count: %v", err)
			return
		}
		metrics.RecordPopularity(metrics.OutcomeIncremented)
		log.Debugf("incremented search count to %d", existing.Count+1)

	case errors.Is(err, ErrNotFound):
		rec := Record{
			SearchTerm: query,
			Count:      1,
			MovieID:    top.ID,
			PosterURL:  top.PosterURL(r.opts.ImageBaseURL),
		}
		if _, err := r.store.Create(ctx, rec); err != nil {
			metrics.RecordPopularity(metrics.OutcomeFailed)
			log.Errorf("creating search record: %v", err)
			return
		}
		metrics.RecordPopularity(metrics.OutcomeCreated)
		log.Debugf("created search record for movie %d", top.ID)

	default:
		metrics.RecordPopularity(metrics.OutcomeFailed)
		log.Errorf("looking up search term: %v", err)
	}
}
