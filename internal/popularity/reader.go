package popularity

import (
	"context"

	"github.com/pders01/flik/internal/debuglog"
	"github.com/pders01/flik/internal/metrics"
)

const DefaultTrendingLimit = 5

type Reader struct {
	store Store
	log   *debuglog.FieldLogger
}

func NewReader(store Store) *Reader {
	return &Reader{
		store: store,
		log:   debuglog.WithFields(map[string]interface{}{"component": "trending"}),
	}
}

// LoadTop returns the most searched terms ranked from 1. Failures are
// logged and yield an empty list.
func (r *Reader) LoadTop(ctx context.Context, limit int) []Entry {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}

	records, err := r.store.Top(ctx, limit)
	if err != nil {
		metrics.RecordTrendingLoad(metrics.OutcomeFailed)
		r.log.Errorf("loading trending searches: %v", err)
		return []Entry{}
	}

	entries := make([]Entry, 0, len(records))
	for i, rec := range records {
		if i >= limit {
			break
		}
		entries = append(entries, Entry{
			Rank:       i + 1,
			SearchTerm: rec.SearchTerm,
			MovieID:    rec.MovieID,
			PosterURL:  rec.PosterURL,
			Count:      rec.Count,
		})
	}

	if len(entries) == 0 {
		metrics.RecordTrendingLoad(metrics.OutcomeEmpty)
	} else {
		metrics.RecordTrendingLoad(metrics.OutcomeSuccess)
	}
	r.log.Debugf("loaded %d trending searches", len(entries))
	return entries
}
