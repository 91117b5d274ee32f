package popularity

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var errUnavailable = errors.New("store unavailable")

// fakeStore is an in-memory Store with failure injection.
type fakeStore struct {
	mu      sync.Mutex
	records []Record
	nextID  int

	findErr      error
	createErr    error
	incrementErr error
	topErr       error

	calls map[string]int
}

func newFakeStore(records ...Record) *fakeStore {
	s := &fakeStore{calls: map[string]int{}}
	for _, rec := range records {
		s.nextID++
		if rec.ID == "" {
			rec.ID = fmt.Sprintf("doc-%d", s.nextID)
		}
		s.records = append(s.records, rec)
	}
	return s
}

func (s *fakeStore) FindByTerm(_ context.Context, term string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["find"]++

	if s.findErr != nil {
		return Record{}, s.findErr
	}
	for _, rec := range s.records {
		if rec.SearchTerm == term {
			return rec, nil
		}
	}
	return Record{}, ErrNotFound
}

func (s *fakeStore) Create(_ context.Context, rec Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["create"]++

	if s.createErr != nil {
		return Record{}, s.createErr
	}
	s.nextID++
	rec.ID = fmt.Sprintf("doc-%d", s.nextID)
	s.records = append(s.records, rec)
	return rec, nil
}

func (s *fakeStore) Increment(_ context.Context, rec Record) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["increment"]++

	if s.incrementErr != nil {
		return Record{}, s.incrementErr
	}
	for i := range s.records {
		if s.records[i].ID == rec.ID {
			s.records[i].Count++
			return s.records[i], nil
		}
	}
	return Record{}, ErrNotFound
}

func (s *fakeStore) Top(_ context.Context, limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls["top"]++

	if s.topErr != nil {
		return nil, s.topErr
	}
	out := append([]Record(nil), s.records...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *fakeStore) snapshot() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Record(nil), s.records...)
}

func (s *fakeStore) callCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}
