// Package popularity records which search terms users run and reads back
// the most searched ones.
package popularity

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Store.FindByTerm when no record matches.
var ErrNotFound = errors.New("popularity record not found")

// Record is one persisted search term and how often it was searched.
type Record struct {
	ID         string    `json:"id"`
	SearchTerm string    `json:"searchTerm"`
	Count      int       `json:"count"`
	MovieID    int       `json:"movie_id"`
	PosterURL  string    `json:"poster_url"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Entry is a ranked record as shown in the trending list.
type Entry struct {
	Rank       int
	SearchTerm string
	MovieID    int
	PosterURL  string
	Count      int
}

// Store is the document store holding popularity records.
type Store interface {
	// FindByTerm returns the record whose term equals term exactly.
	FindByTerm(ctx context.Context, term string) (Record, error)
	// Create persists rec and returns it with its assigned ID.
	Create(ctx context.Context, rec Record) (Record, error)
	// Increment adds one to the stored count of rec.
	Increment(ctx context.Context, rec Record) (Record, error)
	// Top returns up to limit records by count descending.
	Top(ctx context.Context, limit int) ([]Record, error)
}
