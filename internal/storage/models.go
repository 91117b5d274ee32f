package storage

import (
	"time"

	"github.com/pders01/flik/internal/popularity"
)

// searchDocument is the on-disk form of a popularity record.
type searchDocument struct {
	ID         string    `json:"id"`
	SearchTerm string    `json:"searchTerm"`
	Count      int       `json:"count"`
	MovieID    int       `json:"movie_id"`
	PosterURL  string    `json:"poster_url"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (d searchDocument) record() popularity.Record {
	return popularity.Record{
		ID:         d.ID,
		SearchTerm: d.SearchTerm,
		Count:      d.Count,
		MovieID:    d.MovieID,
		PosterURL:  d.PosterURL,
		UpdatedAt:  d.UpdatedAt,
	}
}
