package baas

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/pders01/flik/internal/popularity"
)

const (
	attrSearchTerm = "searchTerm"
	attrCount      = "count"
)

var _ popularity.Store = (*Client)(nil)

type searchDocument struct {
	ID         string    `json:"$id"`
	UpdatedAt  time.Time `json:"$updatedAt"`
	SearchTerm string    `json:"searchTerm"`
	Count      int       `json:"count"`
	MovieID    int       `json:"movie_id"`
	PosterURL  string    `json:"poster_url"`
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

type documentList struct {
	Total     int              `json:"total"`
	Documents []searchDocument `json:"documents"`
}

type searchData struct {
	SearchTerm string `json:"searchTerm"`
	Count      int    `json:"count"`
	MovieID    int    `json:"movie_id"`
	PosterURL  string `json:"poster_url"`
}

type createRequest struct {
	DocumentID string     `json:"documentId"`
	Data       searchData `json:"data"`
}

type countUpdate struct {
	Data struct {
		Count int `json:"count"`
	} `json:"data"`
}

// FindByTerm returns the first document whose searchTerm equals term.
func (c *Client) FindByTerm(ctx context.Context, term string) (popularity.Record, error) {
	var list documentList
	params := listParams{Queries: []string{equal(attrSearchTerm, term)}}
	if err := c.get(ctx, c.documentsPath(), params, &list); err != nil {
		return popularity.Record{}, fmt.Errorf("listing documents: %w", err)
	}
	if len(list.Documents) == 0 {
		return popularity.Record{}, popularity.ErrNotFound
	}
	return list.Documents[0].record(), nil
}

// termNamespace seeds document ids so a term always maps to the same id.
var termNamespace = uuid.MustParse("6f1c1f0e-8d7a-4c1e-9b2f-3f5f0f3c9a51")

func termDocumentID(term string) string {
	return uuid.NewSHA1(termNamespace, []byte(term)).String()
}

// Create stores rec under an id derived from its term. When another client
// created the term first, the existing document is incremented instead.
func (c *Client) Create(ctx context.Context, rec popularity.Record) (popularity.Record, error) {
	body := createRequest{
		DocumentID: termDocumentID(rec.SearchTerm),
		Data: searchData{
			SearchTerm: rec.SearchTerm,
			Count:      rec.Count,
			MovieID:    rec.MovieID,
			PosterURL:  rec.PosterURL,
		},
	}

	var doc searchDocument
	err := c.post(ctx, c.documentsPath(), body, &doc)
	if isConflict(err) {
		c.log.Debugf("document for %q already exists, incrementing", rec.SearchTerm)
		existing, err := c.FindByTerm(ctx, rec.SearchTerm)
		if err != nil {
			return popularity.Record{}, fmt.Errorf("creating document: %w", err)
		}
		return c.Increment(ctx, existing)
	}
	if err != nil {
		return popularity.Record{}, fmt.Errorf("creating document: %w", err)
	}
	return doc.record(), nil
}

// Increment writes rec.Count+1. The REST API has no atomic increment, so
// concurrent writers can lose updates.
func (c *Client) Increment(ctx context.Context, rec popularity.Record) (popularity.Record, error) {
	var body countUpdate
	body.Data.Count = rec.Count + 1

	var doc searchDocument
	path := c.documentsPath() + "/" + url.PathEscape(rec.ID)
	if err := c.patch(ctx, path, body, &doc); err != nil {
		return popularity.Record{}, fmt.Errorf("updating document %s: %w", rec.ID, err)
	}
	return doc.record(), nil
}

func (c *Client) Top(ctx context.Context, n int) ([]popularity.Record, error) {
	var list documentList
	params := listParams{Queries: []string{limit(n), orderDesc(attrCount)}}
	if err := c.get(ctx, c.documentsPath(), params, &list); err != nil {
		return nil, fmt.Errorf("listing documents: %w", err)
	}

	records := make([]popularity.Record, 0, len(list.Documents))
	for _, doc := range list.Documents {
		records = append(records, doc.record())
	}
	return records, nil
}
