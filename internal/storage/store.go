// Package storage is the embedded bbolt backend for popularity records.
package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	bolt "go.etcd.io/bbolt"

	"github.com/pders01/flik/internal/debuglog"
	"github.com/pders01/flik/internal/popularity"
)

var (
	searchesBucket = []byte("searches")
	termsBucket    = []byte("terms")
)

type Store struct {
	db  *bolt.DB
	now func() time.Time
}

var _ popularity.Store = (*Store)(nil)

func NewStore(dbPath string, timeout time.Duration) (*Store, error) {
	if timeout <= 0 {
		timeout = 1 * time.Second
	}
	db, err := bolt.Open(dbPath, 0o600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{searchesBucket, termsBucket} {
			if _, createErr := tx.CreateBucketIfNotExists(bucket); createErr != nil {
				return createErr
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating buckets: %w", err)
	}

	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) FindByTerm(ctx context.Context, term string) (popularity.Record, error) {
	if err := ctx.Err(); err != nil {
		return popularity.Record{}, err
	}

	var doc searchDocument
	err := s.db.View(func(tx *bolt.Tx) error {
		id := tx.Bucket(termsBucket).Get([]byte(term))
		if id == nil {
			return popularity.ErrNotFound
		}
		return getDocument(tx, id, &doc)
	})
	if err != nil {
		return popularity.Record{}, err
	}
	return doc.record(), nil
}

func (s *Store) Create(ctx context.Context, rec popularity.Record) (popularity.Record, error) {
	if err := ctx.Err(); err != nil {
		return popularity.Record{}, err
	}

	now := s.now()
	doc := searchDocument{
		ID:         uuid.NewString(),
		SearchTerm: rec.SearchTerm,
		Count:      rec.Count,
		MovieID:    rec.MovieID,
		PosterURL:  rec.PosterURL,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		terms := tx.Bucket(termsBucket)
		// A term recorded by another writer since the caller's lookup is
		// counted into the existing document.
		if id := terms.Get([]byte(doc.SearchTerm)); id != nil {
			var existing searchDocument
			if err := getDocument(tx, id, &existing); err != nil {
				return err
			}
			existing.Count += max(rec.Count, 1)
			existing.UpdatedAt = now
			doc = existing
			return putDocument(tx, doc)
		}
		if err := putDocument(tx, doc); err != nil {
			return err
		}
		return terms.Put([]byte(doc.SearchTerm), []byte(doc.ID))
	})
	if err != nil {
		return popularity.Record{}, fmt.Errorf("creating record: %w", err)
	}
	return doc.record(), nil
}

// Increment reads the stored count inside the write transaction, so
// concurrent increments of one record are not lost.
func (s *Store) Increment(ctx context.Context, rec popularity.Record) (popularity.Record, error) {
	if err := ctx.Err(); err != nil {
		return popularity.Record{}, err
	}

	var doc searchDocument
	err := s.db.Update(func(tx *bolt.Tx) error {
		if err := getDocument(tx, []byte(rec.ID), &doc); err != nil {
			return err
		}
		doc.Count++
		doc.UpdatedAt = s.now()
		return putDocument(tx, doc)
	})
	if err != nil {
		return popularity.Record{}, fmt.Errorf("incrementing record %s: %w", rec.ID, err)
	}
	return doc.record(), nil
}

// Top orders by count descending, then by first recording.
func (s *Store) Top(ctx context.Context, limit int) ([]popularity.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var docs []searchDocument
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(searchesBucket).ForEach(func(k []byte, v []byte) error {
			var doc searchDocument
			if err := json.Unmarshal(v, &doc); err != nil {
				debuglog.Warnf("storage: skipping undecodable record %s: %v", k, err)
				return nil
			}
			docs = append(docs, doc)
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("listing records: %w", err)
	}

	sort.SliceStable(docs, func(i, j int) bool {
		if docs[i].Count != docs[j].Count {
			return docs[i].Count > docs[j].Count
		}
		return docs[i].CreatedAt.Before(docs[j].CreatedAt)
	})
	if limit > 0 && len(docs) > limit {
		docs = docs[:limit]
	}

	records := make([]popularity.Record, 0, len(docs))
	for _, doc := range docs {
		records = append(records, doc.record())
	}
	return records, nil
}

func getDocument(tx *bolt.Tx, id []byte, doc *searchDocument) error {
	data := tx.Bucket(searchesBucket).Get(id)
	if data == nil {
		return popularity.ErrNotFound
	}
	return json.Unmarshal(data, doc)
}

func putDocument(tx *bolt.Tx, doc searchDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	return tx.Bucket(searchesBucket).Put([]byte(doc.ID), data)
}
