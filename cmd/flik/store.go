package main

import (
	"context"
	"fmt"

	"github.com/pders01/flik/internal/baas"
	"github.com/pders01/flik/internal/config"
	"github.com/pders01/flik/internal/popularity"
	"github.com/pders01/flik/internal/storage"
)

// openStore builds the configured popularity backend. The returned func
// releases it.
func openStore(cfg *config.Config) (popularity.Store, func() error, error) {
	switch cfg.Store.Backend {
	case config.BackendAppwrite:
		client := baas.NewClient(baas.OptionsFromConfig(cfg.Store, cfg.Catalog.UserAgent), nil)
		return client, func() error { return nil }, nil
	case config.BackendBolt:
		store, err := storage.NewStore(cfg.Store.Path, cfg.Store.Timeout)
		if err != nil {
			return nil, nil, err
		}
		return store, store.Close, nil
	default:
		return nil, nil, fmt.Errorf("%w: %q", config.ErrUnknownBackend, cfg.Store.Backend)
	}
}

// unavailableStore stands in for a backend that failed to open so the
// recorder and trending reader keep their log-and-continue behavior.
type unavailableStore struct {
	err error
}

func (u unavailableStore) FindByTerm(context.Context, string) (popularity.Record, error) {
	return popularity.Record{}, u.err
}

func (u unavailableStore) Create(context.Context, popularity.Record) (popularity.Record, error) {
	return popularity.Record{}, u.err
}

func (u unavailableStore) Increment(context.Context, popularity.Record) (popularity.Record, error) {
	return popularity.Record{}, u.err
}

func (u unavailableStore) Top(context.Context, int) ([]popularity.Record, error) {
	return nil, u.err
}
