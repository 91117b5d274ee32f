package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pders01/flik/internal/validation"
)

var (
	ErrMissingCredential = errors.New("missing credential")
	ErrInvalidEndpoint   = errors.New("invalid endpoint")
	ErrMissingSetting    = errors.New("missing setting")
	ErrUnknownBackend    = errors.New("unknown store backend")
	ErrInvalidPath       = errors.New("invalid path")
)

// ValidationError collects every problem found in a configuration.
type ValidationError struct {
	Problems []error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		msgs = append(msgs, p.Error())
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

func (e *ValidationError) Unwrap() []error {
	return e.Problems
}

// Validate normalizes endpoints in place and reports missing credentials or
// unusable settings. A nil return means the client can start fully wired.
func (c *Config) Validate() error {
	var problems []error
	v := validation.NewPermissiveEndpointValidator()

	endpoint := func(key string, target *string) {
		normalized, err := v.ValidateAndNormalize(*target)
		if err != nil {
			problems = append(problems, fmt.Errorf("%s: %w: %v", key, ErrInvalidEndpoint, err))
			return
		}
		*target = normalized
	}
	paths := validation.NewFilePathValidator()
	file := func(key string, target *string) {
		normalized, err := paths.ValidateFile(*target)
		if err != nil {
			problems = append(problems, fmt.Errorf("%s: %w: %v", key, ErrInvalidPath, err))
			return
		}
		*target = normalized
	}
	required := func(key, value string, sentinel error) {
		if strings.TrimSpace(value) == "" {
			problems = append(problems, fmt.Errorf("%s: %w", key, sentinel))
		}
	}

	required("catalog.api_key", c.Catalog.APIKey, ErrMissingCredential)
	endpoint("catalog.base_url", &c.Catalog.BaseURL)
	endpoint("catalog.image_base_url", &c.Catalog.ImageBaseURL)
	endpoint("catalog.web_url", &c.Catalog.WebURL)

	switch c.Store.Backend {
	case BackendAppwrite:
		endpoint("store.endpoint", &c.Store.Endpoint)
		required("store.project_id", c.Store.ProjectID, ErrMissingCredential)
		required("store.database_id", c.Store.DatabaseID, ErrMissingSetting)
		required("store.collection_id", c.Store.CollectionID, ErrMissingSetting)
	case BackendBolt:
		if strings.TrimSpace(c.Store.Path) == "" {
			required("store.path", c.Store.Path, ErrMissingSetting)
		} else {
			file("store.path", &c.Store.Path)
		}
	default:
		problems = append(problems, fmt.Errorf("store.backend %q: %w", c.Store.Backend, ErrUnknownBackend))
	}

	if c.Log.File != "" && c.Log.File != "-" && !strings.EqualFold(c.Log.Level, "off") {
		file("log.file", &c.Log.File)
	}

	if c.Search.Debounce <= 0 {
		problems = append(problems, fmt.Errorf("search.debounce must be positive, got %s", c.Search.Debounce))
	}
	if c.Search.TrendingLimit <= 0 {
		problems = append(problems, fmt.Errorf("search.trending_limit must be positive, got %d", c.Search.TrendingLimit))
	}

	if len(problems) == 0 {
		return nil
	}
	return &ValidationError{Problems: problems}
}
