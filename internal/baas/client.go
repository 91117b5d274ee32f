// Package baas stores popularity records in an Appwrite database through
// its REST document API.
package baas

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/go-querystring/query"

	"github.com/pders01/flik/internal/config"
	"github.com/pders01/flik/internal/debuglog"
)

type Options struct {
	Endpoint     string
	ProjectID    string
	APIKey       string
	DatabaseID   string
	CollectionID string
	UserAgent    string
	Timeout      time.Duration
}

func OptionsFromConfig(store config.StoreConfig, userAgent string) Options {
	return Options{
		Endpoint:     store.Endpoint,
		ProjectID:    store.ProjectID,
		APIKey:       store.APIKey,
		DatabaseID:   store.DatabaseID,
		CollectionID: store.CollectionID,
		UserAgent:    userAgent,
		Timeout:      store.Timeout,
	}
}

// APIError is an error body returned by Appwrite.
type APIError struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
	Code    int    `json:"code"`
	Type    string `json:"type"`
}

func (e *APIError) Error() string {
	if e.Type != "" {
		return fmt.Sprintf("appwrite %d %s: %s", e.Status, e.Type, e.Message)
	}
	return fmt.Sprintf("appwrite %d: %s", e.Status, e.Message)
}

// Client manages making requests to the Appwrite REST API.
type Client struct {
	opts       Options
	httpClient *http.Client
	log        *debuglog.FieldLogger
}

func NewClient(opts Options, httpClient *http.Client) *Client {
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 10 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}
	opts.Endpoint = strings.TrimRight(opts.Endpoint, "/")

	return &Client{
		opts:       opts,
		httpClient: httpClient,
		log:        debuglog.WithFields(map[string]interface{}{"component": "appwrite"}),
	}
}

func (c *Client) documentsPath() string {
	return fmt.Sprintf("/databases/%s/collections/%s/documents",
		url.PathEscape(c.opts.DatabaseID), url.PathEscape(c.opts.CollectionID))
}

func (c *Client) get(ctx context.Context, path string, params interface{}, target interface{}) error {
	return c.doRequest(ctx, http.MethodGet, path, params, nil, target)
}

func (c *Client) post(ctx context.Context, path string, body interface{}, target interface{}) error {
	return c.doRequest(ctx, http.MethodPost, path, nil, body, target)
}

func (c *Client) patch(ctx context.Context, path string, body interface{}, target interface{}) error {
	return c.doRequest(ctx, http.MethodPatch, path, nil, body, target)
}

func (c *Client) doRequest(ctx context.Context, method, path string, params interface{}, body interface{}, target interface{}) error {
	fullURL, err := url.Parse(c.opts.Endpoint + path)
	if err != nil {
		return fmt.Errorf("invalid endpoint: %w", err)
	}

	if params != nil {
		v, err := query.Values(params)
		if err != nil {
			return fmt.Errorf("encoding query parameters: %w", err)
		}
		fullURL.RawQuery = v.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, fullURL.String(), reqBody)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Appwrite-Project", c.opts.ProjectID)
	if c.opts.APIKey != "" {
		req.Header.Set("X-Appwrite-Key", c.opts.APIKey)
	}
	if c.opts.UserAgent != "" {
		req.Header.Set("User-Agent", c.opts.UserAgent)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	c.log.Debugf("%s %s", method, fullURL.Path)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("executing request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response body: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if jsonErr := json.Unmarshal(respBody, apiErr); jsonErr != nil || apiErr.Message == "" {
			apiErr.Message = strings.TrimSpace(string(respBody))
		}
		return apiErr
	}

	if target != nil {
		if err := json.Unmarshal(respBody, target); err != nil {
			return fmt.Errorf("decoding response body: %w", err)
		}
	}
	return nil
}

func isConflict(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict
}
