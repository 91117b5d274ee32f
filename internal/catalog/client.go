package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/pders01/flik/internal/config"
	"github.com/pders01/flik/internal/debuglog"
	"github.com/pders01/flik/internal/metrics"
)

const (
	endpointDiscover = "discover"
	endpointSearch   = "search"

	// maxErrorBody bounds how much of a failed response is logged.
	maxErrorBody = 4096
)

type Options struct {
	BaseURL           string
	APIKey            string
	UserAgent         string
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

func OptionsFromConfig(c config.CatalogConfig) Options {
	return Options{
		BaseURL:           c.BaseURL,
		APIKey:            c.APIKey,
		UserAgent:         c.UserAgent,
		Timeout:           c.HTTPTimeout,
		RequestsPerSecond: c.RequestsPerSecond,
		Burst:             c.Burst,
	}
}

type Client struct {
	opts    Options
	client  *http.Client
	limiter *rate.Limiter
	log     *debuglog.FieldLogger
}

// NewClient builds a catalog client. A nil httpClient gets one with the
// configured timeout.
func NewClient(opts Options, httpClient *http.Client) *Client {
	if httpClient == nil {
		timeout := opts.Timeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	limit := rate.Inf
	if opts.RequestsPerSecond > 0 {
		limit = rate.Limit(opts.RequestsPerSecond)
	}
	burst := opts.Burst
	if burst <= 0 {
		burst = 1
	}

	return &Client{
		opts:    opts,
		client:  httpClient,
		limiter: rate.NewLimiter(limit, burst),
		log:     debuglog.WithFields(map[string]interface{}{"component": "catalog"}),
	}
}

// listResponse covers both TMDB list payloads and the in-body failure
// shapes ("Response": "False" and "success": false).
type listResponse struct {
	Results       []Movie `json:"results"`
	Response      string  `json:"Response"`
	Error         string  `json:"Error"`
	Success       *bool   `json:"success"`
	StatusMessage string  `json:"status_message"`
}

// SearchOrDiscover searches by title when query is non-empty and lists
// movies by popularity otherwise. Errors are always *FetchError.
func (c *Client) SearchOrDiscover(ctx context.Context, query string) (movies []Movie, err error) {
	endpoint, reqURL := c.buildURL(query)
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			c.log.Errorf("recovered from panic during %s request: %v", endpoint, r)
			movies = nil
			err = transportError(0, fmt.Errorf("panic: %v", r))
		}
		metrics.ObserveCatalogRequest(endpoint, outcome(err), time.Since(start))
	}()

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, transportError(0, fmt.Errorf("rate limiter: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, transportError(0, fmt.Errorf("creating request: %w", err))
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.opts.APIKey)
	if c.opts.UserAgent != "" {
		req.Header.Set("User-Agent", c.opts.UserAgent)
	}

	c.log.Debugf("GET %s", req.URL.Path)

	resp, err := c.client.Do(req)
	if err != nil {
		c.log.Errorf("request to %s failed: %v", endpoint, err)
		return nil, transportError(0, fmt.Errorf("fetching movies: %w", err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.log.WithField("status", resp.StatusCode).Errorf("%s returned non-2xx: %s", endpoint, strings.TrimSpace(string(body)))
		return nil, transportError(resp.StatusCode, fmt.Errorf("HTTP error: %d", resp.StatusCode))
	}

	var payload listResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.log.Errorf("decoding %s response: %v", endpoint, err)
		return nil, transportError(resp.StatusCode, fmt.Errorf("decoding response: %w", err))
	}

	if payload.Response == "False" {
		c.log.Warnf("%s reported failure: %q", endpoint, payload.Error)
		return nil, applicationError(payload.Error)
	}
	if payload.Success != nil && !*payload.Success {
		c.log.Warnf("%s reported failure: %q", endpoint, payload.StatusMessage)
		return nil, applicationError(payload.StatusMessage)
	}

	if payload.Results == nil {
		return []Movie{}, nil
	}
	return payload.Results, nil
}

func (c *Client) buildURL(query string) (endpoint, reqURL string) {
	base := strings.TrimRight(c.opts.BaseURL, "/")
	if query == "" {
		return endpointDiscover, base + "/discover/movie?sort_by=popularity.desc"
	}
	return endpointSearch, base + "/search/movie?query=" + encodeQuery(query)
}

// encodeQuery percent-encodes a search term with spaces as %20.
func encodeQuery(q string) string {
	return strings.ReplaceAll(url.QueryEscape(q), "+", "%20")
}

func outcome(err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}
	if fe, ok := err.(*FetchError); ok && fe.Kind == KindApplication {
		return metrics.OutcomeApplication
	}
	return metrics.OutcomeTransport
}
