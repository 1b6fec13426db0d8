// Package mealdb is the recipe data source backed by TheMealDB public API.
// It is a thin pass-through: three GET endpoints, no caching, and by default
// no retries. Every failure is logged and turned into an empty result so
// callers never have to handle transport errors.
package mealdb

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/cenkalti/backoff/v4"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hammamikhairi/recipebox/internal/domain"
	"github.com/hammamikhairi/recipebox/internal/logger"
)

// DefaultBaseURL is the public v1 API with the shared test key.
const DefaultBaseURL = "https://www.themealdb.com/api/json/v1/1"

// Endpoint names, used in logs and metrics.
const (
	endpointSearch = "search"
	endpointLookup = "lookup"
	endpointRandom = "random"
)

// maxBodyBytes bounds how much of a response is read.
const maxBodyBytes = 4 << 20

// Compile-time interface check.
var _ domain.RecipeSource = (*Client)(nil)

// ── Options ──────────────────────────────────────────────────────

// ClientOption configures the Client.
type ClientOption func(*Client)

// WithHTTPTimeout sets the HTTP client timeout.
func WithHTTPTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) ClientOption {
	return func(c *Client) {
		if h != nil {
			c.http = h
		}
	}
}

// WithRetries sets how many times a recoverable failure is retried.
// Zero (the default) means a single attempt.
func WithRetries(n int) ClientOption {
	return func(c *Client) {
		if n >= 0 {
			c.retries = n
		}
	}
}

// WithBackoff sets the initial and maximum wait between retries.
func WithBackoff(initial, max time.Duration) ClientOption {
	return func(c *Client) {
		c.backoffInitial = initial
		c.backoffMax = max
	}
}

// WithDebugLogging logs every request and response status at debug level.
func WithDebugLogging(enabled bool) ClientOption {
	return func(c *Client) { c.debug = enabled }
}

// WithRegistry registers the client's metrics with reg instead of the
// default registry.
func WithRegistry(reg prometheus.Registerer) ClientOption {
	return func(c *Client) { c.metrics = newMetrics(reg) }
}

// ── Client ───────────────────────────────────────────────────────

// Client talks to the catalog API. Safe for concurrent use.
type Client struct {
	baseURL        string
	http           *http.Client
	retries        int
	backoffInitial time.Duration
	backoffMax     time.Duration
	debug          bool
	metrics        *metrics
	log            *logger.Logger
}

// NewClient creates a catalog client. An empty baseURL selects DefaultBaseURL.
func NewClient(baseURL string, log *logger.Logger, opts ...ClientOption) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           &http.Client{Timeout: 30 * time.Second},
		backoffInitial: 250 * time.Millisecond,
		backoffMax:     2 * time.Second,
		metrics:        defaultMetrics,
		log:            log,
	}
	for _, o := range opts {
		o(c)
	}
	if c.debug {
		base := c.http.Transport
		if base == nil {
			base = http.DefaultTransport
		}
		h := *c.http
		h.Transport = &debugTransport{base: base, log: log}
		c.http = &h
	}
	return c
}

// Search returns the catalog's matches for a free-text query. It never
// fails: transport and parse errors are logged and yield an empty slice.
func (c *Client) Search(ctx context.Context, query string) ([]domain.Recipe, error) {
	meals, err := c.fetch(ctx, endpointSearch, "search.php", url.Values{"s": {query}})
	if err != nil {
		c.log.Error("mealdb: search %q: %v", query, err)
		return []domain.Recipe{}, nil
	}
	recipes := toRecipes(meals)
	c.log.Debug("mealdb: search %q -> %d recipes", query, len(recipes))
	return recipes, nil
}

// Get returns the recipe with the exact identifier. Missing recipes and
// failed requests both yield domain.ErrNotFound.
func (c *Client) Get(ctx context.Context, id string) (*domain.Recipe, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, domain.ErrNotFound
	}
	meals, err := c.fetch(ctx, endpointLookup, "lookup.php", url.Values{"i": {id}})
	if err != nil {
		c.log.Error("mealdb: lookup %s: %v", id, err)
		return nil, domain.ErrNotFound
	}
	return first(meals)
}

// Random returns one arbitrary recipe, or domain.ErrNotFound on error.
func (c *Client) Random(ctx context.Context) (*domain.Recipe, error) {
	meals, err := c.fetch(ctx, endpointRandom, "random.php", nil)
	if err != nil {
		c.log.Error("mealdb: random: %v", err)
		return nil, domain.ErrNotFound
	}
	return first(meals)
}

func first(meals []meal) (*domain.Recipe, error) {
	recipes := toRecipes(meals)
	if len(recipes) == 0 {
		return nil, domain.ErrNotFound
	}
	r := recipes[0]
	return &r, nil
}

// fetch performs one GET (plus configured retries) and decodes the envelope.
func (c *Client) fetch(ctx context.Context, endpoint, path string, query url.Values) ([]meal, error) {
	u := c.baseURL + "/" + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var meals []meal
	attempt := 0
	op := func() error {
		if attempt > 0 {
			c.metrics.retries.WithLabelValues(endpoint).Inc()
		}
		attempt++

		var err error
		meals, err = c.get(ctx, endpoint, u)
		if err == nil {
			return nil
		}
		if ctx.Err() != nil || !isRecoverable(err) {
			return backoff.Permanent(err)
		}
		return err
	}

	exp := backoff.NewExponentialBackOff()
	exp.InitialInterval = c.backoffInitial
	exp.MaxInterval = c.backoffMax
	exp.Multiplier = 2
	exp.MaxElapsedTime = 0
	b := backoff.WithContext(backoff.WithMaxRetries(exp, uint64(c.retries)), ctx)

	err := backoff.RetryNotify(op, b, func(err error, wait time.Duration) {
		c.log.Warn("mealdb: %s failed, retrying in %s: %v", endpoint, wait, err)
	})
	if err != nil {
		c.metrics.requests.WithLabelValues(endpoint, outcomeError).Inc()
		return nil, err
	}

	outcome := outcomeOK
	if len(meals) == 0 {
		outcome = outcomeEmpty
	}
	c.metrics.requests.WithLabelValues(endpoint, outcome).Inc()
	return meals, nil
}

func (c *Client) get(ctx context.Context, endpoint, u string) ([]meal, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("mealdb: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("mealdb: request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("mealdb: read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Endpoint: endpoint, StatusCode: resp.StatusCode, Body: truncate(string(body), 200)}
	}

	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, &decodeError{endpoint: endpoint, err: err}
	}
	return env.Meals, nil
}

// truncate shortens s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
