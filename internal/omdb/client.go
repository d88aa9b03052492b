package omdb

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

// Client provides access to the OMDB API.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
}

var _ Catalog = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout on the default HTTP client.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient = &http.Client{Timeout: timeout}
		}
	}
}

// WithRateLimit caps outgoing requests to perSecond. Zero or negative disables
// the limiter. Callers wait for a token; nothing is retried.
func WithRateLimit(perSecond float64) Option {
	return func(c *Client) {
		if perSecond > 0 {
			c.limiter = rate.NewLimiter(rate.Limit(perSecond), 1)
		}
	}
}

// New creates an OMDB client.
func New(apiKey, baseURL string, opts ...Option) (*Client, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("omdb api key required")
	}
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("omdb base url required")
	}
	client := &Client{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

type searchEnvelope struct {
	Search       []Summary `json:"Search"`
	TotalResults string    `json:"totalResults"`
	Response     string    `json:"Response"`
	Error        string    `json:"Error"`
}

// Search returns one page of movie matches for query. Pages start at 1; an
// OMDB "no results" response yields an empty page.
func (c *Client) Search(ctx context.Context, query string, page int) (*SearchPage, error) {
	if page < 1 {
		page = 1
	}
	params := url.Values{}
	params.Set("s", query)
	params.Set("type", "movie")
	params.Set("page", strconv.Itoa(page))

	var payload searchEnvelope
	if err := c.get(ctx, OpSearch, params, &payload); err != nil {
		return nil, err
	}
	if isFalse(payload.Response) {
		return &SearchPage{Results: []Summary{}}, nil
	}

	results := payload.Search
	if results == nil {
		results = []Summary{}
	}
	total, err := strconv.Atoi(strings.TrimSpace(payload.TotalResults))
	if err != nil {
		total = 0
	}
	return &SearchPage{Results: results, TotalResults: total}, nil
}

// GetByID fetches full details for an IMDb id, or nil when OMDB has no match.
func (c *Client) GetByID(ctx context.Context, imdbID string) (*Detail, error) {
	params := url.Values{}
	params.Set("i", imdbID)
	params.Set("plot", "full")
	return c.detail(ctx, OpGetByID, params)
}

// GetByTitle fetches full details for an exact title. A zero year leaves the
// year unconstrained, in which case OMDB picks among same-titled films on its
// own terms.
func (c *Client) GetByTitle(ctx context.Context, title string, year int) (*Detail, error) {
	params := url.Values{}
	params.Set("t", title)
	params.Set("plot", "full")
	if year != 0 {
		params.Set("y", strconv.Itoa(year))
	}
	return c.detail(ctx, OpGetByTitle, params)
}

func (c *Client) detail(ctx context.Context, op string, params url.Values) (*Detail, error) {
	var payload Detail
	if err := c.get(ctx, op, params, &payload); err != nil {
		return nil, err
	}
	if isFalse(payload.Response) {
		return nil, nil
	}
	return &payload, nil
}

func (c *Client) get(ctx context.Context, op string, params url.Values, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return networkError(op, err, "rate limit wait")
		}
	}

	endpoint, err := url.Parse(c.baseURL + "/")
	if err != nil {
		return networkError(op, err, "parse omdb url")
	}
	params.Set("apikey", c.apiKey)
	endpoint.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return networkError(op, err, "build request")
	}
	req.Header.Set("Accept", "application/json")

	requestStart := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := time.Since(requestStart)
	if err != nil {
		return networkError(op, redactKey(err, c.apiKey), "execute request (latency=%v)", latency)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return networkError(op, nil, "HTTP %d (latency=%v)", resp.StatusCode, latency)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return parseError(op, err)
	}
	return nil
}

func isFalse(value string) bool {
	return strings.EqualFold(strings.TrimSpace(value), "false")
}

// redactKey strips the API key from transport errors, which embed the
// request URL. The wrapped cause is kept so context errors stay detectable.
func redactKey(err error, key string) error {
	if key == "" || !strings.Contains(err.Error(), key) {
		return err
	}
	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		redacted := *urlErr
		redacted.URL = strings.ReplaceAll(urlErr.URL, key, "REDACTED")
		if urlErr.Err != nil && strings.Contains(urlErr.Err.Error(), key) {
			redacted.Err = redactedError{msg: strings.ReplaceAll(urlErr.Err.Error(), key, "REDACTED"), cause: urlErr.Err}
		}
		return &redacted
	}
	return redactedError{msg: strings.ReplaceAll(err.Error(), key, "REDACTED"), cause: err}
}

// redactedError rewrites a message while keeping its cause for errors.Is.
type redactedError struct {
	msg   string
	cause error
}

func (e redactedError) Error() string { return e.msg }

func (e redactedError) Unwrap() error { return e.cause }
