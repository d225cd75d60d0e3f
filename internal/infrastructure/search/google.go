package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"ProductImporter/internal/config"
	"ProductImporter/internal/ports"
)

const (
	// DefaultEndpoint is the Google Custom Search JSON API.
	DefaultEndpoint = "https://www.googleapis.com/customsearch/v1"
	maxResults      = 10
)

// GoogleClient implements ports.SearchProvider over Google Custom Search.
type GoogleClient struct {
	endpoint   string
	apiKey     string
	engineID   string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *slog.Logger
}

var _ ports.SearchProvider = (*GoogleClient)(nil)

type searchResponse struct {
	Items []struct {
		Link  string `json:"link"`
		Title string `json:"title"`
	} `json:"items"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewGoogleClient builds a client from configuration. Missing credentials
// yield a disabled client whose Search returns ports.ErrNotConfigured.
func NewGoogleClient(cfg config.SearchConfig, log *slog.Logger) *GoogleClient {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &GoogleClient{
		endpoint:   endpoint,
		apiKey:     strings.TrimSpace(cfg.APIKey),
		engineID:   strings.TrimSpace(cfg.EngineID),
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
		logger:     log,
	}
}

// Enabled reports whether both the API key and the engine id are set.
func (c *GoogleClient) Enabled() bool {
	return c != nil && c.apiKey != "" && c.engineID != ""
}

// Search runs one query and returns result links in ranking order.
func (c *GoogleClient) Search(ctx context.Context, query string, opts ports.SearchOptions) ([]ports.SearchResult, error) {
	if !c.Enabled() {
		return nil, ports.ErrNotConfigured
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("search rate limit: %w", err)
	}

	reqURL, err := c.buildURL(query, opts)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		payload, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, fmt.Errorf("search error %s: %s", resp.Status, strings.TrimSpace(string(payload)))
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}
	if decoded.Error != nil {
		return nil, fmt.Errorf("search error %d: %s", decoded.Error.Code, decoded.Error.Message)
	}

	results := make([]ports.SearchResult, 0, len(decoded.Items))
	for _, item := range decoded.Items {
		if item.Link == "" {
			continue
		}
		results = append(results, ports.SearchResult{Link: item.Link, Title: item.Title})
	}
	c.debug("search finished", "query", query, "type", string(opts.Type), "results", len(results))
	return results, nil
}

func (c *GoogleClient) buildURL(query string, opts ports.SearchOptions) (string, error) {
	u, err := url.Parse(c.endpoint)
	if err != nil {
		return "", fmt.Errorf("parse search endpoint: %w", err)
	}

	num := opts.NumResults
	if num <= 0 {
		num = 1
	}
	if num > maxResults {
		num = maxResults
	}

	q := u.Query()
	q.Set("key", c.apiKey)
	q.Set("cx", c.engineID)
	q.Set("q", query)
	q.Set("num", strconv.Itoa(num))
	if opts.Type != ports.SearchWeb {
		q.Set("searchType", string(opts.Type))
	}
	u.RawQuery = q.Encode()
	return u.String(), nil
}

func (c *GoogleClient) debug(msg string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
