package ideasoft

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"ProductImporter/internal/config"
	"ProductImporter/internal/domain"
	"ProductImporter/internal/ports"
)

const (
	// StatusPassive is sent for every created product.
	StatusPassive = "passive"

	unknownError = "Bilinmeyen bir hata oluştu"
	maxBodyBytes = 1 << 20
)

// Client talks to the Ideasoft REST API.
type Client struct {
	baseURL    string
	tokenURL   string
	httpClient *http.Client
	limiter    *rate.Limiter
	now        func() time.Time
	logger     *slog.Logger
}

var (
	_ ports.ProductSubmitter = (*Client)(nil)
	_ ports.TokenSource      = (*Client)(nil)
)

// NewClient builds a client from configuration.
func NewClient(cfg config.IdeasoftConfig, log *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerSecond > 0 {
		limit = rate.Limit(cfg.RequestsPerSecond)
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		tokenURL:   cfg.TokenURL,
		httpClient: &http.Client{Timeout: timeout},
		limiter:    rate.NewLimiter(limit, 1),
		now:        time.Now,
		logger:     log,
	}
}

// ProductImage is one entry of the images array.
type ProductImage struct {
	URL       string `json:"url"`
	IsPrimary bool   `json:"isPrimary"`
}

// ProductPayload is the product creation request body.
type ProductPayload struct {
	Name        string         `json:"name"`
	SKU         string         `json:"sku"`
	Price       json.Number    `json:"price"`
	Stock       int            `json:"stock"`
	Status      string         `json:"status"`
	Description string         `json:"description"`
	Images      []ProductImage `json:"images"`
	Category    string         `json:"category"`
	Brand       string         `json:"brand"`
}

// NewProductPayload maps a product to the creation request body.
// Status is always passive.
func NewProductPayload(p domain.Product) ProductPayload {
	images := []ProductImage{}
	if p.Image != "" {
		images = append(images, ProductImage{URL: p.Image, IsPrimary: true})
	}
	stock := p.Stock
	if stock < 0 {
		stock = 0
	}

	return ProductPayload{
		Name:        p.Name,
		SKU:         p.SKU,
		Price:       json.Number(p.Price.String()),
		Stock:       stock,
		Status:      StatusPassive,
		Description: p.Description,
		Images:      images,
		Category:    p.Category,
		Brand:       p.Brand,
	}
}

// CreateProduct posts one product. It never returns an error; failures are
// reported in the result with the best available message.
func (c *Client) CreateProduct(ctx context.Context, product domain.Product, accessToken, shopID string) domain.SubmitResult {
	body, err := json.Marshal(NewProductPayload(product))
	if err != nil {
		return domain.SubmitResult{Error: fmt.Sprintf("marshal product: %v", err)}
	}

	endpoint := fmt.Sprintf("%s/shops/%s/products", c.baseURL, url.PathEscape(shopID))
	status, payload, err := c.post(ctx, endpoint, body, accessToken)
	if err != nil {
		return domain.SubmitResult{Error: messageOrDefault(err.Error()), StatusCode: status}
	}

	if status < 200 || status >= 300 {
		msg := errorMessage(payload, "message", "error")
		if msg == "" {
			msg = fmt.Sprintf("request failed with status code %d", status)
		}
		c.debug("create product rejected", "product", product.Name, "status", status, "error", msg)
		return domain.SubmitResult{Error: msg, StatusCode: status}
	}

	data := json.RawMessage(bytes.TrimSpace(payload))
	if len(data) == 0 || !json.Valid(data) {
		data = nil
	}
	return domain.SubmitResult{Success: true, Data: data, StatusCode: status}
}

type tokenRequest struct {
	GrantType    string `json:"grant_type"`
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// FetchToken exchanges client credentials for an access token.
func (c *Client) FetchToken(ctx context.Context, clientID, clientSecret string) (domain.Token, error) {
	if strings.TrimSpace(clientID) == "" || strings.TrimSpace(clientSecret) == "" {
		return domain.Token{}, fmt.Errorf("client id and client secret are required")
	}

	body, err := json.Marshal(tokenRequest{
		GrantType:    "client_credentials",
		ClientID:     clientID,
		ClientSecret: clientSecret,
	})
	if err != nil {
		return domain.Token{}, fmt.Errorf("marshal token request: %w", err)
	}

	status, payload, err := c.post(ctx, c.tokenURL, body, "")
	if err != nil {
		return domain.Token{}, fmt.Errorf("token request: %w", err)
	}
	if status < 200 || status >= 300 {
		msg := errorMessage(payload, "message", "error_description", "error")
		if msg == "" {
			msg = fmt.Sprintf("request failed with status code %d", status)
		}
		return domain.Token{}, fmt.Errorf("token request rejected (%d): %s", status, msg)
	}

	var decoded tokenResponse
	if err := json.Unmarshal(payload, &decoded); err != nil {
		return domain.Token{}, fmt.Errorf("decode token response: %w", err)
	}
	if decoded.AccessToken == "" {
		return domain.Token{}, fmt.Errorf("token response has no access_token")
	}

	return domain.Token{
		AccessToken: decoded.AccessToken,
		TokenType:   decoded.TokenType,
		ExpiresIn:   decoded.ExpiresIn,
		IssuedAt:    c.now(),
	}, nil
}

func (c *Client) post(ctx context.Context, endpoint string, body []byte, accessToken string) (int, []byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, fmt.Errorf("rate limit: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return 0, nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("read response: %w", err)
	}
	return resp.StatusCode, payload, nil
}

// errorMessage returns the first non-empty string field among keys.
func errorMessage(payload []byte, keys ...string) string {
	var body map[string]any
	if err := json.Unmarshal(payload, &body); err != nil {
		return ""
	}
	for _, key := range keys {
		if v, ok := body[key].(string); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}

func messageOrDefault(msg string) string {
	if strings.TrimSpace(msg) == "" {
		return unknownError
	}
	return msg
}

func (c *Client) debug(msg string, args ...interface{}) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
