package ports

import (
	"context"
	"errors"

	"ProductImporter/internal/domain"
)

// ErrNotConfigured signals an optional collaborator without credentials.
// Callers treat it as "no result", never as a failure.
var ErrNotConfigured = errors.New("provider not configured")

// SearchType selects web or image results.
type SearchType string

const (
	SearchWeb   SearchType = ""
	SearchImage SearchType = "image"
)

// SearchOptions narrows a single search call.
type SearchOptions struct {
	NumResults int
	Type       SearchType
}

// SearchResult is one hit returned by a search provider.
type SearchResult struct {
	Link  string
	Title string
}

// SearchProvider finds product pages and images on the web.
type SearchProvider interface {
	Enabled() bool
	Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error)
}

// PageScraper downloads a product page and extracts its description and image.
type PageScraper interface {
	Scrape(ctx context.Context, pageURL, productName string) (domain.ScrapedPage, error)
}

// DescriptionWriter drafts a product description when scraping found none.
type DescriptionWriter interface {
	WriteDescription(ctx context.Context, name, brand string) (string, error)
}

// Resolver enriches a single product from external sources. It never fails.
type Resolver interface {
	Resolve(ctx context.Context, name, brand, pageURL string) domain.Enrichment
}

// ProductSubmitter creates a product on the remote catalog.
type ProductSubmitter interface {
	CreateProduct(ctx context.Context, product domain.Product, accessToken, shopID string) domain.SubmitResult
}

// TokenSource exchanges client credentials for an access token.
type TokenSource interface {
	FetchToken(ctx context.Context, clientID, clientSecret string) (domain.Token, error)
}

// Notifier publishes a batch summary to operators.
type Notifier interface {
	PublishSummary(ctx context.Context, text string) error
}
