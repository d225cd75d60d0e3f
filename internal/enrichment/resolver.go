package enrichment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"unicode/utf8"

	"ProductImporter/internal/domain"
	"ProductImporter/internal/normalize"
	"ProductImporter/internal/ports"
)

const (
	// DefaultPlaceholderBase serves a keyword-matched stock photo.
	DefaultPlaceholderBase = "https://source.unsplash.com/800x600/"

	// MinDescriptionLen is the shortest description kept without falling back.
	MinDescriptionLen = 20

	pageSearchResults  = 5
	imageSearchResults = 1

	fallbackSuffix = " - Yüksek kaliteli ve güvenilir ürün. Detaylı bilgi ve özellikler için ürün sayfasını ziyaret edin."
)

// Deps wires the collaborators of a Resolver. Every field except Logger
// may be nil; a nil collaborator skips its strategy.
type Deps struct {
	Search          ports.SearchProvider
	Scraper         ports.PageScraper
	Writer          ports.DescriptionWriter
	PlaceholderBase string
	Logger          *slog.Logger
}

// Resolver finds a description, an image and a product page for one product.
type Resolver struct {
	search          ports.SearchProvider
	scraper         ports.PageScraper
	writer          ports.DescriptionWriter
	placeholderBase string
	logger          *slog.Logger
}

var _ ports.Resolver = (*Resolver)(nil)

// NewResolver constructs the strategy chain.
func NewResolver(deps Deps) *Resolver {
	base := strings.TrimSpace(deps.PlaceholderBase)
	if base == "" {
		base = DefaultPlaceholderBase
	}
	return &Resolver{
		search:          deps.Search,
		scraper:         deps.Scraper,
		writer:          deps.Writer,
		placeholderBase: base,
		logger:          deps.Logger,
	}
}

// Resolve never fails: every strategy error degrades to the next strategy,
// and the result always carries a non-empty image and description.
func (r *Resolver) Resolve(ctx context.Context, name, brand, pageURL string) domain.Enrichment {
	result := domain.Enrichment{URL: strings.TrimSpace(pageURL)}

	if result.URL == "" {
		result.URL = r.FindProductPage(ctx, name, brand)
	}

	if result.URL != "" && r.scraper != nil {
		page, err := r.scraper.Scrape(ctx, result.URL, name)
		if err != nil {
			r.debug("scrape failed", "product", name, "url", result.URL, "error", err)
		} else {
			result.Description = page.Description
			result.Image = page.Image
		}
	}

	if result.Image == "" {
		result.Image = r.FindImage(ctx, name, brand)
	}

	if tooShort(result.Description) {
		if text := r.writeDescription(ctx, name, brand); !tooShort(text) {
			result.Description = text
		}
	}

	if result.Image == "" {
		result.Image = PlaceholderImage(r.placeholderBase, name, brand)
	}
	if tooShort(result.Description) {
		result.Description = FallbackDescription(name, brand)
	}

	return result
}

// FindProductPage searches for a product page, scoped to the brand's
// likely domain. It returns "" when nothing usable is found.
func (r *Resolver) FindProductPage(ctx context.Context, name, brand string) string {
	if r.search == nil || !r.search.Enabled() {
		return ""
	}

	results, err := r.search.Search(ctx, PageQuery(name, brand), ports.SearchOptions{NumResults: pageSearchResults})
	if err != nil {
		r.searchFailed("page search failed", name, err)
		return ""
	}
	return pickLink(results, brandKey(brand))
}

// FindImage asks the search provider for a single image result.
func (r *Resolver) FindImage(ctx context.Context, name, brand string) string {
	if r.search == nil || !r.search.Enabled() {
		return ""
	}

	query := strings.TrimSpace(brand + " " + name)
	results, err := r.search.Search(ctx, query, ports.SearchOptions{NumResults: imageSearchResults, Type: ports.SearchImage})
	if err != nil {
		r.searchFailed("image search failed", name, err)
		return ""
	}
	if len(results) == 0 {
		return ""
	}
	return results[0].Link
}

func (r *Resolver) writeDescription(ctx context.Context, name, brand string) string {
	if r.writer == nil {
		return ""
	}
	text, err := r.writer.WriteDescription(ctx, name, brand)
	if err != nil {
		r.warn("description writer failed", "product", name, "error", err)
		return ""
	}
	return strings.TrimSpace(text)
}

// PageQuery builds the search query for a product page.
func PageQuery(name, brand string) string {
	name = strings.TrimSpace(name)
	brand = strings.TrimSpace(brand)
	if brand == "" {
		return name
	}
	if key := brandKey(brand); key != "" {
		return fmt.Sprintf("%s %s site:%s.com", brand, name, key)
	}
	return brand + " " + name
}

// PlaceholderImage builds a keyword image URL from brand and name.
func PlaceholderImage(base, name, brand string) string {
	if base == "" {
		base = DefaultPlaceholderBase
	}
	keywords := strings.TrimSpace(strings.TrimSpace(brand) + " " + strings.TrimSpace(name))
	if keywords == "" {
		keywords = "product"
	}
	return base + "?" + strings.ReplaceAll(url.QueryEscape(keywords), "+", "%20")
}

// FallbackDescription is the templated description used when every other
// strategy came up short.
func FallbackDescription(name, brand string) string {
	name = strings.TrimSpace(name)
	if brand = strings.TrimSpace(brand); brand != "" {
		return brand + " marka " + name + fallbackSuffix
	}
	return name + fallbackSuffix
}

func brandKey(brand string) string {
	return strings.ReplaceAll(normalize.Slugify(brand), "-", "")
}

func pickLink(results []ports.SearchResult, key string) string {
	if len(results) == 0 {
		return ""
	}
	if key != "" {
		for _, res := range results {
			if strings.Contains(strings.ToLower(res.Link), key) {
				return res.Link
			}
		}
	}
	return results[0].Link
}

func tooShort(text string) bool {
	return utf8.RuneCountInString(strings.TrimSpace(text)) < MinDescriptionLen
}

func (r *Resolver) searchFailed(msg, name string, err error) {
	if errors.Is(err, ports.ErrNotConfigured) {
		r.debug(msg, "product", name, "error", err)
		return
	}
	r.warn(msg, "product", name, "error", err)
}

func (r *Resolver) debug(msg string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Debug(msg, args...)
	}
}

func (r *Resolver) warn(msg string, args ...interface{}) {
	if r.logger != nil {
		r.logger.Warn(msg, args...)
	}
}
