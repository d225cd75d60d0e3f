package scraper

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	"ProductImporter/internal/domain"
	"ProductImporter/internal/ports"
)

const (
	// DefaultUserAgent mimics desktop Chrome.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36"
	defaultTimeout   = 10 * time.Second
	maxPageBytes     = 5 << 20
)

// PageScraper fetches product pages and extracts description and image.
type PageScraper struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

var _ ports.PageScraper = (*PageScraper)(nil)

// NewPageScraper wires an HTTP client; a nil client gets a 10s timeout.
func NewPageScraper(client *http.Client, userAgent string, log *slog.Logger) *PageScraper {
	if client == nil {
		client = &http.Client{Timeout: defaultTimeout}
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	return &PageScraper{client: client, userAgent: userAgent, logger: log}
}

// Scrape downloads pageURL and runs the description and image extractors.
func (s *PageScraper) Scrape(ctx context.Context, pageURL, productName string) (domain.ScrapedPage, error) {
	doc, err := s.fetchDocument(ctx, pageURL)
	if err != nil {
		return domain.ScrapedPage{}, err
	}

	page := domain.ScrapedPage{
		URL:         pageURL,
		Description: ExtractDescription(doc),
		Image:       ExtractImage(doc, pageURL, productName),
	}
	s.debug("page scraped", "url", pageURL,
		"description_len", len(page.Description), "image", page.Image != "")
	return page, nil
}

func (s *PageScraper) fetchDocument(ctx context.Context, pageURL string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8")
	req.Header.Set("Accept-Language", "tr-TR,tr;q=0.9,en-US;q=0.8,en;q=0.7")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("page %s returned %s", pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	return doc, nil
}

func (s *PageScraper) debug(msg string, args ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
