package enrichment

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ProductImporter/internal/domain"
	"ProductImporter/internal/ports"
)

type searchCall struct {
	query string
	opts  ports.SearchOptions
}

type fakeSearch struct {
	enabled bool
	pages   []ports.SearchResult
	images  []ports.SearchResult
	err     error
	calls   []searchCall
}

func (f *fakeSearch) Enabled() bool { return f.enabled }

func (f *fakeSearch) Search(_ context.Context, query string, opts ports.SearchOptions) ([]ports.SearchResult, error) {
	f.calls = append(f.calls, searchCall{query: query, opts: opts})
	if f.err != nil {
		return nil, f.err
	}
	if opts.Type == ports.SearchImage {
		return f.images, nil
	}
	return f.pages, nil
}

type fakeScraper struct {
	page    domain.ScrapedPage
	err     error
	scraped []string
}

func (f *fakeScraper) Scrape(_ context.Context, pageURL, _ string) (domain.ScrapedPage, error) {
	f.scraped = append(f.scraped, pageURL)
	return f.page, f.err
}

type fakeWriter struct {
	text string
	err  error
	n    int
}

func (f *fakeWriter) WriteDescription(context.Context, string, string) (string, error) {
	f.n++
	return f.text, f.err
}

const longDescription = "Paslanmaz çelik gövdeli, 1.7 litre kapasiteli hızlı kaynatan kettle."

func TestResolveUsesGivenURL(t *testing.T) {
	t.Parallel()

	search := &fakeSearch{enabled: true}
	scraper := &fakeScraper{page: domain.ScrapedPage{Description: longDescription, Image: "https://cdn.example.com/k.jpg"}}
	r := NewResolver(Deps{Search: search, Scraper: scraper})

	got := r.Resolve(context.Background(), "Kettle", "Arzum", "https://arzum.com/kettle")

	assert.Equal(t, "https://arzum.com/kettle", got.URL)
	assert.Equal(t, longDescription, got.Description)
	assert.Equal(t, "https://cdn.example.com/k.jpg", got.Image)
	assert.Empty(t, search.calls, "no search when url and image are known")
	assert.Equal(t, []string{"https://arzum.com/kettle"}, scraper.scraped)
}

func TestResolveSearchesPreferringBrandLink(t *testing.T) {
	t.Parallel()

	search := &fakeSearch{
		enabled: true,
		pages: []ports.SearchResult{
			{Link: "https://marketplace.example.com/kettle"},
			{Link: "https://www.ARZUM.com/kettle-ar3"},
		},
		images: []ports.SearchResult{{Link: "https://img.example.com/kettle.jpg"}},
	}
	scraper := &fakeScraper{page: domain.ScrapedPage{Description: longDescription}}
	r := NewResolver(Deps{Search: search, Scraper: scraper})

	got := r.Resolve(context.Background(), "Kettle AR3", "Arzum", "")

	require.Len(t, search.calls, 2)
	assert.Equal(t, "Arzum Kettle AR3 site:arzum.com", search.calls[0].query)
	assert.Equal(t, 5, search.calls[0].opts.NumResults)
	assert.Equal(t, ports.SearchImage, search.calls[1].opts.Type)
	assert.Equal(t, 1, search.calls[1].opts.NumResults)

	assert.Equal(t, "https://www.ARZUM.com/kettle-ar3", got.URL)
	assert.Equal(t, "https://img.example.com/kettle.jpg", got.Image)
	assert.Equal(t, longDescription, got.Description)
}

func TestResolveFallsBackWhenEverythingFails(t *testing.T) {
	t.Parallel()

	search := &fakeSearch{enabled: true, err: errors.New("quota exceeded")}
	scraper := &fakeScraper{err: errors.New("boom")}
	writer := &fakeWriter{err: errors.New("llm down")}
	r := NewResolver(Deps{Search: search, Scraper: scraper, Writer: writer})

	got := r.Resolve(context.Background(), "Zenbook 14", "Asus", "")

	assert.Empty(t, got.URL)
	assert.Empty(t, scraper.scraped)
	assert.Equal(t, 1, writer.n)
	assert.Equal(t, "https://source.unsplash.com/800x600/?Asus%20Zenbook%2014", got.Image)
	assert.Equal(t, "Asus marka Zenbook 14"+fallbackSuffix, got.Description)
}

func TestResolveWithoutCollaborators(t *testing.T) {
	t.Parallel()

	r := NewResolver(Deps{PlaceholderBase: "https://img.example.com/"})
	got := r.Resolve(context.Background(), "Çay Bardağı", "", "")

	assert.Equal(t, "https://img.example.com/?%C3%87ay%20Barda%C4%9F%C4%B1", got.Image)
	assert.Equal(t, "Çay Bardağı"+fallbackSuffix, got.Description)
	assert.NotEmpty(t, got.Image)
}

func TestResolveUsesWriterForShortDescription(t *testing.T) {
	t.Parallel()

	scraper := &fakeScraper{page: domain.ScrapedPage{Description: "Kısa", Image: "https://cdn.example.com/a.jpg"}}
	writer := &fakeWriter{text: "  Uzun ömürlü pil ve hafif gövde ile günlük kullanım için ideal.  "}
	r := NewResolver(Deps{Scraper: scraper, Writer: writer})

	got := r.Resolve(context.Background(), "Mouse", "Logi", "https://logi.com/mouse")

	assert.Equal(t, "Uzun ömürlü pil ve hafif gövde ile günlük kullanım için ideal.", got.Description)
	assert.Equal(t, "https://cdn.example.com/a.jpg", got.Image)
}

func TestResolveDisabledSearchIsSkipped(t *testing.T) {
	t.Parallel()

	search := &fakeSearch{enabled: false}
	r := NewResolver(Deps{Search: search})
	got := r.Resolve(context.Background(), "Lamba", "", "")

	assert.Empty(t, search.calls)
	assert.True(t, strings.HasPrefix(got.Image, DefaultPlaceholderBase))
}

func TestPageQuery(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Lamba", PageQuery(" Lamba ", ""))
	assert.Equal(t, "Türk Telekom Modem site:turktelekom.com", PageQuery("Modem", "Türk Telekom"))
	assert.Equal(t, "日本 Modem", PageQuery("Modem", "日本"))
}

func TestEnrichmentNeverOverwrites(t *testing.T) {
	t.Parallel()

	p := domain.Product{Name: "X", Description: "mevcut açıklama"}
	r := NewResolver(Deps{})
	e := r.Resolve(context.Background(), p.Name, p.Brand, p.URL)
	e.Apply(&p)

	assert.Equal(t, "mevcut açıklama", p.Description)
	assert.NotEmpty(t, p.Image)
}
