package domain

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Product is the canonical record every pipeline stage operates on.
type Product struct {
	Name        string          `json:"name"`
	SKU         string          `json:"sku"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	Description string          `json:"description,omitempty"`
	Image       string          `json:"image,omitempty"`
	Category    string          `json:"category,omitempty"`
	Brand       string          `json:"brand,omitempty"`
	URL         string          `json:"url,omitempty"`
}

// MarshalJSON writes Price as a JSON number.
func (p Product) MarshalJSON() ([]byte, error) {
	type plain Product
	return json.Marshal(struct {
		plain
		Price json.Number `json:"price"`
	}{plain: plain(p), Price: json.Number(p.Price.String())})
}

// NeedsEnrichment reports whether the description or the image is still blank.
func (p Product) NeedsEnrichment() bool {
	return p.Description == "" || p.Image == ""
}

// Enrichment is the best-effort result of resolving a single product.
type Enrichment struct {
	Description string
	Image       string
	URL         string
}

// Apply fills blank fields of p from e. Non-empty fields are never overwritten.
func (e Enrichment) Apply(p *Product) {
	if p.Description == "" && e.Description != "" {
		p.Description = e.Description
	}
	if p.Image == "" && e.Image != "" {
		p.Image = e.Image
	}
	if p.URL == "" && e.URL != "" {
		p.URL = e.URL
	}
}

// ScrapedPage holds what could be extracted from a product page.
// Either field may be empty.
type ScrapedPage struct {
	URL         string
	Description string
	Image       string
}

// SubmitResult is the structured outcome of a single remote creation call.
type SubmitResult struct {
	Success    bool
	Data       json.RawMessage
	Error      string
	StatusCode int
}

// ImportOutcome describes what happened to one record of a batch import.
type ImportOutcome struct {
	Index      int             `json:"index"`
	Product    string          `json:"product"`
	Success    bool            `json:"success"`
	Error      string          `json:"error,omitempty"`
	StatusCode int             `json:"statusCode,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
}

// ImportSummary aggregates outcome counts for reporting.
type ImportSummary struct {
	Total     int
	Succeeded int
	Failed    int
}

// Summarize counts successes and failures of a finished batch.
func Summarize(outcomes []ImportOutcome) ImportSummary {
	summary := ImportSummary{Total: len(outcomes)}
	for _, o := range outcomes {
		if o.Success {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}
	return summary
}

// Failed returns the records whose outcome was unsuccessful, in input order.
// It is meant for callers that want to re-run a fresh batch over the failures.
func Failed(records []Product, outcomes []ImportOutcome) []Product {
	var failed []Product
	for _, o := range outcomes {
		if o.Success || o.Index < 1 || o.Index > len(records) {
			continue
		}
		failed = append(failed, records[o.Index-1])
	}
	return failed
}
