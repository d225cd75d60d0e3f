package usecase

import (
	"context"
	"log/slog"
	"time"

	"ProductImporter/internal/domain"
	"ProductImporter/internal/ports"
)

const (
	// DefaultEnrichDelay is the pause between resolved records.
	DefaultEnrichDelay = time.Second

	LabelCollected = "Bilgiler toplandı"
	LabelSearching = "Aranıyor..."
)

// Enricher fills blank descriptions and images of a batch, one record at a time.
type Enricher struct {
	resolver ports.Resolver
	sleeper  Sleeper
	delay    time.Duration
	logger   *slog.Logger
}

// EnricherDeps wires an Enricher. Zero Delay means DefaultEnrichDelay;
// a negative Delay disables pausing.
type EnricherDeps struct {
	Resolver ports.Resolver
	Sleeper  Sleeper
	Delay    time.Duration
	Logger   *slog.Logger
}

// NewEnricher constructs the batch enricher.
func NewEnricher(deps EnricherDeps) *Enricher {
	e := &Enricher{
		resolver: deps.Resolver,
		sleeper:  deps.Sleeper,
		delay:    deps.Delay,
		logger:   deps.Logger,
	}
	if e.sleeper == nil {
		e.sleeper = ContextSleeper{}
	}
	if e.delay == 0 {
		e.delay = DefaultEnrichDelay
	}
	return e
}

// Enrich mutates records in place and returns the same slice. Records that
// already have both a description and an image are skipped without a pause
// but still counted in progress. A resolved record is followed by a pause only
// while a later record still needs resolving. A cancelled ctx stops the loop
// between records.
func (e *Enricher) Enrich(ctx context.Context, records []domain.Product, onProgress domain.ProgressFunc) ([]domain.Product, error) {
	total := len(records)
	for i := range records {
		if err := ctx.Err(); err != nil {
			return records, err
		}

		record := &records[i]
		resolved := false
		if record.NeedsEnrichment() && e.resolver != nil {
			resolved = true
			enrichment := e.resolver.Resolve(ctx, record.Name, record.Brand, record.URL)
			enrichment.Apply(record)
			e.debug("record enriched", "index", i+1, "product", record.Name,
				"description", record.Description != "", "image", record.Image != "")
		}

		if onProgress != nil {
			label := LabelSearching
			if record.Description != "" {
				label = LabelCollected
			}
			onProgress(domain.ProgressEvent{
				Current: i + 1,
				Total:   total,
				Label:   label,
				Product: record.Name,
			})
		}

		if resolved && e.delay > 0 && anyPending(records[i+1:]) {
			if err := e.sleeper.Sleep(ctx, e.delay); err != nil {
				return records, err
			}
		}
	}
	return records, nil
}

func anyPending(records []domain.Product) bool {
	for _, r := range records {
		if r.NeedsEnrichment() {
			return true
		}
	}
	return false
}

func (e *Enricher) debug(msg string, args ...interface{}) {
	if e.logger != nil {
		e.logger.Debug(msg, args...)
	}
}
