package usecase

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"ProductImporter/internal/domain"
	"ProductImporter/internal/ports"
)

// DefaultImportDelay spaces product creation calls.
const DefaultImportDelay = 500 * time.Millisecond

// ErrMissingCredentials is returned before any submission when the access
// token or the shop id is blank.
var ErrMissingCredentials = errors.New("access token and shop id are required")

// Importer submits a batch of products sequentially and isolates failures.
type Importer struct {
	submitter ports.ProductSubmitter
	sleeper   Sleeper
	delay     time.Duration
	logger    *slog.Logger
}

// ImporterDeps wires an Importer. Zero Delay means DefaultImportDelay;
// a negative Delay disables pausing.
type ImporterDeps struct {
	Submitter ports.ProductSubmitter
	Sleeper   Sleeper
	Delay     time.Duration
	Logger    *slog.Logger
}

// NewImporter constructs the batch importer.
func NewImporter(deps ImporterDeps) *Importer {
	im := &Importer{
		submitter: deps.Submitter,
		sleeper:   deps.Sleeper,
		delay:     deps.Delay,
		logger:    deps.Logger,
	}
	if im.sleeper == nil {
		im.sleeper = ContextSleeper{}
	}
	if im.delay == 0 {
		im.delay = DefaultImportDelay
	}
	return im
}

// ImportAll submits every record in input order and returns one outcome per
// submitted record. A failed record never stops the batch; only missing
// credentials or a cancelled ctx end it early.
func (im *Importer) ImportAll(ctx context.Context, records []domain.Product, accessToken, shopID string, onProgress domain.ProgressFunc) ([]domain.ImportOutcome, error) {
	if strings.TrimSpace(accessToken) == "" || strings.TrimSpace(shopID) == "" {
		return nil, ErrMissingCredentials
	}
	if im.submitter == nil {
		return nil, errors.New("importer has no product submitter")
	}

	total := len(records)
	outcomes := make([]domain.ImportOutcome, 0, total)
	for i, record := range records {
		if err := ctx.Err(); err != nil {
			return outcomes, err
		}

		res := im.submitter.CreateProduct(ctx, record, accessToken, shopID)
		outcome := domain.ImportOutcome{
			Index:      i + 1,
			Product:    record.Name,
			Success:    res.Success,
			Error:      res.Error,
			StatusCode: res.StatusCode,
			Data:       res.Data,
		}
		outcomes = append(outcomes, outcome)

		if outcome.Success {
			im.debug("product created", "index", outcome.Index, "product", record.Name)
		} else {
			im.warn("product failed", "index", outcome.Index, "product", record.Name,
				"status", outcome.StatusCode, "error", outcome.Error)
		}

		if onProgress != nil {
			success := outcome.Success
			onProgress(domain.ProgressEvent{
				Current: i + 1,
				Total:   total,
				Label:   progressLabel(success),
				Product: record.Name,
				Success: &success,
				Error:   outcome.Error,
			})
		}

		if i < total-1 && im.delay > 0 {
			if err := im.sleeper.Sleep(ctx, im.delay); err != nil {
				return outcomes, err
			}
		}
	}
	return outcomes, nil
}

func progressLabel(success bool) string {
	if success {
		return "Yüklendi"
	}
	return "Hata"
}

func (im *Importer) debug(msg string, args ...interface{}) {
	if im.logger != nil {
		im.logger.Debug(msg, args...)
	}
}

func (im *Importer) warn(msg string, args ...interface{}) {
	if im.logger != nil {
		im.logger.Warn(msg, args...)
	}
}
