package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"ProductImporter/internal/domain"
	"ProductImporter/internal/mapper"
	"ProductImporter/internal/ports"
)

// PipelineDeps wires the batch drivers and optional adapters into one
// import session.
type PipelineDeps struct {
	Enricher *Enricher
	Importer *Importer
	Tokens   ports.TokenSource
	Notifier ports.Notifier
	Logger   *slog.Logger
}

// Pipeline runs map → enrich → import for a spreadsheet.
type Pipeline struct {
	enricher *Enricher
	importer *Importer
	tokens   ports.TokenSource
	notifier ports.Notifier
	logger   *slog.Logger
}

// Request describes one import session.
type Request struct {
	Table        domain.Table
	Enrich       bool
	DryRun       bool
	AccessToken  string
	ClientID     string
	ClientSecret string
	ShopID       string
	OnProgress   domain.ProgressFunc
}

// Report is what a finished session produced. Outcomes is empty on dry runs.
type Report struct {
	SessionID string                 `json:"sessionId"`
	Products  []domain.Product       `json:"products"`
	Outcomes  []domain.ImportOutcome `json:"outcomes,omitempty"`
	Summary   domain.ImportSummary   `json:"summary"`
}

// NewPipeline constructs the orchestration component.
func NewPipeline(deps PipelineDeps) *Pipeline {
	return &Pipeline{
		enricher: deps.Enricher,
		importer: deps.Importer,
		tokens:   deps.Tokens,
		notifier: deps.Notifier,
		logger:   deps.Logger,
	}
}

// Run maps the table, optionally enriches, then imports. The report is
// returned even on error so callers can see how far the session got.
func (p *Pipeline) Run(ctx context.Context, req Request) (Report, error) {
	report := Report{SessionID: uuid.NewString()}
	log := p.sessionLogger(report.SessionID)

	report.Products = mapper.MapColumns(req.Table)
	log.Info("rows mapped", "rows", len(req.Table.Rows), "products", len(report.Products))
	if len(report.Products) == 0 {
		return report, nil
	}

	if req.Enrich && p.enricher != nil {
		if _, err := p.enricher.Enrich(ctx, report.Products, req.OnProgress); err != nil {
			return report, fmt.Errorf("enrich products: %w", err)
		}
		log.Info("products enriched", "products", len(report.Products))
	}

	if req.DryRun {
		return report, nil
	}
	if p.importer == nil {
		return report, fmt.Errorf("pipeline has no importer")
	}

	accessToken, err := p.accessToken(ctx, req)
	if err != nil {
		return report, err
	}

	outcomes, err := p.importer.ImportAll(ctx, report.Products, accessToken, req.ShopID, req.OnProgress)
	report.Outcomes = outcomes
	report.Summary = domain.Summarize(outcomes)
	if err != nil {
		return report, fmt.Errorf("import products: %w", err)
	}
	log.Info("import finished", "total", report.Summary.Total,
		"succeeded", report.Summary.Succeeded, "failed", report.Summary.Failed)

	if p.notifier != nil {
		if nErr := p.notifier.PublishSummary(ctx, BuildSummaryMessage(report.Summary, outcomes)); nErr != nil {
			log.Warn("publish summary failed", "error", nErr)
		}
	}

	return report, nil
}

func (p *Pipeline) accessToken(ctx context.Context, req Request) (string, error) {
	if strings.TrimSpace(req.AccessToken) != "" {
		return req.AccessToken, nil
	}
	if p.tokens == nil || req.ClientID == "" || req.ClientSecret == "" {
		return "", ErrMissingCredentials
	}

	token, err := p.tokens.FetchToken(ctx, req.ClientID, req.ClientSecret)
	if err != nil {
		return "", fmt.Errorf("fetch access token: %w", err)
	}
	return token.AccessToken, nil
}

func (p *Pipeline) sessionLogger(sessionID string) *slog.Logger {
	if p.logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return p.logger.With("session", sessionID)
}

// BuildSummaryMessage renders a finished batch for operators.
func BuildSummaryMessage(summary domain.ImportSummary, outcomes []domain.ImportOutcome) string {
	var b strings.Builder
	fmt.Fprintf(&b, "İçe aktarma tamamlandı: %d başarılı, %d başarısız (toplam %d)\n",
		summary.Succeeded, summary.Failed, summary.Total)

	for _, o := range outcomes {
		if o.Success {
			continue
		}
		fmt.Fprintf(&b, "- #%d %s: %s", o.Index, o.Product, o.Error)
		if o.StatusCode != 0 {
			fmt.Fprintf(&b, " (%d)", o.StatusCode)
		}
		b.WriteString("\n")
	}

	return b.String()
}
