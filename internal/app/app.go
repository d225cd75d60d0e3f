package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"ProductImporter/internal/config"
	"ProductImporter/internal/domain"
	"ProductImporter/internal/enrichment"
	"ProductImporter/internal/infrastructure/ideasoft"
	"ProductImporter/internal/infrastructure/llm"
	"ProductImporter/internal/infrastructure/scraper"
	"ProductImporter/internal/infrastructure/search"
	"ProductImporter/internal/infrastructure/spreadsheet"
	"ProductImporter/internal/infrastructure/telegram"
	"ProductImporter/internal/logging"
	"ProductImporter/internal/usecase"
)

// Options are the per-run inputs that do not belong in the config file.
type Options struct {
	File   string
	Enrich bool
	DryRun bool
	// ShopID and AccessToken override the configured values when set.
	ShopID      string
	AccessToken string
}

// Application wires configs to use cases.
type Application struct {
	cfg      config.Config
	logger   *slog.Logger
	pipeline *usecase.Pipeline
}

// New builds a runnable application instance.
func New(cfg config.Config, baseLogger *slog.Logger) *Application {
	if baseLogger == nil {
		baseLogger = logging.New(cfg.Logging.Level, cfg.Logging.Format)
	}

	searchClient := search.NewGoogleClient(cfg.Search, baseLogger.With("component", "search.google"))
	var scrapeClient *http.Client
	if cfg.Scraper.Timeout > 0 {
		scrapeClient = &http.Client{Timeout: cfg.Scraper.Timeout}
	}
	pageScraper := scraper.NewPageScraper(scrapeClient, cfg.Scraper.UserAgent, baseLogger.With("component", "scraper"))

	resolverDeps := enrichment.Deps{
		Search:          searchClient,
		Scraper:         pageScraper,
		PlaceholderBase: cfg.Enrichment.PlaceholderBase,
		Logger:          baseLogger.With("component", "enrichment"),
	}
	if writer := llm.NewChatGPTClient(cfg.ChatGPT); writer.Enabled() {
		resolverDeps.Writer = writer
	}

	ideasoftClient := ideasoft.NewClient(cfg.Ideasoft, baseLogger.With("component", "ideasoft"))

	deps := usecase.PipelineDeps{
		Enricher: usecase.NewEnricher(usecase.EnricherDeps{
			Resolver: enrichment.NewResolver(resolverDeps),
			Delay:    cfg.Enrichment.Delay,
			Logger:   baseLogger.With("component", "enricher"),
		}),
		Importer: usecase.NewImporter(usecase.ImporterDeps{
			Submitter: ideasoftClient,
			Delay:     cfg.Import.Delay,
			Logger:    baseLogger.With("component", "importer"),
		}),
		Tokens: ideasoftClient,
		Logger: baseLogger.With("component", "pipeline"),
	}
	if notifier := telegram.NewNotifier(cfg.Notifications.Telegram.BotToken, cfg.Notifications.Telegram.ChatID); notifier.Enabled() {
		deps.Notifier = notifier
	}

	return &Application{cfg: cfg, logger: baseLogger, pipeline: usecase.NewPipeline(deps)}
}

// Run reads the spreadsheet and executes one import session.
func (a *Application) Run(ctx context.Context, opts Options) (usecase.Report, error) {
	table, err := spreadsheet.ReadFile(opts.File)
	if err != nil {
		return usecase.Report{}, fmt.Errorf("read spreadsheet: %w", err)
	}

	req := usecase.Request{
		Table:        table,
		Enrich:       opts.Enrich || a.cfg.Enrichment.Enabled,
		DryRun:       opts.DryRun,
		AccessToken:  firstNonEmpty(opts.AccessToken, a.cfg.Ideasoft.AccessToken),
		ClientID:     a.cfg.Ideasoft.ClientID,
		ClientSecret: a.cfg.Ideasoft.ClientSecret,
		ShopID:       firstNonEmpty(opts.ShopID, a.cfg.Ideasoft.ShopID),
		OnProgress:   a.logProgress,
	}

	return a.pipeline.Run(ctx, req)
}

func (a *Application) logProgress(e domain.ProgressEvent) {
	args := []any{"current", e.Current, "total", e.Total, "product", e.Product}
	if e.Label != "" {
		args = append(args, "label", e.Label)
	}
	if e.Success != nil {
		args = append(args, "success", *e.Success)
	}
	if e.Error != "" {
		args = append(args, "error", e.Error)
	}
	a.logger.Info("progress", args...)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
