package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"ProductImporter/internal/app"
	"ProductImporter/internal/config"
	"ProductImporter/internal/logging"
)

func main() {
	var opts app.Options
	flag.StringVar(&opts.File, "file", "", "spreadsheet to import (.xlsx, .xlsm, .csv)")
	flag.BoolVar(&opts.Enrich, "enrich", false, "fill missing descriptions and images before import")
	flag.BoolVar(&opts.DryRun, "dry-run", false, "print mapped products as JSON instead of importing")
	flag.StringVar(&opts.ShopID, "shop", "", "Ideasoft shop id (overrides config)")
	flag.StringVar(&opts.AccessToken, "token", "", "Ideasoft access token (overrides config)")
	flag.Parse()

	if opts.File == "" {
		fmt.Fprintln(os.Stderr, "usage: productimporter -file products.xlsx [-enrich] [-dry-run] [-shop ID] [-token TOKEN]")
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	application := app.New(cfg, logger)

	report, err := application.Run(ctx, opts)
	if err != nil {
		logger.Error("import stopped", "session", report.SessionID, "error", err)
		os.Exit(1)
	}

	if opts.DryRun {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report.Products); err != nil {
			logger.Error("encode products", "error", err)
			os.Exit(1)
		}
		return
	}

	fmt.Printf("%d başarılı, %d başarısız (toplam %d)\n",
		report.Summary.Succeeded, report.Summary.Failed, report.Summary.Total)
	if report.Summary.Failed > 0 {
		os.Exit(1)
	}
}
