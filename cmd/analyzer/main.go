package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/joho/godotenv"

	"github.com/rickgao/deribit-options-data/internal/analysis"
	"github.com/rickgao/deribit-options-data/internal/api"
	"github.com/rickgao/deribit-options-data/internal/config"
	"github.com/rickgao/deribit-options-data/internal/market"
	"github.com/rickgao/deribit-options-data/internal/model"
	"github.com/rickgao/deribit-options-data/internal/version"
)

func main() {
	configPath := flag.String("config", "configs/collector.yaml", "path to config file")
	summaryMode := flag.Bool("summary", false, "summarize previously exported greeks CSVs instead of analyzing the catalog")
	output := flag.String("output", "", "output CSV path (default: catalog.csv or options_summary.csv)")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting analyzer",
		"version", version.Version,
		"commit", version.Commit,
		"mode", mode(*summaryMode),
	)

	if err := godotenv.Load(); err == nil {
		logger.Debug("loaded .env file")
	}

	// Summary mode only reads local CSVs, so an API key is not required.
	load := config.LoadAndValidate
	if *summaryMode {
		load = config.LoadWithDefaults
	}
	cfg, err := load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if *summaryMode {
		if err := runSummary(cfg, *output, logger); err != nil {
			logger.Error("summary failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := runCatalog(cfg, *output, logger); err != nil {
		logger.Error("catalog analysis failed", "error", err)
		os.Exit(1)
	}
}

func mode(summary bool) string {
	if summary {
		return "summary"
	}
	return "catalog"
}

// runCatalog fetches the full greeks catalog and reports trading-activity
// statistics used to size the collection lookback window.
func runCatalog(cfg *config.CollectorConfig, output string, logger *slog.Logger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	client := api.NewClient(
		cfg.API.BaseURL,
		cfg.API.APIKey,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, time.Second),
		api.WithPageSize(cfg.API.PageSize),
	)

	logger.Info("fetching catalog",
		"exchange", cfg.Collect.Exchange,
		"base", cfg.Collect.Base,
	)
	entries, err := client.GetCatalog(ctx, model.MetricGreeks, cfg.Collect.Exchange, cfg.Collect.Base)
	if err != nil {
		return err
	}

	annotated := market.WithExpiry(entries)
	logger.Info("catalog fetched",
		"markets", len(entries),
		"with_expiry", len(annotated),
	)

	report := analysis.AnalyzeCatalog(annotated, time.Now().UTC())
	logReport(logger, report)

	if output == "" {
		output = "catalog.csv"
	}
	if err := analysis.WriteCatalogCSV(output, annotated); err != nil {
		return err
	}
	logger.Info("catalog written", "path", output)
	return nil
}

func logReport(logger *slog.Logger, report *analysis.CatalogReport) {
	logger.Info("catalog report",
		"markets", report.Markets,
		"active", report.Active,
	)
	logDescribe(logger, "trading days", report.TradingDays)
	logDescribe(logger, "days before expiration", report.DaysBeforeExpiration)
	logDescribe(logger, "strikes", report.Strikes)
	for optType, n := range report.OptionTypes {
		logger.Info("option type", "type", optType, "count", n)
	}
	logger.Info("recommended lookback", "days", report.RecommendedLookback)
}

func logDescribe(logger *slog.Logger, name string, d analysis.Describe) {
	logger.Info(name,
		"count", d.Count,
		"mean", d.Mean,
		"std", d.Std,
		"min", d.Min,
		"p25", d.Percentile(0.25),
		"median", d.Median(),
		"p75", d.Percentile(0.75),
		"p90", d.Percentile(0.9),
		"p95", d.Percentile(0.95),
		"p99", d.Percentile(0.99),
		"max", d.Max,
	)
}

// runSummary loads every exported greeks CSV under the output directory
// and writes a cross-option comparison table.
func runSummary(cfg *config.CollectorConfig, output string, logger *slog.Logger) error {
	dir := filepath.Join(cfg.Collect.OutputDir, model.MetricGreeks.Path())
	paths, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		logger.Warn("no greeks CSVs found", "dir", dir)
		return nil
	}
	sort.Strings(paths)

	summaries := make([]analysis.OptionSummary, 0, len(paths))
	for _, path := range paths {
		rows, err := analysis.LoadGreeksCSV(path)
		if err != nil {
			logger.Warn("skipping unreadable file", "path", path, "error", err)
			continue
		}
		if len(rows) == 0 {
			continue
		}
		summaries = append(summaries, analysis.SummarizeGreeks(rows[0].Market, rows))
	}

	logger.Info("options summarized",
		"files", len(paths),
		"options", len(summaries),
	)

	if output == "" {
		output = "options_summary.csv"
	}
	if err := analysis.WriteSummaryCSV(output, summaries); err != nil {
		return err
	}
	logger.Info("summary written", "path", output)
	return nil
}
