package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/rickgao/deribit-options-data/internal/api"
	"github.com/rickgao/deribit-options-data/internal/collect"
	"github.com/rickgao/deribit-options-data/internal/config"
	"github.com/rickgao/deribit-options-data/internal/database"
	"github.com/rickgao/deribit-options-data/internal/export"
	"github.com/rickgao/deribit-options-data/internal/model"
	"github.com/rickgao/deribit-options-data/internal/version"
	"github.com/rickgao/deribit-options-data/internal/writer"
)

func main() {
	configPath := flag.String("config", "configs/collector.yaml", "path to config file")
	startDate := flag.String("start-date", "", "earliest expiry date to collect (YYYY-MM-DD, default: today)")
	endDate := flag.String("end-date", "", "latest expiry date to collect (YYYY-MM-DD, default: start + 30 days)")
	lookback := flag.Int("days-before-expiry", 0, "override days of history fetched before each expiry")
	greeksOnly := flag.Bool("greeks-only", false, "collect only option greeks")
	ivOnly := flag.Bool("iv-only", false, "collect only implied volatility")
	pricesOnly := flag.Bool("prices-only", false, "collect only contract prices")
	oiOnly := flag.Bool("oi-only", false, "collect only open interest")
	flag.Parse()

	// Set up structured logging
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	slog.SetDefault(logger)

	logger.Info("starting collector",
		"version", version.Version,
		"commit", version.Commit,
		"config", *configPath,
	)

	// Optional .env for CM_API_KEY; the config loader expands it.
	if err := godotenv.Load(); err == nil {
		logger.Debug("loaded .env file")
	}

	// Load configuration
	cfg, err := config.LoadAndValidate(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	if *lookback > 0 {
		cfg.Collect.DaysBeforeExpiry = *lookback
	}

	logger.Info("configuration loaded",
		"api_url", cfg.API.BaseURL,
		"exchange", cfg.Collect.Exchange,
		"base", cfg.Collect.Base,
		"days_before_expiry", cfg.Collect.DaysBeforeExpiry,
	)

	start, end, err := resolveDateRange(time.Now().UTC(), *startDate, *endDate)
	if err != nil {
		logger.Error("invalid date range", "error", err)
		os.Exit(1)
	}

	metrics := selectMetrics(*greeksOnly, *ivOnly, *pricesOnly, *oiOnly)

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle shutdown signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	// Create API client
	apiClient := api.NewClient(
		cfg.API.BaseURL,
		cfg.API.APIKey,
		api.WithLogger(logger),
		api.WithTimeout(cfg.API.Timeout),
		api.WithRetries(cfg.API.MaxRetries, time.Second),
		api.WithPageSize(cfg.API.PageSize),
	)

	exporter := export.NewCSVExporter(cfg.Collect.OutputDir, logger)

	// Optional database sink
	var sink collect.Sink
	if cfg.Database.Enabled {
		logger.Info("connecting to database",
			"host", cfg.Database.Timescale.Host,
			"port", cfg.Database.Timescale.Port,
			"database", cfg.Database.Timescale.Name,
		)
		pool, err := database.Connect(ctx, cfg.Database.Timescale)
		if err != nil {
			logger.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
		logger.Info("database connected")

		sink = writer.NewSink(writer.Config{}, pool, logger)
	}

	collector := collect.New(cfg.Collect, apiClient, exporter, sink, logger)

	results, err := collector.RunAll(ctx, metrics, start, end)
	if err != nil {
		logger.Error("collection run failed", "error", err)
		os.Exit(1)
	}

	for _, res := range results {
		logger.Info("metric finished",
			"metric", string(res.Metric),
			"succeeded", res.Succeeded,
			"total", res.Total,
		)
	}

	logger.Info("collector stopped")
}

// resolveDateRange parses the -start-date/-end-date flags. An empty end
// means today; an empty start means thirty days before the end, so a bare
// run looks back at recently expired options.
func resolveDateRange(now time.Time, startFlag, endFlag string) (time.Time, time.Time, error) {
	end := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	if endFlag != "" {
		parsed, err := time.Parse("2006-01-02", endFlag)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		end = parsed
	}

	start := end.AddDate(0, 0, -30)
	if startFlag != "" {
		parsed, err := time.Parse("2006-01-02", startFlag)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		start = parsed
	}

	if end.Before(start) {
		return time.Time{}, time.Time{}, fmt.Errorf("end date %s is before start date %s",
			end.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	return start, end, nil
}

// selectMetrics maps the -*-only flags onto the metric set. With no flag
// set, every metric is collected.
func selectMetrics(greeks, iv, prices, oi bool) []model.Metric {
	var metrics []model.Metric
	if greeks {
		metrics = append(metrics, model.MetricGreeks)
	}
	if iv {
		metrics = append(metrics, model.MetricImpliedVolatility)
	}
	if prices {
		metrics = append(metrics, model.MetricContractPrices)
	}
	if oi {
		metrics = append(metrics, model.MetricOpenInterest)
	}
	if len(metrics) == 0 {
		return model.AllMetrics
	}
	return metrics
}
