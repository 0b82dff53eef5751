package collect

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rickgao/deribit-options-data/internal/config"
	"github.com/rickgao/deribit-options-data/internal/fetcher"
	"github.com/rickgao/deribit-options-data/internal/market"
	"github.com/rickgao/deribit-options-data/internal/model"
)

// Client is the market-data API surface the collector consumes.
type Client interface {
	GetCatalog(ctx context.Context, metric model.Metric, exchange, base string) ([]model.CatalogEntry, error)
	GetTimeseries(ctx context.Context, metric model.Metric, markets []string, start, end time.Time, granularity string) ([]model.Row, error)
}

// Exporter writes fetched rows to their per-market output files.
type Exporter interface {
	Export(metric model.Metric, rows []model.Row) error
}

// Sink optionally persists fetched rows (database).
type Sink interface {
	Write(ctx context.Context, metric model.Metric, rows []model.Row) error
}

// Result reports one metric's collection outcome.
type Result struct {
	Metric    model.Metric
	Succeeded int
	Total     int
}

// Collector runs the catalog → group-by-expiry → batched-fetch → export
// pipeline for one or more metrics.
type Collector struct {
	cfg      config.CollectConfig
	client   Client
	exporter Exporter
	sink     Sink // nil when the database sink is disabled
	logger   *slog.Logger
}

// New creates a Collector. sink may be nil.
func New(cfg config.CollectConfig, client Client, exporter Exporter, sink Sink, logger *slog.Logger) *Collector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collector{
		cfg:      cfg,
		client:   client,
		exporter: exporter,
		sink:     sink,
		logger:   logger,
	}
}

// Run collects one metric for all markets expiring in [startDate, endDate].
// Per-expiry-group fetch failures are contained and reflected in the
// Result counts; the returned error covers only run-level failures
// (catalog fetch).
func (c *Collector) Run(ctx context.Context, metric model.Metric, startDate, endDate time.Time) (Result, error) {
	logger := c.logger.With("metric", string(metric))

	logger.Info("looking for options expiring in range",
		"start", startDate.Format("2006-01-02"),
		"end", endDate.Format("2006-01-02"),
		"lookback_days", c.cfg.DaysBeforeExpiry,
	)

	entries, err := c.client.GetCatalog(ctx, metric, c.cfg.Exchange, c.cfg.Base)
	if err != nil {
		return Result{Metric: metric}, fmt.Errorf("fetch catalog: %w", err)
	}

	annotated := market.WithExpiry(entries)
	groups := market.GroupByExpiry(annotated, startDate, endDate)

	markets := 0
	for _, g := range groups {
		markets += len(g)
	}
	logger.Info("grouped catalog by expiry",
		"catalog_markets", len(entries),
		"parseable", len(annotated),
		"in_range", markets,
		"expiry_groups", len(groups),
	)

	runner := fetcher.New(fetcher.Config{
		Concurrency: c.cfg.Concurrency,
		BatchDelay:  c.cfg.BatchDelay,
	}, logger)

	succeeded, total := runner.Run(ctx, groups, func(ctx context.Context, expiry time.Time, markets []string) error {
		return c.fetchGroup(ctx, logger, metric, expiry, markets)
	})

	return Result{Metric: metric, Succeeded: succeeded, Total: total}, nil
}

// fetchGroup fetches one expiry group's window and exports it.
func (c *Collector) fetchGroup(ctx context.Context, logger *slog.Logger, metric model.Metric, expiry time.Time, markets []string) error {
	start, end := market.ComputeWindow(expiry, c.cfg.DaysBeforeExpiry)

	logger.Info("fetching expiry group",
		"expiry", expiry.Format("2006-01-02"),
		"markets", len(markets),
		"window_start", start.Format("2006-01-02"),
		"window_end", end.Format("2006-01-02"),
	)

	rows, err := c.client.GetTimeseries(ctx, metric, markets, start, end, c.cfg.Granularity)
	if err != nil {
		return fmt.Errorf("fetch timeseries: %w", err)
	}

	if err := c.exporter.Export(metric, rows); err != nil {
		return fmt.Errorf("export csv: %w", err)
	}

	if c.sink != nil {
		if err := c.sink.Write(ctx, metric, rows); err != nil {
			return fmt.Errorf("write database: %w", err)
		}
	}

	return nil
}

// RunAll collects every metric concurrently, mirroring one collection
// run over all data types. Each metric runs its own batched pipeline;
// a run-level failure in one cancels the others.
func (c *Collector) RunAll(ctx context.Context, metrics []model.Metric, startDate, endDate time.Time) ([]Result, error) {
	runID := uuid.New().String()
	logger := c.logger.With("run_id", runID)

	logger.Info("starting collection run",
		"metrics", len(metrics),
		"start", startDate.Format("2006-01-02"),
		"end", endDate.Format("2006-01-02"),
	)

	results := make([]Result, len(metrics))
	g, ctx := errgroup.WithContext(ctx)
	for i, metric := range metrics {
		i, metric := i, metric
		g.Go(func() error {
			res, err := c.Run(ctx, metric, startDate, endDate)
			if err != nil {
				return fmt.Errorf("%s: %w", metric, err)
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	for _, res := range results {
		logger.Info("collection complete",
			"metric", string(res.Metric),
			"succeeded", res.Succeeded,
			"total", res.Total,
		)
	}
	return results, nil
}
