package fetcher

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// FetchFunc fetches and exports data for one expiry-date group.
type FetchFunc func(ctx context.Context, expiry time.Time, markets []string) error

// Config holds orchestrator settings.
type Config struct {
	Concurrency int           // Max fetches per batch (default: 5)
	BatchDelay  time.Duration // Pause between batches (default: 2s)
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Concurrency: 5,
		BatchDelay:  2 * time.Second,
	}
}

// Runner executes one fetch per expiry-date group in fixed-size batches:
// full fan-out within a batch, fan-in before the next batch starts, and a
// fixed pause between batches. A failed group never aborts its siblings
// or the run.
type Runner struct {
	cfg    Config
	logger *slog.Logger

	// delay is overridable in tests.
	delay func(ctx context.Context, d time.Duration)
}

// New creates a Runner.
func New(cfg Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Concurrency < 1 {
		cfg.Concurrency = DefaultConfig().Concurrency
	}
	return &Runner{
		cfg:    cfg,
		logger: logger,
		delay:  sleep,
	}
}

// Run fetches every expiry group and reports how many succeeded out of
// the total. Groups are processed in ascending expiry-date order. An
// empty group map is a soft "nothing to do".
func (r *Runner) Run(ctx context.Context, groups map[time.Time][]string, fetch FetchFunc) (succeeded, total int) {
	total = len(groups)
	if total == 0 {
		r.logger.Info("no markets found within the expiry window, nothing to fetch")
		return 0, 0
	}

	expiries := make([]time.Time, 0, total)
	for expiry := range groups {
		expiries = append(expiries, expiry)
	}
	sort.Slice(expiries, func(i, j int) bool { return expiries[i].Before(expiries[j]) })

	start := time.Now()
	var ok atomic.Int64

	for i := 0; i < len(expiries); i += r.cfg.Concurrency {
		batch := expiries[i:min(i+r.cfg.Concurrency, len(expiries))]
		batchNum := i/r.cfg.Concurrency + 1

		var wg sync.WaitGroup
		for _, expiry := range batch {
			wg.Add(1)
			go func(expiry time.Time) {
				defer wg.Done()

				if err := fetch(ctx, expiry, groups[expiry]); err != nil {
					r.logger.Warn("fetch failed for expiry group",
						"expiry", expiry.Format("2006-01-02"),
						"markets", len(groups[expiry]),
						"err", err,
					)
					return
				}
				ok.Add(1)
			}(expiry)
		}
		wg.Wait()

		if i+r.cfg.Concurrency < len(expiries) {
			r.logger.Debug("batch complete, pausing before next",
				"batch", batchNum,
				"delay", r.cfg.BatchDelay,
			)
			r.delay(ctx, r.cfg.BatchDelay)
		}
	}

	succeeded = int(ok.Load())
	r.logger.Info("fetch run complete",
		"succeeded", succeeded,
		"total", total,
		"duration", time.Since(start),
	)
	return succeeded, total
}

func sleep(ctx context.Context, d time.Duration) {
	select {
	case <-ctx.Done():
	case <-time.After(d):
	}
}
