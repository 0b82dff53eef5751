package writer

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/rickgao/deribit-options-data/internal/model"
)

// Config contains batch sink configuration.
type Config struct {
	// BatchSize is the number of rows queued per pgx.Batch.
	BatchSize int
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{BatchSize: 1000}
}

// Metrics tracks sink activity.
type Metrics struct {
	Inserts   int64
	Conflicts int64
	Errors    int64
	Flushes   int64
}

// Sink batch-inserts rows into the per-metric tables.
type Sink struct {
	cfg    Config
	db     *pgxpool.Pool
	logger *slog.Logger

	mu      sync.Mutex
	metrics Metrics
}

// NewSink creates a Sink writing through the given pool.
func NewSink(cfg Config, db *pgxpool.Pool, logger *slog.Logger) *Sink {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.BatchSize < 1 {
		cfg.BatchSize = DefaultConfig().BatchSize
	}
	return &Sink{
		cfg:    cfg,
		db:     db,
		logger: logger,
	}
}

// Write inserts all rows for a metric, chunked by BatchSize. Duplicate
// (market, time) rows are counted as conflicts, not errors.
func (s *Sink) Write(ctx context.Context, metric model.Metric, rows []model.Row) error {
	if len(rows) == 0 {
		return nil
	}

	sql := insertSQL(metric)
	start := time.Now()
	var inserted, conflicts int

	for i := 0; i < len(rows); i += s.cfg.BatchSize {
		chunk := rows[i:min(i+s.cfg.BatchSize, len(rows))]

		c, err := s.insertChunk(ctx, sql, chunk)
		if err != nil {
			s.mu.Lock()
			s.metrics.Errors++
			s.mu.Unlock()
			return fmt.Errorf("insert %s rows: %w", metric, err)
		}
		conflicts += c
		inserted += len(chunk) - c
	}

	s.mu.Lock()
	s.metrics.Inserts += int64(inserted)
	s.metrics.Conflicts += int64(conflicts)
	s.metrics.Flushes++
	s.mu.Unlock()

	s.logger.Debug("wrote rows",
		"metric", string(metric),
		"inserted", inserted,
		"conflicts", conflicts,
		"duration", time.Since(start),
	)
	return nil
}

// Stats returns current metrics.
func (s *Sink) Stats() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.metrics
}

func (s *Sink) insertChunk(ctx context.Context, sql string, rows []model.Row) (conflicts int, err error) {
	batch := &pgx.Batch{}
	for _, r := range rows {
		batch.Queue(sql, r.Args()...)
	}

	results := s.db.SendBatch(ctx, batch)
	defer results.Close()

	for range rows {
		ct, err := results.Exec()
		if err != nil {
			return 0, err
		}
		if ct.RowsAffected() == 0 {
			conflicts++
		}
	}

	return conflicts, nil
}

// insertSQL builds the insert statement for a metric's table.
func insertSQL(metric model.Metric) string {
	cols := metric.Columns()

	placeholders := make([]string, len(cols))
	for i := range cols {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	return fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT (market, time) DO NOTHING",
		metric.Table(),
		strings.Join(cols, ", "),
		strings.Join(placeholders, ", "),
	)
}
