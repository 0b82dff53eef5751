package export

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rickgao/deribit-options-data/internal/model"
)

// CSVExporter writes fetched rows to disk, one file per market under
// <root>/<metric path>/<market>.csv.
type CSVExporter struct {
	root   string
	logger *slog.Logger
}

// NewCSVExporter creates an exporter rooted at dir.
func NewCSVExporter(dir string, logger *slog.Logger) *CSVExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVExporter{root: dir, logger: logger}
}

// Export writes rows grouped by market identifier. An existing file for
// a market is overwritten; runs are fetch-fresh, not incremental.
func (e *CSVExporter) Export(metric model.Metric, rows []model.Row) error {
	if len(rows) == 0 {
		return nil
	}

	dir := filepath.Join(e.root, metric.Path())
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	// Group rows by market, preserving row order within each market.
	byMarket := make(map[string][]model.Row)
	var order []string
	for _, row := range rows {
		id := row.MarketID()
		if _, seen := byMarket[id]; !seen {
			order = append(order, id)
		}
		byMarket[id] = append(byMarket[id], row)
	}

	for _, id := range order {
		path := filepath.Join(dir, id+".csv")
		if err := writeMarketCSV(path, byMarket[id]); err != nil {
			return fmt.Errorf("export %s: %w", id, err)
		}
	}

	e.logger.Debug("exported csv files",
		"metric", string(metric),
		"markets", len(order),
		"rows", len(rows),
		"dir", dir,
	)
	return nil
}

func writeMarketCSV(path string, rows []model.Row) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(rows[0].Header()); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, row := range rows {
		if err := w.Write(row.Record()); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}

	return f.Close()
}
