package analysis

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rickgao/deribit-options-data/internal/market"
	"github.com/rickgao/deribit-options-data/internal/model"
)

func annotated(t *testing.T, entries []model.CatalogEntry) []model.CatalogEntry {
	t.Helper()
	out := market.WithExpiry(entries)
	if len(out) != len(entries) {
		t.Fatalf("test entries must all carry parseable expiries, got %d of %d", len(out), len(entries))
	}
	return out
}

func TestAnalyzeCatalog(t *testing.T) {
	now := time.Date(2024, 12, 15, 0, 0, 0, 0, time.UTC)

	entries := annotated(t, []model.CatalogEntry{
		{
			Market:  "deribit-BTC-13DEC24-100000-C-option",
			MinTime: time.Date(2024, 11, 23, 0, 0, 0, 0, time.UTC),
			MaxTime: time.Date(2024, 12, 13, 0, 0, 0, 0, time.UTC),
		},
		{
			Market:  "deribit-BTC-20DEC24-100000-P-option",
			MinTime: time.Date(2024, 11, 30, 0, 0, 0, 0, time.UTC),
			MaxTime: time.Date(2024, 12, 14, 0, 0, 0, 0, time.UTC),
		},
	})

	report := AnalyzeCatalog(entries, now)

	if report.Markets != 2 {
		t.Errorf("Markets = %d, want 2", report.Markets)
	}
	// Only the 20DEC24 contract is still alive on Dec 15.
	if report.Active != 1 {
		t.Errorf("Active = %d, want 1", report.Active)
	}
	if report.OptionTypes["C"] != 1 || report.OptionTypes["P"] != 1 {
		t.Errorf("OptionTypes = %v, want one C and one P", report.OptionTypes)
	}
	if report.TradingDays.Count != 2 {
		t.Errorf("TradingDays.Count = %d, want 2", report.TradingDays.Count)
	}
	if report.Strikes.Mean != 100000 {
		t.Errorf("Strikes.Mean = %v, want 100000", report.Strikes.Mean)
	}
	if report.RecommendedLookback == 0 {
		t.Error("RecommendedLookback = 0, want positive")
	}
}

func TestAnalyzeCatalog_Empty(t *testing.T) {
	report := AnalyzeCatalog(nil, time.Now())
	if report.Markets != 0 || report.RecommendedLookback != 0 {
		t.Errorf("empty report = %+v", report)
	}
}

func TestWriteCatalogCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog_analysis.csv")

	entries := annotated(t, []model.CatalogEntry{
		{
			Market:  "deribit-BTC-13DEC24-100000-C-option",
			MinTime: time.Date(2024, 11, 23, 0, 0, 0, 0, time.UTC),
			MaxTime: time.Date(2024, 12, 13, 0, 0, 0, 0, time.UTC),
		},
	})

	if err := WriteCatalogCSV(path, entries); err != nil {
		t.Fatalf("WriteCatalogCSV failed: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("read csv: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want header + 1 row", len(records))
	}
	row := records[1]
	if row[0] != "deribit-BTC-13DEC24-100000-C-option" {
		t.Errorf("market = %q", row[0])
	}
	if row[4] != "20.00" {
		t.Errorf("trading_days = %q, want 20.00", row[4])
	}
	if row[6] != "100000" || row[7] != "C" {
		t.Errorf("strike/type = %q/%q, want 100000/C", row[6], row[7])
	}
}
