package analysis

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"strconv"
	"time"

	"github.com/rickgao/deribit-options-data/internal/market"
	"github.com/rickgao/deribit-options-data/internal/model"
)

// CatalogReport summarizes trading-activity statistics over an annotated
// catalog, used to pick the lookback window for collection.
type CatalogReport struct {
	Markets int // Entries with a parseable expiry
	Active  int // Not yet expired as of the report time

	TradingDays          Describe // max_time - min_time, in days
	DaysBeforeExpiration Describe // expiry - min_time, in days
	Strikes              Describe
	OptionTypes          map[string]int

	// RecommendedLookback is the 90th percentile of
	// DaysBeforeExpiration, rounded: collecting that many days before
	// each expiry captures ~90% of observed trading activity.
	RecommendedLookback int
}

// AnalyzeCatalog builds a report from entries that already carry parsed
// expiry dates (see market.WithExpiry). now anchors the active count.
func AnalyzeCatalog(entries []model.CatalogEntry, now time.Time) *CatalogReport {
	report := &CatalogReport{
		Markets:     len(entries),
		OptionTypes: make(map[string]int),
	}

	var tradingDays, daysBefore, strikes []float64
	for _, e := range entries {
		if !e.MinTime.IsZero() && !e.MaxTime.IsZero() {
			tradingDays = append(tradingDays, e.MaxTime.Sub(e.MinTime).Hours()/24)
		}
		if !e.MinTime.IsZero() {
			daysBefore = append(daysBefore, e.Expiry.Sub(e.MinTime).Hours()/24)
		}
		if e.Expiry.After(now) {
			report.Active++
		}

		strike, hasStrike, optType := market.ParseStrikeType(e.Market)
		if optType != "" {
			report.OptionTypes[optType]++
		}
		if hasStrike {
			strikes = append(strikes, strike)
		}
	}

	report.TradingDays = NewDescribe(tradingDays)
	report.DaysBeforeExpiration = NewDescribe(daysBefore)
	report.Strikes = NewDescribe(strikes)

	if report.DaysBeforeExpiration.Count > 0 {
		report.RecommendedLookback = int(math.Round(report.DaysBeforeExpiration.Percentile(0.9)))
	}

	return report
}

// WriteCatalogCSV writes the annotated catalog with derived columns for
// further exploration.
func WriteCatalogCSV(path string, entries []model.CatalogEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create catalog csv: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{
		"market", "expiration_date", "min_time", "max_time",
		"trading_days", "days_before_expiration", "strike", "option_type",
	}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for _, e := range entries {
		tradingDays := ""
		if !e.MinTime.IsZero() && !e.MaxTime.IsZero() {
			tradingDays = formatDays(e.MaxTime.Sub(e.MinTime).Hours() / 24)
		}
		daysBefore := ""
		if !e.MinTime.IsZero() {
			daysBefore = formatDays(e.Expiry.Sub(e.MinTime).Hours() / 24)
		}

		strikeStr := ""
		strike, hasStrike, optType := market.ParseStrikeType(e.Market)
		if hasStrike {
			strikeStr = strconv.FormatFloat(strike, 'f', -1, 64)
		}

		record := []string{
			e.Market,
			e.Expiry.Format(time.RFC3339),
			formatTime(e.MinTime),
			formatTime(e.MaxTime),
			tradingDays,
			daysBefore,
			strikeStr,
			optType,
		}
		if err := w.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return f.Close()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339)
}

func formatDays(d float64) string {
	return strconv.FormatFloat(d, 'f', 2, 64)
}
