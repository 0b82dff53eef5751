package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/rickgao/deribit-options-data/internal/model"
)

// parseTimestamp parses an ISO 8601 timestamp. Returns the zero time for
// empty or invalid input.
func parseTimestamp(iso string) time.Time {
	if iso == "" {
		return time.Time{}
	}

	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		// Try without timezone
		t, err = time.Parse("2006-01-02T15:04:05", iso)
		if err != nil {
			return time.Time{}
		}
	}

	return t.UTC()
}

// parseFloat parses a numeric string. Returns 0 for empty or invalid
// input; absent metric values are reported as empty strings.
func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return f
}

func (r apiCatalogEntry) toModel() model.CatalogEntry {
	return model.CatalogEntry{
		Market:  r.Market,
		MinTime: parseTimestamp(r.MinTime),
		MaxTime: parseTimestamp(r.MaxTime),
	}
}

func (r apiGreeksRow) toModel() model.Row {
	return model.GreeksRow{
		Market: r.Market,
		Time:   parseTimestamp(r.Time),
		Delta:  parseFloat(r.Delta),
		Gamma:  parseFloat(r.Gamma),
		Vega:   parseFloat(r.Vega),
		Theta:  parseFloat(r.Theta),
		Rho:    parseFloat(r.Rho),
	}
}

func (r apiIVRow) toModel() model.Row {
	return model.IVRow{
		Market: r.Market,
		Time:   parseTimestamp(r.Time),
		IVBid:  parseFloat(r.IVBid),
		IVAsk:  parseFloat(r.IVAsk),
		IVMark: parseFloat(r.IVMark),
	}
}

func (r apiPriceRow) toModel() model.Row {
	return model.PriceRow{
		Market: r.Market,
		Time:   parseTimestamp(r.Time),
		Mark:   parseFloat(r.Mark),
		Bid:    parseFloat(r.Bid),
		Ask:    parseFloat(r.Ask),
	}
}

func (r apiOpenInterestRow) toModel() model.Row {
	return model.OpenInterestRow{
		Market:    r.Market,
		Time:      parseTimestamp(r.Time),
		Contracts: parseFloat(r.Contracts),
		ValueUSD:  parseFloat(r.ValueUSD),
	}
}
