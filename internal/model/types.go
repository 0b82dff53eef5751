package model

import (
	"strconv"
	"time"
)

// Metric identifies one of the option time-series endpoints we collect.
type Metric string

const (
	MetricGreeks            Metric = "greeks"
	MetricImpliedVolatility Metric = "implied-volatility"
	MetricContractPrices    Metric = "contract-prices"
	MetricOpenInterest      Metric = "open-interest"
)

// AllMetrics lists every collectable metric in collection order.
var AllMetrics = []Metric{
	MetricGreeks,
	MetricContractPrices,
	MetricImpliedVolatility,
	MetricOpenInterest,
}

// Path returns the API resource name, shared by the catalog-v2 and
// timeseries endpoints and used as the CSV output directory name.
func (m Metric) Path() string {
	// The open interest endpoint drops the hyphen.
	if m == MetricOpenInterest {
		return "market-openinterest"
	}
	return "market-" + string(m)
}

// Table returns the database table rows for this metric are written to.
func (m Metric) Table() string {
	switch m {
	case MetricGreeks:
		return "option_greeks"
	case MetricImpliedVolatility:
		return "option_iv"
	case MetricContractPrices:
		return "option_prices"
	case MetricOpenInterest:
		return "option_open_interest"
	}
	return ""
}

// Columns returns the table column names, in Row.Args order.
func (m Metric) Columns() []string {
	switch m {
	case MetricGreeks:
		return []string{"market", "time", "delta", "gamma", "vega", "theta", "rho"}
	case MetricImpliedVolatility:
		return []string{"market", "time", "iv_bid", "iv_ask", "iv_mark"}
	case MetricContractPrices:
		return []string{"market", "time", "mark_price", "bid", "ask"}
	case MetricOpenInterest:
		return []string{"market", "time", "contracts", "value_usd"}
	}
	return nil
}

// CatalogEntry is one market from the catalog endpoint, annotated with the
// expiry date parsed from its identifier. Expiry is zero until annotation.
type CatalogEntry struct {
	Market  string    // e.g. "deribit-BTC-10APR22-34000-C-option"
	MinTime time.Time // First observed data point, zero if unknown
	MaxTime time.Time // Last observed data point, zero if unknown
	Expiry  time.Time // Contract expiry (08:00 UTC), derived from Market
}

// Row is a single time-series observation for one market.
// Header/Record serve CSV export; Args serve database inserts and must
// match the metric's Columns order.
type Row interface {
	MarketID() string
	Timestamp() time.Time
	Header() []string
	Record() []string
	Args() []any
}

// GreeksRow holds option sensitivity metrics for one observation.
type GreeksRow struct {
	Market string
	Time   time.Time
	Delta  float64
	Gamma  float64
	Vega   float64
	Theta  float64
	Rho    float64
}

func (r GreeksRow) MarketID() string     { return r.Market }
func (r GreeksRow) Timestamp() time.Time { return r.Time }

func (r GreeksRow) Header() []string {
	return []string{"market", "time", "delta", "gamma", "vega", "theta", "rho"}
}

func (r GreeksRow) Record() []string {
	return []string{
		r.Market,
		r.Time.Format(time.RFC3339),
		formatFloat(r.Delta),
		formatFloat(r.Gamma),
		formatFloat(r.Vega),
		formatFloat(r.Theta),
		formatFloat(r.Rho),
	}
}

func (r GreeksRow) Args() []any {
	return []any{r.Market, r.Time, r.Delta, r.Gamma, r.Vega, r.Theta, r.Rho}
}

// IVRow holds implied volatility quotes for one observation.
type IVRow struct {
	Market string
	Time   time.Time
	IVBid  float64
	IVAsk  float64
	IVMark float64
}

func (r IVRow) MarketID() string     { return r.Market }
func (r IVRow) Timestamp() time.Time { return r.Time }

func (r IVRow) Header() []string {
	return []string{"market", "time", "iv_bid", "iv_ask", "iv_mark"}
}

func (r IVRow) Record() []string {
	return []string{
		r.Market,
		r.Time.Format(time.RFC3339),
		formatFloat(r.IVBid),
		formatFloat(r.IVAsk),
		formatFloat(r.IVMark),
	}
}

func (r IVRow) Args() []any {
	return []any{r.Market, r.Time, r.IVBid, r.IVAsk, r.IVMark}
}

// PriceRow holds contract price quotes for one observation.
type PriceRow struct {
	Market string
	Time   time.Time
	Mark   float64
	Bid    float64
	Ask    float64
}

func (r PriceRow) MarketID() string     { return r.Market }
func (r PriceRow) Timestamp() time.Time { return r.Time }

func (r PriceRow) Header() []string {
	return []string{"market", "time", "mark_price", "bid", "ask"}
}

func (r PriceRow) Record() []string {
	return []string{
		r.Market,
		r.Time.Format(time.RFC3339),
		formatFloat(r.Mark),
		formatFloat(r.Bid),
		formatFloat(r.Ask),
	}
}

func (r PriceRow) Args() []any {
	return []any{r.Market, r.Time, r.Mark, r.Bid, r.Ask}
}

// OpenInterestRow holds open interest for one observation.
type OpenInterestRow struct {
	Market    string
	Time      time.Time
	Contracts float64
	ValueUSD  float64
}

func (r OpenInterestRow) MarketID() string     { return r.Market }
func (r OpenInterestRow) Timestamp() time.Time { return r.Time }

func (r OpenInterestRow) Header() []string {
	return []string{"market", "time", "contracts", "value_usd"}
}

func (r OpenInterestRow) Record() []string {
	return []string{
		r.Market,
		r.Time.Format(time.RFC3339),
		formatFloat(r.Contracts),
		formatFloat(r.ValueUSD),
	}
}

func (r OpenInterestRow) Args() []any {
	return []any{r.Market, r.Time, r.Contracts, r.ValueUSD}
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', -1, 64)
}
