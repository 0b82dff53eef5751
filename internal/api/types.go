package api

import "encoding/json"

// catalogResponse from GET /catalog-v2/market-*
type catalogResponse struct {
	Data          []apiCatalogEntry `json:"data"`
	NextPageToken string            `json:"next_page_token"`
}

// apiCatalogEntry is one market in a catalog page. Timestamps are ISO 8601.
type apiCatalogEntry struct {
	Market  string `json:"market"`
	MinTime string `json:"min_time"`
	MaxTime string `json:"max_time"`
}

// timeseriesResponse from GET /timeseries/market-*. Data is decoded
// per-metric since each endpoint has its own row shape.
type timeseriesResponse struct {
	Data          json.RawMessage `json:"data"`
	NextPageToken string          `json:"next_page_token"`
}

// Numeric values arrive as JSON strings.

type apiGreeksRow struct {
	Market string `json:"market"`
	Time   string `json:"time"`
	Delta  string `json:"delta"`
	Gamma  string `json:"gamma"`
	Vega   string `json:"vega"`
	Theta  string `json:"theta"`
	Rho    string `json:"rho"`
}

type apiIVRow struct {
	Market string `json:"market"`
	Time   string `json:"time"`
	IVBid  string `json:"iv_bid"`
	IVAsk  string `json:"iv_ask"`
	IVMark string `json:"iv_mark"`
}

type apiPriceRow struct {
	Market string `json:"market"`
	Time   string `json:"time"`
	Mark   string `json:"mark_price"`
	Bid    string `json:"best_bid_price"`
	Ask    string `json:"best_ask_price"`
}

type apiOpenInterestRow struct {
	Market    string `json:"market"`
	Time      string `json:"time"`
	Contracts string `json:"contracts"`
	ValueUSD  string `json:"value_usd"`
}
