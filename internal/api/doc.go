// Package api provides the CoinMetrics REST API client used to discover
// option markets and fetch their time-series data.
//
// Endpoints:
//   - Catalog: /catalog-v2/market-{greeks,implied-volatility,contract-prices,openinterest}
//   - Timeseries: /timeseries/market-* with the same resource names
//
// Both are paginated via next_page_token. Authentication is the api_key
// query parameter.
package api
