// Package model defines shared data types used across the options data
// collector.
//
// Conventions:
//   - Timestamps: time.Time in UTC
//   - Expiry dates: calendar date at the 08:00 UTC settlement time
//   - Market identifiers: CoinMetrics form, e.g. "deribit-BTC-10APR22-34000-C-option"
package model
