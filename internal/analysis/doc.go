// Package analysis computes descriptive statistics over the market
// catalog (to ground the lookback-window constant) and over exported
// greeks series (per-option summaries). No pricing models, only
// describe-style statistics.
package analysis
