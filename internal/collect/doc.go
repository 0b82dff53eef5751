// Package collect wires the collection pipeline: fetch the market
// catalog, group markets by expiry date, then batch-fetch each group's
// lookback window and hand rows to the CSV exporter and the optional
// database sink.
package collect
