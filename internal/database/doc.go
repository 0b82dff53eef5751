// Package database provides connection pool management for the optional
// TimescaleDB sink holding fetched option time series.
package database
