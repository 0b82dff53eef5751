package config

import "time"

// Default values for optional configuration fields.
const (
	DefaultBaseURL          = "https://api.coinmetrics.io/v4"
	DefaultAPITimeout       = 30 * time.Second
	DefaultMaxRetries       = 3
	DefaultPageSize         = 10000
	DefaultExchange         = "deribit"
	DefaultBase             = "btc"
	DefaultGranularity      = "1d"
	DefaultDaysBeforeExpiry = 22
	DefaultConcurrency      = 5
	DefaultBatchDelay       = 2 * time.Second
	DefaultOutputDir        = "."
	DefaultDBPort           = 5432
	DefaultDBSSLMode        = "prefer"
	DefaultMaxConns         = 10
	DefaultMinConns         = 2
)

func (c *CollectorConfig) applyDefaults() {
	// API defaults
	if c.API.BaseURL == "" {
		c.API.BaseURL = DefaultBaseURL
	}
	if c.API.Timeout == 0 {
		c.API.Timeout = DefaultAPITimeout
	}
	if c.API.MaxRetries == 0 {
		c.API.MaxRetries = DefaultMaxRetries
	}
	if c.API.PageSize == 0 {
		c.API.PageSize = DefaultPageSize
	}

	// Collect defaults
	if c.Collect.Exchange == "" {
		c.Collect.Exchange = DefaultExchange
	}
	if c.Collect.Base == "" {
		c.Collect.Base = DefaultBase
	}
	if c.Collect.Granularity == "" {
		c.Collect.Granularity = DefaultGranularity
	}
	if c.Collect.DaysBeforeExpiry == 0 {
		c.Collect.DaysBeforeExpiry = DefaultDaysBeforeExpiry
	}
	if c.Collect.Concurrency == 0 {
		c.Collect.Concurrency = DefaultConcurrency
	}
	if c.Collect.BatchDelay == 0 {
		c.Collect.BatchDelay = DefaultBatchDelay
	}
	if c.Collect.OutputDir == "" {
		c.Collect.OutputDir = DefaultOutputDir
	}

	// Database defaults
	if c.Database.Enabled {
		applyDBDefaults(&c.Database.Timescale)
	}
}

func applyDBDefaults(db *DBConfig) {
	if db.Port == 0 {
		db.Port = DefaultDBPort
	}
	if db.SSLMode == "" {
		db.SSLMode = DefaultDBSSLMode
	}
	if db.MaxConns == 0 {
		db.MaxConns = DefaultMaxConns
	}
	if db.MinConns == 0 {
		db.MinConns = DefaultMinConns
	}
}
