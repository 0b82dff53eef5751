package config

import "time"

// CollectorConfig is the root configuration for a collector run.
type CollectorConfig struct {
	API      APIConfig      `yaml:"api"`
	Collect  CollectConfig  `yaml:"collect"`
	Database DatabaseConfig `yaml:"database"`
}

// APIConfig holds CoinMetrics API settings.
type APIConfig struct {
	BaseURL    string        `yaml:"base_url"`
	APIKey     string        `yaml:"api_key"` // usually ${CM_API_KEY}
	Timeout    time.Duration `yaml:"timeout"`
	MaxRetries int           `yaml:"max_retries"`
	PageSize   int           `yaml:"page_size"`
}

// CollectConfig holds collection settings.
type CollectConfig struct {
	Exchange         string        `yaml:"exchange"`
	Base             string        `yaml:"base"`
	Granularity      string        `yaml:"granularity"`
	DaysBeforeExpiry int           `yaml:"days_before_expiry"`
	Concurrency      int           `yaml:"concurrency"`
	BatchDelay       time.Duration `yaml:"batch_delay"`
	OutputDir        string        `yaml:"output_dir"`
}

// DatabaseConfig holds the optional TimescaleDB sink. When Enabled is
// false, rows are only exported to CSV.
type DatabaseConfig struct {
	Enabled   bool     `yaml:"enabled"`
	Timescale DBConfig `yaml:"timescale"`
}

// DBConfig holds a single database connection.
type DBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"ssl_mode"`
	MaxConns int    `yaml:"max_conns"`
	MinConns int    `yaml:"min_conns"`
}
