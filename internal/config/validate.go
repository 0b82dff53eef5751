package config

import (
	"errors"
	"fmt"
)

// Validate checks that all required fields are set and values are valid.
// A missing API key is fatal here, before any fetch is attempted.
func (c *CollectorConfig) Validate() error {
	if c.API.APIKey == "" {
		return errors.New("api.api_key is required (set CM_API_KEY)")
	}
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}
	if c.API.PageSize < 1 {
		return errors.New("api.page_size must be >= 1")
	}

	if c.Collect.Exchange == "" {
		return errors.New("collect.exchange is required")
	}
	if c.Collect.DaysBeforeExpiry < 0 {
		return fmt.Errorf("collect.days_before_expiry must be >= 0, got %d", c.Collect.DaysBeforeExpiry)
	}
	if c.Collect.Concurrency < 1 {
		return errors.New("collect.concurrency must be >= 1")
	}
	if c.Collect.BatchDelay < 0 {
		return errors.New("collect.batch_delay must be >= 0")
	}

	if c.Database.Enabled {
		if err := c.Database.Timescale.validate("database.timescale"); err != nil {
			return err
		}
	}

	return nil
}

func (db *DBConfig) validate(prefix string) error {
	if db.Host == "" {
		return fmt.Errorf("%s.host is required", prefix)
	}
	if db.Name == "" {
		return fmt.Errorf("%s.name is required", prefix)
	}
	if db.User == "" {
		return fmt.Errorf("%s.user is required", prefix)
	}
	if db.Password == "" {
		return fmt.Errorf("%s.password is required", prefix)
	}
	if db.MaxConns < 1 {
		return fmt.Errorf("%s.max_conns must be >= 1", prefix)
	}
	if db.MinConns < 0 {
		return fmt.Errorf("%s.min_conns must be >= 0", prefix)
	}
	if db.MinConns > db.MaxConns {
		return fmt.Errorf("%s.min_conns (%d) cannot exceed max_conns (%d)", prefix, db.MinConns, db.MaxConns)
	}
	return nil
}
