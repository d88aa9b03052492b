package config

import (
	"errors"
	"fmt"
	"net/url"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateOMDB(); err != nil {
		return err
	}
	if err := c.validateStore(); err != nil {
		return err
	}
	if err := c.validateAPI(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateOMDB() error {
	if c.OMDB.APIKey == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			defaultPath = defaultConfigPath
		}
		return fmt.Errorf("omdb.api_key is required. Set OMDB_API_KEY env var or edit %s (create with 'cinedex config init')", defaultPath)
	}
	parsed, err := url.Parse(c.OMDB.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("omdb.base_url must be an absolute URL, got %q", c.OMDB.BaseURL)
	}
	if c.OMDB.TimeoutSeconds < 0 {
		return errors.New("omdb.timeout_seconds must be positive")
	}
	if c.OMDB.RequestsPerSecond < 0 {
		return errors.New("omdb.requests_per_second must be zero (unlimited) or positive")
	}
	return nil
}

func (c *Config) validateStore() error {
	switch c.Store.Backend {
	case BackendJSON, BackendSQLite:
	default:
		return fmt.Errorf("store.backend must be %q or %q, got %q", BackendJSON, BackendSQLite, c.Store.Backend)
	}
	if c.Store.Path == "" {
		return errors.New("store.path must be set")
	}
	return nil
}

func (c *Config) validateAPI() error {
	if c.API.Bind == "" {
		return errors.New("api.bind must be set")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	return nil
}
