package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeOMDB()
	if err := c.normalizeStore(); err != nil {
		return err
	}
	c.normalizeAPI()
	return c.normalizeLogging()
}

func (c *Config) normalizeOMDB() {
	c.OMDB.APIKey = strings.TrimSpace(c.OMDB.APIKey)
	if c.OMDB.APIKey == "" {
		if value, ok := os.LookupEnv("OMDB_API_KEY"); ok {
			c.OMDB.APIKey = strings.TrimSpace(value)
		}
	}
	c.OMDB.BaseURL = strings.TrimRight(strings.TrimSpace(c.OMDB.BaseURL), "/")
	if c.OMDB.BaseURL == "" {
		c.OMDB.BaseURL = defaultOMDBBaseURL
	}
	if c.OMDB.TimeoutSeconds == 0 {
		c.OMDB.TimeoutSeconds = defaultOMDBTimeoutSeconds
	}
}

func (c *Config) normalizeStore() error {
	c.Store.Backend = strings.ToLower(strings.TrimSpace(c.Store.Backend))
	if c.Store.Backend == "" {
		c.Store.Backend = defaultStoreBackend
	}
	if strings.TrimSpace(c.Store.Path) == "" {
		switch c.Store.Backend {
		case BackendSQLite:
			c.Store.Path = defaultSQLiteStorePath
		default:
			c.Store.Path = defaultJSONStorePath
		}
	}
	var err error
	if c.Store.Path, err = expandPath(strings.TrimSpace(c.Store.Path)); err != nil {
		return fmt.Errorf("store.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeAPI() {
	c.API.Bind = strings.TrimSpace(c.API.Bind)
	if port, ok := os.LookupEnv("PORT"); ok && strings.TrimSpace(port) != "" {
		if c.API.Bind == "" || c.API.Bind == defaultAPIBind {
			c.API.Bind = ":" + strings.TrimSpace(port)
		}
	}
	if c.API.Bind == "" {
		c.API.Bind = defaultAPIBind
	}
	origins := make([]string, 0, len(c.API.CORSOrigins))
	for _, origin := range c.API.CORSOrigins {
		if trimmed := strings.TrimSpace(origin); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	c.API.CORSOrigins = origins
}

func (c *Config) normalizeLogging() error {
	format := strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if format == "" {
		format = defaultLogFormat
	}
	c.Logging.Format = format

	level := strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if level == "" {
		level = defaultLogLevel
	}
	c.Logging.Level = level

	var err error
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}
