package testsupport

import (
	"path/filepath"
	"testing"

	"cinedex/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with a unique temp store per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.OMDB.APIKey = "test"
	cfgVal.OMDB.BaseURL = "http://127.0.0.1:0"
	cfgVal.Store.Backend = config.BackendJSON
	cfgVal.Store.Path = filepath.Join(base, "movies.json")
	cfgVal.API.Bind = "127.0.0.1:0"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithOMDBKey sets the OMDB API key on the test config.
func WithOMDBKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.OMDB.APIKey = key
	}
}

// WithOMDBBaseURL points the catalog client at a test server.
func WithOMDBBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.OMDB.BaseURL = url
	}
}

// WithSQLiteStore switches the test config to the SQLite backend.
func WithSQLiteStore() ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Store.Backend = config.BackendSQLite
		b.cfg.Store.Path = filepath.Join(b.baseDir, "cinedex.db")
	}
}
