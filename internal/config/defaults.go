package config

const (
	defaultConfigPath         = "~/.config/cinedex/config.toml"
	defaultOMDBBaseURL        = "https://www.omdbapi.com"
	defaultOMDBTimeoutSeconds = 10
	defaultStoreBackend       = BackendJSON
	defaultJSONStorePath      = "~/.local/share/cinedex/movies.json"
	defaultSQLiteStorePath    = "~/.local/share/cinedex/cinedex.db"
	defaultAPIBind            = "127.0.0.1:3000"
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Store backends understood by store.Open.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		OMDB: OMDB{
			BaseURL:        defaultOMDBBaseURL,
			TimeoutSeconds: defaultOMDBTimeoutSeconds,
		},
		Store: Store{
			Backend: defaultStoreBackend,
		},
		API: API{
			Bind:        defaultAPIBind,
			CORSOrigins: []string{"*"},
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
