package config

const (
	defaultDataDir           = "~/.local/share/shelfcheck"
	defaultCacheDir          = "~/.cache/shelfcheck"
	defaultLogDir            = "~/.local/share/shelfcheck/logs"
	defaultCatalogPath       = "~/.local/share/shelfcheck/catalog.json"
	defaultFantLabBaseURL    = "https://api.fantlab.ru"
	defaultKnigopoiskBaseURL = "https://knigopoisk.org"
	defaultSourceTimeout     = 20
	defaultVerifyPolicy      = "if-negative"
	defaultInitialDelayMs    = 100
	defaultLogFormat         = "console"
	defaultLogLevel          = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir:  defaultDataDir,
			CacheDir: defaultCacheDir,
			LogDir:   defaultLogDir,
		},
		Catalog: Catalog{
			Path: defaultCatalogPath,
		},
		Sources: Sources{
			Priority: []string{"fantlab", "knigopoisk"},
			FantLab: Source{
				Enabled:        true,
				BaseURL:        defaultFantLabBaseURL,
				TimeoutSeconds: defaultSourceTimeout,
			},
			Knigopoisk: Source{
				Enabled:        true,
				BaseURL:        defaultKnigopoiskBaseURL,
				TimeoutSeconds: defaultSourceTimeout,
			},
		},
		Verify: Verify{
			Policy: defaultVerifyPolicy,
		},
		Breaker: Breaker{
			InitialDelayMs: defaultInitialDelayMs,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
