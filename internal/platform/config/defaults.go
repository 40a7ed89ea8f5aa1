package config

import "time"

// DefaultConfig returns the configuration used when no file overrides it.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://127.0.0.1:3000/api",
			Timeout: 15 * time.Second,
		},
		Space: SpaceConfig{
			BaseURL: "https://api.nasa.gov",
			APIKey:  "DEMO_KEY",
			Timeout: 15 * time.Second,
		},
		Credential: CredentialConfig{
			Driver: "sqlite",
			Key:    "access_token",
			SQLite: CredentialSQLite{
				DSN: "data/stellar.db",
			},
			Redis: CredentialRedis{
				Prefix: "stellar:credential:",
			},
		},
		Log: LogConfig{
			Level: "info",
			Color: true,
		},
		Observability: ObservabilityConfig{
			Enabled: true,
		},
	}
}
