package config

import "time"

// Config holds runtime settings for the ArtLedger CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the backend HTTP endpoint.
//   - RequestTimeout: per-call deadline for API requests.
type Config struct {
	ServerBaseURL  string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://127.0.0.1:3200"
	c.RequestTimeout = 10 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
