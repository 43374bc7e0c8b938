package config

import "github.com/kelseyhightower/envconfig"

// parseEnv overlays values from ARTLEDGER_-prefixed environment variables
// (e.g. ARTLEDGER_DATABASE_DSN, ARTLEDGER_REQUEST_TIMEOUT=30s).
func parseEnv(config *Config) {
	if err := envconfig.Process("artledger", config); err != nil {
		panic(err)
	}
}
