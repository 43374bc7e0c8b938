// Package config handles configuration for the server component, including
// defaults, JSON overlay, environment overlay, and command-line flags.
package config

import "time"

// Key generator modes, see internal/server/keygen.
const (
	KeyGenModeUnique = "unique"
	KeyGenModeLegacy = "legacy"
)

// Config holds runtime settings for the ArtLedger server.
//
// Fields:
//   - EndpointAddr: bind address for the public HTTP endpoint.
//   - DatabaseDSN: PostgreSQL DSN (pgx). Empty selects the in-memory backend.
//   - SecretKey: HMAC secret for signing JWTs (HS256). Do not use test defaults in prod.
//   - AccessTokenValidityDuration: access token lifetime.
//   - RequestTimeout: per-request deadline enforced by the HTTP layer; a
//     timeout during settlement rolls the purchase back fully.
//   - VerifyCacheTTL: how long positive rights verifications are cached.
//   - KeyGenMode: "unique" (collision-checked, default) or "legacy"
//     (reproduces the original environment's weak scheme).
//   - S3*: optional object storage for artifact content; presign endpoints
//     are disabled when S3BaseEndpoint is empty.
type Config struct {
	EndpointAddr                string        `envconfig:"ENDPOINT_ADDR"`
	DatabaseDSN                 string        `envconfig:"DATABASE_DSN"`
	SecretKey                   string        `envconfig:"SECRET_KEY"`
	AccessTokenValidityDuration time.Duration `envconfig:"ACCESS_TOKEN_VALIDITY_DURATION"`
	RequestTimeout              time.Duration `envconfig:"REQUEST_TIMEOUT"`
	VerifyCacheTTL              time.Duration `envconfig:"VERIFY_CACHE_TTL"`
	KeyGenMode                  string        `envconfig:"KEYGEN_MODE"`
	S3RootUser                  string        `envconfig:"S3_ROOT_USER"`
	S3RootPassword              string        `envconfig:"S3_ROOT_PASSWORD"`
	S3Bucket                    string        `envconfig:"S3_BUCKET"`
	S3Region                    string        `envconfig:"S3_REGION"`
	S3BaseEndpoint              string        `envconfig:"S3_BASE_ENDPOINT"`
}

// LoadDefaults populates Config with sensible development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.EndpointAddr = ":3200"
	c.DatabaseDSN = ""
	c.SecretKey = "secretKey"
	c.AccessTokenValidityDuration = 15 * time.Minute
	c.RequestTimeout = 10 * time.Second
	c.VerifyCacheTTL = 5 * time.Minute
	c.KeyGenMode = KeyGenModeUnique
	c.S3RootUser = ""
	c.S3RootPassword = ""
	c.S3Bucket = "artifacts"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = ""
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file, environment variables, and finally
// command-line flags. Later sources take precedence.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
