package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/artledger/internal/flagx"
	"github.com/dmitrijs2005/artledger/internal/timex"
)

// JsonConfig is an intermediate DTO for reading JSON configuration files.
// It uses timex.Duration for interval fields, which allows parsing both
// string values such as "30s" and integer nanoseconds. After unmarshalling,
// its fields are copied into the runtime Config.
type JsonConfig struct {
	EndpointAddr                string         `json:"endpoint_addr"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	RequestTimeout              timex.Duration `json:"request_timeout"`
	VerifyCacheTTL              timex.Duration `json:"verify_cache_ttl"`
	KeyGenMode                  string         `json:"keygen_mode"`
	S3RootUser                  string         `json:"s3_root_user"`
	S3RootPassword              string         `json:"s3_root_password"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
}

// parseJson loads configuration values from the JSON file named by the
// -c/-config flags into the provided Config. If no flag is set, nothing is
// loaded. An unreadable or invalid file panics: a requested config file that
// cannot be applied is a startup error.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.EndpointAddr = c.EndpointAddr
	config.DatabaseDSN = c.DatabaseDSN
	config.SecretKey = c.SecretKey
	config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	config.RequestTimeout = c.RequestTimeout.Duration
	config.VerifyCacheTTL = c.VerifyCacheTTL.Duration
	config.KeyGenMode = c.KeyGenMode
	config.S3RootUser = c.S3RootUser
	config.S3RootPassword = c.S3RootPassword
	config.S3Bucket = c.S3Bucket
	config.S3Region = c.S3Region
	config.S3BaseEndpoint = c.S3BaseEndpoint
}
