package config

import (
	"os"
	"strconv"
	"time"
)

// parseEnv overlays configuration from environment variables. Unset
// variables leave the current values untouched. Environment values sit
// between the JSON overlay and command-line flags in precedence.
func parseEnv(config *Config) {
	setIfNotEmpty(&config.Environment, os.Getenv("ENVIRONMENT"))
	setIfNotEmpty(&config.EndpointAddrHTTP, os.Getenv("ADDRESS"))
	setIfNotEmpty(&config.Backend, os.Getenv("BACKEND"))
	setIfNotEmpty(&config.DatabaseDSN, os.Getenv("DATABASE_DSN"))
	setIfNotEmpty(&config.SecretKey, os.Getenv("JWT_SECRET"))
	setIfNotEmpty(&config.AWSRegion, os.Getenv("AWS_REGION"))
	setIfNotEmpty(&config.AWSEndpoint, os.Getenv("AWS_ENDPOINT"))
	setIfNotEmpty(&config.AWSAccessKeyID, os.Getenv("AWS_ACCESS_KEY_ID"))
	setIfNotEmpty(&config.AWSSecretAccessKey, os.Getenv("AWS_SECRET_ACCESS_KEY"))
	setIfNotEmpty(&config.DynamoUsersTable, os.Getenv("DYNAMO_USERS_TABLE"))
	setIfNotEmpty(&config.DynamoItemsTable, os.Getenv("DYNAMO_ITEMS_TABLE"))
	setIfNotEmpty(&config.S3ExportBucket, os.Getenv("S3_EXPORT_BUCKET"))

	if v := os.Getenv("TOKEN_VALIDITY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.TokenValidityDuration = d
		}
	}
	if v := os.Getenv("BCRYPT_COST"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.BcryptCost = n
		}
	}
	if v := os.Getenv("STORE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.StoreTimeout = d
		}
	}
}
