package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/flagx"
	"github.com/dmitrijs2005/todokeeper/internal/timex"
)

// JsonConfig is an intermediate DTO used only for reading JSON
// configuration files. Duration fields accept both strings such as "168h"
// and integer nanoseconds. After unmarshalling, its fields are copied into
// the runtime Config.
type JsonConfig struct {
	Environment           string         `json:"environment"`
	EndpointAddrHTTP      string         `json:"endpoint_addr_http"`
	Backend               string         `json:"backend"`
	DatabaseDSN           string         `json:"database_dsn"`
	SecretKey             string         `json:"secret_key"`
	TokenValidityDuration timex.Duration `json:"token_validity_duration"`
	BcryptCost            int            `json:"bcrypt_cost"`
	StoreTimeout          timex.Duration `json:"store_timeout"`
	AWSRegion             string         `json:"aws_region"`
	AWSEndpoint           string         `json:"aws_endpoint"`
	AWSAccessKeyID        string         `json:"aws_access_key_id"`
	AWSSecretAccessKey    string         `json:"aws_secret_access_key"`
	DynamoUsersTable      string         `json:"dynamo_users_table"`
	DynamoItemsTable      string         `json:"dynamo_items_table"`
	S3ExportBucket        string         `json:"s3_export_bucket"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config. The file path comes from the -c or -config command-line flags;
// when neither is set, no JSON file is loaded. Unset fields keep their
// current (default) values. Read or parse failures panic: a config file
// that was explicitly requested must be usable.
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

	setIfNotEmpty(&config.Environment, c.Environment)
	setIfNotEmpty(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setIfNotEmpty(&config.Backend, c.Backend)
	setIfNotEmpty(&config.DatabaseDSN, c.DatabaseDSN)
	setIfNotEmpty(&config.SecretKey, c.SecretKey)
	if c.TokenValidityDuration.Duration > 0 {
		config.TokenValidityDuration = time.Duration(c.TokenValidityDuration.Duration)
	}
	if c.BcryptCost > 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.StoreTimeout.Duration > 0 {
		config.StoreTimeout = time.Duration(c.StoreTimeout.Duration)
	}
	setIfNotEmpty(&config.AWSRegion, c.AWSRegion)
	setIfNotEmpty(&config.AWSEndpoint, c.AWSEndpoint)
	setIfNotEmpty(&config.AWSAccessKeyID, c.AWSAccessKeyID)
	setIfNotEmpty(&config.AWSSecretAccessKey, c.AWSSecretAccessKey)
	setIfNotEmpty(&config.DynamoUsersTable, c.DynamoUsersTable)
	setIfNotEmpty(&config.DynamoItemsTable, c.DynamoItemsTable)
	setIfNotEmpty(&config.S3ExportBucket, c.S3ExportBucket)
}

func setIfNotEmpty(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
