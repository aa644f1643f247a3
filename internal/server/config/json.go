package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/stylish/internal/flagx"
	"github.com/dmitrijs2005/stylish/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations use
// timex.Duration so both "1h" and integer nanoseconds are accepted. Pointer
// and zero-valued fields leave the current value untouched.
type JsonConfig struct {
	Env                         string         `json:"env"`
	HTTPAddr                    string         `json:"http_addr"`
	GRPCAddr                    string         `json:"grpc_addr"`
	DatabaseDSN                 string         `json:"database_dsn"`
	SecretKey                   string         `json:"secret_key"`
	AccessTokenValidityDuration timex.Duration `json:"access_token_validity_duration"`
	BcryptCost                  int            `json:"bcrypt_cost"`
	StoreTimeout                timex.Duration `json:"store_timeout"`
	StrictTotals                *bool          `json:"strict_totals"`
	CORSOrigins                 []string       `json:"cors_origins"`
	RedisAddr                   string         `json:"redis_addr"`
	RedisPassword               string         `json:"redis_password"`
	RedisDB                     int            `json:"redis_db"`
	LoginMaxAttempts            int            `json:"login_max_attempts"`
	LoginWindow                 timex.Duration `json:"login_window"`
	NotifyDriver                string         `json:"notify_driver"`
	SenderEmail                 string         `json:"sender_email"`
	S3AccessKey                 string         `json:"s3_access_key"`
	S3SecretKey                 string         `json:"s3_secret_key"`
	S3Bucket                    string         `json:"s3_bucket"`
	S3Region                    string         `json:"s3_region"`
	S3BaseEndpoint              string         `json:"s3_base_endpoint"`
	KafkaBrokers                []string       `json:"kafka_brokers"`
	KafkaTopic                  string         `json:"kafka_topic"`
}

// parseJson overlays values from the JSON file named by -c/-config or the
// CONFIG environment variable. Nothing happens when no file is named. An
// unreadable or invalid file panics, as a broken config must stop startup.
func parseJson(config *Config) {
	path := flagx.ConfigFile()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.Env, c.Env)
	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.GRPCAddr, c.GRPCAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration.Duration > 0 {
		config.AccessTokenValidityDuration = c.AccessTokenValidityDuration.Duration
	}
	if c.BcryptCost > 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.StoreTimeout.Duration > 0 {
		config.StoreTimeout = c.StoreTimeout.Duration
	}
	if c.StrictTotals != nil {
		config.StrictTotals = *c.StrictTotals
	}
	if len(c.CORSOrigins) > 0 {
		config.CORSOrigins = c.CORSOrigins
	}
	setString(&config.RedisAddr, c.RedisAddr)
	setString(&config.RedisPassword, c.RedisPassword)
	if c.RedisDB > 0 {
		config.RedisDB = c.RedisDB
	}
	if c.LoginMaxAttempts > 0 {
		config.LoginMaxAttempts = c.LoginMaxAttempts
	}
	if c.LoginWindow.Duration > 0 {
		config.LoginWindow = c.LoginWindow.Duration
	}
	setString(&config.NotifyDriver, c.NotifyDriver)
	setString(&config.SenderEmail, c.SenderEmail)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	if len(c.KafkaBrokers) > 0 {
		config.KafkaBrokers = c.KafkaBrokers
	}
	setString(&config.KafkaTopic, c.KafkaTopic)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
