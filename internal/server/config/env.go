package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// dotenvFile is loaded into the process environment before the env layer
// is read. Variables already set in the environment win.
var dotenvFile = ".env"

// parseEnv overlays values from environment variables. Invalid numbers,
// booleans or durations are ignored and keep the previous value.
//
// PORT is accepted for compatibility with platform runtimes and becomes
// HTTPAddr ":<port>"; HTTP_ADDRESS takes precedence over it. MONGODB_URI is an
// alias for DATABASE_DSN.
func parseEnv(config *Config) {
	_ = godotenv.Load(dotenvFile)

	envString("APP_ENV", &config.Env)
	if port, ok := os.LookupEnv("PORT"); ok && port != "" {
		config.HTTPAddr = ":" + port
	}
	envString("HTTP_ADDRESS", &config.HTTPAddr)
	envString("GRPC_ADDRESS", &config.GRPCAddr)
	envString("MONGODB_URI", &config.DatabaseDSN)
	envString("DATABASE_DSN", &config.DatabaseDSN)
	envString("JWT_SECRET", &config.SecretKey)
	envDuration("TOKEN_TTL", &config.AccessTokenValidityDuration)
	envInt("BCRYPT_COST", &config.BcryptCost)
	envDuration("STORE_TIMEOUT", &config.StoreTimeout)
	envBool("STRICT_TOTALS", &config.StrictTotals)
	envList("CORS_ORIGINS", &config.CORSOrigins)
	envString("REDIS_ADDR", &config.RedisAddr)
	envString("REDIS_PASSWORD", &config.RedisPassword)
	envInt("REDIS_DB", &config.RedisDB)
	envInt("LOGIN_MAX_ATTEMPTS", &config.LoginMaxAttempts)
	envDuration("LOGIN_WINDOW", &config.LoginWindow)
	envString("NOTIFY_DRIVER", &config.NotifyDriver)
	envString("SENDER_EMAIL", &config.SenderEmail)
	envString("S3_ACCESS_KEY", &config.S3AccessKey)
	envString("S3_SECRET_KEY", &config.S3SecretKey)
	envString("S3_BUCKET", &config.S3Bucket)
	envString("S3_REGION", &config.S3Region)
	envString("S3_ENDPOINT", &config.S3BaseEndpoint)
	envList("KAFKA_BROKERS", &config.KafkaBrokers)
	envString("KAFKA_TOPIC", &config.KafkaTopic)
}

func envString(key string, dst *string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envInt(key string, dst *int) {
	if v, ok := os.LookupEnv(key); ok {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func envBool(key string, dst *bool) {
	if v, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}

func envDuration(key string, dst *time.Duration) {
	if v, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			*dst = d
		}
	}
}

func envList(key string, dst *[]string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) > 0 {
		*dst = out
	}
}
