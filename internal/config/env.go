package config

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const envPrefix = "LOGBOARD_"

// envFile is loaded when present. Variables already set in the process
// environment win over the file.
var envFile = ".env"

func parseOrigins(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func lookupEnv(name string, dst *string) {
	if v, ok := os.LookupEnv(envPrefix + name); ok && v != "" {
		*dst = v
	}
}

// parseEnv overlays LOGBOARD_* variables, after loading envFile into the
// environment. A missing env file is not an error; a malformed one panics.
func parseEnv(config *Config) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	lookupEnv("DB_DRIVER", &config.DBDriver)
	lookupEnv("DATABASE_DSN", &config.DatabaseDSN)
	lookupEnv("HTTP_ADDR", &config.HTTPAddr)
	lookupEnv("SECRET_KEY", &config.SecretKey)
	lookupEnv("ADMIN_PASSPHRASE", &config.AdminPassphrase)
	lookupEnv("DISPLAY_ZONE", &config.DisplayZone)
	lookupEnv("DISPLAY_ZONE_LABEL", &config.DisplayZoneLabel)
	lookupEnv("S3_ACCESS_KEY", &config.S3AccessKey)
	lookupEnv("S3_SECRET_KEY", &config.S3SecretKey)
	lookupEnv("S3_BUCKET", &config.S3Bucket)
	lookupEnv("S3_REGION", &config.S3Region)
	lookupEnv("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	lookupEnv("LOG_FORMAT", &config.LogFormat)
	lookupEnv("LOG_LEVEL", &config.LogLevel)

	var origins string
	lookupEnv("ALLOWED_ORIGINS", &origins)
	if o := parseOrigins(origins); len(o) > 0 {
		config.AllowedOrigins = o
	}

	var ttl string
	lookupEnv("SESSION_TTL", &ttl)
	if ttl != "" {
		d, err := time.ParseDuration(ttl)
		if err != nil {
			panic(err)
		}
		config.SessionTTL = d
	}
}
