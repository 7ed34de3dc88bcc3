package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/logboard/internal/flagx"
	"github.com/dmitrijs2005/logboard/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept
// either "90m" strings or integer nanoseconds.
type JsonConfig struct {
	DBDriver         string         `json:"db_driver"`
	DatabaseDSN      string         `json:"database_dsn"`
	HTTPAddr         string         `json:"http_addr"`
	AllowedOrigins   []string       `json:"allowed_origins"`
	SecretKey        string         `json:"secret_key"`
	SessionTTL       timex.Duration `json:"session_ttl"`
	AdminPassphrase  string         `json:"admin_passphrase"`
	DisplayZone      string         `json:"display_zone"`
	DisplayZoneLabel string         `json:"display_zone_label"`
	S3AccessKey      string         `json:"s3_access_key"`
	S3SecretKey      string         `json:"s3_secret_key"`
	S3Bucket         string         `json:"s3_bucket"`
	S3Region         string         `json:"s3_region"`
	S3BaseEndpoint   string         `json:"s3_base_endpoint"`
	LogFormat        string         `json:"log_format"`
	LogLevel         string         `json:"log_level"`
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// parseJson overlays the file named by -c/-config. Keys that are absent or
// empty keep their current value. A missing or malformed file panics.
func parseJson(config *Config, args []string) {
	path := flagx.ConfigPath(args)
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

	setString(&config.DBDriver, c.DBDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.HTTPAddr, c.HTTPAddr)
	if len(c.AllowedOrigins) > 0 {
		config.AllowedOrigins = c.AllowedOrigins
	}
	setString(&config.SecretKey, c.SecretKey)
	if c.SessionTTL.Duration > 0 {
		config.SessionTTL = c.SessionTTL.Duration
	}
	setString(&config.AdminPassphrase, c.AdminPassphrase)
	setString(&config.DisplayZone, c.DisplayZone)
	setString(&config.DisplayZoneLabel, c.DisplayZoneLabel)
	setString(&config.S3AccessKey, c.S3AccessKey)
	setString(&config.S3SecretKey, c.S3SecretKey)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.LogFormat, c.LogFormat)
	setString(&config.LogLevel, c.LogLevel)
}
