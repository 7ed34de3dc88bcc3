package config

import (
	"flag"
	"strings"
	"time"

	"github.com/dmitrijs2005/logboard/internal/flagx"
)

var ownFlags = []string{
	"-a", "-d", "-driver", "-s", "-t", "-p", "-o", "-tz", "-tzlabel",
	"-u", "-w", "-b", "-g", "-e", "-log-format", "-log-level",
}

// parseFlags overlays command-line flags.
//
//	-a string        HTTP bind address (e.g. ":8080")
//	-d string        database DSN
//	-driver string   database driver: pgx, postgres or sqlite
//	-s string        session token secret
//	-t int           session token validity, minutes
//	-p string        admin passphrase
//	-o string        comma-separated CORS origins
//	-tz string       display timezone (IANA name)
//	-tzlabel string  suffix appended to stamps
//	-u / -w string   S3 access key / secret key
//	-b / -g / -e     S3 bucket / region / base endpoint
//	-log-format, -log-level
func parseFlags(config *Config, argv []string) {
	args := flagx.FilterArgs(argv, ownFlags)

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to serve the API on")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.DBDriver, "driver", config.DBDriver, "database driver (pgx, postgres, sqlite)")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "session token secret")
	ttl := fs.Int("t", int(config.SessionTTL.Minutes()), "session token validity (in minutes)")
	fs.StringVar(&config.AdminPassphrase, "p", config.AdminPassphrase, "admin passphrase")
	origins := fs.String("o", strings.Join(config.AllowedOrigins, ","), "comma-separated allowed origins")
	fs.StringVar(&config.DisplayZone, "tz", config.DisplayZone, "display timezone")
	fs.StringVar(&config.DisplayZoneLabel, "tzlabel", config.DisplayZoneLabel, "timezone label appended to stamps")
	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "w", config.S3SecretKey, "S3 secret key")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 backup bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.LogFormat, "log-format", config.LogFormat, "log format (json, text)")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["t"] {
		config.SessionTTL = time.Duration(*ttl) * time.Minute
	}
	if set["o"] {
		config.AllowedOrigins = parseOrigins(*origins)
	}
}
