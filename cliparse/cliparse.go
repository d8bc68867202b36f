// Copyright (c) 2025 cityledger contributors.
// Licensed under the MIT license; see LICENSE.

package cliparse

import (
	"errors"
	"flag"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all server settings. Environment variables use the
// CITYLEDGER_ prefix (CITYLEDGER_BUCKET, CITYLEDGER_PORT, ...); flags
// override whatever the environment provided.
type Config struct {
	Port              int    `envconfig:"PORT"`
	Bucket            string `envconfig:"BUCKET"`
	GoogleCredentials string `envconfig:"GOOGLE_CREDENTIALS"`
	AccessLogDriver   string `envconfig:"ACCESS_LOG_DRIVER"`
	AccessLogDSN      string `envconfig:"ACCESS_LOG_DSN"`
}

const defaultPort = 3480

// ParseFlags reads the environment, then lets CLI flags override it, and
// validates the result.
func ParseFlags(args []string) (Config, error) {
	var cfg Config

	if err := envconfig.Process("cityledger", &cfg); err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("cityledger", flag.ContinueOnError)

	fs.IntVar(&cfg.Port, "p", cfg.Port, "Server port")
	fs.StringVar(&cfg.Bucket, "b", cfg.Bucket,
		"Object store location (gcs://<bucket> or memory://)")
	fs.StringVar(&cfg.GoogleCredentials, "credentials", cfg.GoogleCredentials,
		"Path to GCS service account credentials file")
	fs.StringVar(&cfg.AccessLogDriver, "log-driver", cfg.AccessLogDriver,
		"Access log database driver (sqlite or postgres)")
	fs.StringVar(&cfg.AccessLogDSN, "log-dsn", cfg.AccessLogDSN,
		"Access log database connection string")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.Bucket == "" {
		return Config{}, errors.New(
			"object store location required (use -b or CITYLEDGER_BUCKET env)")
	}

	switch cfg.AccessLogDriver {
	case "", "sqlite", "postgres":
	default:
		return Config{}, errors.New(
			"access log driver must be sqlite or postgres")
	}
	if cfg.AccessLogDriver != "" && cfg.AccessLogDSN == "" {
		return Config{}, errors.New(
			"access log DSN required when a driver is set (use -log-dsn or CITYLEDGER_ACCESS_LOG_DSN env)")
	}

	return cfg, nil
}
