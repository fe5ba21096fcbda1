package config

import (
	"flag"
	"os"
	"sync"
)

const (
	defaultServerAddr        = ":8080"
	defaultDatabaseDSN       = ""
	defaultGeocoderAddr      = ""
	defaultLogLevel          = "debug"
	defaultLocationRetention = "24h"
)

type Config struct {
	ServerAddr        string
	DatabaseDSN       string
	GeocoderAddr      string
	LogLevel          string
	LocationRetention string
}

var (
	once      sync.Once
	singleton *Config
)

// New returns new Config. It parses command line and environment variables only once.
func New() (*Config, error) {
	once.Do(func() {
		cfg := Config{}

		// initialize flags
		flag.StringVar(&cfg.ServerAddr, "a", defaultServerAddr, "floraorders server address")
		flag.StringVar(&cfg.DatabaseDSN, "d", defaultDatabaseDSN, "floraorders database DSN")
		flag.StringVar(&cfg.GeocoderAddr, "g", defaultGeocoderAddr, "geocoder service address")
		flag.StringVar(&cfg.LogLevel, "l", defaultLogLevel, "log level")
		flag.StringVar(&cfg.LocationRetention, "p", defaultLocationRetention, "courier location retention")

		flag.Parse()

		// if environment variable is set, then using it
		if runAddrEnv := os.Getenv("RUN_ADDRESS"); runAddrEnv != "" {
			cfg.ServerAddr = runAddrEnv
		}
		if dataBaseURIEnv := os.Getenv("DATABASE_URI"); dataBaseURIEnv != "" {
			cfg.DatabaseDSN = dataBaseURIEnv
		}
		if geocoderAddrEnv := os.Getenv("GEOCODER_ADDRESS"); geocoderAddrEnv != "" {
			cfg.GeocoderAddr = geocoderAddrEnv
		}
		if logLevelEnv := os.Getenv("LOG_LEVEL"); logLevelEnv != "" {
			cfg.LogLevel = logLevelEnv
		}
		if retentionEnv := os.Getenv("LOCATION_RETENTION"); retentionEnv != "" {
			cfg.LocationRetention = retentionEnv
		}

		singleton = &cfg
	})

	return singleton, nil
}
