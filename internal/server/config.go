// Package server implements the MobilityDB HTTP API.
//
// This file defines the Go structs that correspond to the YAML configuration
// file. Parsing is strict (KnownFields) so a typo in a key fails loudly
// instead of silently falling back to a default.
package server

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level server configuration.
type Config struct {
	// HTTPAddr is the listen address of the REST API, e.g. ":8080".
	HTTPAddr string `yaml:"http_addr"`

	// LogPath is the append-only trip log used for persistence. Empty
	// disables persistence.
	LogPath string `yaml:"log_path"`

	// AdminToken gates account registration. When set, POST /auth/register
	// requires it as a Bearer token.
	AdminToken string `yaml:"admin_token"`

	// TripCacheSize bounds the LRU cache in front of per-trip lookups.
	TripCacheSize int `yaml:"trip_cache_size"`

	// AnomalyThreshold is the default z-score cutoff for the anomalies
	// endpoint when the request does not supply one.
	AnomalyThreshold float64 `yaml:"anomaly_threshold"`

	// MovingAvgWindow is the default sliding window size for the
	// moving-average endpoint.
	MovingAvgWindow int `yaml:"moving_avg_window"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() Config {
	return Config{
		HTTPAddr:         ":8080",
		LogPath:          "mobilitydb.log",
		TripCacheSize:    1024,
		AnomalyThreshold: 3.0,
		MovingAvgWindow:  10,
	}
}

// LoadConfig reads and parses the YAML configuration file at path.
// Environment variable references in the file are expanded, so secrets like
// admin_token can be kept out of the file itself.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("could not read configuration file '%s': %w", path, err)
	}
	expanded := os.ExpandEnv(string(data))

	decoder := yaml.NewDecoder(strings.NewReader(expanded))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("YAML syntax error in '%s': %w", path, err)
	}

	if cfg.TripCacheSize <= 0 {
		cfg.TripCacheSize = DefaultConfig().TripCacheSize
	}
	if cfg.MovingAvgWindow <= 0 {
		cfg.MovingAvgWindow = DefaultConfig().MovingAvgWindow
	}
	if cfg.AnomalyThreshold <= 0 {
		cfg.AnomalyThreshold = DefaultConfig().AnomalyThreshold
	}
	return cfg, nil
}
