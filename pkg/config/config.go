// Package config loads and persists the application configuration from a
// JSON file, with environment variable overrides for deployment-sensitive
// values.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/s-martin/flightfeed/pkg/feed"
)

// Config represents the complete application configuration.
type Config struct {
	Feed      FeedConfig      `json:"feed"`
	Database  DatabaseConfig  `json:"database"`
	Collector CollectorConfig `json:"collector"`
}

// FeedConfig contains the zone feed settings.
type FeedConfig struct {
	// BaseURL is the feed endpoint. Defaults to the public
	// flightradar24 zone feed.
	BaseURL string `json:"base_url"`

	// Region optionally restricts fetches to a bounding box derived
	// from a center point and radius. Ignored when Enabled is false.
	Region RegionConfig `json:"region"`

	// RequestsPerMinute caps the fetch rate against the upstream feed.
	// 0 uses the client default of one request per polling interval.
	RequestsPerMinute float64 `json:"requests_per_minute"`
}

// RegionConfig describes a circular area of interest, converted to the
// feed's bounding-box query form at startup.
type RegionConfig struct {
	// Name is a friendly identifier for this region
	Name string `json:"name"`

	// Enabled determines whether the bounds filter is applied
	Enabled bool `json:"enabled"`

	// Latitude in decimal degrees (-90 to +90)
	Latitude float64 `json:"latitude"`

	// Longitude in decimal degrees (-180 to +180)
	Longitude float64 `json:"longitude"`

	// RadiusNM is the region radius in nautical miles
	RadiusNM float64 `json:"radius_nm"`
}

// Bounds returns the feed bounding box for the region, or nil when the
// region filter is disabled.
func (r RegionConfig) Bounds() *feed.Bounds {
	if !r.Enabled {
		return nil
	}
	b := feed.BoundsAround(r.Latitude, r.Longitude, r.RadiusNM)
	return &b
}

// DatabaseConfig contains database connection settings for the collector.
type DatabaseConfig struct {
	// Host is the database server hostname
	Host string `json:"host"`

	// Port is the database server port
	Port int `json:"port"`

	// Database is the database name
	Database string `json:"database"`

	// Username for database authentication
	Username string `json:"username"`

	// Password for database authentication (should be loaded from environment)
	Password string `json:"password"`

	// SSLMode for PostgreSQL connections (disable, require, verify-ca, verify-full)
	SSLMode string `json:"ssl_mode"`

	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int `json:"max_open_conns"`

	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int `json:"max_idle_conns"`
}

// CollectorConfig contains the collector daemon's own timers.
type CollectorConfig struct {
	// SnapshotIntervalSeconds is how often registry state is written
	// to the database.
	SnapshotIntervalSeconds int `json:"snapshot_interval_seconds"`

	// SweepIntervalSeconds is how often expired aircraft rows are
	// removed from the database.
	SweepIntervalSeconds int `json:"sweep_interval_seconds"`
}

// Load reads configuration from a JSON file.
// If the file doesn't exist, returns a default configuration.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.applyEnvironmentOverrides()

	return &cfg, nil
}

// Save writes the configuration to a JSON file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Feed: FeedConfig{
			BaseURL: feed.DefaultBaseURL,
			Region: RegionConfig{
				Name:     "Default Region",
				Enabled:  false,
				RadiusNM: 100.0,
			},
			RequestsPerMinute: 0, // client default: one per polling interval
		},
		Database: DatabaseConfig{
			Host:         "localhost",
			Port:         5432,
			Database:     "flightfeed",
			Username:     "flightfeed",
			SSLMode:      "disable",
			MaxOpenConns: 25,
			MaxIdleConns: 5,
		},
		Collector: CollectorConfig{
			SnapshotIntervalSeconds: 10,
			SweepIntervalSeconds:    30,
		},
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the
// config. This allows sensitive data like passwords to be kept out of
// config files.
func (c *Config) applyEnvironmentOverrides() {
	if baseURL := os.Getenv("FLIGHTFEED_BASE_URL"); baseURL != "" {
		c.Feed.BaseURL = baseURL
	}
	if dbHost := os.Getenv("FLIGHTFEED_DB_HOST"); dbHost != "" {
		c.Database.Host = dbHost
	}
	if dbPort := os.Getenv("FLIGHTFEED_DB_PORT"); dbPort != "" {
		if port, err := strconv.Atoi(dbPort); err == nil {
			c.Database.Port = port
		}
	}
	if dbPassword := os.Getenv("FLIGHTFEED_DB_PASSWORD"); dbPassword != "" {
		c.Database.Password = dbPassword
	}
}
