// Package config loads slotboard settings from the environment, an optional
// .env file and an optional config file named by SLOTBOARD_CONFIG.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"slotboard/infrastructure/autofit"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Addr            string
	SQLitePath      string
	LocationsURL    string
	OccupancyURL    string
	FetchTimeout    time.Duration
	RefreshInterval time.Duration
	ViewportWidth   int
	Sizing          autofit.Policy
}

var defaults = map[string]any{
	"APP_ADDR":         ":8080",
	"SQLITE_PATH":      "slotboard.db",
	"LOCATIONS_URL":    "",
	"OCCUPANCY_URL":    "",
	"FETCH_TIMEOUT":    "15s",
	"REFRESH_INTERVAL": "0s",
	"VIEWPORT_WIDTH":   0,
	"MIN_CELL_SIZE":    autofit.DefaultMinCell,
	"CELL_GAP":         autofit.DefaultGap,
}

// Load reads configuration. Environment variables win over the config file,
// which wins over the defaults.
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	v := viper.New()
	for k, val := range defaults {
		v.SetDefault(k, val)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if file := v.GetString("SLOTBOARD_CONFIG"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", file, err)
		}
	}

	cfg := &Config{
		Addr:            v.GetString("APP_ADDR"),
		SQLitePath:      v.GetString("SQLITE_PATH"),
		LocationsURL:    strings.TrimSpace(v.GetString("LOCATIONS_URL")),
		OccupancyURL:    strings.TrimSpace(v.GetString("OCCUPANCY_URL")),
		FetchTimeout:    v.GetDuration("FETCH_TIMEOUT"),
		RefreshInterval: v.GetDuration("REFRESH_INTERVAL"),
		ViewportWidth:   v.GetInt("VIEWPORT_WIDTH"),
		Sizing: autofit.Policy{
			MinCell: v.GetInt("MIN_CELL_SIZE"),
			Gap:     v.GetInt("CELL_GAP"),
		},
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the board cannot work with.
func (c *Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("APP_ADDR is required"))
	}
	if c.SQLitePath == "" {
		errs = append(errs, errors.New("SQLITE_PATH is required"))
	}
	if c.Sizing.MinCell < 1 {
		errs = append(errs, fmt.Errorf("MIN_CELL_SIZE must be positive, got %d", c.Sizing.MinCell))
	}
	if c.Sizing.Gap < 0 {
		errs = append(errs, fmt.Errorf("CELL_GAP must not be negative, got %d", c.Sizing.Gap))
	}
	if c.FetchTimeout < 0 || c.RefreshInterval < 0 {
		errs = append(errs, errors.New("durations must not be negative"))
	}
	return errors.Join(errs...)
}
