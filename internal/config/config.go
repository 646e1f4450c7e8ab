package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all application configuration.
type Config struct {
	Server struct {
		ListenAddr string `yaml:"listen_addr"`
	} `yaml:"server"`
	Database struct {
		PricesPath   string `yaml:"prices_path"`
		AnalysisPath string `yaml:"analysis_path"`
	} `yaml:"database"`
	Import struct {
		CSVPath     string `yaml:"csv_path"`
		TickersFile string `yaml:"tickers_file"`
		RangeFrom   string `yaml:"range_from"` // YYYY-MM-DD
		RangeTo     string `yaml:"range_to"`   // YYYY-MM-DD
	} `yaml:"import"`
	Schedule struct {
		RefreshCron string `yaml:"refresh_cron"` // empty disables the refresh job
	} `yaml:"schedule"`
	Proxy string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable overrides.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("LISTEN_ADDR"); v != "" {
		cfg.Server.ListenAddr = v
	}
	if v := os.Getenv("OSAKEDATA_DB"); v != "" {
		cfg.Database.PricesPath = v
	}
	if v := os.Getenv("ANALYSIS_DB"); v != "" {
		cfg.Database.AnalysisPath = v
	}
	if v := os.Getenv("CSV_PATH"); v != "" {
		cfg.Import.CSVPath = v
	}
	if v := os.Getenv("TICKERS_FILE"); v != "" {
		cfg.Import.TickersFile = v
	}
	if v := os.Getenv("REFRESH_CRON"); v != "" {
		cfg.Schedule.RefreshCron = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}

	// Defaults
	if cfg.Server.ListenAddr == "" {
		cfg.Server.ListenAddr = ":5000"
	}
	if cfg.Database.PricesPath == "" {
		cfg.Database.PricesPath = "data/osakedata.db"
	}
	if cfg.Database.AnalysisPath == "" {
		cfg.Database.AnalysisPath = "data/analysis.db"
	}
	if cfg.Import.CSVPath == "" {
		cfg.Import.CSVPath = "data/osakedata.csv"
	}
	if cfg.Import.TickersFile == "" {
		cfg.Import.TickersFile = "data/tickers.txt"
	}
	if cfg.Import.RangeFrom == "" {
		cfg.Import.RangeFrom = "2023-07-01"
	}
	if cfg.Import.RangeTo == "" {
		cfg.Import.RangeTo = "2025-09-30"
	}

	return cfg, nil
}

// Validate checks that all required fields are well-formed.
func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server.listen_addr is required")
	}
	if c.Database.PricesPath == "" {
		return fmt.Errorf("database.prices_path is required")
	}
	if c.Database.AnalysisPath == "" {
		return fmt.Errorf("database.analysis_path is required")
	}
	from, err := time.Parse("2006-01-02", c.Import.RangeFrom)
	if err != nil {
		return fmt.Errorf("import.range_from: %w", err)
	}
	to, err := time.Parse("2006-01-02", c.Import.RangeTo)
	if err != nil {
		return fmt.Errorf("import.range_to: %w", err)
	}
	if to.Before(from) {
		return fmt.Errorf("import.range_to %s is before range_from %s", c.Import.RangeTo, c.Import.RangeFrom)
	}
	return nil
}

// Range returns the configured import date window. Validate must have passed.
func (c *Config) Range() (time.Time, time.Time) {
	from, _ := time.Parse("2006-01-02", c.Import.RangeFrom)
	to, _ := time.Parse("2006-01-02", c.Import.RangeTo)
	return from, to
}
