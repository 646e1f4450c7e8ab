package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.ListenAddr != ":5000" {
		t.Errorf("expected default listen addr :5000, got %s", cfg.Server.ListenAddr)
	}
	if cfg.Database.PricesPath != "data/osakedata.db" {
		t.Errorf("unexpected default prices path %s", cfg.Database.PricesPath)
	}
	if cfg.Import.RangeFrom != "2023-07-01" || cfg.Import.RangeTo != "2025-09-30" {
		t.Errorf("unexpected default range %s..%s", cfg.Import.RangeFrom, cfg.Import.RangeTo)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  listen_addr: ":8080"
database:
  prices_path: /tmp/prices.db
  analysis_path: /tmp/analysis.db
import:
  csv_path: /tmp/data.csv
  range_from: "2024-01-01"
  range_to: "2024-12-31"
schedule:
  refresh_cron: "0 0 22 * * 1-5"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.ListenAddr != ":8080" {
		t.Errorf("expected :8080, got %s", cfg.Server.ListenAddr)
	}
	if cfg.Database.PricesPath != "/tmp/prices.db" {
		t.Errorf("unexpected prices path %s", cfg.Database.PricesPath)
	}
	if cfg.Schedule.RefreshCron != "0 0 22 * * 1-5" {
		t.Errorf("unexpected cron %s", cfg.Schedule.RefreshCron)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("validate: %v", err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9999")
	t.Setenv("OSAKEDATA_DB", "/override/osakedata.db")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.ListenAddr != ":9999" {
		t.Errorf("env override ignored: %s", cfg.Server.ListenAddr)
	}
	if cfg.Database.PricesPath != "/override/osakedata.db" {
		t.Errorf("env override ignored: %s", cfg.Database.PricesPath)
	}
}

func TestValidate_BadRange(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	cfg.Import.RangeFrom = "01.07.2023"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for malformed range_from")
	}

	cfg.Import.RangeFrom = "2025-01-01"
	cfg.Import.RangeTo = "2024-01-01"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for inverted range")
	}
}

func TestRange(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	from, to := cfg.Range()
	if from.Format("2006-01-02") != "2023-07-01" {
		t.Errorf("unexpected from %s", from)
	}
	if to.Format("2006-01-02") != "2025-09-30" {
		t.Errorf("unexpected to %s", to)
	}
}
