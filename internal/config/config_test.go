package config

import (
	"strings"
	"testing"
)

func TestLoadAPIDefaults(t *testing.T) {
	cfg, err := LoadAPIFromEnv()
	if err != nil {
		t.Fatalf("defaults must load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("addr got %q", cfg.Addr)
	}
	if cfg.DBMaxConns != 10 || cfg.DBMinConns != 1 {
		t.Fatalf("pool limits got [%d, %d]", cfg.DBMinConns, cfg.DBMaxConns)
	}
	if cfg.BillsPerWeek != 3 {
		t.Fatalf("bills per week got %d", cfg.BillsPerWeek)
	}
}

func TestLoadAPIPoolLimitsFromEnv(t *testing.T) {
	t.Setenv("LIFESIM_DB_MAX_CONNS", "25")
	t.Setenv("LIFESIM_DB_MIN_CONNS", "5")
	cfg, err := LoadAPIFromEnv()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DBMaxConns != 25 || cfg.DBMinConns != 5 {
		t.Fatalf("pool limits got [%d, %d]", cfg.DBMinConns, cfg.DBMaxConns)
	}
}

func TestLoadAPIRejectsInvalidPoolLimits(t *testing.T) {
	t.Setenv("LIFESIM_DB_MAX_CONNS", "2")
	t.Setenv("LIFESIM_DB_MIN_CONNS", "8")
	if _, err := LoadAPIFromEnv(); err == nil {
		t.Fatalf("min above max must be rejected")
	}

	t.Setenv("LIFESIM_DB_MAX_CONNS", "0")
	t.Setenv("LIFESIM_DB_MIN_CONNS", "0")
	if _, err := LoadAPIFromEnv(); err == nil {
		t.Fatalf("zero max conns must be rejected")
	}
}

func TestPortEnvOverridesAddr(t *testing.T) {
	t.Setenv("PORT", "9000")
	cfg, err := LoadAPIFromEnv()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !strings.HasPrefix(cfg.Addr, ":") || cfg.Addr != ":9000" {
		t.Fatalf("addr got %q", cfg.Addr)
	}
}
