package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type APIConfig struct {
	Addr           string
	CatalogDir     string
	SaveDir        string
	DatabaseURL    string
	DBMaxConns     int
	DBMinConns     int
	FeedPath       string
	BillsPerWeek   int
	BillMin        float64
	BillMax        float64
	BillSeed       int64
	Wage           float64
	WorkEnergyCost int
}

type CLIConfig struct {
	APIBaseURL string
}

func LoadAPIFromEnv() (APIConfig, error) {
	addr := os.Getenv("PORT")
	if addr != "" {
		if !strings.HasPrefix(addr, ":") {
			addr = ":" + addr
		}
	} else {
		addr = envDefault("LIFESIM_API_ADDR", ":8080")
	}

	cfg := APIConfig{
		Addr:           addr,
		CatalogDir:     strings.TrimSpace(os.Getenv("LIFESIM_CATALOG_DIR")),
		SaveDir:        envDefault("LIFESIM_SAVE_DIR", "saves"),
		DatabaseURL:    strings.TrimSpace(os.Getenv("DATABASE_URL")),
		DBMaxConns:     envIntDefault("LIFESIM_DB_MAX_CONNS", 10),
		DBMinConns:     envIntDefault("LIFESIM_DB_MIN_CONNS", 1),
		FeedPath:       strings.TrimSpace(os.Getenv("LIFESIM_FEED_PATH")),
		BillsPerWeek:   envIntDefault("LIFESIM_BILLS_PER_WEEK", 3),
		BillMin:        envFloatDefault("LIFESIM_BILL_MIN", 20),
		BillMax:        envFloatDefault("LIFESIM_BILL_MAX", 120),
		BillSeed:       envInt64Default("LIFESIM_BILL_SEED", 1),
		Wage:           envFloatDefault("LIFESIM_WAGE", 60),
		WorkEnergyCost: envIntDefault("LIFESIM_WORK_ENERGY_COST", 20),
	}
	if cfg.DBMaxConns <= 0 || cfg.DBMinConns < 0 || cfg.DBMinConns > cfg.DBMaxConns {
		return cfg, fmt.Errorf("db pool limits [%d, %d] are invalid", cfg.DBMinConns, cfg.DBMaxConns)
	}
	if cfg.BillsPerWeek <= 0 {
		return cfg, fmt.Errorf("LIFESIM_BILLS_PER_WEEK must be positive")
	}
	if cfg.BillMin < 0 || cfg.BillMax < cfg.BillMin {
		return cfg, fmt.Errorf("bill amount range [%v, %v] is invalid", cfg.BillMin, cfg.BillMax)
	}
	if cfg.Wage <= 0 {
		return cfg, fmt.Errorf("LIFESIM_WAGE must be positive")
	}
	return cfg, nil
}

func LoadCLIFromEnv() CLIConfig {
	return CLIConfig{
		APIBaseURL: strings.TrimRight(envDefault("LSIM_API_BASE_URL", "http://localhost:8080"), "/"),
	}
}

func envDefault(key, fallback string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	return v
}

func envIntDefault(key string, fallback int) int {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func envInt64Default(key string, fallback int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return fallback
	}
	return n
}

func envFloatDefault(key string, fallback float64) float64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return fallback
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}
