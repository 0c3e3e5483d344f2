package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

const (
	defaultDBPath                = "./dev.db"
	defaultPort                  = "8080"
	defaultTargetFoodCostPercent = 30.0
	defaultPrepTimeExponent      = 0.7
	defaultCookTimeExponent      = 0.5
)

// Config holds application configuration sourced from environment variables.
type Config struct {
	Env      string
	DBPath   string
	Port     string
	LogLevel string

	// UnitsPath points at a TOML unit catalog. Empty means the embedded one.
	UnitsPath  string
	WatchUnits bool
	Seed       bool

	TargetFoodCostPercent float64
	PrepTimeExponent      float64
	CookTimeExponent      float64
}

// IsDev reports whether the server runs in local development mode, where
// migrations are applied on startup.
func (c Config) IsDev() bool {
	return c.Env == "" || strings.EqualFold(c.Env, "dev") || strings.EqualFold(c.Env, "development")
}

// Load reads environment variables and returns a populated Config.
func Load() Config {
	// Best-effort: production injects real env vars.
	if _, err := loadDotEnv(".env"); err != nil {
		log.Printf("warning: .env ignored: %v", err)
	}

	return fromEnv(os.Getenv)
}

func fromEnv(getenv func(string) string) Config {
	cfg := Config{
		Env:       getenv("APP_ENV"),
		DBPath:    getenv("DB_PATH"),
		Port:      getenv("PORT"),
		LogLevel:  getenv("LOG_LEVEL"),
		UnitsPath: getenv("UNITS_PATH"),

		WatchUnits: parseBool(getenv, "WATCH_UNITS"),
		Seed:       parseBool(getenv, "SEED"),

		TargetFoodCostPercent: parseFloat(getenv, "TARGET_FOOD_COST_PERCENT", defaultTargetFoodCostPercent),
		PrepTimeExponent:      parseFloat(getenv, "PREP_TIME_EXPONENT", defaultPrepTimeExponent),
		CookTimeExponent:      parseFloat(getenv, "COOK_TIME_EXPONENT", defaultCookTimeExponent),
	}

	if cfg.DBPath == "" {
		cfg.DBPath = defaultDBPath
	}
	if cfg.Port == "" {
		cfg.Port = defaultPort
	}

	if cfg.TargetFoodCostPercent < 0 || cfg.TargetFoodCostPercent >= 100 {
		log.Printf("warning: TARGET_FOOD_COST_PERCENT=%v is outside [0, 100), using %v", cfg.TargetFoodCostPercent, defaultTargetFoodCostPercent)
		cfg.TargetFoodCostPercent = defaultTargetFoodCostPercent
	}
	if cfg.WatchUnits && cfg.UnitsPath == "" {
		log.Print("warning: WATCH_UNITS is set but UNITS_PATH is empty; nothing to watch")
		cfg.WatchUnits = false
	}

	return cfg
}

func parseFloat(getenv func(string) string, key string, fallback float64) float64 {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		log.Printf("warning: %s=%q is not a number, using %v", key, raw, fallback)
		return fallback
	}
	return v
}

func parseBool(getenv func(string) string, key string) bool {
	raw := strings.TrimSpace(getenv(key))
	if raw == "" {
		return false
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("warning: %s=%q is not a boolean, using false", key, raw)
		return false
	}
	return v
}
