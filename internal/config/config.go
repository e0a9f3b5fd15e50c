package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Addr        string        `toml:"addr"`
	DBPath      string        `toml:"db_path"`
	QuotaStore  string        `toml:"quota_store"` // sqlite | memory | redis
	RedisURL    string        `toml:"redis_url"`
	ViewLimit   int           `toml:"view_limit"`
	SubmitLimit int           `toml:"submit_limit"`
	Timezone    string        `toml:"timezone"`
	DefaultLang string        `toml:"default_lang"`
	CatalogTTL  time.Duration `toml:"catalog_ttl"`
	QuotaRetain time.Duration `toml:"quota_retain"`
	QuotaPurge  time.Duration `toml:"quota_purge_every"` // 0 disables the janitor
	CountryCode string        `toml:"country_code"`
	Debug       bool          `toml:"debug"`
}

func Defaults() Config {
	return Config{
		Addr:        ":8080",
		DBPath:      "rfa.db",
		QuotaStore:  "sqlite",
		ViewLimit:   10,
		SubmitLimit: 2,
		Timezone:    "Asia/Kolkata",
		DefaultLang: "EN",
		CatalogTTL:  5 * time.Minute,
		QuotaRetain: 48 * time.Hour,
		QuotaPurge:  time.Hour,
		CountryCode: "91",
	}
}

// Load builds the config from defaults, then the TOML file named by
// RFA_CONFIG (if any), then RFA_* environment variables.
func Load() (Config, error) {
	cfg := Defaults()
	if path := os.Getenv("RFA_CONFIG"); path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, fmt.Errorf("config %s: %w", path, err)
		}
	}

	cfg.Addr = getEnv("RFA_ADDR", cfg.Addr)
	cfg.DBPath = getEnv("RFA_DB", cfg.DBPath)
	cfg.QuotaStore = getEnv("RFA_QUOTA_STORE", cfg.QuotaStore)
	cfg.RedisURL = getEnv("RFA_REDIS_URL", cfg.RedisURL)
	cfg.Timezone = getEnv("RFA_TIMEZONE", cfg.Timezone)
	cfg.DefaultLang = getEnv("RFA_DEFAULT_LANG", cfg.DefaultLang)
	cfg.CountryCode = getEnv("RFA_COUNTRY_CODE", cfg.CountryCode)

	var err error
	if cfg.ViewLimit, err = getInt("RFA_VIEW_LIMIT", cfg.ViewLimit); err != nil {
		return cfg, err
	}
	if cfg.SubmitLimit, err = getInt("RFA_SUBMIT_LIMIT", cfg.SubmitLimit); err != nil {
		return cfg, err
	}
	if cfg.CatalogTTL, err = getDuration("RFA_CATALOG_TTL", cfg.CatalogTTL); err != nil {
		return cfg, err
	}
	if cfg.QuotaRetain, err = getDuration("RFA_QUOTA_RETAIN", cfg.QuotaRetain); err != nil {
		return cfg, err
	}
	if cfg.QuotaPurge, err = getDuration("RFA_QUOTA_PURGE_EVERY", cfg.QuotaPurge); err != nil {
		return cfg, err
	}
	if v := os.Getenv("RFA_DEBUG"); v != "" {
		cfg.Debug = v == "1" || v == "true"
	}

	switch cfg.QuotaStore {
	case "sqlite", "memory":
	case "redis":
		if cfg.RedisURL == "" {
			return cfg, fmt.Errorf("quota store redis needs RFA_REDIS_URL")
		}
	default:
		return cfg, fmt.Errorf("unknown quota store %q", cfg.QuotaStore)
	}
	return cfg, nil
}

// Location resolves Timezone, falling back to UTC when tzdata is missing.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
