package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("RFA_CONFIG", "")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.ViewLimit != 10 || cfg.SubmitLimit != 2 {
		t.Errorf("limits: %d/%d", cfg.ViewLimit, cfg.SubmitLimit)
	}
	if cfg.QuotaStore != "sqlite" || cfg.DefaultLang != "EN" {
		t.Errorf("defaults: %+v", cfg)
	}
	if cfg.QuotaPurge != time.Hour || cfg.QuotaRetain != 48*time.Hour {
		t.Errorf("janitor: every %v retain %v", cfg.QuotaPurge, cfg.QuotaRetain)
	}
}

func TestLoad_QuotaPurgeEvery(t *testing.T) {
	t.Setenv("RFA_CONFIG", "")
	t.Setenv("RFA_QUOTA_PURGE_EVERY", "15m")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.QuotaPurge != 15*time.Minute {
		t.Errorf("purge every: got %v", cfg.QuotaPurge)
	}

	t.Setenv("RFA_QUOTA_PURGE_EVERY", "hourly")
	if _, err := Load(); err == nil {
		t.Error("bad duration should fail")
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rfa.toml")
	body := "submit_limit = 5\ncatalog_ttl = \"1m\"\ntimezone = \"UTC\"\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("RFA_CONFIG", path)
	t.Setenv("RFA_VIEW_LIMIT", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SubmitLimit != 5 || cfg.ViewLimit != 3 {
		t.Errorf("limits: %d/%d", cfg.SubmitLimit, cfg.ViewLimit)
	}
	if cfg.CatalogTTL != time.Minute {
		t.Errorf("ttl: %v", cfg.CatalogTTL)
	}
	if cfg.Location() != time.UTC {
		t.Errorf("location: %v", cfg.Location())
	}
}

func TestLoad_Invalid(t *testing.T) {
	t.Setenv("RFA_CONFIG", "")
	t.Setenv("RFA_QUOTA_STORE", "redis")
	if _, err := Load(); err == nil {
		t.Error("redis without url should fail")
	}
	t.Setenv("RFA_QUOTA_STORE", "etcd")
	if _, err := Load(); err == nil {
		t.Error("unknown store should fail")
	}
	t.Setenv("RFA_QUOTA_STORE", "memory")
	t.Setenv("RFA_SUBMIT_LIMIT", "two")
	if _, err := Load(); err == nil {
		t.Error("non-numeric limit should fail")
	}
}
