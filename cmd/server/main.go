package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/inditech/rfa/internal/config"
	"github.com/inditech/rfa/internal/db"
	"github.com/inditech/rfa/internal/forms"
	"github.com/inditech/rfa/internal/log"
	"github.com/inditech/rfa/internal/quota"
	"github.com/inditech/rfa/internal/services"
	"github.com/inditech/rfa/internal/web"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.Debug {
		log.SetLevel(log.DebugLevel)
	}

	conn, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("db open: %v", err)
	}

	store, closeStore, err := quotaStore(cfg, conn)
	if err != nil {
		log.Fatalf("quota store: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loc := cfg.Location()
	quota.StartJanitor(ctx, store, cfg.QuotaPurge, cfg.QuotaRetain, loc)

	sessions := db.NewSessionRepository(conn)
	intake := &services.Intake{
		Catalogs: forms.NewCache(db.NewFormRepository(conn), cfg.CatalogTTL),
		Guard: quota.NewGuard(store, quota.Limits{
			quota.View:   cfg.ViewLimit,
			quota.Submit: cfg.SubmitLimit,
		}, quota.WithLocation(loc)),
		Sessions:    sessions,
		Submissions: db.NewSubmissionRepository(conn),
		DefaultLang: cfg.DefaultLang,
		CountryCode: cfg.CountryCode,
	}

	srv := &http.Server{
		Addr: cfg.Addr,
		Handler: web.Router(web.Deps{
			Intake:      intake,
			Clinics:     sessions,
			CountryCode: cfg.CountryCode,
			Health:      pingDB(conn),
		}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Infof("red-flag intake listening on %s (quota store %s, tz %s)", cfg.Addr, cfg.QuotaStore, loc)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Errorf("http: %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warnf("http shutdown: %v", err)
	}
	if err := closeStore(); err != nil {
		log.Warnf("quota store close: %v", err)
	}
	if err := db.Close(conn); err != nil {
		log.Warnf("db close: %v", err)
	}
}

// quotaStore builds the configured counter store and its teardown.
func quotaStore(cfg config.Config, conn *gorm.DB) (quota.Store, func() error, error) {
	noop := func() error { return nil }
	switch cfg.QuotaStore {
	case "memory":
		return quota.NewMemoryStore(), noop, nil
	case "redis":
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, err
		}
		rs := quota.NewRedisStore(redis.NewClient(opts), cfg.QuotaRetain)
		return rs, rs.Close, nil
	default:
		return db.NewUsageStore(conn), noop, nil
	}
}

func pingDB(conn *gorm.DB) func(context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}
