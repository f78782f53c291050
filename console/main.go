package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"stockdesk/m/internal/api"
	"stockdesk/m/internal/apiclient"
	"stockdesk/m/internal/config"
	"stockdesk/m/internal/console"
	"stockdesk/m/internal/database"
	"stockdesk/m/internal/migrations"
	"stockdesk/m/internal/seed"
	"stockdesk/m/internal/session"
	"stockdesk/m/internal/toast"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := config.Load()

	store, closeStore, err := openStore(cfg)
	if err != nil {
		logger.Error("session store unavailable", "store", cfg.SessionStore, "error", err)
		os.Exit(1)
	}
	defer closeStore()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := apiclient.New(cfg.BackendURL, apiclient.WithTimeout(cfg.RequestTimeout))
	if cfg.SeedCSV != "" {
		if _, err := seed.LoadProducts(ctx, client, cfg.SeedCSV, logger); err != nil {
			logger.Warn("product import failed", "path", cfg.SeedCSV, "error", err)
		}
	}

	sessions := session.NewManager(store, cfg.SessionSecret, cfg.SessionTTL)
	opts := []console.Option{console.WithLogger(logger)}
	if cfg.AuthEnabled {
		opts = append(opts, console.WithAuth(sessions))
	}
	c := console.New(client, toast.NewNotifier(toast.WithDelay(cfg.ToastDelay)), opts...)

	sqlStore, _ := store.(*session.SQLStore)
	go janitor(ctx, c, sqlStore, cfg.SessionTTL, logger)

	handler, err := api.New(c, sessions, client, logger)
	if err != nil {
		logger.Error("unable to build handler", "error", err)
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.Info("stockdesk console starting", "port", cfg.HTTPPort, "backend", cfg.BackendURL, "auth", cfg.AuthEnabled)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
	}
}

// openStore builds the configured session store and a func releasing it.
func openStore(cfg config.Config) (session.Store, func(), error) {
	if cfg.SessionStore == "redis" {
		rdb, err := session.ConnectRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, nil, err
		}
		return session.NewRedisStore(rdb, cfg.SessionTTL), func() { rdb.Close() }, nil
	}

	db, err := database.Connect(cfg.SessionDriver, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, err
	}
	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, nil, err
	}
	return session.NewSQLStore(db), func() { db.Close() }, nil
}

const janitorInterval = 10 * time.Minute

// janitor drops console state of viewers idle longer than ttl and, for the SQL store,
// session values last written before that. Redis expires its hashes itself.
func janitor(ctx context.Context, c *console.Console, store *session.SQLStore, ttl time.Duration, log *slog.Logger) {
	ticker := time.NewTicker(janitorInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			cutoff := now.Add(-ttl)
			if n := c.Prune(cutoff); n > 0 {
				log.Info("pruned idle viewers", "count", n)
			}
			if store == nil {
				continue
			}
			n, err := store.Sweep(ctx, cutoff)
			if err != nil {
				log.Warn("session sweep failed", "error", err)
				continue
			}
			if n > 0 {
				log.Info("swept expired session values", "count", n)
			}
		}
	}
}
