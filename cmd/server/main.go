package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lapakpos/backend/internal/config"
	"lapakpos/backend/internal/httpapi"
	"lapakpos/backend/internal/service"
	"lapakpos/backend/internal/snapshot"
	filegate "lapakpos/backend/internal/snapshot/file"
	pggate "lapakpos/backend/internal/snapshot/postgres"
	redisgate "lapakpos/backend/internal/snapshot/redis"
	"lapakpos/backend/internal/state"
)

func main() {
	cfg := config.Load()
	if err := validateSecurityConfig(cfg); err != nil {
		log.Fatalf("invalid security configuration: %v", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	gate, closers := buildGate(ctx, cfg)

	st, err := gate.Load(ctx)
	switch {
	case err == nil:
		log.Println("state: restored from snapshot")
	case errors.Is(err, snapshot.ErrNoSnapshot):
		if cfg.SeedDemoData {
			st = state.Seeded()
			log.Println("state: no snapshot, seeded demo data")
		} else {
			st = state.New()
			log.Println("state: no snapshot, starting empty")
		}
	default:
		log.Fatalf("failed to load snapshot: %v", err)
	}

	svc := service.New(st, gate)
	auth := httpapi.NewAuthManager(cfg.AuthSecret, time.Duration(cfg.AccessTokenTTLMinutes)*time.Minute, svc)
	api := httpapi.New(svc, auth, cfg.AllowedOrigin)

	server := &http.Server{
		Addr:              cfg.Address(),
		Handler:           api.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Printf("POS backend listening on %s", cfg.Address())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 8*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown error: %v", err)
	}

	for _, closeFn := range closers {
		if err := closeFn(); err != nil {
			log.Printf("close error: %v", err)
		}
	}

	log.Println("server stopped")
}

// buildGate picks the snapshot backend: postgres when DATABASE_URL is set,
// redis when REDIS_ADDR is set, otherwise the local snapshot file.
func buildGate(ctx context.Context, cfg config.Config) (snapshot.Gate, []func() error) {
	closers := make([]func() error, 0, 1)

	if cfg.DatabaseURL != "" {
		pg, err := pggate.New(ctx, cfg.DatabaseURL, cfg.StoreKey)
		if err != nil {
			log.Fatalf("postgres unavailable (%v) and DATABASE_URL is set; refusing to start with a file fallback", err)
		}
		closers = append(closers, pg.Close)
		log.Println("snapshot gate: postgres")
		return pg, closers
	}

	if cfg.RedisAddr != "" {
		rg := redisgate.New(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.SnapshotKey)
		if err := rg.Ping(ctx); err != nil {
			log.Fatalf("redis unavailable (%v) and REDIS_ADDR is set; refusing to start with a file fallback", err)
		}
		closers = append(closers, rg.Close)
		log.Println("snapshot gate: redis")
		return rg, closers
	}

	fg, err := filegate.New(cfg.SnapshotPath)
	if err != nil {
		log.Fatalf("cannot prepare snapshot file %s: %v", cfg.SnapshotPath, err)
	}
	log.Printf("snapshot gate: file (%s)", cfg.SnapshotPath)
	return fg, closers
}

func validateSecurityConfig(cfg config.Config) error {
	if len(cfg.AuthSecret) < 32 {
		return fmt.Errorf("AUTH_SECRET must be set and at least 32 characters")
	}
	return nil
}
