package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/givers/console/internal/config"
	"github.com/givers/console/internal/handler"
	"github.com/givers/console/internal/logging"
	"github.com/givers/console/internal/repository"
	"github.com/givers/console/internal/service"
)

func main() {
	if err := run(); err != nil {
		logging.Fatal("server exited", "error", err)
	}
}

func run() error {
	cfg, err := config.LoadServer()
	if err != nil {
		return err
	}
	defer logging.Setup(logging.Options{Level: cfg.LogLevel, File: cfg.LogFile}).Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// DATABASE_URL 未設定の場合はインメモリで起動（開発・デモ用）
	var (
		db          repository.DB
		contactRepo repository.ContactRepository
	)
	if cfg.DatabaseURL != "" {
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		defer pool.Close()
		db = pool
		contactRepo = repository.NewPgContactRepository(pool)
		slog.Info("using postgres repository")
	} else {
		db = repository.NoopDB()
		contactRepo = repository.NewMemoryContactRepository()
		slog.Info("DATABASE_URL not set, using in-memory repository")
	}

	if cfg.SeedDemo {
		n, err := seedDemo(ctx, contactRepo, time.Now())
		if err != nil {
			return fmt.Errorf("seed demo data: %w", err)
		}
		slog.Info("demo enquiries seeded", "count", n)
	}

	contactService := service.NewContactService(contactRepo)
	submitLimiter := handler.NewRateLimiter(cfg.SubmitRatePerMinute)
	routes := handler.Routes(
		handler.New(db, cfg.FrontendURL),
		handler.NewContactHandler(contactService),
		submitLimiter,
	)

	server := &http.Server{
		Addr:         cfg.Addr,
		Handler:      routes,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("server listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return submitLimiter.Run(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		slog.Info("shutting down")
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
