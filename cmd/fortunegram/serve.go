package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fortunegram/fortunegram"
	"github.com/fortunegram/fortunegram/config"
	"github.com/fortunegram/fortunegram/server"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return serve(ctx, cfg, logger)
}

func serve(ctx context.Context, cfg config.Config, logger *zap.Logger) error {
	a, err := newApp(ctx, cfg, logger)
	if err != nil {
		return err
	}

	store, err := newLimiterStore(ctx, cfg, logger.Named("limiter"))
	if err != nil {
		return err
	}
	defer func() {
		if err := store.close(); err != nil {
			logger.Warn("failed to close limiter storage", zap.Error(err))
		}
	}()

	router, err := server.NewRouter(server.Config{
		Resolver: a.resolver,
		Corpse:   a.corpse,
		Tables:   a.tables,
		Choices:  a.choices,
		RNG:      a.rng,
		Limiter: &fortunegram.RateLimiterConfig{
			Extractor:   fortunegram.NewForwardedForExtractor(),
			Strategy:    store.strategy,
			Expiration:  cfg.RateLimiter.Window,
			MaxRequests: cfg.RateLimiter.Requests,
			Logger:      logger.Named("limiter"),
			Now:         store.now,
		},
		Logger: logger.Named("http"),
	})
	if err != nil {
		return err
	}

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server started",
			zap.String("addr", srv.Addr),
			zap.String("storage", cfg.Storage.Type),
			zap.String("provider", string(cfg.Generation.Provider)),
			zap.Bool("offline", a.resolver.Offline()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})
	if store.run != nil {
		g.Go(func() error { return store.run(gctx) })
	}
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		return nil
	})

	return g.Wait()
}
