package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/sharebid/auction-engine/internal/adapter/cache"
	"github.com/sharebid/auction-engine/internal/adapter/pg"
	httpapi "github.com/sharebid/auction-engine/internal/api/http"
	"github.com/sharebid/auction-engine/internal/config"
	"github.com/sharebid/auction-engine/internal/core"
	"github.com/sharebid/auction-engine/internal/port"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}

	repo, err := pg.NewPgRepo(ctx, cfg.Postgres.DSN)
	if err != nil {
		logger.Fatalf("failed to init repository: %v", err)
	}
	defer repo.Close()

	var resultCache port.Cache
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(
			cfg.Redis.Addr,
			cfg.Redis.Password,
			cfg.Redis.DB,
			time.Duration(cfg.Cache.TTLSeconds)*time.Second,
		)
		defer redisCache.Close()
		resultCache = redisCache
	}

	engine := core.NewEngine(repo, resultCache, logger)
	api := httpapi.NewHTTPServer(engine)

	server := &http.Server{
		Addr:    cfg.HTTP.Addr(),
		Handler: api.Router(),
	}

	go func() {
		logger.WithField("addr", server.Addr).Info("starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("http server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("server shutdown error: %v", err)
	}
	logger.Info("server stopped")
}
