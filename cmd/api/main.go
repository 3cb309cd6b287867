package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/matheusmosca/commerce-api/internal/config"
	"github.com/matheusmosca/commerce-api/internal/logger"
	"github.com/matheusmosca/commerce-api/internal/ratelimit"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("❌ Invalid configuration: %v", err)
	}

	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Printf("⚠️ %v, using INFO", err)
		level = logger.LevelInfo
	}
	appLog := logger.New(logger.WithLevel(level))
	defer func() { _ = appLog.Sync() }()

	tp, err := initTracer(ctx, cfg)
	if err != nil {
		appLog.Fatal("❌ Failed to initialize tracer", zap.Error(err))
	}
	mp, err := initMetrics(ctx, cfg)
	if err != nil {
		appLog.Fatal("❌ Failed to initialize metrics", zap.Error(err))
	}

	var store ratelimit.Store = ratelimit.NewMemoryStore()
	if cfg.RateLimitRedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RateLimitRedisAddr})
		defer rdb.Close()
		if err := rdb.Ping(ctx).Err(); err != nil {
			appLog.Warn("⚠️ Redis unreachable, rate limiter will fail open", zap.String("addr", cfg.RateLimitRedisAddr), zap.Error(err))
		}
		store = ratelimit.NewRedisStore(rdb)
		appLog.Info("ℹ️ Rate limiter using Redis", zap.String("addr", cfg.RateLimitRedisAddr))
	}

	gin.SetMode(gin.ReleaseMode)
	app := NewApp(cfg, Deps{
		Log:            appLog,
		TracerProvider: tp,
		Meter:          mp.Meter(cfg.ServiceName),
		LimiterStore:   store,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      app.Router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	go func() {
		appLog.Info("🚀 Commerce API listening", zap.String("port", cfg.Port), zap.String("version", cfg.APIVersion))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLog.Fatal("❌ Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	appLog.Info("🛑 Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.Error("❌ HTTP shutdown", zap.Error(err))
	}
	if err := app.Shutdown(shutdownCtx); err != nil {
		appLog.Error("❌ Payment scheduler shutdown", zap.Error(err))
	}
	if err := tp.Shutdown(shutdownCtx); err != nil {
		appLog.Error("❌ Tracer shutdown", zap.Error(err))
	}
	if err := mp.Shutdown(shutdownCtx); err != nil {
		appLog.Error("❌ Meter shutdown", zap.Error(err))
	}
}
