package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Adithya-Monish-Kumar-K/stopword-filter/internal/analytics"
	"github.com/Adithya-Monish-Kumar-K/stopword-filter/internal/server/cache"
	"github.com/Adithya-Monish-Kumar-K/stopword-filter/internal/server/handler"
	"github.com/Adithya-Monish-Kumar-K/stopword-filter/internal/stopwords"
	"github.com/Adithya-Monish-Kumar-K/stopword-filter/internal/textfilter"
	"github.com/Adithya-Monish-Kumar-K/stopword-filter/pkg/config"
	"github.com/Adithya-Monish-Kumar-K/stopword-filter/pkg/health"
	"github.com/Adithya-Monish-Kumar-K/stopword-filter/pkg/kafka"
	"github.com/Adithya-Monish-Kumar-K/stopword-filter/pkg/logger"
	"github.com/Adithya-Monish-Kumar-K/stopword-filter/pkg/metrics"
	"github.com/Adithya-Monish-Kumar-K/stopword-filter/pkg/middleware"
	"github.com/Adithya-Monish-Kumar-K/stopword-filter/pkg/ratelimit"
	pkgredis "github.com/Adithya-Monish-Kumar-K/stopword-filter/pkg/redis"
	"github.com/Adithya-Monish-Kumar-K/stopword-filter/pkg/resilience"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format, os.Stdout)
	slog.Info("starting stopword filter service",
		"port", cfg.Server.Port,
		"data_dir", cfg.Stopwords.DataDir,
		"default_language", cfg.Stopwords.DefaultLanguage,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New(prometheus.DefaultRegisterer)
	if cfg.Metrics.Enabled {
		shutdownMetrics := metrics.StartServer(cfg.Metrics.Port)
		defer shutdownMetrics(context.Background())
	}

	loader := stopwords.NewLoader(cfg.Stopwords.DataDir).WithObserver(m)
	if languages, err := loader.Languages(); err != nil {
		slog.Warn("no stopword data files yet, run the generate command", "error", err)
	} else {
		slog.Info("stopword data files found", "languages", languages)
	}

	var resultCache *cache.ResultCache
	var redisClient *pkgredis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, result caching disabled", "error", err)
		} else {
			defer redisClient.Close()
			store := cache.NewGuardedStore(redisClient, pkgredis.IsNilError, resilience.Config{
				FailureThreshold: 5,
				ResetTimeout:     30 * time.Second,
			})
			resultCache = cache.New(store, cfg.Redis.CacheTTL, func(err error) bool {
				return pkgredis.IsNilError(err) || errors.Is(err, resilience.ErrCircuitOpen)
			})
			slog.Info("result cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
		}
	}

	var collector *analytics.Collector
	if len(cfg.Kafka.Brokers) > 0 {
		producer := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.FilterEvents)
		defer producer.Close()
		collector = analytics.NewCollector(producer, 10000)
		collector.Start(ctx)
		defer collector.Close()
		slog.Info("usage events enabled", "topic", producer.Topic())
	}

	checker := health.NewChecker()
	checker.Register("stopwords", health.DirCheck(cfg.Stopwords.DataDir, stopwords.FileExt))
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	h := handler.New(textfilter.New(loader), loader, resultCache, collector, m, handler.Config{
		DefaultLanguage: cfg.Stopwords.DefaultLanguage,
		KeepPunctuation: cfg.Stopwords.KeepPunctuation,
		MaxBodyBytes:    cfg.Server.MaxBodyBytes,
	})

	mux := http.NewServeMux()
	h.Register(mux)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	if cfg.RateLimit.Requests > 0 {
		limiter := ratelimit.New(cfg.RateLimit.Requests, cfg.RateLimit.Window)
		limiter.StartCleanup(ctx, time.Minute)
		chain = middleware.RateLimit(limiter, int(cfg.RateLimit.Window.Seconds()), m)(chain)
		slog.Info("rate limiting enabled", "requests", cfg.RateLimit.Requests, "window", cfg.RateLimit.Window)
	}
	chain = middleware.Metrics(m)(chain)
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("server shutdown error", "error", err)
		}
	}()

	slog.Info("stopword filter service listening", "addr", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}

	slog.Info("stopword filter service stopped")
}
