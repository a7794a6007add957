package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/sitesearch/internal/config"
	"github.com/kailas-cloud/sitesearch/internal/db"
	dbBadger "github.com/kailas-cloud/sitesearch/internal/db/badger"
	dbRedis "github.com/kailas-cloud/sitesearch/internal/db/redis"
	"github.com/kailas-cloud/sitesearch/internal/db/solr"
	logpkg "github.com/kailas-cloud/sitesearch/internal/logger"
	"github.com/kailas-cloud/sitesearch/internal/metrics"
	catalogrepo "github.com/kailas-cloud/sitesearch/internal/repository/catalog"
	"github.com/kailas-cloud/sitesearch/internal/repository/catalogcache"
	searchrepo "github.com/kailas-cloud/sitesearch/internal/repository/search"
	chiTransport "github.com/kailas-cloud/sitesearch/internal/transport/chi"
	cataloguc "github.com/kailas-cloud/sitesearch/internal/usecase/catalog"
	exportuc "github.com/kailas-cloud/sitesearch/internal/usecase/export"
	healthuc "github.com/kailas-cloud/sitesearch/internal/usecase/health"
	searchuc "github.com/kailas-cloud/sitesearch/internal/usecase/search"
	suggestuc "github.com/kailas-cloud/sitesearch/internal/usecase/suggest"
	"github.com/kailas-cloud/sitesearch/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.New(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting sitesearch API server",
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("solr_url", cfg.Solr.URL),
		zap.Bool("catalog_cache", cfg.CatalogCache.Enabled),
	)

	// Register backend metrics explicitly (no init())
	metrics.RegisterBackendMetrics()

	backend, err := solr.NewClient(solr.Config{
		URL:     cfg.Solr.URL,
		Timeout: time.Duration(cfg.Solr.TimeoutSec) * time.Second,
		Logger:  logger,
	})
	if err != nil {
		logger.Fatal("Failed to create search backend client", zap.Error(err))
	}

	// Catalog source: backend documents, optionally behind a cache
	var catalogSource cataloguc.Source = catalogrepo.New(backend)
	var cachePinger healthuc.Pinger
	if cfg.CatalogCache.Enabled {
		store, err := openCatalogCache(cfg.CatalogCache, logger)
		if err != nil {
			logger.Fatal("Failed to open catalog cache", zap.Error(err))
		}
		defer store.Close()

		readiness := time.Duration(cfg.CatalogCache.ReadinessTimeout) * time.Second
		if err := store.WaitForReady(context.Background(), readiness); err != nil {
			logger.Fatal("Catalog cache not ready", zap.Error(err))
		}
		logger.Info("Connected to catalog cache", zap.String("driver", cfg.CatalogCache.Driver))

		catalogSource = catalogcache.New(
			catalogSource, store,
			time.Duration(cfg.CatalogCache.TTLSec)*time.Second,
			metrics.CatalogCacheTotal, logger,
		)
		cachePinger = store
	}

	// Use case services
	catalogSvc := cataloguc.New(catalogSource, metrics.CatalogWarningsTotal)
	searchSvc := searchuc.New(catalogSvc, searchrepo.New(backend), metrics.FacetCorrectionsTotal)
	exportSvc := exportuc.New(catalogSvc, searchrepo.New(backend), cfg.Solr.StreamBatchSize, metrics.StreamedDocumentsTotal)
	suggestSvc := suggestuc.New(backend)
	healthSvc := healthuc.New(backend, cachePinger)

	server := chiTransport.NewServer(searchSvc, exportSvc, catalogSvc, suggestSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
			Code:    chiTransport.ErrorCodeNotFound,
			Message: "not found",
		})
	})
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// openCatalogCache creates the cache store selected by cfg.Driver.
func openCatalogCache(cfg config.CatalogCacheConfig, logger *zap.Logger) (db.CacheStore, error) {
	switch cfg.Driver {
	case config.CacheDriverRedis:
		store, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:       cfg.Addrs,
			Password:    cfg.Password,
			DialTimeout: time.Duration(cfg.ReadinessTimeout) * time.Second,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	case config.CacheDriverBadger:
		store, err := dbBadger.Open(dbBadger.Config{Dir: cfg.Dir, Logger: logger})
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, fmt.Errorf("unknown catalog cache driver %q", cfg.Driver)
	}
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					if rvr == http.ErrAbortHandler {
						panic(rvr)
					}
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorCodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id, picked up by the use cases
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line: one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
