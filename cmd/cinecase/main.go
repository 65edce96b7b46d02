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

	"github.com/cinecase/cinecase/internal/config"
	"github.com/cinecase/cinecase/internal/db"
	dbRedis "github.com/cinecase/cinecase/internal/db/redis"
	"github.com/cinecase/cinecase/internal/domain/attribute"
	"github.com/cinecase/cinecase/internal/domain/casebase"
	"github.com/cinecase/cinecase/internal/domain/schema"
	"github.com/cinecase/cinecase/internal/loader"
	logpkg "github.com/cinecase/cinecase/internal/logger"
	"github.com/cinecase/cinecase/internal/metrics"
	casebaserepo "github.com/cinecase/cinecase/internal/repository/casebase"
	chiTransport "github.com/cinecase/cinecase/internal/transport/chi"
	healthuc "github.com/cinecase/cinecase/internal/usecase/health"
	retrievaluc "github.com/cinecase/cinecase/internal/usecase/retrieval"
	"github.com/cinecase/cinecase/internal/version"
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

	logger.Info("Starting cinecase API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
	)

	// Optional Redis store for case base snapshots
	var store db.Store
	var repo *casebaserepo.Repo
	if len(cfg.Database.Addrs) > 0 {
		s, err := dbRedis.NewStore(dbRedis.Config{
			Addrs:    cfg.Database.Addrs,
			Username: cfg.Database.Username,
			Password: cfg.Database.Password,
		})
		if err != nil {
			logger.Fatal("Failed to create database store", zap.Error(err))
		}
		defer s.Close()

		ctx := context.Background()
		if err := s.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
			logger.Fatal("Database not ready", zap.Error(err))
		}
		logger.Info("Connected to database")
		store = s
		repo = casebaserepo.New(s, cfg.Storage.KeyPrefix)
	}

	// Build the attribute schema
	sch, err := buildSchema(cfg.Schema)
	if err != nil {
		logger.Fatal("Failed to build schema", zap.Error(err))
	}

	// Load the case base: CSV is the primary source, the Redis snapshot the
	// fallback. When both are configured the snapshot is refreshed from CSV.
	base, err := loadCaseBase(context.Background(), cfg, repo, logger)
	if err != nil {
		logger.Fatal("Failed to load case base", zap.Error(err))
	}
	logger.Info("Case base loaded", zap.Int("cases", base.Len()))

	// Register retrieval metrics explicitly (no init())
	metrics.RegisterRetrievalMetrics()
	metrics.CaseBaseSize.Set(float64(base.Len()))

	// Use case services
	retrievalSvc := retrievaluc.New(sch)
	healthSvc := healthuc.New(store, base)

	// Create chi server
	server := chiTransport.NewServer(retrievalSvc, base, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	server.Register(r)

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

// loadCaseBase loads cases from CSV when configured, otherwise from the
// stored snapshot. A fresh CSV load refreshes the snapshot.
func loadCaseBase(
	ctx context.Context, cfg config.Config, repo *casebaserepo.Repo, logger *zap.Logger,
) (casebase.Base, error) {
	if cfg.CaseBase.CSVPath != "" {
		base, err := loader.LoadCSV(cfg.CaseBase.CSVPath, logger)
		if err != nil {
			return casebase.Base{}, fmt.Errorf("load csv: %w", err)
		}
		if repo != nil {
			if err := repo.Save(ctx, base); err != nil {
				logger.Warn("snapshot save failed", zap.Error(err))
			} else {
				logger.Info("Snapshot refreshed", zap.Int("cases", base.Len()))
			}
		}
		return base, nil
	}

	if repo == nil {
		return casebase.Base{}, fmt.Errorf("no case source configured")
	}
	base, err := repo.Load(ctx)
	if err != nil {
		return casebase.Base{}, fmt.Errorf("load snapshot: %w", err)
	}
	return base, nil
}

// buildSchema converts configured attributes into the domain schema.
// An empty list selects the built-in movie schema.
func buildSchema(cfg config.SchemaConfig) (*schema.Schema, error) {
	if len(cfg.Attributes) == 0 {
		return schema.DefaultMovies(), nil
	}

	entries := make([]schema.Entry, 0, len(cfg.Attributes))
	for _, a := range cfg.Attributes {
		var spec attribute.Spec
		var err error
		switch attribute.Kind(a.Kind) {
		case attribute.NumericRange:
			spec, err = attribute.NewNumericRange(a.Name, a.Min, a.Max)
		case attribute.Ordinal:
			spec, err = attribute.NewOrdinal(a.Name, a.Ordered, a.Unknown)
		default:
			spec, err = attribute.New(a.Name, attribute.Kind(a.Kind))
		}
		if err != nil {
			return nil, fmt.Errorf("attribute %q: %w", a.Name, err)
		}
		entries = append(entries, schema.Entry{Spec: spec, Weight: a.Weight})
	}
	return schema.New(entries)
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
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

			// Set X-Request-ID in response header
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line, one per request
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
