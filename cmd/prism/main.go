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
	"github.com/jmoiron/sqlx"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/canvashq/prism/internal/config"
	"github.com/canvashq/prism/internal/db"
	dbRedis "github.com/canvashq/prism/internal/db/redis"
	"github.com/canvashq/prism/internal/domain"
	logpkg "github.com/canvashq/prism/internal/logger"
	"github.com/canvashq/prism/internal/metrics"
	"github.com/canvashq/prism/internal/repository/embcache"
	historyrepo "github.com/canvashq/prism/internal/repository/history"
	indexrepo "github.com/canvashq/prism/internal/repository/index"
	itemsrepo "github.com/canvashq/prism/internal/repository/items"
	notesrepo "github.com/canvashq/prism/internal/repository/notes"
	scratchesrepo "github.com/canvashq/prism/internal/repository/scratches"
	transcriptsrepo "github.com/canvashq/prism/internal/repository/transcripts"
	"github.com/canvashq/prism/internal/signer"
	"github.com/canvashq/prism/internal/sqldb"
	chiTransport "github.com/canvashq/prism/internal/transport/chi"
	openaiEmb "github.com/canvashq/prism/internal/transport/openai"
	healthuc "github.com/canvashq/prism/internal/usecase/health"
	historyuc "github.com/canvashq/prism/internal/usecase/history"
	searchuc "github.com/canvashq/prism/internal/usecase/search"
	"github.com/canvashq/prism/internal/version"
)

func main() {
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

	logger.Info("Starting prism API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("redis_addrs", cfg.Redis.Addrs),
		zap.String("sqlite_path", cfg.SQLite.Path),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Redis.Addrs,
		Password: cfg.Redis.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create search index store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Redis.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Search index not ready", zap.Error(err))
	}
	logger.Info("Connected to search index")

	sqlDB, err := sqldb.Open(cfg.SQLite.Path)
	if err != nil {
		logger.Fatal("Failed to open workspace database", zap.Error(err))
	}
	defer func() { _ = sqlDB.Close() }()
	logger.Info("Connected to workspace database")

	// Register metrics explicitly (no init())
	metrics.RegisterSearchMetrics()

	embedder := buildEmbedder(cfg, store, logger)
	logger.Info("Query embedder created",
		zap.String("model", cfg.Embedding.Model),
		zap.Int("dimensions", cfg.Embedding.Dimensions),
	)

	idxRepo := indexrepo.New(store, cfg.Redis.KeyPrefix, cfg.Embedding.Dimensions)
	if cfg.Redis.RecreateIndex {
		if err := idxRepo.RecreateIndex(ctx); err != nil {
			logger.Fatal("Failed to recreate search index", zap.Error(err))
		}
		logger.Info("Search index recreated")
	} else if err := idxRepo.EnsureIndex(ctx); err != nil {
		logger.Fatal("Failed to ensure search index", zap.Error(err))
	}

	itmRepo := itemsrepo.New(sqlDB)
	scrRepo := scratchesrepo.New(sqlDB)
	notRepo := notesrepo.New(sqlDB)
	trsRepo := transcriptsrepo.New(sqlDB)
	hisRepo := historyrepo.New(sqlDB)

	urlSigner := signer.New(cfg.Signer.Secret, cfg.Signer.BaseURL, time.Duration(cfg.Signer.TTLSec)*time.Second)

	historySvc := historyuc.New(hisRepo, itmRepo)
	searchSvc := searchuc.New(
		idxRepo, itmRepo,
		scrRepo, notRepo, trsRepo,
		embedder, urlSigner, historySvc,
		time.Duration(cfg.Search.SourceTimeoutSec)*time.Second,
	)

	healthSvc := healthuc.New(map[string]healthuc.Pinger{
		"redis":    store,
		"sqlite":   sqlitePinger{db: sqlDB},
		"embedder": embedderPinger{embedder: embedder},
	})

	server := chiTransport.NewServer(searchSvc, historySvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.IdentityMiddleware(cfg.Auth.Tokens))
	r.Use(metrics.Middleware())
	server.Routes(r)
	r.Handle("/metrics", promhttp.Handler())

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

// buildEmbedder assembles the decorator chain: OpenAI -> Cached.
func buildEmbedder(cfg config.Config, store db.Store, logger *zap.Logger) domain.Embedder {
	base := openaiEmb.NewEmbedder(&openaiEmb.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   "openai",
		Logger:     logger,
	})

	if cfg.Embedding.CacheTTL <= 0 {
		return base
	}
	return embcache.New(
		base, store, cfg.Redis.KeyPrefix,
		time.Duration(cfg.Embedding.CacheTTL)*time.Second,
		metrics.EmbeddingCacheTotal, logger,
	)
}

type sqlitePinger struct {
	db *sqlx.DB
}

func (p sqlitePinger) Ping(ctx context.Context) error {
	return p.db.PingContext(ctx)
}

type embedderPinger struct {
	embedder domain.Embedder
}

func (p embedderPinger) Ping(ctx context.Context) error {
	if hc, ok := p.embedder.(domain.HealthChecker); ok {
		if err := hc.HealthCheck(ctx); err != nil {
			return fmt.Errorf("embedding health check: %w", err)
		}
	}
	return nil
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

			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

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
