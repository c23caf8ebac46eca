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

	"github.com/prodexhq/prodex/internal/config"
	dbRedis "github.com/prodexhq/prodex/internal/db/redis"
	"github.com/prodexhq/prodex/internal/domain"
	logpkg "github.com/prodexhq/prodex/internal/logger"
	"github.com/prodexhq/prodex/internal/metrics"
	catalogrepo "github.com/prodexhq/prodex/internal/repository/catalog"
	"github.com/prodexhq/prodex/internal/repository/embcache"
	"github.com/prodexhq/prodex/internal/retrieval/keywords"
	"github.com/prodexhq/prodex/internal/retrieval/lexical"
	"github.com/prodexhq/prodex/internal/retrieval/router"
	"github.com/prodexhq/prodex/internal/retrieval/vector"
	"github.com/prodexhq/prodex/internal/transport/httpapi"
	openaiT "github.com/prodexhq/prodex/internal/transport/openai"
	recommenduc "github.com/prodexhq/prodex/internal/usecase/recommend"
	retrieveuc "github.com/prodexhq/prodex/internal/usecase/retrieve"
	"github.com/prodexhq/prodex/internal/vectorstore/qdrant"
	"github.com/prodexhq/prodex/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting prodex API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.Bool("vector_store", cfg.VectorStoreEnabled()),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
		DB:       cfg.Database.DB,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register metrics explicitly (no init())
	metrics.RegisterEmbeddingMetrics()
	metrics.RegisterRetrievalMetrics()

	// Lexical path
	stopWords := cfg.Retrieval.StopWords
	if len(stopWords) == 0 {
		stopWords = keywords.DefaultStopWords()
	}
	extractor := keywords.New(stopWords)

	filters := lexical.DefaultFilters(extractor)
	if len(cfg.Retrieval.LexicalFilters) > 0 {
		filters, err = lexical.FiltersByName(cfg.Retrieval.LexicalFilters, extractor)
		if err != nil {
			logger.Fatal("Invalid retrieval.lexical_filters", zap.Error(err))
		}
	}
	chain := lexical.NewChain(filters)

	// Semantic path (optional)
	var semantic router.SemanticFilter
	var embedHealth domain.HealthChecker
	if cfg.VectorStoreEnabled() {
		embedder, health := buildEmbedder(cfg, store, logger)
		embedHealth = health

		vstore := qdrant.New(qdrant.Config{
			URL:     cfg.VectorStore.URL,
			APIKey:  cfg.VectorStore.APIKey,
			Timeout: time.Duration(cfg.VectorStore.TimeoutSec) * time.Second,
			Logger:  logger,
		})

		semantic = vector.New(vector.Config{
			Embedder:   embedder,
			Store:      vstore,
			Collection: cfg.VectorStore.Collection,
			TopK:       cfg.Retrieval.TopK,
			Logger:     logger,
		})
		logger.Info("Semantic retrieval enabled",
			zap.String("vector_store", cfg.VectorStore.URL),
			zap.String("collection", cfg.VectorStore.Collection),
			zap.String("model", cfg.Embedding.Model),
		)
	} else {
		logger.Info("Semantic retrieval disabled, all queries take the lexical path")
	}

	queryRouter := router.New(chain, semantic, logger)

	// Usecases
	catalog := catalogrepo.New(store)
	retrievalSvc := retrieveuc.New(catalog, queryRouter)

	generator := openaiT.NewGenerator(&openaiT.GeneratorConfig{
		APIKey:      cfg.Generation.APIKey,
		BaseURL:     cfg.Generation.BaseURL,
		Model:       cfg.Generation.Model,
		Temperature: cfg.Generation.Temperature,
		MaxTokens:   cfg.Generation.MaxTokens,
		Timeout:     time.Duration(cfg.Generation.TimeoutSec) * time.Second,
		Logger:      logger,
	})
	recommendSvc := recommenduc.New(retrievalSvc, generator)

	server := httpapi.NewServer(retrievalSvc, recommendSvc, store, logger)
	if embedHealth != nil {
		server = server.WithEmbedderHealth(embedHealth)
	}

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(metrics.Middleware())
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

// buildEmbedder assembles the decorator chain: OpenAI -> Cached -> Instruction.
// The base provider doubles as the health checker for /healthz.
func buildEmbedder(cfg config.Config, store *dbRedis.Store, logger *zap.Logger) (domain.Embedder, domain.HealthChecker) {
	base := openaiT.NewEmbedder(&openaiT.Config{
		APIKey:     cfg.Embedding.APIKey,
		BaseURL:    cfg.Embedding.BaseURL,
		Model:      cfg.Embedding.Model,
		Dimensions: cfg.Embedding.Dimensions,
		Provider:   "openai",
		Logger:     logger,
	})

	var embedder domain.Embedder = base
	if cfg.EmbeddingCacheEnabled() {
		embedder = embcache.New(base, store, metrics.EmbeddingCacheTotal, logger)
	}

	// Instruction prefix (outermost so the cache key includes it)
	if cfg.Embedding.QueryInstruction != "" {
		return domain.NewInstructionEmbedder(embedder, cfg.Embedding.QueryInstruction), base
	}

	return embedder, base
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
