// Package httpapi exposes the retrieval and recommendation endpoints over
// chi.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/prodexhq/prodex/internal/domain"
	"github.com/prodexhq/prodex/internal/usecase/recommend"
	"github.com/prodexhq/prodex/internal/usecase/retrieve"
)

// Error codes returned in the JSON error body.
const (
	CodeBadRequest         = "bad_request"
	CodeValidationFailed   = "validation_failed"
	CodeCatalogUnavailable = "catalog_unavailable"
	CodeProviderError      = "provider_error"
	CodeInternalError      = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RetrieveRequest is the body of POST /v1/retrieve.
type RetrieveRequest struct {
	Query string        `json:"query"`
	Items []domain.Item `json:"items,omitempty"`
}

// RetrieveResponse is the body of a successful retrieval.
type RetrieveResponse struct {
	Items       []domain.Item `json:"items"`
	Strategy    string        `json:"strategy"`
	Count       int           `json:"count"`
	CatalogSize int           `json:"catalog_size"`
}

// RecommendRequest is the body of POST /v1/recommend.
type RecommendRequest struct {
	Message string `json:"message"`
}

// RecommendResponse is the body of a successful recommendation.
type RecommendResponse struct {
	Answer   string `json:"answer"`
	Strategy string `json:"strategy"`
	Found    int    `json:"found"`
	Total    int    `json:"total"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Pinger checks storage connectivity for the health endpoint.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server wires the usecases to HTTP handlers.
type Server struct {
	retrieval      *retrieve.Service
	recommendation *recommend.Service
	pinger         Pinger
	embedHealth    domain.HealthChecker
	logger         *zap.Logger
	errorHandlers  []errorHandler
}

// NewServer creates an HTTP API server. pinger may be nil; healthz then
// reports ok unconditionally.
func NewServer(
	retrieval *retrieve.Service,
	recommendation *recommend.Service,
	pinger Pinger,
	logger *zap.Logger,
) *Server {
	s := &Server{
		retrieval:      retrieval,
		recommendation: recommendation,
		pinger:         pinger,
		logger:         logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrCatalogUnavailable, http.StatusServiceUnavailable, CodeCatalogUnavailable),
		sentinelHandler(domain.ErrEmbeddingProviderError, http.StatusBadGateway, CodeProviderError),
		sentinelHandler(domain.ErrGeneratorUnavailable, http.StatusBadGateway, CodeProviderError),
	}
	return s
}

// WithEmbedderHealth adds an embedding provider check to healthz.
func (s *Server) WithEmbedderHealth(hc domain.HealthChecker) *Server {
	s.embedHealth = hc
	return s
}

// Routes mounts all handlers on the given router.
func (s *Server) Routes(r chi.Router) {
	r.Post("/v1/retrieve", s.Retrieve)
	r.Post("/v1/recommend", s.Recommend)
	r.Get("/healthz", s.Healthz)
	r.Get("/metrics", s.Metrics)
}

// Retrieve handles POST /v1/retrieve.
func (s *Server) Retrieve(w http.ResponseWriter, r *http.Request) {
	var req RetrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "query is required")
		return
	}

	res, err := s.retrieval.Retrieve(r.Context(), req.Query, req.Items)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	items := res.Items
	if items == nil {
		items = []domain.Item{}
	}
	writeJSON(w, http.StatusOK, RetrieveResponse{
		Items:       items,
		Strategy:    string(res.Strategy),
		Count:       len(items),
		CatalogSize: res.CatalogSize,
	})
}

// Recommend handles POST /v1/recommend.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	var req RecommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, CodeValidationFailed, "message is required")
		return
	}

	res, err := s.recommendation.Recommend(r.Context(), req.Message)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, RecommendResponse{
		Answer:   res.Answer,
		Strategy: string(res.Strategy),
		Found:    res.Found,
		Total:    res.Total,
	})
}

// Healthz handles GET /healthz.
func (s *Server) Healthz(w http.ResponseWriter, r *http.Request) {
	if s.pinger != nil {
		if err := s.pinger.Ping(r.Context()); err != nil {
			s.logger.Warn("Health check failed", zap.String("check", "database"), zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}
	if s.embedHealth != nil {
		if err := s.embedHealth.HealthCheck(r.Context()); err != nil {
			s.logger.Warn("Health check failed", zap.String("check", "embedding"), zap.Error(err))
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "degraded"})
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrCatalogUnavailable,
		domain.ErrEmbeddingProviderError,
		domain.ErrVectorStoreUnavailable,
		domain.ErrGeneratorUnavailable,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code string) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternalError, "internal error")
}
