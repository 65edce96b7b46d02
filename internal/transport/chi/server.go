// Package chi exposes the retrieval engine over HTTP.
package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	chirouter "github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/cinecase/cinecase/internal/config"
	"github.com/cinecase/cinecase/internal/domain"
	"github.com/cinecase/cinecase/internal/domain/casebase"
	logpkg "github.com/cinecase/cinecase/internal/logger"
	"github.com/cinecase/cinecase/internal/metrics"
	"github.com/cinecase/cinecase/internal/report"
	healthuc "github.com/cinecase/cinecase/internal/usecase/health"
	retrievaluc "github.com/cinecase/cinecase/internal/usecase/retrieval"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server handles the retrieval HTTP API.
type Server struct {
	retrieval     *retrievaluc.Service
	base          casebase.Base
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server over a loaded case base.
func NewServer(
	retrieval *retrievaluc.Service,
	base casebase.Base,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		retrieval: retrieval,
		base:      base,
		health:    health,
		logger:    logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, codeNotFound),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidWeights, http.StatusBadRequest, codeValidationFailed),
		sentinelHandler(domain.ErrInvalidSchema, http.StatusBadRequest, codeValidationFailed),
	}
	return s
}

// Register mounts all API routes on the router.
func (s *Server) Register(r chirouter.Router) {
	r.Post("/retrieve", s.Retrieve)
	r.Get("/schema", s.GetSchema)
	r.Get("/cases", s.ListCases)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
}

// Retrieve handles POST /retrieve.
func (s *Server) Retrieve(w http.ResponseWriter, r *http.Request) {
	var req retrieveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.rejectRetrieve(w, codeBadRequest, "Invalid request body: "+err.Error())
		return
	}

	if len(req.Query) == 0 {
		s.rejectRetrieve(w, codeValidationFailed, "query must set at least one attribute")
		return
	}

	q, err := queryFromRequest(req)
	if err != nil {
		metrics.RetrievalsTotal.WithLabelValues("invalid").Inc()
		s.handleDomainError(w, r, err)
		return
	}

	weights, err := weightsFromRequest(s.retrieval.Schema(), req.Weights)
	if err != nil {
		metrics.RetrievalsTotal.WithLabelValues("invalid").Inc()
		s.handleDomainError(w, r, err)
		return
	}

	limit := config.DefaultResultLimit
	if req.Limit != nil {
		if *req.Limit <= 0 || *req.Limit > config.MaxResultLimit {
			s.rejectRetrieve(w, codeValidationFailed,
				fmt.Sprintf("limit must be between 1 and %d", config.MaxResultLimit))
			return
		}
		limit = *req.Limit
	}

	if req.Format != "" && req.Format != "json" && req.Format != "markdown" {
		s.rejectRetrieve(w, codeValidationFailed, "format must be json or markdown")
		return
	}

	start := time.Now()
	results := s.retrieval.Retrieve(r.Context(), q, s.base, weights)
	metrics.RetrievalDuration.Observe(time.Since(start).Seconds())
	metrics.RetrievalCasesScored.Add(float64(s.base.Len()))
	metrics.RetrievalsTotal.WithLabelValues("ok").Inc()

	if req.MinScore != nil {
		filtered := results[:0]
		for _, res := range results {
			if res.Score() >= *req.MinScore {
				filtered = append(filtered, res)
			}
		}
		results = filtered
	}

	total := len(results)
	if len(results) > limit {
		results = results[:limit]
	}

	if req.Format == "markdown" {
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := (report.Markdown{}).Write(w, q, weights, results); err != nil {
			s.logger.Error("write markdown report", zap.Error(err))
		}
		return
	}

	writeJSON(w, http.StatusOK, retrieveResponse{
		Items: resultsToItems(results, true),
		Total: total,
		Limit: limit,
	})
}

// GetSchema handles GET /schema.
func (s *Server) GetSchema(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, schemaToResponse(s.retrieval.Schema()))
}

// ListCases handles GET /cases.
func (s *Server) ListCases(w http.ResponseWriter, r *http.Request) {
	items := make([]caseItem, s.base.Len())
	for i := 0; i < s.base.Len(); i++ {
		rec := s.base.At(i)
		items[i] = caseItem{
			Title:      rec.Title(),
			Attributes: recordAttributes(rec),
		}
	}
	writeJSON(w, http.StatusOK, caseListResponse{Items: items, Total: len(items)})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, healthResponse{
		Status: string(report.Status),
		Checks: checks,
	})
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

func writeError(w http.ResponseWriter, status int, code errorCode, message string) {
	writeJSON(w, status, errorResponse{
		Code:    code,
		Message: message,
	})
}

// rejectRetrieve records a failed retrieval outcome and writes a 400 reply.
func (s *Server) rejectRetrieve(w http.ResponseWriter, code errorCode, message string) {
	metrics.RetrievalsTotal.WithLabelValues("invalid").Inc()
	writeError(w, http.StatusBadRequest, code, message)
}

// safeDomainMessage returns a sentinel error message for the client without exposing internals.
func safeDomainMessage(err error) string {
	sentinels := []error{
		domain.ErrNotFound,
		domain.ErrInvalidQuery,
		domain.ErrInvalidWeights,
		domain.ErrInvalidSchema,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int, code errorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	logger := logpkg.FromContext(r.Context())
	logger.Warn("domain error", zap.Error(err))
	msg := safeDomainMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, codeInternalError, "internal error")
}
