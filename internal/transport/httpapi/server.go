// Package httpapi exposes the query engine over a minimal REST surface.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/safekb/safesearch/internal/domain"
	"github.com/safekb/safesearch/internal/usecase/health"
	"github.com/safekb/safesearch/internal/usecase/query"
	"github.com/safekb/safesearch/internal/version"
)

// ServiceName identifies this service in health responses.
const ServiceName = "safesearch"

// QueryEngine is the consumer interface over the query use case.
type QueryEngine interface {
	Query(ctx context.Context, text string, k int) ([]domain.ScoredRecord, error)
}

// HealthService is the consumer interface over the health use case.
type HealthService interface {
	Check() health.Report
}

// Server handles the REST API.
type Server struct {
	engine QueryEngine
	health HealthService
	logger *zap.Logger
}

// NewServer creates an HTTP API server.
func NewServer(engine QueryEngine, healthSvc HealthService, logger *zap.Logger) *Server {
	return &Server{engine: engine, health: healthSvc, logger: logger}
}

// Routes registers all endpoints on the router.
func (s *Server) Routes(r chi.Router) {
	r.Get("/", s.handleRoot)
	r.Get("/health", s.handleHealth)
	r.Post("/api/query", s.handleQuery)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
}

// queryRequest is the POST /api/query body.
type queryRequest struct {
	Query *string `json:"query"`
	TopK  *int    `json:"top_k"`
}

func (s *Server) handleRoot(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"service": ServiceName,
		"version": version.Version,
		"endpoints": map[string]string{
			"health": "/health (GET)",
			"query":  "/api/query (POST)",
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	report := s.health.Check()

	status := "healthy"
	if !report.Healthy {
		status = "unhealthy"
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":         status,
		"records_loaded": report.RecordsLoaded,
		"service":        ServiceName,
	})
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if req.Query == nil {
		writeError(w, http.StatusBadRequest, "missing query parameter 'query'")
		return
	}

	topK := query.DefaultTopK
	if req.TopK != nil {
		topK = *req.TopK
	}

	results, err := s.engine.Query(r.Context(), *req.Query, topK)
	if err != nil {
		s.handleQueryError(w, err)
		return
	}

	out := make([]map[string]any, len(results))
	for i, res := range results {
		out[i] = scoredRecordToJSON(res)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "success",
		"query":   *req.Query,
		"results": out,
		"count":   len(out),
	})
}

// handleQueryError converts a query failure into an error response. Failures
// never terminate the serving process; they are reported and the next request
// proceeds against the same read-only bundle.
func (s *Server) handleQueryError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotReady):
		s.logger.Warn("query before bundle load", zap.Error(err))
		writeError(w, http.StatusInternalServerError, domain.ErrNotReady.Error())
	case errors.Is(err, domain.ErrEmbeddingProviderError):
		s.logger.Error("embedding failure", zap.Error(err))
		writeError(w, http.StatusInternalServerError, domain.ErrEmbeddingProviderError.Error())
	default:
		s.logger.Error("query failure", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "query processing failed")
	}
}

// scoredRecordToJSON flattens the record fields and attaches rank and
// similarity score, matching the historical wire shape.
func scoredRecordToJSON(res domain.ScoredRecord) map[string]any {
	out := make(map[string]any, len(res.Record)+2)
	for k, v := range res.Record {
		out[k] = v
	}
	out["rank"] = res.Rank
	out["similarity_score"] = res.Score
	return out
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{
		"status":  "error",
		"message": message,
	})
}
