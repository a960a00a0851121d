// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/fareprice/internal/adapters/artifact"
	service "github.com/okian/fareprice/internal/app"
	"github.com/okian/fareprice/internal/domain/model"
	"github.com/okian/fareprice/internal/domain/vocab"
	"github.com/okian/fareprice/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	StatsProvider

	// Parse and Quote turn a raw request into a priced itinerary.
	Parse(r service.Request) (model.ItineraryInput, error)
	Quote(ctx context.Context, in model.ItineraryInput) (model.Quote, error)

	// Read operations expose what the model accepts.
	Vocabularies() *vocab.Set
	Layout() []string
	ModelInfo() (artifact.Info, bool)
	Ready() bool
}

const defaultMaxBodyBytes = 1 << 16

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler       *HealthHandler
	statsHandler        *StatsHandler
	predictHandler      *PredictHandler
	vocabulariesHandler *VocabulariesHandler
	modelHandler        *ModelHandler

	maxBodyBytes int64
	corsOrigins  []string
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxBodyBytes caps request bodies on every API route.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithCORSOrigins sets the origins allowed to call /api/* from a browser.
func WithCORSOrigins(origins []string) Option {
	return func(s *Server) {
		s.corsOrigins = origins
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{
		healthHandler:       NewHealthHandler(deps),
		statsHandler:        NewStatsHandler(deps),
		predictHandler:      NewPredictHandler(deps),
		vocabulariesHandler: NewVocabulariesHandler(deps),
		modelHandler:        NewModelHandler(deps),
		maxBodyBytes:        defaultMaxBodyBytes,
		corsOrigins:         []string{"*"},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	c := cors.New(cors.Options{
		AllowedOrigins: s.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
	})
	api := func(h http.HandlerFunc, endpoint string) http.Handler {
		return c.Handler(RequestID(BodyLimit(MetricsMiddleware(h, endpoint), s.maxBodyBytes)))
	}

	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("/metrics", promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.Handle("/api/predict", api(s.predictHandler.HandlePredict, "predict"))
	mux.Handle("/api/vocabularies", api(s.vocabulariesHandler.HandleVocabularies, "vocabularies"))
	mux.Handle("/api/model", api(s.modelHandler.HandleModel, "model"))
}

type errorResponse struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Field     string `json:"field,omitempty"`
	Value     string `json:"value,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	writeErrorResponse(w, status, newErrorResponse(status, code, err))
}

func writeErrorResponse(w http.ResponseWriter, status int, resp errorResponse) {
	if resp.RequestID == "" {
		resp.RequestID = w.Header().Get(requestIDHeader)
	}
	writeJSON(w, status, resp)
}

func newErrorResponse(status int, code string, err error) errorResponse {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	return errorResponse{Code: code, Message: msg}
}

func methodNotAllowed(w http.ResponseWriter, op string, allow string) {
	w.Header().Set("Allow", allow)
	writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", NewKind(op, ErrMethodNotAllowed))
}
