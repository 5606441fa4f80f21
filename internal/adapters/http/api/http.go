// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/okian/classplay/internal/adapters/broadcast"
	"github.com/okian/classplay/internal/domain/catalog"
	"github.com/okian/classplay/internal/domain/model"
	"github.com/okian/classplay/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	CreateSession(ctx context.Context, kind, difficulty string) (types.SessionView, error)
	View(ctx context.Context, id string) (types.SessionView, error)
	Dispatch(ctx context.Context, id string, a model.Action) (types.SessionView, error)
	CloseSession(ctx context.Context, id string) error
	Sessions(ctx context.Context) ([]model.SessionInfo, error)
	Subscribe(ctx context.Context, id string) (types.SessionView, <-chan broadcast.Message, func(), error)

	Catalog() catalog.Catalog
	Kinds() []string
}

// Server wires HTTP routes for the session API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	sessionsHandler  *SessionsHandler
	streamHandler    *StreamHandler
	catalogHandler   *CatalogHandler
	dashboardHandler *dashboardHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(statsProvider),
		sessionsHandler:  NewSessionsHandler(deps),
		streamHandler:    NewStreamHandler(deps),
		catalogHandler:   NewCatalogHandler(deps),
		dashboardHandler: newDashboardHandler(),
	}
}

// Register attaches all HTTP routes to mux. Session routes live under /api/.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle("GET /metrics", s.healthHandler.MetricsHandler())
	mux.HandleFunc("GET /dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.Handle("/api/", s.Router())
}

// Router returns the chi router serving /api.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not_found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", nil)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/catalog", MetricsMiddleware(s.catalogHandler.HandleGetCatalog, "catalog"))
		r.Get("/sessions", MetricsMiddleware(s.sessionsHandler.HandleList, "sessions"))
		r.Post("/sessions", MetricsMiddleware(s.sessionsHandler.HandleCreate, "sessions"))
		r.Route("/sessions/{id}", func(r chi.Router) {
			r.Get("/", MetricsMiddleware(s.sessionsHandler.HandleGet, "session"))
			r.Delete("/", MetricsMiddleware(s.sessionsHandler.HandleDelete, "session"))
			r.Post("/actions", MetricsMiddleware(s.sessionsHandler.HandleAction, "actions"))
			r.Get("/stream", MetricsMiddleware(s.streamHandler.HandleStream, "stream"))
		})
	})
	return r
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure classifies err and writes it.
func writeFailure(w http.ResponseWriter, err error) {
	status, code := classify(err)
	writeError(w, status, code, err)
}

func sessionID(r *http.Request) string {
	return strings.TrimSpace(chi.URLParam(r, "id"))
}
