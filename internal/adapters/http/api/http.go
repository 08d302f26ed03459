// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mergington/activities/internal/domain/model"
	"github.com/mergington/activities/internal/domain/roster"
	"github.com/mergington/activities/pkg/logger"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Activities returns a snapshot of every activity keyed by name.
	Activities(ctx context.Context) model.Directory

	SignUp(ctx context.Context, activity, email string) (model.Activity, error)
	Unregister(ctx context.Context, activity, email string) (model.Activity, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	activitiesHandler *ActivitiesHandler
	rosterHandler     *RosterHandler
	logger            logger.Logger
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	l := logger.Get().Named("api")
	return &Server{
		healthHandler:     NewHealthHandler(),
		statsHandler:      NewStatsHandler(statsProvider),
		activitiesHandler: NewActivitiesHandler(deps),
		rosterHandler:     NewRosterHandler(deps, l),
		logger:            l,
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	mux.HandleFunc("GET /healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("GET /stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("GET /activities", MetricsMiddleware(s.activitiesHandler.HandleList, "activities"))
	mux.HandleFunc("POST /activities/{activity_name}/signup", MetricsMiddleware(s.rosterHandler.HandleSignUp, "signup"))
	mux.HandleFunc("POST /activities/{activity_name}/unregister", MetricsMiddleware(s.rosterHandler.HandleUnregister, "unregister"))
}

// Handler wraps h with request id propagation and access logging.
func (s *Server) Handler(h http.Handler) http.Handler {
	return RequestID(AccessLog(h, s.logger))
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Detail string `json:"detail"`
	Code   string `json:"code"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	writeJSON(w, status, errorResponse{Detail: detail(status, err), Code: code})
}

// writeRosterError translates a roster failure to its status and body.
func writeRosterError(w http.ResponseWriter, err error) {
	switch {
	case roster.IsNotFound(err):
		writeError(w, http.StatusNotFound, roster.Code(err), err)
	case roster.IsInvalidRequest(err):
		writeError(w, http.StatusBadRequest, roster.Code(err), err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", ErrInternal)
	}
}

// detail picks the client-facing message for err. Roster and API kinds carry
// their own text; anything else collapses to the status text.
func detail(status int, err error) string {
	var re *roster.Error
	if errors.As(err, &re) {
		return re.Error()
	}
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Kind.Error()
	}
	if errors.Is(err, ErrMissingEmail) || errors.Is(err, ErrInternal) {
		return err.Error()
	}
	return http.StatusText(status)
}
