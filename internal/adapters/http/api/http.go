// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/okian/mergington/internal/domain/model"
	"github.com/okian/mergington/internal/domain/types"
	"github.com/okian/mergington/pkg/logger"
)

const (
	defaultMaxAuditLimit = 100
	defaultAuditLimit    = 20
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to the service implementation.
type Dependencies interface {
	ListActivities(ctx context.Context) (model.Catalog, error)

	Login(ctx context.Context, username, password string) (model.Session, error)
	Logout(ctx context.Context, token string) (string, error)
	RequireTeacher(ctx context.Context, authorization string) (model.Session, error)

	Signup(ctx context.Context, activity, email, teacher string) (string, error)
	Unregister(ctx context.Context, activity, email, teacher string) (string, error)

	RecentEvents(ctx context.Context, limit int) []model.RosterEvent
	GetStats(ctx context.Context) (types.Stats, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	deps Dependencies

	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	activitiesHandler *ActivitiesHandler
	authHandler       *AuthHandler
	auditHandler      *AuditHandler

	maxAuditLimit int
	logger        logger.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithMaxAuditLimit caps the limit accepted by GET /audit.
func WithMaxAuditLimit(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxAuditLimit = n
		}
	}
}

// WithLogger sets the handler logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...Option) *Server {
	s := &Server{deps: deps, maxAuditLimit: defaultMaxAuditLimit}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get().Named("http")
	}

	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(deps)
	s.activitiesHandler = NewActivitiesHandler(deps, s.logger)
	s.authHandler = NewAuthHandler(deps, s.logger)
	s.auditHandler = NewAuditHandler(deps, s.maxAuditLimit)
	return s
}

// NewRouter returns a chi router carrying the shared middleware. Routes
// registered on it afterwards (API, site, docs) all pass through it.
func NewRouter() chi.Router {
	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(RequestID)
	r.Use(MetricsMiddleware)
	return r
}

// Register attaches all API routes to r.
func (s *Server) Register(_ context.Context, r chi.Router) {
	if r == nil {
		panic("router is nil")
	}

	r.Get("/healthz", s.healthHandler.HandleHealth)
	r.Method(http.MethodGet, "/metrics", s.healthHandler.MetricsHandler())
	r.Get("/stats", s.statsHandler.HandleStats)
	r.Get("/activities", s.activitiesHandler.HandleList)
	r.Post("/auth/login", s.authHandler.HandleLogin)

	r.Group(func(r chi.Router) {
		r.Use(RequireTeacher(s.deps))
		r.Post("/auth/logout", s.authHandler.HandleLogout)
		r.Post("/activities/{name}/signup", s.activitiesHandler.HandleSignup)
		r.Delete("/activities/{name}/unregister", s.activitiesHandler.HandleUnregister)
		r.Get("/audit", s.auditHandler.HandleRecent)
	})
}

// Handler builds a router with the API routes only, mostly for tests.
func (s *Server) Handler(ctx context.Context) http.Handler {
	r := NewRouter()
	s.Register(ctx, r)
	return r
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, err error) {
	status, code, detail := statusFor(err)
	writeJSON(w, status, types.ErrorResponse{Code: code, Detail: detail})
}
