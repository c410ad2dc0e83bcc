package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/seolens/seolens/internal/api/handler"
	mw "github.com/seolens/seolens/internal/api/middleware"
	"github.com/seolens/seolens/internal/config"
	"github.com/seolens/seolens/internal/core"
)

type Server struct {
	router   chi.Router
	logger   zerolog.Logger
	services *core.Services
	sessions *core.SessionStore
	pool     *pgxpool.Pool
	cfg      *config.Config
}

func NewServer(logger zerolog.Logger, pool *pgxpool.Pool, cfg *config.Config) *Server {
	services := core.NewServices(pool, core.ServicesConfig{
		GoogleClientID:     cfg.GoogleClientID,
		GoogleClientSecret: cfg.GoogleClientSecret,
		BaseURL:            cfg.BaseURL,
		EncryptionKey:      cfg.EncryptionKey,
	})
	sessions := core.NewSessionStore(cfg.EncryptionKey, !cfg.DevMode)

	s := &Server{
		router:   chi.NewRouter(),
		logger:   logger,
		services: services,
		sessions: sessions,
		pool:     pool,
		cfg:      cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
	s.router.Use(mw.CORS(s.cfg.CORSOrigins))
}

func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint
	s.router.Handle("/metrics", promhttp.Handler())

	// Health check endpoints
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	// OAuth flow. These run without a session: they create one.
	auth := handler.NewAuth(s.services.OAuth, s.sessions)
	s.router.Get("/auth/start", auth.Start)
	s.router.Get("/auth/callback", auth.Callback)
	s.router.Post("/auth/clear", auth.Clear)
	s.router.Get("/auth/session", auth.SessionInfo)

	// Tenant provisioning happens before any OAuth session exists.
	tenant := handler.NewTenant(s.services)
	s.router.Post("/tenants", tenant.Create)
	s.router.Get("/tenants/{id}", tenant.Get)
	s.router.Get("/tenants/{id}/sites", tenant.ListSites)

	// Everything else requires the encrypted OAuth session cookie.
	s.router.Group(func(r chi.Router) {
		r.Use(mw.Session(s.sessions, s.cfg.SkipAuth))

		properties := handler.NewProperties(s.services.Analytics, s.services.SearchConsole)
		r.Get("/properties/ga4", properties.GA4)
		r.Get("/properties/gsc", properties.GSC)

		sites := handler.NewSites(s.services, s.sessions)
		r.Post("/sites/setup", sites.Setup)

		reports := handler.NewReports(s.services)
		r.Get("/reports/ga4", reports.GA4)
		r.Get("/reports/ga4/realtime", reports.GA4Realtime)
		r.Get("/reports/gsc", reports.GSC)
		r.Get("/reports/gsc/index-summary", reports.GSCIndexSummary)
		r.Get("/dashboard/summary", reports.DashboardSummary)
	})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if err := s.pool.Ping(ctx); err != nil {
		checks["db"] = err.Error()
		healthy = false
	} else {
		checks["db"] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(checks)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}
