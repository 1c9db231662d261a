package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/dukerupert/wardbook/internal/auth"
	"github.com/dukerupert/wardbook/internal/handler"
	"github.com/dukerupert/wardbook/internal/middleware"
	ws "github.com/dukerupert/wardbook/internal/websocket"
)

const (
	loginLimit  = 10
	loginPeriod = time.Minute
)

type Server struct {
	api            *handler.Handler
	gate           *auth.Gate
	hub            *ws.Hub
	metrics        http.Handler
	rateLimiter    *middleware.RateLimiter
	allowedOrigins []string
	logger         *slog.Logger
}

// New wires the HTTP surface. metrics may be nil to leave /metrics out.
func New(api *handler.Handler, gate *auth.Gate, hub *ws.Hub, metrics http.Handler, rateLimiter *middleware.RateLimiter, allowedOrigins []string, logger *slog.Logger) *Server {
	return &Server{
		api:            api,
		gate:           gate,
		hub:            hub,
		metrics:        metrics,
		rateLimiter:    rateLimiter,
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
}

func (s *Server) Router() http.Handler {
	outerMux := http.NewServeMux()

	// Public routes
	outerMux.HandleFunc("POST /login", s.rateLimitedHandler(s.api.Login))
	outerMux.HandleFunc("GET /api/session", s.api.Session)
	outerMux.HandleFunc("GET /health", s.healthHandler)
	if s.metrics != nil {
		outerMux.Handle("GET /metrics", s.metrics)
	}

	protectedMux := http.NewServeMux()
	s.registerProtectedRoutes(protectedMux)
	outerMux.Handle("/", middleware.RequireSession(s.gate)(protectedMux))

	return middleware.RequestLogger(s.logger.With("component", "http"))(outerMux)
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"status":     "ok",
		"auth":       s.gate.State().String(),
		"ws_clients": s.hub.ClientCount(),
	})
}

func (s *Server) rateLimitedHandler(h http.HandlerFunc) http.HandlerFunc {
	keyFunc := func(r *http.Request) string {
		return "login:" + middleware.RealIP(r)
	}
	return middleware.RateLimit(s.rateLimiter, keyFunc, loginLimit, loginPeriod)(h).ServeHTTP
}

func (s *Server) registerProtectedRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /logout", s.api.Logout)
	mux.HandleFunc("GET /ws", ws.HandleWebSocket(s.hub, s.allowedOrigins, s.logger.With("component", "websocket")))

	mux.HandleFunc("POST /api/sections/{section}", s.api.Activate)
	mux.HandleFunc("GET /api/dashboard", s.api.Dashboard)
	mux.HandleFunc("POST /api/backup", s.api.Backup)

	// Families
	mux.HandleFunc("GET /api/families", s.api.ListFamilies)
	mux.HandleFunc("POST /api/families", s.api.CreateFamily)
	mux.HandleFunc("GET /api/families/{id}", s.api.GetFamily)
	mux.HandleFunc("PUT /api/families/{id}", s.api.UpdateFamily)
	mux.HandleFunc("DELETE /api/families/{id}", s.api.DeleteFamily)
	mux.HandleFunc("GET /api/families/{id}/members", s.api.FamilyMembers)
	mux.HandleFunc("PUT /api/zone-filter", s.api.SetZoneFilter)

	// Members
	mux.HandleFunc("GET /api/members", s.api.ListMembers)
	mux.HandleFunc("POST /api/members", s.api.CreateMember)
	mux.HandleFunc("GET /api/members/search", s.api.SearchMembers)
	mux.HandleFunc("GET /api/members/{id}", s.api.GetMember)
	mux.HandleFunc("PUT /api/members/{id}", s.api.UpdateMember)
	mux.HandleFunc("DELETE /api/members/{id}", s.api.DeleteMember)
	mux.HandleFunc("GET /api/members/{id}/requests", s.api.MemberRequests)

	// Queries
	mux.HandleFunc("GET /api/queries/occupation", s.api.RunOccupationQuery)
	mux.HandleFunc("GET /api/queries/{kind}", s.api.RunQuery)

	// Requests
	mux.HandleFunc("GET /api/requests", s.api.ListRequests)
	mux.HandleFunc("POST /api/requests", s.api.CreateRequest)
	mux.HandleFunc("GET /api/requests/people", s.api.SearchPeople)
	mux.HandleFunc("PUT /api/requests/{id}", s.api.UpdateRequest)
	mux.HandleFunc("PUT /api/requests/{id}/status", s.api.UpdateRequestStatus)
	mux.HandleFunc("DELETE /api/requests/{id}", s.api.DeleteRequest)
}
