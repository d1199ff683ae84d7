package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/rlaaudgjs5638/mixAnalyzer/shared/logger"
)

// Server represents the HTTP server with chi router
type Server struct {
	router *chi.Mux
	addr   string
	server *http.Server
}

// NewServer creates a new HTTP server instance
func NewServer(addr string) *Server {
	router := chi.NewRouter()

	server := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		router: router,
		addr:   addr,
		server: server,
	}
}

// Router returns the chi router for module registration
func (s *Server) Router() *chi.Mux {
	return s.router
}

// RegisterModule registers a module's API endpoints
func (s *Server) RegisterModule(module ModuleRegistrar) error {
	return module.RegisterRoutes(s.router)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	logger.Infof("starting server on %s", s.addr)
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Infof("shutting down server")
	return s.server.Shutdown(ctx)
}

// SetupBasicRoutes sets up basic server routes
func (s *Server) SetupBasicRoutes() {
	s.router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status":"healthy","timestamp":"%s"}`, time.Now().Format(time.RFC3339))
	})
}
