package server

import "github.com/go-chi/chi/v5"

// ModuleRegistrar defines the interface for registering module API
// endpoints on the shared chi router. API routes live under /api/*.
type ModuleRegistrar interface {
	RegisterRoutes(router *chi.Mux) error
}
