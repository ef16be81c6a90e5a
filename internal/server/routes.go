package server

import (
	"net/http"
)

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// API routes - MSME search-and-enrichment
	mux.HandleFunc("/api/msme/search", s.app.MSMEHandler.SearchHandler) // POST - enriched district/state search

	// API routes - plain business text search (maps page)
	mux.HandleFunc("/api/search", s.app.MapsHandler.SearchHandler) // POST - business/city lookup

	// API routes - System
	mux.HandleFunc("/api/version", s.app.APIHandler.VersionHandler)
	mux.HandleFunc("/api/health", s.app.APIHandler.HealthHandler)

	// 404 handler for unmatched API routes
	mux.HandleFunc("/api/", s.app.APIHandler.NotFoundHandler)

	return mux
}
