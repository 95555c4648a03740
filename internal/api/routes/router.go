package routes

import (
	"net/http"

	"github.com/zatekoja/emergencyassist/backend/internal/api/handlers"
	"github.com/zatekoja/emergencyassist/backend/internal/api/middleware"
	"github.com/zatekoja/emergencyassist/backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	triageHandler   *handlers.TriageHandler
	hospitalHandler *handlers.HospitalHandler
	staticHandler   http.Handler

	allowedOrigins []string
	metrics        *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	triageHandler *handlers.TriageHandler,
	hospitalHandler *handlers.HospitalHandler,
	staticHandler http.Handler,
	allowedOrigins []string,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:             http.NewServeMux(),
		triageHandler:   triageHandler,
		hospitalHandler: hospitalHandler,
		staticHandler:   staticHandler,
		allowedOrigins:  allowedOrigins,
		metrics:         metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", handlers.Health)

	// Emergency analysis; /api/analyze is kept for older clients
	analyze := middleware.NoStore(http.HandlerFunc(r.triageHandler.Analyze))
	r.mux.Handle("POST /analyze", analyze)
	r.mux.Handle("POST /api/analyze", analyze)

	// Nearby hospitals
	r.mux.Handle("GET /nearby-hospitals", middleware.NoStore(http.HandlerFunc(r.hospitalHandler.NearbyHospitals)))

	// Everything else is the browser client
	if r.staticHandler != nil {
		r.mux.Handle("/", r.staticHandler)
	}

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.Compression(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.RequestIDMiddleware(handler)

	// CORS wraps everything so preflights short-circuit before any work
	handler = middleware.CORSMiddleware(r.allowedOrigins)(handler)

	return handler
}
