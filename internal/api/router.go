package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	mw "github.com/kiranshivaraju/newscheck/internal/api/middleware"
	"github.com/kiranshivaraju/newscheck/internal/api/response"
)

// Dependencies holds all handler and middleware dependencies for the router.
type Dependencies struct {
	RateLimit      *mw.RateLimit
	FrontendOrigin string

	HealthHandler        http.HandlerFunc
	CheckClaimHandler    http.HandlerFunc
	ListHistoryHandler   http.HandlerFunc
	DeleteHistoryHandler http.HandlerFunc
}

// NewRouter builds the Chi router with middleware stack and all routes.
func NewRouter(deps Dependencies) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.Logger)
	r.Use(mw.Recovery)
	r.Use(mw.CORS(deps.FrontendOrigin))

	// Public health check
	r.Get("/api/v1/health", orNotImplemented(deps.HealthHandler))

	// API routes
	r.Group(func(r chi.Router) {
		r.Use(mw.Identity)
		r.Use(deps.RateLimit.Limit)

		r.Post("/api/check-claim", orNotImplemented(deps.CheckClaimHandler))
		r.Get("/api/history", orNotImplemented(deps.ListHistoryHandler))
		r.Delete("/api/history/{id}", orNotImplemented(deps.DeleteHistoryHandler))
	})

	return r
}

// orNotImplemented returns the handler if non-nil, or a 501 placeholder.
func orNotImplemented(h http.HandlerFunc) http.HandlerFunc {
	if h != nil {
		return h
	}
	return func(w http.ResponseWriter, r *http.Request) {
		response.Error(w, http.StatusNotImplemented, "NOT_IMPLEMENTED", "Endpoint not yet implemented", nil)
	}
}
