package http

import (
	"net/http"
	"net/netip"
	"time"

	"news-summarizer/internal/middleware"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type Router struct {
	chi.Router
}

// NewRouter builds the middleware chain. requestTimeout bounds the whole
// request, article fetch and completion call included. Forwarding headers
// are honored for rate limiting only when they come from trustedProxies.
func NewRouter(limiter middleware.Limiter, requestTimeout time.Duration, trustedProxies []netip.Prefix) *Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Recovery)
	r.Use(chimiddleware.Timeout(requestTimeout))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-Id"},
		ExposedHeaders: []string{"Retry-After"},
		MaxAge:         300,
	}))

	r.Use(middleware.RateLimit(limiter, trustedProxies))

	return &Router{r}
}

// RegisterSummarizerRoutes registers summarize and translate routes
func (r *Router) RegisterSummarizerRoutes(h *SummarizerHandler) {
	h.RegisterRoutes(r)
}

// RegisterHealthRoutes registers health check routes. ready reports an error
// when a dependency is unavailable; nil means always ready.
func (r *Router) RegisterHealthRoutes(ready func() error) {
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})

	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if ready != nil {
			if err := ready(); err != nil {
				writeJSON(w, http.StatusServiceUnavailable, map[string]string{
					"status": "unavailable",
					"error":  err.Error(),
				})
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{
			"status":    "ready",
			"timestamp": time.Now().Format(time.RFC3339),
		})
	})
}
