package chi

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog"
	"github.com/integratewise/webhook-gateway/event"
)

// Handlers sets up the gateway API routes
func Handlers(ctx context.Context, eventService event.UseCase, events event.Reader, metricsHandler http.Handler) *chi.Mux {
	logger := httplog.NewLogger("webhook-gateway", httplog.Options{
		JSON: true,
	})

	r := chi.NewRouter()
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(30 * time.Second))

	r.Get("/health", getHealth(events).ServeHTTP)

	if metricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", metricsHandler)
	}

	r.Route("/webhooks", func(r chi.Router) {
		r.Get("/{provider}", getWebhook().ServeHTTP)
		r.Post("/{provider}", postWebhook(eventService).ServeHTTP)
	})

	return r
}

// getHealth reports liveness plus a cheap datastore check
func getHealth(events event.Reader) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		count, err := events.Count(r.Context())
		if err != nil {
			respondJSON(w, http.StatusInternalServerError, map[string]any{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}

		respondJSON(w, http.StatusOK, map[string]any{
			"status":              "healthy",
			"database":            "connected",
			"webhooks_count":      count,
			"supported_providers": providerNames(),
			"timestamp":           time.Now().UTC().Format(time.RFC3339),
		})
	})
}
