package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/royriv3r/fxtwitch/internal/api/handler"
	mw "github.com/royriv3r/fxtwitch/internal/api/middleware"
)

// NewRouter creates the HTTP router with all routes configured.
func NewRouter(
	clipHandler *handler.ClipHandler,
	healthHandler *handler.HealthHandler,
	homepageURL string,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CleanPath) // Normalize paths (e.g., //clip -> /clip)
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(mw.Logger)
	r.Use(mw.Recovery)
	r.Use(middleware.Timeout(30 * time.Second))

	// Health endpoints
	r.Get("/health", healthHandler.Live)
	r.Get("/ready", healthHandler.Ready)

	// Root always points visitors at the project homepage.
	r.Get("/", func(w http.ResponseWriter, req *http.Request) {
		http.Redirect(w, req, homepageURL, http.StatusMovedPermanently)
	})

	r.Get("/clip/{clipID}", clipHandler.Resolve)

	// Unmatched paths get a bare text body instead of chi's default.
	r.NotFound(func(w http.ResponseWriter, req *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte("Not Found"))
	})

	return r
}
