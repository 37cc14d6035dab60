package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"lumina-backend/internal/handlers"
	"lumina-backend/internal/middleware"
)

func New(
	jwtAuth *middleware.JWTAuth,
	chatHandler *handlers.ChatHandler,
	insightHandler *handlers.InsightHandler,
	proxyRateLimit int,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware. CORS sits here so pre-flight OPTIONS requests
	// short-circuit before route matching.
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.CORS)

	// Proxy rate limiter (per IP, per minute)
	proxyLimiter := middleware.NewRateLimiter(proxyRateLimit, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// ──── Hosted Function Routes ────
	r.Route("/functions/v1", func(r chi.Router) {
		r.Use(proxyLimiter.Middleware)
		r.Use(jwtAuth.Middleware)
		r.Post("/chat-assistant", chatHandler.Assist)
		r.Post("/generate-insight", insightHandler.Generate)
	})

	return r
}
