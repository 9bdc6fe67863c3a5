package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"studycoach-backend/internal/handlers"
	"studycoach-backend/internal/middleware"
	"studycoach-backend/internal/websocket"
)

type Handlers struct {
	Session  *handlers.SessionHandler
	Study    *handlers.StudyHandler
	History  *handlers.HistoryHandler
	Jobs     *handlers.JobHandler
	Feedback *handlers.FeedbackHandler
	Videos   *handlers.VideoHandler
}

func New(
	sessionAuth *middleware.SessionAuth,
	h Handlers,
	generateLimiter *middleware.RateLimiter,
	wsHub *websocket.Hub,
	frontendURL string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS(frontendURL))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Public Routes ────
		r.Post("/sessions", h.Session.Create)
		r.Post("/feedback", h.Feedback.Submit)
		r.Get("/videos/resolve", h.Videos.Resolve)

		// ──── Session Routes ────
		r.Group(func(r chi.Router) {
			r.Use(sessionAuth.Middleware)

			r.Delete("/sessions/current", h.Session.End)
			r.Post("/sessions/current/refresh", h.Session.Refresh)
			r.Post("/transcripts", h.Study.Transcript)

			r.Route("/bundles", func(r chi.Router) {
				r.With(generateLimiter.Middleware).Post("/", h.Study.GenerateBundle)
				r.Get("/latest", h.Study.Latest)
			})

			r.With(generateLimiter.Middleware).Post("/artifacts/{kind}", h.Study.GenerateArtifact)

			r.Route("/history", func(r chi.Router) {
				r.Get("/", h.History.List)
				r.Get("/{id}", h.History.Get)
				r.Get("/{id}/export/{kind}", h.History.Export)
			})

			r.Route("/jobs", func(r chi.Router) {
				r.With(generateLimiter.Middleware).Post("/", h.Jobs.Enqueue)
				r.Get("/{id}", h.Jobs.GetJob)
			})
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
