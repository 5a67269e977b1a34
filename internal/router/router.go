package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/rua702356-pixel/Web-Japanese/internal/handlers"
	"github.com/rua702356-pixel/Web-Japanese/internal/middleware"
	"github.com/rua702356-pixel/Web-Japanese/internal/websocket"
)

func New(
	jwtAuth *middleware.JWTAuth,
	authHandler *handlers.AuthHandler,
	cardHandler *handlers.CardHandler,
	studyHandler *handlers.StudyHandler,
	quizHandler *handlers.QuizHandler,
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

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {

		// ──── Auth Routes (public) ────
		r.Route("/auth", func(r chi.Router) {
			r.Use(authLimiter.Middleware)
			r.Post("/register", authHandler.Register)
			r.Post("/login", authHandler.Login)
		})

		// ──── Card Pool Routes ────
		r.Route("/cards", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", cardHandler.List)
			r.Get("/categories", cardHandler.Categories)
		})

		// ──── Study Session Routes ────
		r.Route("/study", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Post("/start", studyHandler.Start)
			r.Post("/reveal", studyHandler.Reveal)
			r.Post("/answer", studyHandler.Answer)
			r.Post("/next", studyHandler.Next)
			r.Post("/previous", studyHandler.Previous)
			r.Post("/reset", studyHandler.Reset)
			r.Get("/session", studyHandler.Session)
			r.Get("/stats", studyHandler.Stats)
		})

		// ──── Quiz Routes ────
		r.Route("/quizzes", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", quizHandler.List)
			r.Get("/{id}", quizHandler.Get)
			r.Post("/{id}/start", quizHandler.Start)
		})

		r.Route("/quiz-session", func(r chi.Router) {
			r.Use(jwtAuth.Middleware)
			r.Get("/", quizHandler.Session)
			r.Post("/answer", quizHandler.Answer)
			r.Get("/result", quizHandler.Result)
			r.Post("/reset", quizHandler.Reset)
		})

		// ──── WebSocket ────
		r.Get("/ws", wsHub.HandleWebSocket)
	})

	return r
}
