package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"codecanvas-backend/internal/handlers"
	"codecanvas-backend/internal/middleware"
)

func New(
	sessionAuth *middleware.SessionAuth,
	pagesHandler *handlers.PagesHandler,
	authHandler *handlers.AuthHandler,
	chatHandler *handlers.ChatHandler,
	generateHandler *handlers.GenerateHandler,
	protectGenerate bool,
	staticDir string,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)

	// Auth rate limiter (10 req/min per IP)
	authLimiter := middleware.NewRateLimiter(10, time.Minute)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// ──── Pages (public) ────
	r.Get("/", pagesHandler.Home)

	r.Group(func(r chi.Router) {
		r.Use(authLimiter.Middleware)
		r.Get("/register", authHandler.RegisterPage)
		r.Post("/register", authHandler.Register)
		r.Get("/login", authHandler.LoginPage)
		r.Post("/login", authHandler.Login)
	})

	r.Get("/logout", authHandler.Logout)

	// ──── Chat (session required) ────
	r.Group(func(r chi.Router) {
		r.Use(sessionAuth.RequirePage)
		r.Get("/chat", chatHandler.ChatPage)
	})

	r.Group(func(r chi.Router) {
		r.Use(sessionAuth.RequireAPI)
		r.Post("/chat", chatHandler.Record)
		r.Get("/chat/history", chatHandler.History)
		r.Get("/chat/{id}", chatHandler.GetEntry)
	})

	// ──── AI proxy ────
	r.Group(func(r chi.Router) {
		if protectGenerate {
			r.Use(sessionAuth.RequireAPI)
		}
		r.Post("/api/generate", generateHandler.Generate)
	})

	// ──── Static assets ────
	if staticDir != "" {
		fs := http.StripPrefix("/static/", http.FileServer(http.Dir(staticDir)))
		r.Get("/static/*", fs.ServeHTTP)
	}

	return r
}
