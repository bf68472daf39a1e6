package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter wires the public pages, the rate-limited login and the guarded
// console routes.
func NewRouter(auth *AuthHandler, web *WebHandler, loginLimiter *RateLimiter) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(LoggingMiddleware)

	RegisterStatic(r)

	r.Get("/", auth.Home)
	r.Get("/login", auth.LoginPage)
	r.With(loginLimiter.Middleware).Post("/login", auth.DoLogin)
	r.Get("/logout", auth.Logout)
	r.Post("/logout", auth.Logout)

	r.Group(func(r chi.Router) {
		r.Use(auth.AdminMiddleware)
		web.RegisterRoutes(r)
	})

	return r
}
