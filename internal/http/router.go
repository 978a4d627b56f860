package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/vinigoulartalves/wealthcheck/internal/http/login"
	"github.com/vinigoulartalves/wealthcheck/internal/http/resource"
	"github.com/vinigoulartalves/wealthcheck/internal/http/sessions"
)

func New(
	despesas *resource.Handler,
	receitas *resource.Handler,
	loginH *login.Handler,
	sessionsH *sessions.Handler,
	allowedOrigins []string,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.RequestID)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/despesas", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		despesas.Routes(r)
	})

	router.Route("/receitas", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		receitas.Routes(r)
	})

	router.Route("/login", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		loginH.Routes(r)
	})

	router.Route("/session", sessionsH.Routes)

	return router
}
