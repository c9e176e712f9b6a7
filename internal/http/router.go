package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/pizzangooo/loyalty/internal/auth"
	"github.com/pizzangooo/loyalty/internal/http/card"
	"github.com/pizzangooo/loyalty/internal/http/customer"
	"github.com/pizzangooo/loyalty/internal/http/data"
	"github.com/pizzangooo/loyalty/internal/http/login"
	"github.com/pizzangooo/loyalty/internal/http/transaction"
)

func New(
	authV1 *auth.Auth,
	loginV1 *login.Handler,
	customersV1 *customer.Handler,
	cardsV1 *card.Handler,
	transactionsV1 *transaction.Handler,
	dataV1 *data.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/login", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			loginV1.Routes(r)
		})

		r.Group(func(r chi.Router) {
			r.Use(authV1.Middleware)

			r.Route("/customers", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				customersV1.Routes(r)
			})

			r.Route("/cards", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				cardsV1.Routes(r)
			})

			r.Route("/transactions", func(r chi.Router) {
				r.Use(middleware.AllowContentType("application/json"))
				transactionsV1.Routes(r)
			})

			// import accepts arbitrary encodings, so no content type guard here
			r.Route("/data", dataV1.Routes)
		})
	})

	return router
}
