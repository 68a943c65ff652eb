package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/minhhq/backoffice/internal/http/einvoice"
	"github.com/minhhq/backoffice/internal/http/export"
	"github.com/minhhq/backoffice/internal/http/transaction"
)

func New(
	transactionsV1 *transaction.Handler,
	einvoiceV1 *einvoice.Handler,
	exportV1 *export.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/transactions", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			transactionsV1.Routes(r)
			einvoiceV1.Routes(r)
		})

		r.Route("/export", func(r chi.Router) {
			exportV1.Routes(r)
		})
	})

	return router
}
