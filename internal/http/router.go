package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/Rohit-3/Ratan-agri-tech/internal/http/dashboard"
	"github.com/Rohit-3/Ratan-agri-tech/internal/http/merchant"
	"github.com/Rohit-3/Ratan-agri-tech/internal/http/payment"
)

func New(
	paymentsV1 *payment.Handler,
	merchantV1 *merchant.Handler,
	dashboardV1 *dashboard.Handler,
) http.Handler {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	router.Route("/api/v1", func(r chi.Router) {
		r.Route("/payments", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			paymentsV1.Routes(r)
		})

		r.Route("/invoices", paymentsV1.InvoiceRoutes)

		r.Route("/merchant", func(r chi.Router) {
			r.Use(middleware.AllowContentType("application/json"))
			merchantV1.Routes(r)
		})

		r.Route("/dashboard", dashboardV1.Routes)
	})

	return router
}
