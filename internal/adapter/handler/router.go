package handler

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"
)

// NewRouter wires every endpoint and the shared middleware stack.
func NewRouter(users *UserHandler, catalog *CatalogHandler, orders *OrderHandler, logger zerolog.Logger) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(60 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", HealthCheck)

	r.Route("/api", func(r chi.Router) {
		r.Route("/users", func(r chi.Router) {
			r.Post("/", users.Register)
			r.Post("/login", users.Login)
			r.Get("/{userID}", users.GetUser)
			r.Get("/{userID}/orders", orders.ListUserOrders)
		})

		r.Route("/categories", func(r chi.Router) {
			r.Post("/", catalog.CreateCategory)
			r.Get("/", catalog.ListCategories)
			r.Get("/{categoryID}", catalog.GetCategory)
		})

		r.Route("/products", func(r chi.Router) {
			r.Post("/", catalog.CreateProduct)
			r.Get("/", catalog.ListProducts)
			r.Get("/{productID}", catalog.GetProduct)
			r.Patch("/{productID}/stock", catalog.AdjustStock)
			r.Post("/{productID}/images", catalog.AddImage)
			r.Get("/{productID}/images", catalog.ListImages)
		})

		r.Route("/orders", func(r chi.Router) {
			r.Post("/", orders.PlaceOrder)
			r.Get("/{orderID}", orders.GetOrder)
			r.Patch("/{orderID}/status", orders.UpdateStatus)
		})

		r.Get("/reports/catalog", catalog.PriceReport)
	})

	return r
}

func HealthCheck(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
