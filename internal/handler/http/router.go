package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Suhail-code8/fabloom/internal/service"
	"github.com/Suhail-code8/fabloom/pkg/health"
	"github.com/Suhail-code8/fabloom/pkg/middleware"
)

// RouterConfig bundles what the router needs beyond the services.
type RouterConfig struct {
	ServiceName    string
	TokenValidator middleware.TokenValidator
	RateLimitRPS   int
	RateLimitBurst int
	CORS           middleware.CORSConfig
}

// NewRouter creates a chi router with the full storefront API. Catalog
// reads are public, cart and orders need a valid token, and the admin
// surface additionally needs the admin role.
func NewRouter(
	cartService *service.CartService,
	catalogService *service.CatalogService,
	orderService *service.OrderService,
	healthHandler *health.Handler,
	logger *slog.Logger,
	cfg RouterConfig,
) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics(cfg.ServiceName))
	r.Use(middleware.Tracing(cfg.ServiceName))
	r.Use(middleware.CORS(cfg.CORS))
	if cfg.RateLimitRPS > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, logger))
	}

	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	cartHandler := NewCartHandler(cartService, logger)
	productHandler := NewProductHandler(catalogService, logger)
	orderHandler := NewOrderHandler(orderService, logger)

	authed := middleware.Auth(cfg.TokenValidator)

	r.Route("/api/v1", func(r chi.Router) {
		// Public catalog.
		r.Get("/products", productHandler.List)
		r.Get("/products/{idOrSlug}", productHandler.Get)

		// Shopper surface.
		r.Group(func(r chi.Router) {
			r.Use(authed)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)
				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{itemId}", cartHandler.UpdateItemQuantity)
				r.Delete("/items/{itemId}", cartHandler.RemoveItem)
			})

			r.Post("/orders", orderHandler.Checkout)
			r.Get("/orders", orderHandler.ListMine)
			r.Get("/orders/{id}", orderHandler.Get)
		})

		// Admin surface.
		r.Route("/admin", func(r chi.Router) {
			r.Use(authed)
			r.Use(middleware.RequireRole(adminRole))

			r.Get("/products", productHandler.AdminList)
			r.Post("/products", productHandler.Create)
			r.Put("/products/{id}", productHandler.Update)
			r.Delete("/products/{id}", productHandler.Delete)

			r.Get("/orders", orderHandler.AdminList)
			r.Patch("/orders/{id}/status", orderHandler.UpdateStatus)
			r.Patch("/orders/{id}/payment", orderHandler.UpdatePayment)
			r.Patch("/orders/{id}/items/{itemId}/stitching", orderHandler.UpdateStitching)
		})
	})

	return r
}
