package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/zenithretail/storefront/pkg/health"
	"github.com/zenithretail/storefront/pkg/middleware"

	"github.com/zenithretail/storefront/internal/chat"
	"github.com/zenithretail/storefront/internal/service"
)

// RouterConfig carries the dependencies for the storefront router.
type RouterConfig struct {
	Carts     *service.CartService
	Catalog   *service.CatalogService
	Checkout  *service.CheckoutService
	Orders    *service.OrderService
	Responder *chat.Responder
	Health    *health.Handler
	Logger    *slog.Logger
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.CORS)
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))
	r.Use(middleware.RequestLogger(cfg.Logger))

	r.Get("/health/live", cfg.Health.LivenessHandler())
	r.Get("/health/ready", cfg.Health.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	cartHandler := NewCartHandler(cfg.Carts, cfg.Catalog, cfg.Checkout, cfg.Logger)
	checkoutHandler := NewCheckoutHandler(cfg.Checkout, cfg.Logger)
	catalogHandler := NewCatalogHandler(cfg.Catalog, cfg.Logger)
	orderHandler := NewOrderHandler(cfg.Orders, cfg.Logger)
	chatHandler := NewChatHandler(cfg.Responder, cfg.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		// Public catalog and chat.
		r.Get("/products", catalogHandler.ListProducts)
		r.Get("/products/{productID}", catalogHandler.GetProduct)
		r.Post("/chat", chatHandler.Message)

		// The gateway's post-payment redirect carries no identity headers,
		// only the transaction reference.
		r.Get("/checkout/confirm", checkoutHandler.Confirm)

		// Everything below requires an authenticated user.
		r.Group(func(r chi.Router) {
			r.Use(Identity)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)
				r.Post("/quote", cartHandler.Quote)

				r.Post("/items", cartHandler.AddItem)
				r.Put("/items/{productID}", cartHandler.UpdateQuantity)
				r.Delete("/items/{productID}", cartHandler.RemoveItem)
			})

			r.Route("/checkout", func(r chi.Router) {
				r.Post("/", checkoutHandler.Submit)
				r.Get("/sessions/{sessionID}", checkoutHandler.GetSession)
			})

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", orderHandler.ListOrders)
				r.Get("/{orderID}", orderHandler.GetOrder)
			})
		})
	})

	return r
}
