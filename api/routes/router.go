package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sanmiadewale/modaville-backend/api/controllers"
	"github.com/sanmiadewale/modaville-backend/api/middleware"
	"github.com/sanmiadewale/modaville-backend/internal/analytics"
	authsvc "github.com/sanmiadewale/modaville-backend/internal/auth"
	"github.com/sanmiadewale/modaville-backend/internal/cart"
	checkoutsvc "github.com/sanmiadewale/modaville-backend/internal/checkout"
	"github.com/sanmiadewale/modaville-backend/internal/orders"
	"github.com/sanmiadewale/modaville-backend/internal/products"
	"github.com/sanmiadewale/modaville-backend/internal/users"
	"github.com/sanmiadewale/modaville-backend/internal/webhooks"
	"github.com/sanmiadewale/modaville-backend/pkg/auth/session"
	"github.com/sanmiadewale/modaville-backend/pkg/config"
	"github.com/sanmiadewale/modaville-backend/pkg/db"
	"github.com/sanmiadewale/modaville-backend/pkg/enums"
	"github.com/sanmiadewale/modaville-backend/pkg/logger"
	"github.com/sanmiadewale/modaville-backend/pkg/redis"
)

// Deps bundles everything the HTTP surface is wired from.
type Deps struct {
	Cfg  *config.Config
	Logg *logger.Logger

	DB       db.Pinger
	Redis    *redis.Client
	Sessions session.AccessSessionChecker
	Registry *prometheus.Registry

	Auth      authsvc.Service
	Products  products.Service
	Cart      cart.Service
	Checkout  checkoutsvc.Service
	Orders    orders.Service
	Users     users.Service
	Analytics analytics.Service
	Paystack  *webhooks.PaystackService
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Cfg, d.Logg

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, d.DB, d.Redis))
	})

	if d.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(d.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/public", func(r chi.Router) {
		r.Get("/products", controllers.ProductList(d.Products, logg))
		r.Get("/products/{productID}", controllers.ProductDetail(d.Products, logg))

		r.Route("/auth", func(r chi.Router) {
			r.With(
				middleware.AuthRateLimit(registerPolicy, d.Redis, logg),
				middleware.Idempotency(d.Redis, logg),
			).Post("/register", controllers.Register(d.Auth, logg))
			r.With(middleware.AuthRateLimit(loginPolicy, d.Redis, logg)).Post("/login", controllers.Login(d.Auth, logg))
			r.Post("/refresh", controllers.Refresh(d.Auth, logg))
		})
	})

	// Paystack authenticates deliveries with its signature, not a bearer token.
	r.Post("/api/v1/webhooks/paystack", controllers.PaystackWebhook(d.Paystack, cfg.Paystack, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
		r.Use(middleware.Idempotency(d.Redis, logg))

		r.Post("/auth/logout", controllers.Logout(d.Auth, cfg.JWT, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(d.Cart, logg))
			r.Delete("/", controllers.CartClear(d.Cart, logg))
			r.Post("/items", controllers.CartAddItem(d.Cart, logg))
			r.Delete("/items/{productID}", controllers.CartRemoveItem(d.Cart, logg))
			r.Post("/items/{productID}/increase", controllers.CartIncreaseItem(d.Cart, logg))
			r.Post("/items/{productID}/decrease", controllers.CartDecreaseItem(d.Cart, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Post("/", controllers.CheckoutBegin(d.Checkout, logg))
			r.Post("/confirm", controllers.CheckoutConfirm(d.Checkout, logg))
			r.Post("/abandon", controllers.CheckoutAbandon(d.Checkout, logg))
			r.Get("/confirmation/{reference}", controllers.CheckoutConfirmation(d.Checkout, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.OrderHistory(d.Orders, logg))
			r.Get("/{orderID}", controllers.OrderDetail(d.Orders, logg))
		})
	})

	r.Route("/api/admin", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, d.Sessions, logg))
		r.Use(middleware.RequireRole(enums.UserRoleAdmin.String(), logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.AdminProductList(d.Products, logg))
			r.Post("/", controllers.AdminProductCreate(d.Products, logg))
			r.Get("/{productID}", controllers.ProductDetail(d.Products, logg))
			r.Patch("/{productID}", controllers.AdminProductUpdate(d.Products, logg))
			r.Delete("/{productID}", controllers.AdminProductDelete(d.Products, logg))
		})

		r.Route("/orders", func(r chi.Router) {
			r.Get("/", controllers.AdminOrderList(d.Orders, logg))
			r.Get("/{orderID}", controllers.AdminOrderDetail(d.Orders, logg))
			r.Patch("/{orderID}/status", controllers.AdminOrderUpdateStatus(d.Orders, logg))
		})

		r.Route("/users", func(r chi.Router) {
			r.Get("/", controllers.AdminUserList(d.Users, logg))
			r.Get("/{userID}", controllers.AdminUserDetail(d.Users, logg))
			r.Patch("/{userID}/active", controllers.AdminUserSetActive(d.Users, logg))
			r.Patch("/{userID}/role", controllers.AdminUserSetRole(d.Users, logg))
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/summary", controllers.AnalyticsSummary(d.Analytics, logg))
			r.Get("/revenue", controllers.AnalyticsRevenue(d.Analytics, logg))
			r.Get("/top-products", controllers.AnalyticsTopProducts(d.Analytics, logg))
		})
	})

	return r
}
