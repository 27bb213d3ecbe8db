package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/sanmiadewale/modaville-backend/api/routes"
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
	"github.com/sanmiadewale/modaville-backend/pkg/env"
	"github.com/sanmiadewale/modaville-backend/pkg/logger"
	"github.com/sanmiadewale/modaville-backend/pkg/metrics"
	"github.com/sanmiadewale/modaville-backend/pkg/migrate"
	"github.com/sanmiadewale/modaville-backend/pkg/paystack"
	"github.com/sanmiadewale/modaville-backend/pkg/redis"
)

const shutdownGrace = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	sessions, err := session.NewManager(redisClient, cfg.JWT)
	if err != nil {
		logg.Error(context.Background(), "failed to create session manager", err)
		os.Exit(1)
	}

	paystackOpts := []paystack.Option{}
	if cfg.Paystack.BaseURL != "" {
		paystackOpts = append(paystackOpts, paystack.WithBaseURL(cfg.Paystack.BaseURL))
	}
	paystackClient, err := paystack.NewClient(cfg.Paystack.SecretKey, paystackOpts...)
	if err != nil {
		logg.Error(context.Background(), "failed to create paystack client", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	checkoutMetrics := metrics.NewCheckoutMetrics(registry)

	gormDB := dbClient.DB()

	userRepo := users.NewRepository(gormDB)
	productRepo := products.NewRepository(gormDB)
	cartRepo := cart.NewRepository(gormDB)
	orderRepo := orders.NewRepository(gormDB)

	authService, err := authsvc.NewService(userRepo, sessions, cfg.JWT, cfg.Password)
	if err != nil {
		fatal(logg, "failed to create auth service", err)
	}
	productService, err := products.NewService(productRepo, dbClient)
	if err != nil {
		fatal(logg, "failed to create product service", err)
	}
	cartService, err := cart.NewService(cartRepo, productRepo, dbClient)
	if err != nil {
		fatal(logg, "failed to create cart service", err)
	}
	orderService, err := orders.NewService(orderRepo)
	if err != nil {
		fatal(logg, "failed to create order service", err)
	}
	userService, err := users.NewService(userRepo)
	if err != nil {
		fatal(logg, "failed to create user service", err)
	}
	analyticsService, err := analytics.NewService(gormDB)
	if err != nil {
		fatal(logg, "failed to create analytics service", err)
	}

	pendingStore, err := checkoutsvc.NewPendingStore(redisClient, cfg.Checkout.PendingTTL)
	if err != nil {
		fatal(logg, "failed to create pending checkout store", err)
	}
	checkoutService, err := checkoutsvc.NewService(
		cartService,
		orderRepo,
		pendingStore,
		paystackClient,
		dbClient,
		checkoutMetrics,
		cfg.Checkout,
	)
	if err != nil {
		fatal(logg, "failed to create checkout service", err)
	}

	paystackWebhooks, err := webhooks.NewPaystackService(checkoutService, logg.Base())
	if err != nil {
		fatal(logg, "failed to create webhook service", err)
	}

	router := routes.NewRouter(routes.Deps{
		Cfg:       cfg,
		Logg:      logg,
		DB:        dbClient,
		Redis:     redisClient,
		Sessions:  sessions,
		Registry:  registry,
		Auth:      authService,
		Products:  productService,
		Cart:      cartService,
		Checkout:  checkoutService,
		Orders:    orderService,
		Users:     userService,
		Analytics: analyticsService,
		Paystack:  paystackWebhooks,
	})

	// Platform-injected PORT wins over the configured one.
	addr := ":" + env.Get("PORT", cfg.App.Port)

	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case sig := <-stop:
		logg.Info(logg.WithFields(ctx, map[string]any{"signal": sig.String()}), "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "graceful shutdown failed", err)
			os.Exit(1)
		}
	}
}

func fatal(logg *logger.Logger, msg string, err error) {
	logg.Error(context.Background(), msg, err)
	os.Exit(1)
}
