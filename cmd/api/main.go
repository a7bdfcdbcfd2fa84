package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"storefront/internal/auth"
	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/events"
	"storefront/internal/httpserver"
	"storefront/internal/metrics"
	"storefront/internal/payment"
	addressrepo "storefront/internal/repository/address"
	cartrepo "storefront/internal/repository/cart"
	categoryrepo "storefront/internal/repository/category"
	orderrepo "storefront/internal/repository/order"
	productrepo "storefront/internal/repository/product"
	"storefront/internal/repository/webhookevent"
	addresssvc "storefront/internal/service/address"
	cartsvc "storefront/internal/service/cart"
	categorysvc "storefront/internal/service/category"
	"storefront/internal/service/checkout"
	ordersvc "storefront/internal/service/order"
	"storefront/internal/service/pricing"
	productsvc "storefront/internal/service/product"
	"storefront/internal/service/reconcile"
	"storefront/internal/service/seller"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	if cfg.JWTSecret == "" {
		logger.Fatalf("JWT_SECRET is required")
	}
	if cfg.StripeSecretKey == "" || cfg.StripeWebhookSecret == "" {
		logger.Printf("stripe keys not set, online checkout and webhooks will fail")
	}
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	var (
		publisher events.Publisher = events.Noop{}
		kafkaPub  *events.KafkaPublisher
	)
	if cfg.KafkaBrokers != "" {
		kafkaPub = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic, logger)
		publisher = kafkaPub
		logger.Printf("publishing order events to %s topic=%s", cfg.KafkaBrokers, cfg.KafkaOrderTopic)
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret)
	gateway := payment.NewStripe(cfg.StripeSecretKey, cfg.StripeWebhookSecret, nil)

	productRepo := productrepo.NewPostgres(dbpool, logger)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	cartRepo := cartrepo.NewPostgres(dbpool)

	pricer := pricing.New(productRepo, cfg.PricingConcurrency)
	checkoutService := checkout.New(pricer, orderRepo, gateway, publisher, checkout.Config{
		Currency:      cfg.StripeCurrency,
		DefaultOrigin: cfg.DefaultOrigin(),
	}, logger)
	reconciler := reconcile.New(gateway, orderRepo, cartRepo, webhookevent.NewPostgres(dbpool), publisher, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		Checkout:   checkoutService,
		Reconciler: reconciler,
		Orders:     ordersvc.New(orderRepo, logger),
		Addresses:  addresssvc.New(addressrepo.NewPostgres(dbpool)),
		Carts:      cartsvc.New(cartRepo, productRepo),
		Categories: categorysvc.New(categoryrepo.NewPostgres(dbpool)),
		Products:   productsvc.New(productRepo),
		Seller:     seller.New(cfg.SellerEmail, cfg.SellerPasswordHash, tokens),
		UserTokens: tokens,
		Metrics:    metrics.New(),
		Settings: httpserver.Settings{
			AllowedOrigins: cfg.ClientOrigins,
			DefaultOrigin:  cfg.DefaultOrigin(),
			Production:     cfg.Production(),
			RateRPS:        cfg.RateRPS,
			RateBurst:      cfg.RateBurst,
			TrustedProxies: cfg.TrustedProxies,
		},
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}
	if kafkaPub != nil {
		srv.CloseOnShutdown("kafka publisher", kafkaPub)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
