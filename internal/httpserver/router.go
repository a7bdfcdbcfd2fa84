package httpserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"storefront/internal/domain"
	"storefront/internal/metrics"
	"storefront/internal/payment"
	"storefront/internal/service/reconcile"
)

type checkoutService interface {
	PlaceCOD(ctx context.Context, userID string, items []domain.OrderItem, addr *domain.Address) (*domain.Order, error)
	PlaceOnline(ctx context.Context, userID string, items []domain.OrderItem, addr *domain.Address, origin string) (string, error)
}

type webhookReconciler interface {
	Process(ctx context.Context, payload []byte, sigHeader string) (payment.Event, reconcile.Outcome, error)
}

type orderService interface {
	ListForUser(ctx context.Context, userID string) ([]domain.Order, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
	UpdateStatus(ctx context.Context, orderID, status string) error
}

type addressService interface {
	Add(ctx context.Context, userID string, a domain.Address) (*domain.Address, error)
	List(ctx context.Context, userID string) ([]domain.Address, error)
}

type cartService interface {
	Get(ctx context.Context, userID string) (*domain.Cart, error)
	Update(ctx context.Context, userID string, items map[string]int) (*domain.Cart, error)
}

type categoryService interface {
	List(ctx context.Context) ([]domain.Category, error)
	Add(ctx context.Context, c domain.Category) (*domain.Category, error)
	Update(ctx context.Context, c domain.Category) (*domain.Category, error)
	Remove(ctx context.Context, id string) error
}

type productService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
}

type sellerService interface {
	Login(email, password string) (string, error)
	Authenticate(token string) (string, error)
}

type tokenValidator interface {
	Validate(raw string) (string, error)
}

// Settings carries the transport-level knobs of the router.
type Settings struct {
	AllowedOrigins []string
	DefaultOrigin  string
	Production     bool
	RateRPS        int
	RateBurst      int
	// TrustedProxies may set X-Forwarded-For. Empty means the client IP is the peer address.
	TrustedProxies []string
}

// Deps are the services behind the routes. Routes whose service is nil are not mounted.
type Deps struct {
	Checkout   checkoutService
	Reconciler webhookReconciler
	Orders     orderService
	Addresses  addressService
	Carts      cartService
	Categories categoryService
	Products   productService
	Seller     sellerService
	UserTokens tokenValidator
	Metrics    *metrics.Metrics
	Settings   Settings
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, pool *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	if deps.Checkout != nil && deps.UserTokens == nil {
		return nil, errors.New("checkout routes need a user token validator")
	}
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}

	router := gin.New()
	if err := router.SetTrustedProxies(deps.Settings.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery(), metricsMiddleware(deps.Metrics))
	if len(deps.Settings.AllowedOrigins) > 0 {
		router.Use(cors.New(cors.Config{
			AllowOrigins:     deps.Settings.AllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	h := &handlers{logger: logger, deps: deps}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(pool))
	router.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))

	if deps.Reconciler != nil {
		router.POST("/stripe", h.stripeWebhook)
	}

	api := router.Group("/api")
	user := api.Group("", authUser(deps.UserTokens))
	seller := api.Group("", authSeller(deps.Seller))

	if deps.Checkout != nil {
		limiter := newRateLimiter(deps.Settings.RateRPS, deps.Settings.RateBurst)
		user.POST("/order/cod", limiter.middleware(), h.placeCOD)
		user.POST("/order/stripe", limiter.middleware(), h.placeOnline)
	}
	if deps.Orders != nil {
		user.GET("/order/user", h.userOrders)
		seller.GET("/order/seller", h.allOrders)
		seller.POST("/order/status", h.updateStatus)
	}
	if deps.Addresses != nil {
		user.POST("/address/add", h.addAddress)
		user.GET("/address/get", h.listAddresses)
	}
	if deps.Carts != nil {
		user.POST("/cart/update", h.updateCart)
		user.GET("/cart/get", h.getCart)
	}
	if deps.Categories != nil {
		api.GET("/category/list", h.listCategories)
		seller.POST("/category/add", h.addCategory)
		seller.POST("/category/update", h.updateCategory)
		seller.POST("/category/remove", h.removeCategory)
	}
	if deps.Products != nil {
		api.GET("/product/list", h.listProducts)
		api.POST("/product/id", h.productByID)
	}
	if deps.Seller != nil {
		api.POST("/seller/login", h.sellerLogin)
		api.GET("/seller/logout", h.sellerLogout)
		seller.GET("/seller/is-auth", h.sellerIsAuth)
	}

	return router, nil
}

type handlers struct {
	logger *log.Logger
	deps   Deps
}
