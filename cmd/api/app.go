package main

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/matheusmosca/commerce-api/internal/analytics"
	"github.com/matheusmosca/commerce-api/internal/auth"
	"github.com/matheusmosca/commerce-api/internal/cache"
	"github.com/matheusmosca/commerce-api/internal/config"
	"github.com/matheusmosca/commerce-api/internal/email"
	"github.com/matheusmosca/commerce-api/internal/httpx"
	"github.com/matheusmosca/commerce-api/internal/logger"
	"github.com/matheusmosca/commerce-api/internal/ratelimit"
	"github.com/matheusmosca/commerce-api/services/admin"
	"github.com/matheusmosca/commerce-api/services/categories"
	"github.com/matheusmosca/commerce-api/services/inventory"
	"github.com/matheusmosca/commerce-api/services/orders"
	"github.com/matheusmosca/commerce-api/services/payments"
	"github.com/matheusmosca/commerce-api/services/products"
	"github.com/matheusmosca/commerce-api/services/reviews"
	"github.com/matheusmosca/commerce-api/services/users"
)

// Deps são as dependências de infraestrutura que a aplicação recebe prontas
type Deps struct {
	Log            *logger.Logger
	TracerProvider trace.TracerProvider
	Meter          metric.Meter
	LimiterStore   ratelimit.Store
}

// App guarda o router e os serviços com ciclo de vida próprio
type App struct {
	Router   *gin.Engine
	Payments *payments.PaymentUseCase
	Mailer   *email.Sender
}

// NewApp monta todos os serviços e o router gin
func NewApp(cfg config.Config, deps Deps) *App {
	log := deps.Log.Logger
	tracer := deps.TracerProvider.Tracer(cfg.ServiceName)
	now := time.Now()

	stats := analytics.New(deps.Meter)
	cacheManager := cache.New(cache.WithDefaultTTL(cfg.CacheTTL))
	sender := email.NewSender(cfg.EmailFrom, log)
	limiter := ratelimit.New(deps.LimiterStore, cfg.RateLimitWindow, cfg.RateLimitMaxRequests, ratelimit.WithLogger(log))

	userUseCase := users.NewUserUseCase(users.NewUserRepository(now), sender, log)
	productUseCase := products.NewProductUseCase(products.NewProductRepository(now), log)
	categoryUseCase := categories.NewCategoryUseCase(categories.NewCategoryRepository(now), cacheManager, cfg.CacheTTL, log)
	inventoryUseCase := inventory.NewInventoryUseCase(inventory.NewInventoryRepository(), log)
	orderUseCase := orders.NewOrderUseCase(orders.NewOrderRepository(), userUseCase, sender, stats, log)
	paymentUseCase := payments.NewPaymentUseCase(payments.NewPaymentRepository(), cfg.PaymentCompletionDelay, stats, log)
	reviewUseCase := reviews.NewReviewUseCase(reviews.NewReviewRepository(), cacheManager, cfg.CacheTTL, log)

	r := gin.New()
	r.Use(
		httpx.Recovery(log),
		otelgin.Middleware(cfg.ServiceName, otelgin.WithTracerProvider(deps.TracerProvider)),
		httpx.RequestID(),
		httpx.RequestLogger(log, stats),
		httpx.RequireJSON(),
		ratelimit.Middleware(limiter, ratelimit.ClientIPKeyFunc(cfg.TrustXForwardedFor)),
	)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC().Format(time.RFC3339)})
	})

	api := r.Group("/api")
	api.GET("/version", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"version": cfg.APIVersion})
	})

	users.NewUserHandler(userUseCase, tracer).RegisterRoutes(api.Group("/users"))
	products.NewProductHandler(productUseCase, tracer).RegisterRoutes(api.Group("/products"))
	categories.NewCategoryHandler(categoryUseCase, tracer).RegisterRoutes(api.Group("/categories"))
	inventory.NewInventoryHandler(inventoryUseCase, tracer).RegisterRoutes(api.Group("/inventory"))
	reviews.NewReviewHandler(reviewUseCase, tracer).RegisterRoutes(api.Group("/reviews"))

	orders.NewOrderHandler(orderUseCase, tracer).RegisterRoutes(api.Group("/orders", auth.Authenticate()))
	payments.NewPaymentHandler(paymentUseCase, tracer).RegisterRoutes(api.Group("/payments", auth.Authenticate()))
	admin.NewAdminHandler(stats, deps.Log, cacheManager, tracer).
		RegisterRoutes(api.Group("/admin", auth.Authenticate(), auth.RequireAdmin()))

	r.NoRoute(httpx.NotFound)

	return &App{Router: r, Payments: paymentUseCase, Mailer: sender}
}

// Shutdown encerra as tarefas agendadas dos serviços
func (a *App) Shutdown(ctx context.Context) error {
	return a.Payments.Shutdown(ctx)
}
