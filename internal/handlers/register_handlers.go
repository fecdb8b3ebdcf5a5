package handlers

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/softblue/bank_backend/cmd/docs"
	portssvc "github.com/softblue/bank_backend/internal/core/ports/services"
	"github.com/softblue/bank_backend/internal/middleware"
	"github.com/softblue/bank_backend/internal/platform/config"
	"github.com/softblue/bank_backend/internal/utils"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// RouterDeps carries the optional infrastructure the router can use.
type RouterDeps struct {
	// RedisClient shares rate limit counters between instances. Nil keeps them in memory.
	RedisClient redis.UniversalClient
	// Posthog receives per-route analytics events. Nil disables tracking.
	Posthog *utils.PosthogClientWrapper
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	deps RouterDeps,
) error {
	registerValidators()

	r.Use(middleware.PrometheusMiddleware())
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSAllowedOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", middleware.RequestIDHeader, IdempotencyKeyHeader},
			ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	r.GET("/health", getHealth)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	loginLimiter, err := middleware.NewRateLimiter(cfg.LoginRateLimit, "bank:ratelimit:login", deps.RedisClient)
	if err != nil {
		return fmt.Errorf("login rate limit: %w", err)
	}
	apiLimiter, err := middleware.NewRateLimiter(cfg.APIRateLimit, "bank:ratelimit:api", deps.RedisClient)
	if err != nil {
		return fmt.Errorf("api rate limit: %w", err)
	}

	customers := newCustomerHandler(services.Customer, services.Account)

	// Public sign-up and login
	public := r.Group("/api")
	registerPublicCustomerRoutes(public, customers, middleware.RateLimit(loginLimiter))

	// Setup API v1 routes with Auth Middleware
	v1 := r.Group("/api/v1",
		middleware.AuthMiddleware(cfg.JWTSecret),
		middleware.RateLimit(apiLimiter),
		middleware.PosthogMiddleware(deps.Posthog),
	)
	registerCustomerRoutes(v1, customers)
	registerAccountRoutes(v1, newAccountHandler(services.Account, services.Transaction, services.Statement))
	registerTransactionRoutes(v1, newTransactionHandler(services.Transaction))
	registerReportingRoutes(v1, newReportingHandler(services.Reporting))

	setupSwaggerRoutes(r, cfg)
	return nil
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
