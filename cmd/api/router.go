package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"clockshop-backend/internal/shared/middleware"
	"clockshop-backend/pkg/container"
)

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()

	// Global middlewares
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(),
		middleware.Logger(),
		middleware.ClientIPMiddleware(),
		middleware.CORS(c.Config.App.CORSOrigins),
		middleware.Metrics(),
	)

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheckHandler(c))

		setupWebhookRoutes(v1, c)
		setupOrderRoutes(v1, c)
		setupPaymentRoutes(v1, c)
		setupAdminOrderRoutes(v1, c)
	}

	return router
}

// ========================================
// GATEWAY CALLBACKS (public, signature checked)
// ========================================
func setupWebhookRoutes(v1 *gin.RouterGroup, c *container.Container) {
	if c.PaymentHandler == nil {
		return
	}
	c.PaymentHandler.RegisterCallbackRoutes(v1)
}

// ========================================
// ORDER ROUTES (auth)
// ========================================
func setupOrderRoutes(v1 *gin.RouterGroup, c *container.Container) {
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(c.JWTManager))
	c.OrderHandler.RegisterRoutes(protected)
}

// ========================================
// PAYMENT ROUTES (auth)
// ========================================
func setupPaymentRoutes(v1 *gin.RouterGroup, c *container.Container) {
	if c.PaymentHandler == nil {
		return
	}
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(c.JWTManager))
	c.PaymentHandler.RegisterRoutes(protected)
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminOrderRoutes(v1 *gin.RouterGroup, c *container.Container) {
	admin := v1.Group("")
	admin.Use(
		middleware.AuthMiddleware(c.JWTManager),
		middleware.RequireRole(middleware.RoleAdmin),
	)
	c.OrderHandler.RegisterAdminRoutes(admin)
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		// Check database
		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
			health["status"] = "degraded"
		} else if err := appCtx.DB.Ping(ctx); err != nil {
			dbStatus = fmt.Sprintf("error: %v", err)
			health["status"] = "degraded"
		}

		// Check redis (optional, không ảnh hưởng status)
		redisStatus := "ok"
		if appCtx.Redis == nil {
			redisStatus = "disconnected"
		} else if err := appCtx.Redis.HealthCheck(ctx); err != nil {
			redisStatus = fmt.Sprintf("error: %v", err)
		}

		paymentStatus := "enabled"
		if appCtx.PaymentHandler == nil {
			paymentStatus = "disabled"
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
			"vnpay":    paymentStatus,
		}

		statusCode := http.StatusOK
		if health["status"] != "ok" {
			statusCode = http.StatusServiceUnavailable
		}
		c.JSON(statusCode, health)
	}
}
