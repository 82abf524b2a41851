package container

import (
	"context"
	"fmt"
	"time"

	"clockshop-backend/internal/config"
	infraCache "clockshop-backend/internal/infrastructure/cache"
	"clockshop-backend/internal/infrastructure/database"
	"clockshop-backend/internal/shared/metrics"
	"clockshop-backend/pkg/cache"
	"clockshop-backend/pkg/jwt"
	"clockshop-backend/pkg/logger"

	orderHandler "clockshop-backend/internal/domains/order/handler"
	orderRepo "clockshop-backend/internal/domains/order/repository"
	orderService "clockshop-backend/internal/domains/order/service"
	"clockshop-backend/internal/domains/payment/gateway/vnpay"
	paymentHandler "clockshop-backend/internal/domains/payment/handler"
	paymentService "clockshop-backend/internal/domains/payment/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container chứa tất cả dependencies của application.
// Lifecycle: singleton, built once in main.
type Container struct {
	// INFRASTRUCTURE LAYER
	Config     *config.Config
	DB         *database.PostgresDB
	Redis      *infraCache.RedisClient
	Cache      cache.Cache // nil khi Redis không kết nối được
	JWTManager *jwt.Manager
	VNPay      *vnpay.Client // nil khi merchant chưa cấu hình

	// REPOSITORY LAYER
	OrderRepo orderRepo.OrderRepository

	// SERVICE LAYER
	OrderService   orderService.OrderService
	PaymentService paymentService.PaymentService

	// HANDLER LAYER
	OrderHandler   *orderHandler.OrderHandler
	PaymentHandler *paymentHandler.PaymentHandler

	stopMonitor context.CancelFunc
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer tạo và initialize toàn bộ dependency graph.
//
// Thứ tự initialization:
// 1. Config
// 2. Infrastructure (DB, Redis, JWT, VNPay)
// 3. Repositories
// 4. Services
// 5. Handlers
func NewContainer() (*Container, error) {
	c := &Container{}

	// STEP 1: LOAD CONFIGURATION
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	logger.Init(cfg.App.Environment, cfg.App.LogLevel)
	metrics.Register()
	logger.Info("Initializing DI container", map[string]interface{}{
		"environment": cfg.App.Environment,
		"version":     cfg.App.Version,
	})

	// STEP 2: INFRASTRUCTURE
	if err := c.initDatabase(); err != nil {
		return nil, err
	}
	c.initRedis()
	c.JWTManager = jwt.NewManager(
		cfg.JWT.Secret,
		time.Duration(cfg.JWT.AccessTokenExpiry)*time.Minute,
		time.Duration(cfg.JWT.RefreshTokenExpiry)*time.Hour,
	)
	if err := c.initVNPay(); err != nil {
		c.Cleanup()
		return nil, err
	}

	// STEP 3-5
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	logger.Info("DI container initialized", map[string]interface{}{
		"redis": c.Cache != nil,
		"vnpay": c.VNPay != nil,
	})
	return c, nil
}

// ========================================
// INFRASTRUCTURE
// ========================================

func (c *Container) initDatabase() error {
	dbConfig, err := config.LoadDatabaseConfig(c.Config.Database)
	if err != nil {
		return fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	c.DB = db

	monitorCtx, stop := context.WithCancel(context.Background())
	c.stopMonitor = stop
	go db.MonitorPoolHealth(monitorCtx, 30*time.Second)

	return nil
}

// initRedis is non-critical: without Redis the payment service runs
// without the callback replay cache
func (c *Container) initRedis() {
	rc := infraCache.NewRedisClient(c.Config.Redis.Host, c.Config.Redis.Password, c.Config.Redis.DB)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rc.Connect(ctx); err != nil {
		logger.Warn("Redis connection failed (non-critical)", map[string]interface{}{"error": err.Error()})
		_ = rc.Close()
		return
	}

	c.Redis = rc
	c.Cache = infraCache.NewRedisCache(rc.Client)
}

func (c *Container) initVNPay() error {
	v := c.Config.VNPay
	if !v.IsConfigured() {
		if c.Config.App.Environment == "production" {
			return fmt.Errorf("VNPay merchant settings are required in production")
		}
		logger.Warn("VNPay not configured - payment endpoints disabled", nil)
		return nil
	}

	vnpayConfig := vnpay.NewConfig(v.TmnCode, v.HashSecret, v.BaseURL, v.ReturnURL)
	if v.Locale != "" {
		vnpayConfig.Locale = v.Locale
	}
	if err := vnpayConfig.Validate(); err != nil {
		return fmt.Errorf("invalid VNPay config: %w", err)
	}

	c.VNPay = vnpay.NewClient(vnpayConfig)
	return nil
}

// ========================================
// DOMAIN LAYERS
// ========================================

func (c *Container) initRepositories() {
	c.OrderRepo = orderRepo.NewPostgresOrderRepository(c.DB.Pool)
}

func (c *Container) initServices() {
	c.OrderService = orderService.NewOrderService(c.OrderRepo)

	if c.VNPay != nil {
		c.PaymentService = paymentService.NewPaymentService(
			c.VNPay,
			c.OrderRepo,    // OrderStore: load + conditional transitions
			c.OrderService, // OrderCombiner: bulk checkout
			c.Cache,
			paymentService.Config{
				StoreTimeout: c.Config.Payment.StoreTimeout,
				ReplayTTL:    c.Config.Payment.ReplayTTL,
			},
		)
	}
}

func (c *Container) initHandlers() {
	c.OrderHandler = orderHandler.NewOrderHandler(c.OrderService)

	if c.PaymentService != nil {
		c.PaymentHandler = paymentHandler.NewPaymentHandler(c.PaymentService)
	}
}

// ========================================
// CLEANUP
// ========================================

// Cleanup releases infrastructure resources. Safe on a partially built container.
func (c *Container) Cleanup() {
	if c.stopMonitor != nil {
		c.stopMonitor()
	}

	if c.DB != nil {
		_ = c.DB.Close()
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			logger.Warn("Failed to close Redis", map[string]interface{}{"error": err.Error()})
		}
	}

	logger.Info("Container cleanup completed", nil)
}
