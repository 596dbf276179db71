package main

import (
	"context"
	"log"
	"time"

	"agromarket/internal/core/cache"
	"agromarket/internal/core/config"
	"agromarket/internal/core/database"
	"agromarket/internal/core/logger"
	"agromarket/internal/core/metrics"
	"agromarket/internal/core/server"
	analyticsadapter "agromarket/internal/features/analytics/adapters"
	analyticshandler "agromarket/internal/features/analytics/handler"
	analyticsservice "agromarket/internal/features/analytics/service"
	orderadapter "agromarket/internal/features/orders/adapters"
	orderhandler "agromarket/internal/features/orders/handler"
	orderservice "agromarket/internal/features/orders/service"
	paymenthandler "agromarket/internal/features/payments/handler"
	paymentservice "agromarket/internal/features/payments/service"
	"agromarket/internal/platform/events"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// @title AgroMarket Order API
// @version 1.0
// @description Order lifecycle, payment reconciliation and revenue analytics for the AgroMarket marketplace.
// @contact.name API Support
// @contact.email support@agromarket.dev
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	m := metrics.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := database.Connect(ctx, cfg.Mongo)
	if err != nil {
		l.Fatal("MongoDB connection failed", zap.Error(err))
	}
	defer func() {
		closeCtx, closeCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer closeCancel()
		if err := db.Close(closeCtx); err != nil {
			l.Warn("MongoDB close failed", zap.Error(err))
		}
	}()
	l.Info("MongoDB connection verified", zap.String("database", cfg.Mongo.Database))

	redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Redis connection failed", zap.Error(err))
	}
	defer redisCache.Close()
	if err := redisCache.Ping(ctx); err != nil {
		l.Fatal("Redis ping failed", zap.Error(err))
	}
	l.Info("Redis connection verified")

	publisher := events.NewKafkaPublisher(cfg.Kafka)
	defer publisher.Close()
	if publisher.Enabled() {
		l.Info("Kafka publisher enabled", zap.String("topic", cfg.Kafka.OrdersTopic))
	} else {
		l.Warn("Kafka publisher disabled, order events will be dropped")
	}

	// Orders
	orderRepo := orderadapter.NewMongoOrderRepository(db.Orders())
	stockReserver := orderadapter.NewMongoStockReserver(db.Products())
	orderSvc := orderservice.NewOrderService(orderRepo, stockReserver, publisher, m, cfg.Payment.UnpaidTTL())
	orderHdl := orderhandler.NewOrderHandler(orderSvc)

	// Payments
	reconciler := paymentservice.NewReconciler(cfg.Payment, orderSvc, m)
	webhookHdl := paymenthandler.NewWebhookHandler(reconciler)

	// Analytics
	reader := analyticsadapter.NewCachedReader(
		analyticsadapter.NewMongoReader(db.Orders(), db.Products()),
		redisCache,
		cfg.Redis.AnalyticsTTL(),
	)
	analyticsSvc := analyticsservice.NewAnalyticsService(reader)
	analyticsHdl := analyticshandler.NewAnalyticsHandler(analyticsSvc)

	sweeper := orderservice.NewUnpaidSweeper(orderRepo, publisher, m, cfg.Payment.SweepInterval())
	go sweeper.Run(ctx)

	srv := server.New(cfg, m)

	// Analytics routes come before /orders/:id so the static paths match
	// first.
	srv.App.Get("/orders/supplier/:id/revenue", analyticsHdl.SupplierRevenue)
	srv.App.Get("/orders/supplier/:id/daily-revenue", analyticsHdl.DailyRevenue)
	srv.App.Get("/orders/supplier/:id/top-products", analyticsHdl.SupplierTopProducts)
	srv.App.Get("/orders/supplier/:id/order-status", analyticsHdl.SupplierOrderStatus)
	srv.App.Get("/orders/revenue-summary", analyticsHdl.RevenueSummary)
	srv.App.Get("/orders/supplier-revenue", analyticsHdl.SupplierRevenueBreakdown)
	srv.App.Get("/orders/order-summary", analyticsHdl.OrderSummary)
	srv.App.Get("/orders/product-count", analyticsHdl.ProductCount)
	srv.App.Get("/orders/stock-by-category", analyticsHdl.StockByCategory)
	srv.App.Get("/orders/order-status-summary", analyticsHdl.OrderStatusSummary)
	srv.App.Get("/orders/top-products", analyticsHdl.TopProducts)
	srv.App.Get("/orders/best-selling", analyticsHdl.BestSelling)

	srv.App.Post("/orders", orderHdl.Create)
	srv.App.Get("/orders", orderHdl.ListAll)
	srv.App.Get("/orders/customer/:id", orderHdl.ListByCustomer)
	srv.App.Get("/orders/supplier/:id", orderHdl.ListBySupplier)
	srv.App.Get("/orders/:id", orderHdl.GetByID)
	srv.App.Patch("/orders/:id/status", orderHdl.UpdateStatus)
	srv.App.Patch("/orders/:id/shipping-status", orderHdl.UpdateShippingStatus)
	srv.App.Patch("/orders/:id/cancel", orderHdl.Cancel)
	srv.App.Patch("/orders/:id/items/:productId/reviewed", orderHdl.MarkItemReviewed)
	srv.App.Patch("/orders/:id", orderHdl.Patch)

	srv.App.Post("/api/paymentapi/payment", webhookHdl.Notify)

	srv.App.Get("/healthz", func(c *fiber.Ctx) error {
		if err := db.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down", "mongo": err.Error()})
		}
		if err := redisCache.Ping(c.Context()); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "down", "redis": err.Error()})
		}
		return c.JSON(fiber.Map{"status": "ok"})
	})

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
