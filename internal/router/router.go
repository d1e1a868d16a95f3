package router

import (
	"time"

	"legofactory/internal/config"
	"legofactory/internal/handler"
	"legofactory/internal/infra"
	"legofactory/internal/middleware"
	"legofactory/internal/repository"
	"legofactory/internal/service"
	"legofactory/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, masterdataCB *infra.CircuitBreaker) *gin.Engine {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.Metrics())
	r.Use(middleware.RateLimiter(cfg.RateLimitPerMinute, time.Minute))

	// ── Infrastructure ───────────────────────────────────────────────────────
	masterdata := infra.NewMasterdataClient(cfg.MasterdataURL, masterdataCB)

	// ── Repositories ─────────────────────────────────────────────────────────
	orderRepo := repository.NewOrderRepository(db)
	warehouseOrderRepo := repository.NewWarehouseOrderRepository(db)
	stockRepo := repository.NewStockRepository(db)
	auditRepo := repository.NewAuditEventRepository(db)

	// Worker dispatcher — audit events are enqueued, persisted async
	dispatcher := worker.NewDispatcher(rdb)

	// ── Services ─────────────────────────────────────────────────────────────
	stockSvc := service.NewStockService(stockRepo)
	bomSvc := service.NewBomService(masterdata, masterdata)
	fulfillmentSvc := service.NewFulfillmentService(
		orderRepo, warehouseOrderRepo, stockSvc, bomSvc, dispatcher,
		int64(cfg.ModulesWarehouseID), cfg.MinutesPerModule)
	orderSvc := service.NewOrderService(orderRepo, auditRepo, fulfillmentSvc)
	warehouseOrderSvc := service.NewWarehouseOrderService(warehouseOrderRepo, dispatcher)

	// ── Handlers ─────────────────────────────────────────────────────────────
	ordersH := handler.NewOrdersHandler(orderSvc, fulfillmentSvc)
	warehouseOrdersH := handler.NewWarehouseOrdersHandler(warehouseOrderSvc)
	stockH := handler.NewStockHandler(stockSvc)
	bomH := handler.NewBomHandler(bomSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	r.GET("/health", handler.Health(db, rdb, masterdataCB))
	r.GET("/metrics", gin.WrapH(infra.MetricsHandler()))

	v1 := r.Group("/v1")
	{
		orders := v1.Group("/orders")
		{
			orders.POST("", ordersH.CreateOrder)
			orders.GET("", ordersH.ListOrders)
			orders.GET("/:id", ordersH.GetOrder)
			orders.GET("/:id/events", ordersH.ListEvents)
			orders.POST("/:id/confirm", ordersH.ConfirmOrder)
			orders.POST("/:id/fulfill", ordersH.Fulfill)
			orders.POST("/:id/fulfill/production", ordersH.FulfillProduction)
			orders.GET("/:id/capacity-estimate", ordersH.CapacityEstimate)
		}

		wos := v1.Group("/warehouse-orders")
		{
			wos.GET("", warehouseOrdersH.ListWarehouseOrders)
			wos.GET("/:id", warehouseOrdersH.GetWarehouseOrder)
			wos.PATCH("/:id/status", warehouseOrdersH.UpdateStatus)
		}

		stock := v1.Group("/stock")
		{
			stock.GET("", stockH.ListLevels)
			stock.POST("/adjust", stockH.AdjustStock)
			stock.GET("/movements", stockH.ListMovements)
		}

		v1.POST("/bom/convert", bomH.Convert)
	}

	return r
}
