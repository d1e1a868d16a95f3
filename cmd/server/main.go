package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"legofactory/internal/config"
	"legofactory/internal/infra"
	"legofactory/internal/repository"
	"legofactory/internal/router"
	"legofactory/internal/service"
	"legofactory/internal/worker"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Structured logger — dev: pretty, prod: JSON
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	rdb, err := infra.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}

	// Shared circuit breaker in front of the masterdata service
	masterdataCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())

	// Background workers are wired here (composition root) so the pool and
	// cron have full access to all infrastructure dependencies.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	auditRepo := repository.NewAuditEventRepository(db)
	workerHandlers := &worker.WorkerHandlers{
		Audit: worker.NewAuditWorker(auditRepo),
	}
	worker.StartWorkerPool(ctx, rdb, workerHandlers, cfg.WorkerPoolSize)

	// Periodic refresh of cached scenario classifications on confirmed orders
	orderRepo := repository.NewOrderRepository(db)
	warehouseOrderRepo := repository.NewWarehouseOrderRepository(db)
	stockSvc := service.NewStockService(repository.NewStockRepository(db))
	masterdata := infra.NewMasterdataClient(cfg.MasterdataURL, masterdataCB)
	bomSvc := service.NewBomService(masterdata, masterdata)
	dispatcher := worker.NewDispatcher(rdb)
	fulfillmentSvc := service.NewFulfillmentService(
		orderRepo, warehouseOrderRepo, stockSvc, bomSvc, dispatcher,
		int64(cfg.ModulesWarehouseID), cfg.MinutesPerModule)
	worker.StartScenarioCron(ctx, worker.ScenarioCronConfig{
		Orders:      orderRepo,
		Fulfillment: fulfillmentSvc,
	})

	r := router.New(cfg, db, rdb, masterdataCB)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown on SIGINT / SIGTERM
	go func() {
		log.Info().Msgf("legofactory backend listening on :%d", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server…")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("forced shutdown")
	}
	log.Info().Msg("server exited")
}
