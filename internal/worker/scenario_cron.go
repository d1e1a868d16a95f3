package worker

// scenario_cron.go
// Background goroutine that periodically re-classifies CONFIRMED orders so
// their cached scenario tag tracks stock changes that happened outside a
// direct-fulfillment pass (manual adjustments, warehouse deliveries).

import (
	"context"
	"time"

	"legofactory/internal/model"
	"legofactory/internal/repository"
	"legofactory/internal/service"

	"github.com/rs/zerolog/log"
)

const scenarioTickInterval = 60 * time.Second

// ScenarioCronConfig holds the dependencies of the refresh goroutine.
type ScenarioCronConfig struct {
	Orders      repository.OrderRepository
	Fulfillment service.FulfillmentService
}

// StartScenarioCron launches a goroutine that ticks every minute and
// refreshes stale cached scenarios. It respects the context for graceful
// shutdown.
func StartScenarioCron(ctx context.Context, cfg ScenarioCronConfig) {
	go func() {
		ticker := time.NewTicker(scenarioTickInterval)
		defer ticker.Stop()

		log.Info().Msg("scenario_cron: started")

		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("scenario_cron: shutting down")
				return
			case <-ticker.C:
				refreshScenarios(ctx, cfg)
			}
		}
	}()
}

func refreshScenarios(ctx context.Context, cfg ScenarioCronConfig) {
	orders, err := cfg.Orders.ListByStatus(ctx, model.StatusConfirmed)
	if err != nil {
		log.Error().Err(err).Msg("scenario_cron: failed to list confirmed orders")
		return
	}
	if len(orders) == 0 {
		return
	}

	refreshed := 0
	for i := range orders {
		if err := cfg.Fulfillment.RefreshCachedScenario(ctx, &orders[i]); err != nil {
			log.Warn().Err(err).
				Str("order", orders[i].OrderNumber).
				Msg("scenario_cron: refresh failed")
			continue
		}
		refreshed++
	}
	log.Debug().Int("orders", len(orders)).Int("refreshed", refreshed).
		Msg("scenario_cron: tick done")
}
