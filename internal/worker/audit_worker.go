package worker

// audit_worker.go
// Persists audit events enqueued by the fulfillment core. The core never
// waits on this path — a failed write lands in the DLQ for inspection
// instead of being silently dropped.

import (
	"context"
	"encoding/json"

	"legofactory/internal/model"
	"legofactory/internal/repository"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

// AuditWorker processes audit jobs from QueueAudit.
type AuditWorker struct {
	repo repository.AuditEventRepository
}

func NewAuditWorker(repo repository.AuditEventRepository) *AuditWorker {
	return &AuditWorker{repo: repo}
}

// Process writes one audit event row. Malformed payloads and write failures
// go to the DLQ.
func (w *AuditWorker) Process(ctx context.Context, rdb *redis.Client, raw json.RawMessage) {
	var payload AuditJobPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		log.Error().Err(err).Msg("audit_worker: invalid payload")
		SendToDLQ(ctx, rdb, QueueAudit, "audit", raw, "invalid payload: "+err.Error(), 1)
		return
	}

	orderID, err := uuid.Parse(payload.OrderID)
	if err != nil {
		log.Error().Err(err).Str("order_id", payload.OrderID).Msg("audit_worker: invalid order id")
		SendToDLQ(ctx, rdb, QueueAudit, "audit", raw, "invalid order id", 1)
		return
	}

	event := &model.AuditEvent{
		OrderType: payload.OrderType,
		OrderID:   orderID,
		EventTag:  payload.EventTag,
		Message:   payload.Message,
	}
	if err := w.repo.Create(ctx, event); err != nil {
		log.Error().Err(err).
			Str("order_id", payload.OrderID).
			Str("event", payload.EventTag).
			Msg("audit_worker: failed to persist event")
		SendToDLQ(ctx, rdb, QueueAudit, "audit", raw, "persist failed: "+err.Error(), 1)
		return
	}

	log.Debug().
		Str("order_id", payload.OrderID).
		Str("event", payload.EventTag).
		Msg("audit_worker: event recorded")
}
