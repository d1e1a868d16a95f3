package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"legofactory/internal/model"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubAuditRepo captures created events; failNext forces one write failure.
type stubAuditRepo struct {
	events   []model.AuditEvent
	failNext bool
}

func (r *stubAuditRepo) Create(_ context.Context, e *model.AuditEvent) error {
	if r.failNext {
		r.failNext = false
		return errors.New("db write failed")
	}
	r.events = append(r.events, *e)
	return nil
}

func (r *stubAuditRepo) ListByOrder(_ context.Context, orderType string, orderID uuid.UUID) ([]model.AuditEvent, error) {
	var out []model.AuditEvent
	for _, e := range r.events {
		if e.OrderType == orderType && e.OrderID == orderID {
			out = append(out, e)
		}
	}
	return out, nil
}

// deadRedis returns a client pointing nowhere — DLQ pushes fail and are
// logged, which is all these unit tests need.
func deadRedis() *redis.Client {
	return redis.NewClient(&redis.Options{Addr: "localhost:1"})
}

func TestAuditWorker_PersistsEvent(t *testing.T) {
	repo := &stubAuditRepo{}
	w := NewAuditWorker(repo)
	orderID := uuid.New()

	payload, err := json.Marshal(AuditJobPayload{
		OrderType: "ORDER",
		OrderID:   orderID.String(),
		EventTag:  "DIRECT_FULFILLMENT",
		Message:   "order ORD-X fulfilled from location 7",
	})
	require.NoError(t, err)

	w.Process(context.Background(), deadRedis(), payload)

	require.Len(t, repo.events, 1)
	assert.Equal(t, "ORDER", repo.events[0].OrderType)
	assert.Equal(t, orderID, repo.events[0].OrderID)
	assert.Equal(t, "DIRECT_FULFILLMENT", repo.events[0].EventTag)
}

func TestAuditWorker_RejectsBadOrderID(t *testing.T) {
	repo := &stubAuditRepo{}
	w := NewAuditWorker(repo)

	payload, _ := json.Marshal(AuditJobPayload{
		OrderType: "ORDER",
		OrderID:   "not-a-uuid",
		EventTag:  "DIRECT_FULFILLMENT",
	})
	w.Process(context.Background(), deadRedis(), payload)

	assert.Empty(t, repo.events)
}

func TestAuditWorker_RejectsMalformedPayload(t *testing.T) {
	repo := &stubAuditRepo{}
	w := NewAuditWorker(repo)

	w.Process(context.Background(), deadRedis(), json.RawMessage(`{"order_id":`))

	assert.Empty(t, repo.events)
}

func TestAuditWorker_WriteFailureDropsNothingSilently(t *testing.T) {
	repo := &stubAuditRepo{failNext: true}
	w := NewAuditWorker(repo)

	payload, _ := json.Marshal(AuditJobPayload{
		OrderType: "WAREHOUSE_ORDER",
		OrderID:   uuid.NewString(),
		EventTag:  "CREATED",
	})
	w.Process(context.Background(), deadRedis(), payload)

	// First write failed and went to the DLQ path; the repo holds nothing.
	assert.Empty(t, repo.events)
}
