package service

import (
	"context"
	"testing"

	"legofactory/internal/dto"
	"legofactory/internal/model"
	"legofactory/internal/repository"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// stubStockRepo is an in-memory StockRepository. conflictsLeft makes the next
// N DeductVersioned calls report an optimistic-lock conflict.
type stubStockRepo struct {
	levels        map[string]*model.StockLevel
	movements     []model.StockMovement
	conflictsLeft int
}

func newStubStockRepo() *stubStockRepo {
	return &stubStockRepo{levels: make(map[string]*model.StockLevel)}
}

func (r *stubStockRepo) seed(locationID int64, itemType model.ItemType, itemID int64, qty int) *model.StockLevel {
	level := &model.StockLevel{
		ID:         uuid.New(),
		LocationID: locationID,
		ItemType:   itemType,
		ItemID:     itemID,
		Quantity:   qty,
	}
	r.levels[stockKey(locationID, itemType, itemID)] = level
	return level
}

func (r *stubStockRepo) Find(_ context.Context, locationID int64, itemType model.ItemType, itemID int64) (*model.StockLevel, error) {
	level, ok := r.levels[stockKey(locationID, itemType, itemID)]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	copied := *level
	return &copied, nil
}

func (r *stubStockRepo) ListByLocation(_ context.Context, locationID int64, itemType string) ([]model.StockLevel, error) {
	var out []model.StockLevel
	for _, l := range r.levels {
		if l.LocationID != locationID {
			continue
		}
		if itemType != "" && string(l.ItemType) != itemType {
			continue
		}
		out = append(out, *l)
	}
	return out, nil
}

func (r *stubStockRepo) Create(_ context.Context, level *model.StockLevel) error {
	if level.ID == uuid.Nil {
		level.ID = uuid.New()
	}
	stored := *level
	r.levels[stockKey(level.LocationID, level.ItemType, level.ItemID)] = &stored
	return nil
}

func (r *stubStockRepo) DeductVersioned(_ context.Context, _ *gorm.DB, level *model.StockLevel, qty int) (bool, error) {
	if r.conflictsLeft > 0 {
		r.conflictsLeft--
		// Simulate the concurrent writer: bump the stored version.
		stored := r.levels[stockKey(level.LocationID, level.ItemType, level.ItemID)]
		stored.Version++
		return false, nil
	}
	stored := r.levels[stockKey(level.LocationID, level.ItemType, level.ItemID)]
	if stored == nil || stored.Version != level.Version || stored.Quantity < qty {
		return false, nil
	}
	stored.Quantity -= qty
	stored.Version++
	return true, nil
}

func (r *stubStockRepo) Adjust(_ context.Context, locationID int64, itemType model.ItemType, itemID int64, delta int) (bool, error) {
	stored := r.levels[stockKey(locationID, itemType, itemID)]
	if stored == nil || stored.Quantity+delta < 0 {
		return false, nil
	}
	stored.Quantity += delta
	stored.Version++
	return true, nil
}

func (r *stubStockRepo) CreateMovement(_ context.Context, m *model.StockMovement) error {
	r.movements = append(r.movements, *m)
	return nil
}

func (r *stubStockRepo) ListMovements(_ context.Context, _ dto.StockMovementFilter) ([]model.StockMovement, int64, error) {
	return r.movements, int64(len(r.movements)), nil
}

func (r *stubStockRepo) DB() *gorm.DB { return nil }

var _ repository.StockRepository = (*stubStockRepo)(nil)

// ── Tests ─────────────────────────────────────────────────────────────────────

func TestAvailable_MissingRowMeansZero(t *testing.T) {
	svc := NewStockService(newStubStockRepo())

	ok, err := svc.Available(context.Background(), 7, model.ItemTypeModule, 10, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestAvailable_ExactQuantity(t *testing.T) {
	repo := newStubStockRepo()
	repo.seed(7, model.ItemTypeModule, 10, 3)
	svc := NewStockService(repo)

	ok, err := svc.Available(context.Background(), 7, model.ItemTypeModule, 10, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = svc.Available(context.Background(), 7, model.ItemTypeModule, 10, 4)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestDeduct_RecordsMovement(t *testing.T) {
	repo := newStubStockRepo()
	repo.seed(7, model.ItemTypeModule, 10, 5)
	svc := NewStockService(repo)
	orderRef := uuid.New()

	err := svc.Deduct(context.Background(), 7, model.ItemTypeModule, 10, 2, "fulfillment", &orderRef)
	require.NoError(t, err)

	assert.Equal(t, 3, repo.levels[stockKey(7, model.ItemTypeModule, 10)].Quantity)
	require.Len(t, repo.movements, 1)
	m := repo.movements[0]
	assert.Equal(t, "fulfillment", m.Type)
	assert.Equal(t, -2, m.Delta)
	assert.Equal(t, 5, m.QtyBefore)
	assert.Equal(t, 3, m.QtyAfter)
	require.NotNil(t, m.OrderRef)
	assert.Equal(t, orderRef, *m.OrderRef)
}

func TestDeduct_Insufficient(t *testing.T) {
	repo := newStubStockRepo()
	repo.seed(7, model.ItemTypeModule, 10, 1)
	svc := NewStockService(repo)

	err := svc.Deduct(context.Background(), 7, model.ItemTypeModule, 10, 2, "fulfillment", nil)
	require.Error(t, err)
	assert.True(t, IsInsufficientStock(err))

	var stockErr *InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 2, stockErr.Requested)
	assert.Equal(t, 1, stockErr.Available)
	assert.Equal(t, 1, repo.levels[stockKey(7, model.ItemTypeModule, 10)].Quantity)
}

func TestDeduct_MissingRowIsInsufficient(t *testing.T) {
	svc := NewStockService(newStubStockRepo())

	err := svc.Deduct(context.Background(), 7, model.ItemTypeModule, 10, 1, "fulfillment", nil)
	assert.True(t, IsInsufficientStock(err))
}

func TestDeduct_RetriesVersionConflict(t *testing.T) {
	repo := newStubStockRepo()
	repo.seed(7, model.ItemTypeModule, 10, 5)
	repo.conflictsLeft = 2 // first two attempts lose the race
	svc := NewStockService(repo)

	err := svc.Deduct(context.Background(), 7, model.ItemTypeModule, 10, 2, "fulfillment", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, repo.levels[stockKey(7, model.ItemTypeModule, 10)].Quantity)
}

func TestDeduct_GivesUpAfterMaxConflicts(t *testing.T) {
	repo := newStubStockRepo()
	repo.seed(7, model.ItemTypeModule, 10, 5)
	repo.conflictsLeft = maxDeductAttempts
	svc := NewStockService(repo)

	err := svc.Deduct(context.Background(), 7, model.ItemTypeModule, 10, 2, "fulfillment", nil)
	assert.ErrorContains(t, err, "optimistic-lock")
	assert.Equal(t, 5, repo.levels[stockKey(7, model.ItemTypeModule, 10)].Quantity)
}

func TestAdjustStock_CreatesRowOnFirstPositiveDelta(t *testing.T) {
	repo := newStubStockRepo()
	svc := NewStockService(repo)

	err := svc.AdjustStock(context.Background(), dto.AdjustStockRequest{
		LocationID: 7, ItemType: "MODULE", ItemID: 10, Delta: 4, Reason: "initial count",
	})
	require.NoError(t, err)

	assert.Equal(t, 4, repo.levels[stockKey(7, model.ItemTypeModule, 10)].Quantity)
	require.Len(t, repo.movements, 1)
	assert.Equal(t, "adjustment", repo.movements[0].Type)
	assert.Equal(t, 0, repo.movements[0].QtyBefore)
	assert.Equal(t, 4, repo.movements[0].QtyAfter)
}

func TestAdjustStock_NegativeOnMissingRow(t *testing.T) {
	svc := NewStockService(newStubStockRepo())

	err := svc.AdjustStock(context.Background(), dto.AdjustStockRequest{
		LocationID: 7, ItemType: "MODULE", ItemID: 10, Delta: -1, Reason: "shrinkage",
	})
	assert.True(t, IsInsufficientStock(err))
}

func TestAdjustStock_GuardsNegativeQuantity(t *testing.T) {
	repo := newStubStockRepo()
	repo.seed(7, model.ItemTypeModule, 10, 2)
	svc := NewStockService(repo)

	err := svc.AdjustStock(context.Background(), dto.AdjustStockRequest{
		LocationID: 7, ItemType: "MODULE", ItemID: 10, Delta: -3, Reason: "shrinkage",
	})
	assert.True(t, IsInsufficientStock(err))
	assert.Equal(t, 2, repo.levels[stockKey(7, model.ItemTypeModule, 10)].Quantity)
}
