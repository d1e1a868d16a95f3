package service

import (
	"context"
	"errors"
	"fmt"

	"legofactory/internal/dto"
	"legofactory/internal/model"
	"legofactory/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"
)

// maxDeductAttempts bounds the optimistic-lock retry loop. Three attempts is
// enough to ride out transient version conflicts without masking contention.
const maxDeductAttempts = 3

// StockKeeper is the availability/deduction contract consumed by the
// fulfillment orchestration. Deduct either fully succeeds or returns an
// error — there is no partial deduction within one call.
type StockKeeper interface {
	Available(ctx context.Context, locationID int64, itemType model.ItemType, itemID int64, qty int) (bool, error)
	Deduct(ctx context.Context, locationID int64, itemType model.ItemType, itemID int64, qty int, movementType string, orderRef *uuid.UUID) error
}

// StockService is the full stock contract: the StockKeeper used by
// fulfillment plus the query/adjustment surface exposed over HTTP.
type StockService interface {
	StockKeeper
	ListLevels(ctx context.Context, filter dto.StockFilter) ([]dto.StockLevelResponse, error)
	AdjustStock(ctx context.Context, req dto.AdjustStockRequest) error
	ListMovements(ctx context.Context, filter dto.StockMovementFilter) (*dto.StockMovementListResponse, error)
}

type stockService struct {
	repo repository.StockRepository
}

func NewStockService(repo repository.StockRepository) StockService {
	return &stockService{repo: repo}
}

// Available reports whether at least qty of the item is on hand at the
// location. A missing stock-level row means zero on hand, not an error.
func (s *stockService) Available(ctx context.Context, locationID int64, itemType model.ItemType, itemID int64, qty int) (bool, error) {
	level, err := s.repo.Find(ctx, locationID, itemType, itemID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("stock lookup: %w", err)
	}
	return level.Quantity >= qty, nil
}

// Deduct subtracts qty from on-hand stock, retrying on optimistic-version
// conflicts up to maxDeductAttempts. On success a movement record is written;
// insufficient quantity surfaces as a typed InsufficientStockError.
func (s *stockService) Deduct(ctx context.Context, locationID int64, itemType model.ItemType, itemID int64, qty int, movementType string, orderRef *uuid.UUID) error {
	for attempt := 1; attempt <= maxDeductAttempts; attempt++ {
		level, err := s.repo.Find(ctx, locationID, itemType, itemID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return &InsufficientStockError{
					LocationID: locationID, ItemType: itemType, ItemID: itemID,
					Requested: qty, Available: 0,
				}
			}
			return fmt.Errorf("stock lookup: %w", err)
		}
		if level.Quantity < qty {
			return &InsufficientStockError{
				LocationID: locationID, ItemType: itemType, ItemID: itemID,
				Requested: qty, Available: level.Quantity,
			}
		}

		ok, err := s.repo.DeductVersioned(ctx, nil, level, qty)
		if err != nil {
			return fmt.Errorf("stock deduct: %w", err)
		}
		if ok {
			s.recordMovement(ctx, level, -qty, movementType, orderRef)
			return nil
		}

		// Version conflict — another writer got there first. Re-read and retry.
		log.Debug().
			Int64("location", locationID).
			Int64("item", itemID).
			Int("attempt", attempt).
			Msg("stock: version conflict on deduct, retrying")
	}
	return fmt.Errorf("stock deduct: gave up after %d optimistic-lock conflicts (location %d, item %d)",
		maxDeductAttempts, locationID, itemID)
}

func (s *stockService) recordMovement(ctx context.Context, level *model.StockLevel, delta int, movementType string, orderRef *uuid.UUID) {
	m := &model.StockMovement{
		LocationID: level.LocationID,
		ItemType:   level.ItemType,
		ItemID:     level.ItemID,
		Type:       movementType,
		Delta:      delta,
		QtyBefore:  level.Quantity,
		QtyAfter:   level.Quantity + delta,
		OrderRef:   orderRef,
	}
	if err := s.repo.CreateMovement(ctx, m); err != nil {
		// Movement trail is best-effort; the deduction itself already committed.
		log.Error().Err(err).Int64("item", level.ItemID).Msg("stock: failed to record movement")
	}
}

func (s *stockService) ListLevels(ctx context.Context, filter dto.StockFilter) ([]dto.StockLevelResponse, error) {
	levels, err := s.repo.ListByLocation(ctx, filter.LocationID, filter.ItemType)
	if err != nil {
		return nil, err
	}
	out := make([]dto.StockLevelResponse, 0, len(levels))
	for _, l := range levels {
		out = append(out, dto.StockLevelResponse{
			LocationID: l.LocationID,
			ItemType:   string(l.ItemType),
			ItemID:     l.ItemID,
			Quantity:   l.Quantity,
		})
	}
	return out, nil
}

func (s *stockService) AdjustStock(ctx context.Context, req dto.AdjustStockRequest) error {
	itemType, err := model.ParseItemType(req.ItemType)
	if err != nil {
		return err
	}

	level, err := s.repo.Find(ctx, req.LocationID, itemType, req.ItemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if req.Delta < 0 {
			return &InsufficientStockError{
				LocationID: req.LocationID, ItemType: itemType, ItemID: req.ItemID,
				Requested: -req.Delta, Available: 0,
			}
		}
		// First sighting of this item at this location — create the row.
		level = &model.StockLevel{
			LocationID: req.LocationID,
			ItemType:   itemType,
			ItemID:     req.ItemID,
			Quantity:   req.Delta,
		}
		if err := s.repo.Create(ctx, level); err != nil {
			return err
		}
		level.Quantity = 0 // movement record shows the transition 0 -> delta
		s.recordAdjustment(ctx, level, req)
		return nil
	}
	if err != nil {
		return err
	}

	ok, err := s.repo.Adjust(ctx, req.LocationID, itemType, req.ItemID, req.Delta)
	if err != nil {
		return err
	}
	if !ok {
		return &InsufficientStockError{
			LocationID: req.LocationID, ItemType: itemType, ItemID: req.ItemID,
			Requested: -req.Delta, Available: level.Quantity,
		}
	}
	s.recordAdjustment(ctx, level, req)
	return nil
}

func (s *stockService) recordAdjustment(ctx context.Context, level *model.StockLevel, req dto.AdjustStockRequest) {
	m := &model.StockMovement{
		LocationID: level.LocationID,
		ItemType:   level.ItemType,
		ItemID:     level.ItemID,
		Type:       "adjustment",
		Delta:      req.Delta,
		QtyBefore:  level.Quantity,
		QtyAfter:   level.Quantity + req.Delta,
		Reason:     req.Reason,
	}
	if err := s.repo.CreateMovement(ctx, m); err != nil {
		log.Error().Err(err).Int64("item", level.ItemID).Msg("stock: failed to record adjustment")
	}
}

func (s *stockService) ListMovements(ctx context.Context, filter dto.StockMovementFilter) (*dto.StockMovementListResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	movements, total, err := s.repo.ListMovements(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.StockMovementResponse, 0, len(movements))
	for _, m := range movements {
		var ref *string
		if m.OrderRef != nil {
			v := m.OrderRef.String()
			ref = &v
		}
		items = append(items, dto.StockMovementResponse{
			ID:         m.ID.String(),
			LocationID: m.LocationID,
			ItemType:   string(m.ItemType),
			ItemID:     m.ItemID,
			Type:       m.Type,
			Delta:      m.Delta,
			QtyBefore:  m.QtyBefore,
			QtyAfter:   m.QtyAfter,
			Reason:     m.Reason,
			OrderRef:   ref,
			CreatedAt:  m.CreatedAt.Format("2006-01-02T15:04:05Z"),
		})
	}
	return &dto.StockMovementListResponse{
		Data:  items,
		Total: total,
		Page:  filter.Page,
		Limit: filter.Limit,
	}, nil
}
