package service

import (
	"context"
	"errors"
	"testing"

	"legofactory/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildBomSvc(boms map[int64]map[int64]int, names map[string]string) BomService {
	return NewBomService(&stubBomSource{boms: boms}, &stubNameLookup{names: names})
}

func TestConvert_ScalesLinearly(t *testing.T) {
	// Product 1 needs 2×A (module 20) and 1×B (module 21) per unit.
	svc := buildBomSvc(map[int64]map[int64]int{
		1: {20: 2, 21: 1},
	}, map[string]string{
		"PRODUCT-1": "Castle Set",
		"MODULE-20": "Tower Module",
		"MODULE-21": "Gate Module",
	})

	result, err := svc.Convert(context.Background(), []model.OrderLine{
		{ItemType: model.ItemTypeProduct, ItemID: 1, RequestedQty: 3},
	})
	require.NoError(t, err)

	// 3 units → 6×A + 3×B, emitted in module-id order.
	require.Len(t, result.Items, 2)
	assert.Equal(t, int64(20), result.Items[0].ItemID)
	assert.Equal(t, 6, result.Items[0].Quantity)
	assert.Equal(t, "Tower Module", result.Items[0].ItemName)
	assert.Equal(t, int64(21), result.Items[1].ItemID)
	assert.Equal(t, 3, result.Items[1].Quantity)
	assert.Equal(t, 9, result.TotalModules)

	require.NotNil(t, result.Items[0].SourceProduct)
	assert.Equal(t, "Castle Set", *result.Items[0].SourceProduct)
	require.NotNil(t, result.Items[0].SourceProductID)
	assert.Equal(t, int64(1), *result.Items[0].SourceProductID)
}

func TestConvert_PassesThroughNonProductLines(t *testing.T) {
	svc := buildBomSvc(nil, map[string]string{"MODULE-10": "Roof Module"})

	result, err := svc.Convert(context.Background(), []model.OrderLine{
		{ItemType: model.ItemTypeModule, ItemID: 10, RequestedQty: 4},
		{ItemType: model.ItemTypePart, ItemID: 100, RequestedQty: 7},
	})
	require.NoError(t, err)

	require.Len(t, result.Items, 2)
	assert.Equal(t, model.ItemTypeModule, result.Items[0].ItemType)
	assert.Equal(t, 4, result.Items[0].Quantity)
	assert.Nil(t, result.Items[0].SourceProductID)
	assert.Equal(t, model.ItemTypePart, result.Items[1].ItemType)
	assert.Equal(t, 11, result.TotalModules)
}

func TestConvert_NameLookupFallback(t *testing.T) {
	svc := buildBomSvc(map[int64]map[int64]int{
		1: {10: 1},
	}, nil) // every lookup fails

	result, err := svc.Convert(context.Background(), []model.OrderLine{
		{ItemType: model.ItemTypeProduct, ItemID: 1, RequestedQty: 1},
	})
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	assert.Equal(t, "MODULE-10", result.Items[0].ItemName)
	assert.Equal(t, "PRODUCT-1", *result.Items[0].SourceProduct)
}

func TestConvert_SkipsMalformedEntries(t *testing.T) {
	svc := buildBomSvc(map[int64]map[int64]int{
		1: {0: 5, 10: 0, 11: 2}, // zero module id, zero quantity, one valid
	}, nil)

	result, err := svc.Convert(context.Background(), []model.OrderLine{
		{ItemType: model.ItemTypeProduct, ItemID: 1, RequestedQty: 1},
	})
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	assert.Equal(t, int64(11), result.Items[0].ItemID)
	assert.Equal(t, 2, result.TotalModules)
}

func TestConvert_EmptyBomIsError(t *testing.T) {
	svc := buildBomSvc(map[int64]map[int64]int{}, nil)

	_, err := svc.Convert(context.Background(), []model.OrderLine{
		{ItemType: model.ItemTypeProduct, ItemID: 42, RequestedQty: 1},
	})
	var bomErr *BomConversionError
	require.True(t, errors.As(err, &bomErr))
	assert.Equal(t, int64(42), bomErr.ProductID)
	assert.Contains(t, err.Error(), "no modules defined")
}

func TestConvert_SourceFailureIsError(t *testing.T) {
	svc := NewBomService(
		&stubBomSource{err: errors.New("masterdata unreachable")},
		&stubNameLookup{},
	)

	_, err := svc.Convert(context.Background(), []model.OrderLine{
		{ItemType: model.ItemTypeProduct, ItemID: 1, RequestedQty: 1},
	})
	var bomErr *BomConversionError
	require.True(t, errors.As(err, &bomErr))
	assert.ErrorContains(t, err, "masterdata unreachable")
}

func TestTotalModuleCount_SwallowsLookupFailures(t *testing.T) {
	svc := NewBomService(
		&stubBomSource{err: errors.New("masterdata unreachable")},
		&stubNameLookup{},
	)

	// PRODUCT line fails and is skipped; MODULE line counts as-is.
	total := svc.TotalModuleCount(context.Background(), []model.OrderLine{
		{ItemType: model.ItemTypeProduct, ItemID: 1, RequestedQty: 2},
		{ItemType: model.ItemTypeModule, ItemID: 10, RequestedQty: 5},
	})
	assert.Equal(t, 5, total)
}
