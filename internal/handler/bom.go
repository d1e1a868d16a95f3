package handler

import (
	"net/http"

	"legofactory/internal/dto"
	"legofactory/internal/model"
	"legofactory/internal/service"

	"github.com/gin-gonic/gin"
)

type BomHandler struct {
	svc service.BomService
}

func NewBomHandler(svc service.BomService) *BomHandler {
	return &BomHandler{svc: svc}
}

// Convert previews a BOM conversion: product-level demand in, module-level
// demand out. Touches no order and deducts no stock.
func (h *BomHandler) Convert(c *gin.Context) {
	var req dto.BomConvertRequest
	if !bindAndValidate(c, &req) {
		return
	}

	lines := make([]model.OrderLine, 0, len(req.Lines))
	for _, l := range req.Lines {
		itemType, err := model.ParseItemType(l.ItemType)
		if err != nil {
			respondError(c, err)
			return
		}
		lines = append(lines, model.OrderLine{
			ItemType:     itemType,
			ItemID:       l.ItemID,
			RequestedQty: l.Quantity,
		})
	}

	result, err := h.svc.Convert(c.Request.Context(), lines)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]dto.BomItemResponse, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, dto.BomItemResponse{
			ItemType:        string(item.ItemType),
			ItemID:          item.ItemID,
			ItemName:        item.ItemName,
			Quantity:        item.Quantity,
			SourceProductID: item.SourceProductID,
			SourceProduct:   item.SourceProduct,
		})
	}
	c.JSON(http.StatusOK, dto.BomConvertResponse{
		Items:        items,
		TotalModules: result.TotalModules,
	})
}
