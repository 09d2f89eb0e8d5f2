package handler

import (
	"github.com/gin-gonic/gin"

	inventoryapp "github.com/pos/backend/internal/application/inventory"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/interfaces/http/dto"
)

// InventoryHandler handles stock query endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

var validSourceTypes = map[inventory.SourceType]bool{
	inventory.SourceTypeInvoice:            true,
	inventory.SourceTypeReceipt:            true,
	inventory.SourceTypeShipment:           true,
	inventory.SourceTypePurchaseReturn:     true,
	inventory.SourceTypeEntryAdjustment:    true,
	inventory.SourceTypeWithdrawAdjustment: true,
}

// GetStock returns a product's stock position with its lot breakdown
func (h *InventoryHandler) GetStock(c *gin.Context) {
	productID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	stock, err := h.inventoryService.GetStock(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stock)
}

// GetAvailable returns a product's unreserved stock count
func (h *InventoryHandler) GetAvailable(c *gin.Context) {
	productID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	available, err := h.inventoryService.GetAvailable(c.Request.Context(), productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, gin.H{"available": available})
}

// ListExpired returns lots past their expiration date that still hold stock
func (h *InventoryHandler) ListExpired(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	lots, err := h.inventoryService.ListExpired(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, lots)
}

// History returns a product's stock movement journal
func (h *InventoryHandler) History(c *gin.Context) {
	productID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	history, err := h.inventoryService.History(c.Request.Context(), productID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, history)
}

// LotHistory returns a single lot's movement journal
func (h *InventoryHandler) LotHistory(c *gin.Context) {
	lotID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid lot ID")
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	history, err := h.inventoryService.LotHistory(c.Request.Context(), lotID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, history)
}

// TraceSource returns all stock movements caused by one document
func (h *InventoryHandler) TraceSource(c *gin.Context) {
	sourceType := inventory.SourceType(c.Param("type"))
	if !validSourceTypes[sourceType] {
		h.BadRequest(c, "Invalid source type")
		return
	}

	sourceID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid source ID")
		return
	}

	movements, err := h.inventoryService.TraceSource(c.Request.Context(), sourceType, sourceID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, movements)
}
