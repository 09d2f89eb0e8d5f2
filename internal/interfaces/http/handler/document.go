package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	documentapp "github.com/pos/backend/internal/application/document"
	"github.com/pos/backend/internal/domain/document"
	"github.com/pos/backend/internal/interfaces/http/dto"
)

// DocumentHandler handles document lifecycle endpoints
type DocumentHandler struct {
	BaseHandler
	documentService *documentapp.DocumentService
}

// NewDocumentHandler creates a new DocumentHandler
func NewDocumentHandler(documentService *documentapp.DocumentService) *DocumentHandler {
	return &DocumentHandler{documentService: documentService}
}

var validDocumentTypes = map[document.DocumentType]bool{
	document.DocumentTypeInvoice:            true,
	document.DocumentTypeReceipt:            true,
	document.DocumentTypeShipment:           true,
	document.DocumentTypePurchaseReturn:     true,
	document.DocumentTypeEntryAdjustment:    true,
	document.DocumentTypeWithdrawAdjustment: true,
}

// CreateDocumentRequest opens a new in-progress document
type CreateDocumentRequest struct {
	Type string `json:"type" binding:"required"`

	// invoice
	Nit          string          `json:"nit"`
	CustomerName string          `json:"customer_name"`
	VATPercent   decimal.Decimal `json:"vat_percent"`

	// receipt
	ShipmentID    *uuid.UUID       `json:"shipment_id"`
	ShipmentTotal *decimal.Decimal `json:"shipment_total"`

	// shipment / purchase return
	BranchID   *uuid.UUID `json:"branch_id"`
	SupplierID *uuid.UUID `json:"supplier_id"`
}

// AddDocumentProductRequest adds product lines to an in-progress document
type AddDocumentProductRequest struct {
	ProductID      uuid.UUID       `json:"product_id" binding:"required"`
	Quantity       int64           `json:"quantity" binding:"required,gt=0"`
	Price          decimal.Decimal `json:"price"`
	ExpirationDate *time.Time      `json:"expiration_date"`
	BonusQuantity  int64           `json:"bonus_quantity" binding:"gte=0"`
}

// CancelRequest reverses a created document with a reason
type CancelRequest struct {
	Reason string `json:"reason" binding:"required,max=200"`
}

// Create opens a new in-progress document
func (h *DocumentHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	docType := document.DocumentType(req.Type)
	if !validDocumentTypes[docType] {
		h.BadRequest(c, "Invalid document type")
		return
	}

	doc, err := h.documentService.Create(c.Request.Context(), documentapp.CreateDocumentRequest{
		Type:          docType,
		CreatedBy:     userID,
		Nit:           req.Nit,
		CustomerName:  req.CustomerName,
		VATPercent:    req.VATPercent,
		ShipmentID:    req.ShipmentID,
		ShipmentTotal: req.ShipmentTotal,
		BranchID:      req.BranchID,
		SupplierID:    req.SupplierID,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, doc)
}

// GetByID returns a document with its lines
func (h *DocumentHandler) GetByID(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	doc, err := h.documentService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}

// List returns a paginated listing of documents of one type
func (h *DocumentHandler) List(c *gin.Context) {
	docType := document.DocumentType(c.Query("type"))
	if !validDocumentTypes[docType] {
		h.BadRequest(c, "Invalid document type")
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	page, err := h.documentService.List(c.Request.Context(), docType, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// AddProduct adds product lines to an in-progress document
func (h *DocumentHandler) AddProduct(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	var req AddDocumentProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	doc, err := h.documentService.AddProduct(c.Request.Context(), documentapp.AddProductRequest{
		DocumentID:     id,
		ProductID:      req.ProductID,
		Quantity:       req.Quantity,
		Price:          req.Price,
		ExpirationDate: req.ExpirationDate,
		BonusQuantity:  req.BonusQuantity,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}

// RemoveDetail removes one line from an in-progress document
func (h *DocumentHandler) RemoveDetail(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	key := c.Param("key")
	if key == "" {
		h.BadRequest(c, "Detail key is required")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	doc, err := h.documentService.RemoveDetail(c.Request.Context(), id, key, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}

// Save finalizes an in-progress document and applies its stock movements
func (h *DocumentHandler) Save(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	doc, err := h.documentService.Save(c.Request.Context(), id, userID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}

// Cancel reverses a created document
func (h *DocumentHandler) Cancel(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CancelRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	doc, err := h.documentService.Cancel(c.Request.Context(), documentapp.CancelDocumentRequest{
		DocumentID:  id,
		CancelledBy: userID,
		Reason:      req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}

// Discard abandons an in-progress document, releasing its reserves
func (h *DocumentHandler) Discard(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid document ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	if err := h.documentService.Discard(c.Request.Context(), id, userID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
