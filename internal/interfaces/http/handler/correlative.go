package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	documentapp "github.com/pos/backend/internal/application/document"
	"github.com/pos/backend/internal/interfaces/http/dto"
)

// CorrelativeHandler handles invoice number range endpoints
type CorrelativeHandler struct {
	BaseHandler
	correlativeService *documentapp.CorrelativeService
}

// NewCorrelativeHandler creates a new CorrelativeHandler
func NewCorrelativeHandler(correlativeService *documentapp.CorrelativeService) *CorrelativeHandler {
	return &CorrelativeHandler{correlativeService: correlativeService}
}

// CreateCorrelativeRequest registers a new invoice number range
type CreateCorrelativeRequest struct {
	Serial         string    `json:"serial" binding:"required,max=20"`
	Resolution     string    `json:"resolution" binding:"required,max=50"`
	InitialNumber  int64     `json:"initial_number" binding:"required,gt=0"`
	FinalNumber    int64     `json:"final_number" binding:"required"`
	ResolutionDate time.Time `json:"resolution_date" binding:"required"`
}

// Create registers a new invoice number range
func (h *CorrelativeHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateCorrelativeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	correlative, err := h.correlativeService.Create(c.Request.Context(), documentapp.CreateCorrelativeRequest{
		CreatedBy:      userID,
		Serial:         req.Serial,
		Resolution:     req.Resolution,
		InitialNumber:  req.InitialNumber,
		FinalNumber:    req.FinalNumber,
		ResolutionDate: req.ResolutionDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, correlative)
}

// GetCurrent returns the range invoices are currently numbered from
func (h *CorrelativeHandler) GetCurrent(c *gin.Context) {
	correlative, err := h.correlativeService.GetCurrent(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, correlative)
}

// GetByID returns a single number range
func (h *CorrelativeHandler) GetByID(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid correlative ID")
		return
	}

	correlative, err := h.correlativeService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, correlative)
}

// List returns all number ranges
func (h *CorrelativeHandler) List(c *gin.Context) {
	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	items, err := h.correlativeService.List(c.Request.Context(), req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, items)
}
