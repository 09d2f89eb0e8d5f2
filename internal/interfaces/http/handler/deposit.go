package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cashapp "github.com/pos/backend/internal/application/cash"
	"github.com/pos/backend/internal/interfaces/http/dto"
)

// DepositHandler handles deposit slip endpoints
type DepositHandler struct {
	BaseHandler
	depositService *cashapp.DepositService
}

// NewDepositHandler creates a new DepositHandler
func NewDepositHandler(depositService *cashapp.DepositService) *DepositHandler {
	return &DepositHandler{depositService: depositService}
}

// CreateDepositRequest opens a new in-progress deposit slip
type CreateDepositRequest struct {
	BankAccountID uuid.UUID `json:"bank_account_id" binding:"required"`
	RegisterID    uuid.UUID `json:"register_id" binding:"required"`
	SlipNumber    string    `json:"slip_number" binding:"required,max=50"`
}

// AddCashRequest claims available register cash onto a slip
type AddCashRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// Create opens a new in-progress deposit slip
func (h *DepositHandler) Create(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CreateDepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	deposit, err := h.depositService.Create(c.Request.Context(), cashapp.CreateDepositRequest{
		CreatedBy:     userID,
		BankAccountID: req.BankAccountID,
		RegisterID:    req.RegisterID,
		SlipNumber:    req.SlipNumber,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, deposit)
}

// GetByID returns a deposit slip with its lines
func (h *DepositHandler) GetByID(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid deposit ID")
		return
	}

	deposit, err := h.depositService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, deposit)
}

// List returns a register's deposit slips
func (h *DepositHandler) List(c *gin.Context) {
	registerID, err := uuid.Parse(c.Query("register_id"))
	if err != nil {
		h.BadRequest(c, "Invalid register ID")
		return
	}

	req := dto.DefaultListRequest()
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	deposits, err := h.depositService.List(c.Request.Context(), registerID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, deposits)
}

// AddCash claims available register cash onto a slip
func (h *DepositHandler) AddCash(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid deposit ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req AddCashRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	deposit, err := h.depositService.AddCash(c.Request.Context(), cashapp.AddCashRequest{
		DepositID: id,
		Actor:     userID,
		Amount:    req.Amount,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, deposit)
}

// RemoveDetail removes one line from an in-progress slip, releasing its cash
func (h *DepositHandler) RemoveDetail(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid deposit ID")
		return
	}

	key := c.Param("key")
	if key == "" {
		h.BadRequest(c, "Detail key is required")
		return
	}

	deposit, err := h.depositService.RemoveDetail(c.Request.Context(), id, key)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, deposit)
}

// Save finalizes a deposit slip, moving its cash out of the register
func (h *DepositHandler) Save(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid deposit ID")
		return
	}

	deposit, err := h.depositService.Save(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, deposit)
}

// Cancel reverses a saved deposit slip
func (h *DepositHandler) Cancel(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid deposit ID")
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

	deposit, err := h.depositService.Cancel(c.Request.Context(), cashapp.CancelDepositRequest{
		DepositID:   id,
		CancelledBy: userID,
		Reason:      req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, deposit)
}

// Discard abandons an in-progress slip, releasing its reserved cash
func (h *DepositHandler) Discard(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid deposit ID")
		return
	}

	if err := h.depositService.Discard(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}
