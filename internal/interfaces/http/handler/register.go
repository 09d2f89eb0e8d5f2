package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cashapp "github.com/pos/backend/internal/application/cash"
)

// RegisterHandler handles cash register and bank endpoints
type RegisterHandler struct {
	BaseHandler
	registerService *cashapp.RegisterService
}

// NewRegisterHandler creates a new RegisterHandler
func NewRegisterHandler(registerService *cashapp.RegisterService) *RegisterHandler {
	return &RegisterHandler{registerService: registerService}
}

// OpenRegisterRequest opens a cash register under a working shift
type OpenRegisterRequest struct {
	Name           string          `json:"name" binding:"required,max=50"`
	ShiftID        uuid.UUID       `json:"shift_id" binding:"required"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// CreateShiftRequest registers a working shift
type CreateShiftRequest struct {
	Name string `json:"name" binding:"required,max=50"`
}

// CloseRegisterRequest closes a register with its counted balance
type CloseRegisterRequest struct {
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

// CreateBankRequest registers a bank
type CreateBankRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

// CreateBankAccountRequest registers an account at a bank
type CreateBankAccountRequest struct {
	BankID        uuid.UUID `json:"bank_id" binding:"required"`
	AccountNumber string    `json:"account_number" binding:"required,max=50"`
	HolderName    string    `json:"holder_name" binding:"required,max=100"`
}

// Open opens a cash register
func (h *RegisterHandler) Open(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req OpenRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	register, err := h.registerService.Open(c.Request.Context(), cashapp.OpenRegisterRequest{
		OpenedBy:       userID,
		Name:           req.Name,
		ShiftID:        req.ShiftID,
		OpeningBalance: req.OpeningBalance,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, register)
}

// Close closes a register with its counted balance
func (h *RegisterHandler) Close(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid register ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CloseRegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	register, err := h.registerService.Close(c.Request.Context(), cashapp.CloseRegisterRequest{
		RegisterID:     id,
		ClosedBy:       userID,
		ClosingBalance: req.ClosingBalance,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, register)
}

// ListOpen returns registers currently open
func (h *RegisterHandler) ListOpen(c *gin.Context) {
	registers, err := h.registerService.ListOpen(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, registers)
}

// Balance reports a register's money position
func (h *RegisterHandler) Balance(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid register ID")
		return
	}

	balance, err := h.registerService.Balance(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, balance)
}

// CreateShift registers a working shift
func (h *RegisterHandler) CreateShift(c *gin.Context) {
	var req CreateShiftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	shift, err := h.registerService.CreateShift(c.Request.Context(), req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, shift)
}

// ListShifts returns all working shifts
func (h *RegisterHandler) ListShifts(c *gin.Context) {
	shifts, err := h.registerService.ListShifts(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, shifts)
}

// CreateBank registers a bank
func (h *RegisterHandler) CreateBank(c *gin.Context) {
	var req CreateBankRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	bank, err := h.registerService.CreateBank(c.Request.Context(), req.Name)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, bank)
}

// ListBanks returns all banks
func (h *RegisterHandler) ListBanks(c *gin.Context) {
	banks, err := h.registerService.ListBanks(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, banks)
}

// CreateBankAccount registers an account at a bank
func (h *RegisterHandler) CreateBankAccount(c *gin.Context) {
	var req CreateBankAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	account, err := h.registerService.CreateBankAccount(c.Request.Context(), cashapp.CreateBankAccountRequest{
		BankID:        req.BankID,
		AccountNumber: req.AccountNumber,
		HolderName:    req.HolderName,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, account)
}

// ListBankAccounts returns the accounts held at one bank
func (h *RegisterHandler) ListBankAccounts(c *gin.Context) {
	bankID, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid bank ID")
		return
	}

	accounts, err := h.registerService.ListBankAccounts(c.Request.Context(), bankID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, accounts)
}
