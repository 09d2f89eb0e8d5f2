package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	documentapp "github.com/pos/backend/internal/application/document"
)

// InvoiceHandler handles invoice settlement endpoints
type InvoiceHandler struct {
	BaseHandler
	invoiceService *documentapp.InvoiceService
}

// NewInvoiceHandler creates a new InvoiceHandler
func NewInvoiceHandler(invoiceService *documentapp.InvoiceService) *InvoiceHandler {
	return &InvoiceHandler{invoiceService: invoiceService}
}

// VoucherPaymentRequest is one card payment taken on an invoice
type VoucherPaymentRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	CardSuffix    string          `json:"card_suffix" binding:"required,len=4"`
	Authorization string          `json:"authorization" binding:"required,max=50"`
}

// SavePaymentRequest finalizes an invoice together with its payment
type SavePaymentRequest struct {
	RegisterID uuid.UUID               `json:"register_id" binding:"required"`
	CashAmount decimal.Decimal         `json:"cash_amount"`
	Discount   *decimal.Decimal        `json:"discount"`
	Vouchers   []VoucherPaymentRequest `json:"vouchers"`
}

// SaveWithPayment finalizes an invoice, books its payment and returns the change
func (h *InvoiceHandler) SaveWithPayment(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req SavePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	vouchers := make([]documentapp.VoucherPayment, len(req.Vouchers))
	for i, v := range req.Vouchers {
		vouchers[i] = documentapp.VoucherPayment{
			Amount:        v.Amount,
			CardSuffix:    v.CardSuffix,
			Authorization: v.Authorization,
		}
	}

	result, err := h.invoiceService.SaveWithPayment(c.Request.Context(), documentapp.SavePaymentRequest{
		InvoiceID:  id,
		Actor:      userID,
		RegisterID: req.RegisterID,
		CashAmount: req.CashAmount,
		Discount:   req.Discount,
		Vouchers:   vouchers,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// CancelInvoiceRequest reverses a settled invoice at the register
type CancelInvoiceRequest struct {
	RegisterID uuid.UUID `json:"register_id" binding:"required"`
	Reason     string    `json:"reason" binding:"required,max=200"`
}

// Cancel reverses a settled invoice, restoring stock and pulling back its payment
func (h *InvoiceHandler) Cancel(c *gin.Context) {
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		h.BadRequest(c, "Invalid invoice ID")
		return
	}

	userID, err := getUserID(c)
	if err != nil {
		h.Unauthorized(c, "Authentication required")
		return
	}

	var req CancelInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindingError(c, err)
		return
	}

	doc, err := h.invoiceService.Cancel(c.Request.Context(), documentapp.CancelInvoiceRequest{
		InvoiceID:   id,
		CancelledBy: userID,
		RegisterID:  req.RegisterID,
		Reason:      req.Reason,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, doc)
}
