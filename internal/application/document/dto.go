package document

import (
	"time"

	"github.com/pos/backend/internal/domain/document"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateDocumentRequest opens a new in-progress document
type CreateDocumentRequest struct {
	Type      document.DocumentType `json:"type" validate:"required"`
	CreatedBy uuid.UUID             `json:"-"`

	// invoice
	Nit          string          `json:"nit,omitempty"`
	CustomerName string          `json:"customer_name,omitempty"`
	VATPercent   decimal.Decimal `json:"vat_percent,omitempty"`

	// receipt
	ShipmentID    *uuid.UUID       `json:"shipment_id,omitempty"`
	ShipmentTotal *decimal.Decimal `json:"shipment_total,omitempty"`

	// shipment / purchase return
	BranchID   *uuid.UUID `json:"branch_id,omitempty"`
	SupplierID *uuid.UUID `json:"supplier_id,omitempty"`
}

// AddProductRequest adds product lines to an in-progress document.
// Price and expiration only matter for incoming stock; invoices price
// lines from the catalog and may carry free bonus units.
type AddProductRequest struct {
	DocumentID     uuid.UUID       `json:"-"`
	ProductID      uuid.UUID       `json:"product_id" validate:"required"`
	Quantity       int64           `json:"quantity" validate:"required,gt=0"`
	Price          decimal.Decimal `json:"price,omitempty"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
	BonusQuantity  int64           `json:"bonus_quantity,omitempty"`
}

// CancelDocumentRequest reverses a created document
type CancelDocumentRequest struct {
	DocumentID  uuid.UUID `json:"-"`
	CancelledBy uuid.UUID `json:"-"`
	Reason      string    `json:"reason" validate:"required"`
}

// DetailResponse is one document line in API responses
type DetailResponse struct {
	Key            string          `json:"key"`
	Kind           string          `json:"kind"`
	Sequence       int             `json:"sequence"`
	ProductID      uuid.UUID       `json:"product_id"`
	Description    string          `json:"description"`
	UnitOfMeasure  string          `json:"unit_of_measure"`
	Quantity       int64           `json:"quantity"`
	Price          decimal.Decimal `json:"price"`
	Total          decimal.Decimal `json:"total"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
}

// DocumentResponse is the API representation of a document
type DocumentResponse struct {
	ID           uuid.UUID        `json:"id"`
	Type         string           `json:"type"`
	Status       string           `json:"status"`
	Number       string           `json:"number,omitempty"`
	Nit          string           `json:"nit,omitempty"`
	CustomerName string           `json:"customer_name,omitempty"`
	Total        decimal.Decimal  `json:"total"`
	Discount     decimal.Decimal  `json:"discount"`
	Payable      decimal.Decimal  `json:"payable"`
	VATAmount    decimal.Decimal  `json:"vat_amount"`
	Details      []DetailResponse `json:"details"`
	IssuedAt     *time.Time       `json:"issued_at,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
}

// ToDocumentResponse converts a document to its API representation
func ToDocumentResponse(doc *document.Document) *DocumentResponse {
	details := make([]DetailResponse, len(doc.Details))
	for i := range doc.Details {
		d := &doc.Details[i]
		details[i] = DetailResponse{
			Key:           d.Key(),
			Kind:          string(d.Kind),
			Sequence:      d.Sequence,
			ProductID:     d.ProductID,
			Description:   d.Description,
			UnitOfMeasure: d.UnitOfMeasure,
			Quantity:      d.Quantity,
			Price:         d.Price,
			Total:         d.Total,
		}
		if d.Kind == document.DetailKindProduct {
			details[i].ExpirationDate = d.ExpirationDate
		}
	}

	resp := &DocumentResponse{
		ID:           doc.ID,
		Type:         string(doc.Type),
		Status:       string(doc.Status),
		Nit:          doc.Nit,
		CustomerName: doc.CustomerName,
		Total:        doc.Total,
		Discount:     doc.Discount,
		Payable:      doc.PayableTotal(),
		VATAmount:    doc.VATAmount(),
		Details:      details,
		IssuedAt:     doc.IssuedAt,
		CreatedAt:    doc.CreatedAt,
	}
	if doc.CorrelativeNumber != nil {
		resp.Number = doc.Show()["number"]
	}
	return resp
}

// SavePaymentRequest finalizes an invoice together with its payment
type SavePaymentRequest struct {
	InvoiceID  uuid.UUID        `json:"-"`
	Actor      uuid.UUID        `json:"-"`
	RegisterID uuid.UUID        `json:"register_id" validate:"required"`
	CashAmount decimal.Decimal  `json:"cash_amount"`
	Discount   *decimal.Decimal `json:"discount,omitempty"`
	Vouchers   []VoucherPayment `json:"vouchers,omitempty"`
}

// VoucherPayment is one card payment taken on an invoice
type VoucherPayment struct {
	Amount        decimal.Decimal `json:"amount" validate:"required"`
	CardSuffix    string          `json:"card_suffix" validate:"required,len=4"`
	Authorization string          `json:"authorization" validate:"required"`
}

// PaymentResponse reports the settled invoice and the change due back
type PaymentResponse struct {
	Document *DocumentResponse `json:"document"`
	Change   decimal.Decimal   `json:"change"`
}

// CancelInvoiceRequest reverses a settled invoice at the register
type CancelInvoiceRequest struct {
	InvoiceID   uuid.UUID `json:"-"`
	CancelledBy uuid.UUID `json:"-"`
	RegisterID  uuid.UUID `json:"register_id" validate:"required"`
	Reason      string    `json:"reason" validate:"required"`
}

// CreateCorrelativeRequest registers a new invoice number range
type CreateCorrelativeRequest struct {
	CreatedBy      uuid.UUID `json:"-"`
	Serial         string    `json:"serial" validate:"required"`
	Resolution     string    `json:"resolution" validate:"required"`
	InitialNumber  int64     `json:"initial_number" validate:"required,gt=0"`
	FinalNumber    int64     `json:"final_number" validate:"required"`
	ResolutionDate time.Time `json:"resolution_date" validate:"required"`
}

// CorrelativeResponse is the API representation of a correlative
type CorrelativeResponse struct {
	ID             uuid.UUID  `json:"id"`
	Serial         string     `json:"serial"`
	Resolution     string     `json:"resolution"`
	InitialNumber  int64      `json:"initial_number"`
	FinalNumber    int64      `json:"final_number"`
	CurrentNumber  int64      `json:"current_number"`
	Remaining      int64      `json:"remaining"`
	Status         string     `json:"status"`
	ResolutionDate time.Time  `json:"resolution_date"`
	ActivatedAt    *time.Time `json:"activated_at,omitempty"`
}

// ToCorrelativeResponse converts a correlative to its API representation
func ToCorrelativeResponse(c *document.Correlative) *CorrelativeResponse {
	return &CorrelativeResponse{
		ID:             c.ID,
		Serial:         c.Serial,
		Resolution:     c.Resolution,
		InitialNumber:  c.InitialNumber,
		FinalNumber:    c.FinalNumber,
		CurrentNumber:  c.CurrentNumber,
		Remaining:      c.Remaining(),
		Status:         string(c.Status),
		ResolutionDate: c.ResolutionDate,
		ActivatedAt:    c.ActivatedAt,
	}
}
