package document

import (
	"fmt"
	"time"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Document is the aggregate for a business record that moves stock: invoice,
// receipt, shipment, purchase return, or inventory adjustment. Lines are
// kept in insertion order and merged by key; the grand total is maintained
// incrementally and always equals the sum of line totals.
type Document struct {
	shared.AuditedAggregateRoot
	Type          DocumentType     `gorm:"type:varchar(20);not null;index"`
	Status        DocumentStatus   `gorm:"type:varchar(20);not null;index"`
	Total         decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	Details       []DocumentDetail `gorm:"foreignKey:DocumentID"`
	IssuedAt      *time.Time
	CustomerID    *uuid.UUID       `gorm:"type:uuid"`
	SupplierID    *uuid.UUID       `gorm:"type:uuid"`
	BranchID      *uuid.UUID       `gorm:"type:uuid"`
	ShipmentID    *uuid.UUID       `gorm:"type:uuid"`
	ShipmentTotal *decimal.Decimal `gorm:"type:decimal(18,2)"`

	// invoice fields
	Nit               string          `gorm:"type:varchar(20)"`
	CustomerName      string          `gorm:"type:varchar(255)"`
	Serial            string          `gorm:"type:varchar(20)"`
	CorrelativeNumber *int64
	VATPercent        decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	Discount          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`

	CancelledBy  *uuid.UUID `gorm:"type:uuid"`
	CancelledAt  *time.Time
	CancelReason string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (Document) TableName() string {
	return "documents"
}

func newDocument(docType DocumentType, createdBy uuid.UUID) (*Document, error) {
	if !docType.IsValid() {
		return nil, shared.NewPreconditionError("unknown document type %q", docType)
	}
	if createdBy == uuid.Nil {
		return nil, shared.NewPreconditionError("document requires an acting user")
	}
	return &Document{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(createdBy),
		Type:                 docType,
		Status:               DocumentStatusInProgress,
		Total:                decimal.Zero,
		Details:              make([]DocumentDetail, 0),
		VATPercent:           decimal.Zero,
		Discount:             decimal.Zero,
	}, nil
}

// NewInvoice creates an in-progress invoice. The correlative number is
// assigned at save time, not here.
func NewInvoice(createdBy uuid.UUID, nit, customerName string, vatPercent decimal.Decimal) (*Document, error) {
	if vatPercent.IsNegative() {
		return nil, shared.NewValidationError("INVALID_VAT", "VAT percentage cannot be negative")
	}
	doc, err := newDocument(DocumentTypeInvoice, createdBy)
	if err != nil {
		return nil, err
	}
	doc.Nit = nit
	doc.CustomerName = customerName
	doc.VATPercent = vatPercent
	return doc, nil
}

// NewReceipt creates an in-progress goods receipt against a shipment. The
// receipt's line totals must match the shipment total at save time.
func NewReceipt(createdBy uuid.UUID, shipmentID uuid.UUID, shipmentTotal decimal.Decimal) (*Document, error) {
	if shipmentID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_SHIPMENT", "Shipment ID cannot be empty")
	}
	if shipmentTotal.IsNegative() {
		return nil, shared.NewValidationError("INVALID_TOTAL", "Shipment total cannot be negative")
	}
	doc, err := newDocument(DocumentTypeReceipt, createdBy)
	if err != nil {
		return nil, err
	}
	doc.ShipmentID = &shipmentID
	total := shipmentTotal.Round(2)
	doc.ShipmentTotal = &total
	return doc, nil
}

// NewShipment creates an in-progress shipment to a branch
func NewShipment(createdBy uuid.UUID, branchID uuid.UUID) (*Document, error) {
	doc, err := newDocument(DocumentTypeShipment, createdBy)
	if err != nil {
		return nil, err
	}
	if branchID != uuid.Nil {
		doc.BranchID = &branchID
	}
	return doc, nil
}

// NewPurchaseReturn creates an in-progress return to a supplier
func NewPurchaseReturn(createdBy uuid.UUID, supplierID uuid.UUID) (*Document, error) {
	doc, err := newDocument(DocumentTypePurchaseReturn, createdBy)
	if err != nil {
		return nil, err
	}
	if supplierID != uuid.Nil {
		doc.SupplierID = &supplierID
	}
	return doc, nil
}

// NewEntryAdjustment creates an in-progress inventory entry adjustment
func NewEntryAdjustment(createdBy uuid.UUID) (*Document, error) {
	return newDocument(DocumentTypeEntryAdjustment, createdBy)
}

// NewWithdrawAdjustment creates an in-progress inventory withdraw adjustment
func NewWithdrawAdjustment(createdBy uuid.UUID) (*Document, error) {
	return newDocument(DocumentTypeWithdrawAdjustment, createdBy)
}

// AddDetail attaches a line to the document, merging by key: a line whose
// key matches an existing one increases that line's quantity instead of
// duplicating it. Returns the line the detail landed on and whether a merge
// happened; on a merge the caller folds the new detail's reserve into the
// kept line's reserve through the lot ledger.
func (doc *Document) AddDetail(detail *DocumentDetail) (*DocumentDetail, bool, error) {
	if doc.Status != DocumentStatusInProgress {
		return nil, false, shared.NewValidationError("INVALID_STATE", "Cannot add lines to a finalized document")
	}
	if detail == nil {
		return nil, false, shared.NewPreconditionError("nil detail passed to AddDetail")
	}

	for idx := range doc.Details {
		if doc.Details[idx].Key() == detail.Key() {
			if err := doc.Details[idx].Merge(detail); err != nil {
				return nil, false, err
			}
			doc.recalculateTotal()
			doc.UpdatedAt = time.Now()
			return &doc.Details[idx], true, nil
		}
	}

	detail.DocumentID = doc.ID
	detail.Sequence = len(doc.Details) + 1
	doc.Details = append(doc.Details, *detail)
	doc.recalculateTotal()
	doc.UpdatedAt = time.Now()
	return &doc.Details[len(doc.Details)-1], false, nil
}

// DeleteDetail removes a line by key and returns it so the caller can
// release any reserve it still holds.
func (doc *Document) DeleteDetail(key string) (*DocumentDetail, error) {
	if doc.Status != DocumentStatusInProgress {
		return nil, shared.NewValidationError("INVALID_STATE", "Cannot remove lines from a finalized document")
	}

	for idx := range doc.Details {
		if doc.Details[idx].Key() == key {
			removed := doc.Details[idx]
			doc.Details = append(doc.Details[:idx], doc.Details[idx+1:]...)
			for seq := idx; seq < len(doc.Details); seq++ {
				doc.Details[seq].Sequence = seq + 1
			}
			doc.recalculateTotal()
			doc.UpdatedAt = time.Now()
			return &removed, nil
		}
	}

	return nil, shared.NewValidationError("DETAIL_NOT_FOUND", "Document line not found")
}

// FindDetail returns a line by key, or nil
func (doc *Document) FindDetail(key string) *DocumentDetail {
	for idx := range doc.Details {
		if doc.Details[idx].Key() == key {
			return &doc.Details[idx]
		}
	}
	return nil
}

// ValidateMainProperties runs the cross-field checks that can only be
// evaluated once all data is assembled, immediately before persistence.
func (doc *Document) ValidateMainProperties() error {
	if len(doc.Details) == 0 {
		return shared.NewValidationError("NO_DETAILS", "Document has no lines")
	}

	switch doc.Type {
	case DocumentTypeInvoice:
		if doc.Nit == "" {
			return shared.NewFieldValidationError("MISSING_NIT", "Invoice requires a customer NIT", "nit")
		}
	case DocumentTypeReceipt:
		if doc.ShipmentTotal == nil {
			return shared.NewFieldValidationError("MISSING_SHIPMENT", "Receipt requires its shipment total", "shipment_total")
		}
		if !doc.Total.Equal(*doc.ShipmentTotal) {
			return shared.NewValidationError("TOTAL_MISMATCH",
				fmt.Sprintf("Receipt total %s does not match shipment total %s",
					doc.Total.StringFixed(2), doc.ShipmentTotal.StringFixed(2)))
		}
	case DocumentTypeShipment:
		if doc.BranchID == nil {
			return shared.NewFieldValidationError("MISSING_BRANCH", "Shipment requires a destination branch", "branch")
		}
	case DocumentTypePurchaseReturn:
		if doc.SupplierID == nil {
			return shared.NewFieldValidationError("MISSING_SUPPLIER", "Purchase return requires a supplier", "supplier")
		}
	}
	return nil
}

// AssignCorrelative stamps the invoice with its issued serial and number
func (doc *Document) AssignCorrelative(serial string, number int64) error {
	if doc.Type != DocumentTypeInvoice {
		return shared.NewPreconditionError("correlative assignment on a %s document", doc.Type)
	}
	if number <= 0 {
		return shared.NewValidationError("CORRELATIVE_EXHAUSTED", "No invoice number available")
	}
	doc.Serial = serial
	doc.CorrelativeNumber = &number
	doc.UpdatedAt = time.Now()
	return nil
}

// SetDiscount applies an order-level discount. Permitted while in progress
// and, as an adjunct operation, on a created invoice.
func (doc *Document) SetDiscount(discount decimal.Decimal) error {
	if doc.Type != DocumentTypeInvoice {
		return shared.NewValidationError("INVALID_STATE", "Only invoices carry a discount")
	}
	if doc.Status == DocumentStatusCancelled {
		return shared.NewValidationError("INVALID_STATE", "Cannot discount a cancelled document")
	}
	if discount.IsNegative() {
		return shared.NewValidationError("INVALID_DISCOUNT", "Discount cannot be negative")
	}
	if discount.GreaterThan(doc.Total) {
		return shared.NewValidationError("INVALID_DISCOUNT", "Discount cannot exceed the document total")
	}
	doc.Discount = discount.Round(2)
	doc.UpdatedAt = time.Now()
	return nil
}

// PayableTotal returns the total after discount
func (doc *Document) PayableTotal() decimal.Decimal {
	return doc.Total.Sub(doc.Discount)
}

// VATAmount returns the VAT portion contained in the payable total
func (doc *Document) VATAmount() decimal.Decimal {
	divisor := decimal.NewFromInt(100).Add(doc.VATPercent)
	if divisor.IsZero() {
		return decimal.Zero
	}
	return doc.PayableTotal().Mul(doc.VATPercent).Div(divisor).Round(2)
}

// MarkCreated finalizes the document after its lines have been applied
func (doc *Document) MarkCreated() error {
	if !doc.Status.CanTransitionTo(DocumentStatusCreated) {
		return shared.NewValidationError("INVALID_STATE",
			fmt.Sprintf("Cannot save a document in %s status", doc.Status))
	}
	now := time.Now()
	doc.Status = DocumentStatusCreated
	doc.IssuedAt = &now
	doc.UpdatedAt = now
	doc.AddDomainEvent(NewDocumentCreatedEvent(doc))
	return nil
}

// MarkCancelled records the cancellation audit after the lines' stock
// effects have been reversed.
func (doc *Document) MarkCancelled(cancelledBy uuid.UUID, reason string) error {
	if !doc.Status.CanTransitionTo(DocumentStatusCancelled) {
		return shared.NewValidationError("INVALID_STATE",
			fmt.Sprintf("Cannot cancel a document in %s status", doc.Status))
	}
	if cancelledBy == uuid.Nil {
		return shared.NewPreconditionError("cancellation requires an acting user")
	}
	now := time.Now()
	doc.Status = DocumentStatusCancelled
	doc.CancelledBy = &cancelledBy
	doc.CancelledAt = &now
	doc.CancelReason = reason
	doc.UpdatedAt = now
	doc.AddDomainEvent(NewDocumentCancelledEvent(doc, cancelledBy, reason))
	return nil
}

// CanDiscard reports whether the document can be abandoned before save
func (doc *Document) CanDiscard() bool {
	return doc.Status == DocumentStatusInProgress
}

func (doc *Document) recalculateTotal() {
	total := decimal.Zero
	for idx := range doc.Details {
		total = total.Add(doc.Details[idx].Total)
	}
	doc.Total = total
}

// Show returns a flat field-to-value map of the document header
func (doc *Document) Show() map[string]string {
	issued := ""
	if doc.IssuedAt != nil {
		issued = doc.IssuedAt.Format("02/01/2006 15:04")
	}
	number := ""
	if doc.CorrelativeNumber != nil {
		number = fmt.Sprintf("%s-%d", doc.Serial, *doc.CorrelativeNumber)
	}
	return map[string]string{
		"type":      doc.Type.String(),
		"status":    doc.Status.String(),
		"number":    number,
		"issued_at": issued,
		"total":     doc.Total.StringFixed(2),
		"discount":  doc.Discount.StringFixed(2),
		"payable":   doc.PayableTotal().StringFixed(2),
	}
}
