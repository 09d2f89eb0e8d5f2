package cash

import (
	"time"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Cash tracks the money taken on one receipt: how much was received, how
// much is reserved by an in-progress deposit, and how much has already been
// banked. The monetary mirror of a stock lot.
type Cash struct {
	shared.BaseEntity
	ReceiptID  uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex"`
	RegisterID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Received   decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Reserved   decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Deposited  decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ReceivedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Cash) TableName() string {
	return "cash"
}

// NewCash records the money received on a receipt at a register
func NewCash(receiptID, registerID uuid.UUID, received decimal.Decimal) (*Cash, error) {
	if receiptID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_RECEIPT", "Receipt ID cannot be empty")
	}
	if registerID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_REGISTER", "Register ID cannot be empty")
	}
	if received.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("INVALID_AMOUNT", "Received amount must be positive")
	}

	return &Cash{
		BaseEntity: shared.NewBaseEntity(),
		ReceiptID:  receiptID,
		RegisterID: registerID,
		Received:   received.Round(2),
		Reserved:   decimal.Zero,
		Deposited:  decimal.Zero,
		ReceivedAt: time.Now(),
	}, nil
}

// Available returns the amount not yet reserved or deposited
func (c *Cash) Available() decimal.Decimal {
	return c.Received.Sub(c.Reserved).Sub(c.Deposited)
}

// Reverse zeroes the received amount when the receipt is cancelled and
// returns the amount pulled from the drawer. Money a deposit slip has
// already claimed or banked cannot be pulled back, so a reversal is only
// possible while the full amount is still loose.
func (c *Cash) Reverse() (decimal.Decimal, error) {
	if c.Reserved.IsPositive() || c.Deposited.IsPositive() {
		return decimal.Zero, shared.NewValidationError("CASH_COMMITTED",
			"Cash from this receipt is already reserved or deposited")
	}
	amount := c.Received
	c.Received = decimal.Zero
	c.UpdatedAt = time.Now()
	return amount, nil
}

// Show returns a flat field-to-value map for presentation
func (c *Cash) Show() map[string]string {
	return map[string]string{
		"received_at": c.ReceivedAt.Format("02/01/2006 15:04"),
		"received":    c.Received.StringFixed(2),
		"reserved":    c.Reserved.StringFixed(2),
		"deposited":   c.Deposited.StringFixed(2),
		"available":   c.Available().StringFixed(2),
	}
}

// CashReserveStatus represents the lifecycle state of a cash reserve
type CashReserveStatus string

const (
	CashReserveStatusInProgress CashReserveStatus = "IN_PROGRESS"
	CashReserveStatusCreated    CashReserveStatus = "CREATED"
)

// IsValid checks if the status is a valid CashReserveStatus
func (s CashReserveStatus) IsValid() bool {
	switch s {
	case CashReserveStatusInProgress, CashReserveStatusCreated:
		return true
	}
	return false
}

// CashReserve is a soft claim on a receipt's available cash, made while a
// deposit slip is being assembled and consumed when the deposit is saved.
type CashReserve struct {
	shared.BaseEntity
	CashID     uuid.UUID         `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal   `gorm:"type:decimal(18,2);not null"`
	Status     CashReserveStatus `gorm:"type:varchar(20);not null"`
	ReservedBy uuid.UUID         `gorm:"type:uuid;not null"`
	ReservedAt time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CashReserve) TableName() string {
	return "cash_reserves"
}

// NewCashReserve creates a new in-progress claim against a receipt's cash.
// The available-amount bound is enforced by the CashLedger.
func NewCashReserve(cash *Cash, amount decimal.Decimal, reservedBy uuid.UUID) (*CashReserve, error) {
	if cash == nil {
		return nil, shared.NewPreconditionError("nil cash passed to NewCashReserve")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("INVALID_AMOUNT", "Reserve amount must be positive")
	}
	if reservedBy == uuid.Nil {
		return nil, shared.NewPreconditionError("cash reserve requires an acting user")
	}

	return &CashReserve{
		BaseEntity: shared.NewBaseEntity(),
		CashID:     cash.ID,
		Amount:     amount.Round(2),
		Status:     CashReserveStatusInProgress,
		ReservedBy: reservedBy,
		ReservedAt: time.Now(),
	}, nil
}

// MarkCreated transitions the reserve to CREATED once persisted
func (r *CashReserve) MarkCreated() error {
	if r.Status != CashReserveStatusInProgress {
		return shared.NewPreconditionError("cash reserve %s is already %s", r.ID, r.Status)
	}
	r.Status = CashReserveStatusCreated
	r.UpdatedAt = time.Now()
	return nil
}

// Absorb merges another reserve's amount into this one. Both already count
// toward the cash row's reserved amount; the caller deletes the absorbed row.
func (r *CashReserve) Absorb(other *CashReserve) error {
	if other == nil {
		return shared.NewPreconditionError("nil reserve passed to Absorb")
	}
	if other.CashID != r.CashID {
		return shared.NewPreconditionError("cannot merge reserves of different cash rows")
	}
	r.Amount = r.Amount.Add(other.Amount)
	r.UpdatedAt = time.Now()
	return nil
}
