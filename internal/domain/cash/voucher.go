package cash

import (
	"time"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Voucher is a card payment slip taken on a receipt. Vouchers are not
// deposited through the register; they settle with the card processor, so
// unlike Cash they carry no reserved or deposited portion.
type Voucher struct {
	shared.BaseEntity
	ReceiptID     uuid.UUID       `gorm:"type:uuid;not null;index"`
	RegisterID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	Amount        decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	CardSuffix    string          `gorm:"type:varchar(4);not null"`
	Authorization string          `gorm:"type:varchar(50);not null"`
	ReceivedAt    time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Voucher) TableName() string {
	return "vouchers"
}

// NewVoucher records a card payment taken on a receipt
func NewVoucher(receiptID, registerID uuid.UUID, amount decimal.Decimal, cardSuffix, authorization string) (*Voucher, error) {
	if receiptID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_RECEIPT", "Receipt ID cannot be empty")
	}
	if registerID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_REGISTER", "Register ID cannot be empty")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("INVALID_AMOUNT", "Voucher amount must be positive")
	}
	if len(cardSuffix) != 4 {
		return nil, shared.NewFieldValidationError("INVALID_CARD", "Card suffix must be the last four digits", "card_suffix")
	}
	if authorization == "" {
		return nil, shared.NewFieldValidationError("MISSING_AUTHORIZATION", "Authorization code cannot be empty", "authorization")
	}

	return &Voucher{
		BaseEntity:    shared.NewBaseEntity(),
		ReceiptID:     receiptID,
		RegisterID:    registerID,
		Amount:        amount.Round(2),
		CardSuffix:    cardSuffix,
		Authorization: authorization,
		ReceivedAt:    time.Now(),
	}, nil
}

// Show returns a flat field-to-value map for presentation
func (v *Voucher) Show() map[string]string {
	return map[string]string{
		"received_at":   v.ReceivedAt.Format("02/01/2006 15:04"),
		"amount":        v.Amount.StringFixed(2),
		"card":          "****" + v.CardSuffix,
		"authorization": v.Authorization,
	}
}
