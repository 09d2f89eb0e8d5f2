package inventory

import (
	"time"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Lot is a batch of a product's physical stock with its own price and
// expiration date, the unit of inventory tracking. Quantity is a signed
// unit count: a negative lot represents oversold stock awaiting entry.
type Lot struct {
	shared.BaseEntity
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_lot_product"`
	Quantity       int64           `gorm:"not null;default:0"`
	Reserved       int64           `gorm:"not null;default:0"`
	Price          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	ExpirationDate *time.Time      `gorm:"type:date"`
	EntryDate      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Lot) TableName() string {
	return "lots"
}

// NewLot creates a new lot for a product
func NewLot(productID uuid.UUID, quantity int64, price decimal.Decimal, expirationDate *time.Time) (*Lot, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity < 0 {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	if price.IsNegative() {
		return nil, shared.NewValidationError("INVALID_PRICE", "Price cannot be negative")
	}

	return &Lot{
		BaseEntity:     shared.NewBaseEntity(),
		ProductID:      productID,
		Quantity:       quantity,
		Reserved:       0,
		Price:          price.Round(2),
		ExpirationDate: expirationDate,
		EntryDate:      time.Now(),
	}, nil
}

// NewEmptyLot creates a lot with zero stock. Empty lots are synthesized when
// a withdrawal cannot be covered by existing stock; the shortfall shows up as
// a negative quantity once the withdrawal is applied.
func NewEmptyLot(productID uuid.UUID, price decimal.Decimal, expirationDate *time.Time) (*Lot, error) {
	return NewLot(productID, 0, price, expirationDate)
}

// Available returns the quantity not yet claimed by a reserve
func (l *Lot) Available() int64 {
	return l.Quantity - l.Reserved
}

// IsNegative reports whether the lot is in the oversold regime
func (l *Lot) IsNegative() bool {
	return l.Quantity < 0
}

// IsExpired reports whether the lot has passed its expiration date
func (l *Lot) IsExpired() bool {
	if l.ExpirationDate == nil {
		return false
	}
	return l.ExpirationDate.Before(time.Now())
}

// Key returns the lot's synthetic identity: product + expiration + price.
// Two unpersisted lots with the same key describe the same stock batch.
func (l *Lot) Key() string {
	exp := ""
	if l.ExpirationDate != nil {
		exp = l.ExpirationDate.Format("2006-01-02")
	}
	return l.ProductID.String() + ":" + exp + ":" + l.Price.StringFixed(2)
}

// Show returns a flat field-to-value map for presentation
func (l *Lot) Show() map[string]string {
	exp := ""
	if l.ExpirationDate != nil {
		exp = l.ExpirationDate.Format("02/01/2006")
	}
	return map[string]string{
		"entry_date":      l.EntryDate.Format("02/01/2006"),
		"expiration_date": exp,
		"price":           l.Price.StringFixed(2),
		"quantity":        decimal.NewFromInt(l.Quantity).String(),
		"available":       decimal.NewFromInt(l.Available()).String(),
	}
}
