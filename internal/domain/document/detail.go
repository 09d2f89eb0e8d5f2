package document

import (
	"context"
	"time"

	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DetailKind discriminates product lines from bonus (free goods) lines
type DetailKind string

const (
	DetailKindProduct DetailKind = "PRODUCT"
	DetailKindBonus   DetailKind = "BONUS"
)

// IsValid checks if the kind is a valid DetailKind
func (k DetailKind) IsValid() bool {
	switch k {
	case DetailKindProduct, DetailKindBonus:
		return true
	}
	return false
}

// DocumentDetail is one line of a document. A product line carries the lot
// it draws on or feeds, the movement direction, and (for withdrawals) the
// reserve claimed ahead of save. A bonus line moves stock at price zero and
// renders with blank unit-of-measure and expiration fields.
type DocumentDetail struct {
	shared.BaseEntity
	DocumentID     uuid.UUID              `gorm:"type:uuid;not null;index"`
	Kind           DetailKind             `gorm:"type:varchar(10);not null"`
	Sequence       int                    `gorm:"not null"`
	ProductID      uuid.UUID              `gorm:"type:uuid;not null"`
	Description    string                 `gorm:"type:varchar(255);not null"`
	UnitOfMeasure  string                 `gorm:"type:varchar(50)"`
	LotID          *uuid.UUID             `gorm:"type:uuid"`
	ReserveID      *uuid.UUID             `gorm:"type:uuid"`
	Movement       inventory.MovementKind `gorm:"type:varchar(10);not null"`
	Quantity       int64                  `gorm:"not null"`
	Price          decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	Total          decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	ExpirationDate *time.Time             `gorm:"type:date"`
	Applied        bool                   `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (DocumentDetail) TableName() string {
	return "document_details"
}

// NewProductDetail creates a product line against a lot
func NewProductDetail(productID uuid.UUID, description, unitOfMeasure string, lot *inventory.Lot, reserve *inventory.Reserve, movement inventory.MovementKind, quantity int64, price decimal.Decimal) (*DocumentDetail, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if description == "" {
		return nil, shared.NewValidationError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if lot == nil {
		return nil, shared.NewPreconditionError("product detail requires a lot")
	}
	if !movement.IsValid() {
		return nil, shared.NewValidationError("INVALID_MOVEMENT", "Unknown movement kind: "+string(movement))
	}
	if quantity <= 0 {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if price.IsNegative() {
		return nil, shared.NewValidationError("INVALID_PRICE", "Price cannot be negative")
	}
	if movement == inventory.MovementWithdraw && reserve == nil {
		return nil, shared.NewPreconditionError("withdraw detail requires a reserve")
	}

	detail := &DocumentDetail{
		BaseEntity:     shared.NewBaseEntity(),
		Kind:           DetailKindProduct,
		ProductID:      productID,
		Description:    description,
		UnitOfMeasure:  unitOfMeasure,
		LotID:          &lot.ID,
		Movement:       movement,
		Quantity:       quantity,
		Price:          price.Round(2),
		ExpirationDate: lot.ExpirationDate,
	}
	if reserve != nil {
		detail.ReserveID = &reserve.ID
	}
	detail.Total = detail.Price.Mul(decimal.NewFromInt(quantity))
	return detail, nil
}

// NewBonusDetail creates a free-goods line. Bonus lines withdraw stock at
// price zero; their total contributes nothing to the document value.
func NewBonusDetail(productID uuid.UUID, description string, lot *inventory.Lot, reserve *inventory.Reserve, quantity int64) (*DocumentDetail, error) {
	if productID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if description == "" {
		return nil, shared.NewValidationError("INVALID_DESCRIPTION", "Description cannot be empty")
	}
	if lot == nil {
		return nil, shared.NewPreconditionError("bonus detail requires a lot")
	}
	if reserve == nil {
		return nil, shared.NewPreconditionError("bonus detail requires a reserve")
	}
	if quantity <= 0 {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
	}

	return &DocumentDetail{
		BaseEntity:  shared.NewBaseEntity(),
		Kind:        DetailKindBonus,
		ProductID:   productID,
		Description: description,
		LotID:       &lot.ID,
		ReserveID:   &reserve.ID,
		Movement:    inventory.MovementWithdraw,
		Quantity:    quantity,
		Price:       decimal.Zero,
		Total:       decimal.Zero,
	}, nil
}

// Key returns the merge identity of the line: product + lot + price for
// product lines, product alone for bonus lines.
func (d *DocumentDetail) Key() string {
	if d.Kind == DetailKindBonus {
		return "bonus:" + d.ProductID.String()
	}
	lot := ""
	if d.LotID != nil {
		lot = d.LotID.String()
	}
	return "product:" + d.ProductID.String() + ":" + lot + ":" + d.Price.StringFixed(2)
}

// Merge folds another line with the same key into this one: quantities are
// summed and the total recomputed. Reserve merging is the caller's job.
func (d *DocumentDetail) Merge(other *DocumentDetail) error {
	if other == nil {
		return shared.NewPreconditionError("nil detail passed to Merge")
	}
	if other.Key() != d.Key() {
		return shared.NewPreconditionError("cannot merge details with different keys")
	}
	d.Quantity += other.Quantity
	d.Total = d.Price.Mul(decimal.NewFromInt(d.Quantity))
	d.UpdatedAt = time.Now()
	return nil
}

// Claim returns the line's stake on its lot for the movement strategy
func (d *DocumentDetail) Claim(actor uuid.UUID, source *inventory.SourceRef) (inventory.Claim, error) {
	if d.LotID == nil {
		return inventory.Claim{}, shared.NewPreconditionError("detail has no lot")
	}
	return inventory.Claim{
		LotID:     *d.LotID,
		Quantity:  d.Quantity,
		ReserveID: d.ReserveID,
		Actor:     actor,
		Source:    source,
	}, nil
}

// Apply performs the line's stock effect. Called exactly once, from the
// document save flow, in line order.
func (d *DocumentDetail) Apply(ctx context.Context, ledger *inventory.LotLedger, actor uuid.UUID, source *inventory.SourceRef) error {
	if d.Applied {
		return shared.NewPreconditionError("detail %s already applied", d.ID)
	}
	movement, err := inventory.MovementFor(d.Movement)
	if err != nil {
		return err
	}
	claim, err := d.Claim(actor, source)
	if err != nil {
		return err
	}
	if err := movement.Apply(ctx, ledger, claim); err != nil {
		return err
	}
	d.Applied = true
	d.ReserveID = nil // consumed by the withdraw, or never present for an entry
	d.UpdatedAt = time.Now()
	return nil
}

// CancelEffect reverses the line's stock effect after it has been applied
func (d *DocumentDetail) CancelEffect(ctx context.Context, ledger *inventory.LotLedger, actor uuid.UUID, source *inventory.SourceRef) error {
	if !d.Applied {
		return shared.NewPreconditionError("detail %s was never applied", d.ID)
	}
	movement, err := inventory.MovementFor(d.Movement)
	if err != nil {
		return err
	}
	claim, err := d.Claim(actor, source)
	if err != nil {
		return err
	}
	if err := movement.Cancel(ctx, ledger, claim); err != nil {
		return err
	}
	d.Applied = false
	d.UpdatedAt = time.Now()
	return nil
}

// IsCancellable reports whether the line's stock effect can be reversed
func (d *DocumentDetail) IsCancellable(ctx context.Context, ledger *inventory.LotLedger, actor uuid.UUID) (bool, error) {
	if !d.Applied {
		return false, nil
	}
	movement, err := inventory.MovementFor(d.Movement)
	if err != nil {
		return false, err
	}
	claim, err := d.Claim(actor, nil)
	if err != nil {
		return false, err
	}
	return movement.IsCancellable(ctx, ledger, claim)
}

// Show returns a flat field-to-value map for presentation. Bonus lines
// report blank unit-of-measure and expiration fields.
func (d *DocumentDetail) Show() map[string]string {
	unit := d.UnitOfMeasure
	exp := ""
	if d.Kind == DetailKindBonus {
		unit = ""
	} else if d.ExpirationDate != nil {
		exp = d.ExpirationDate.Format("02/01/2006")
	}
	return map[string]string{
		"description":     d.Description,
		"unit_of_measure": unit,
		"expiration_date": exp,
		"quantity":        decimal.NewFromInt(d.Quantity).String(),
		"price":           d.Price.StringFixed(2),
		"total":           d.Total.StringFixed(2),
	}
}
