package inventory

import (
	"time"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ReserveStatus represents the lifecycle state of a reserve
type ReserveStatus string

const (
	ReserveStatusInProgress ReserveStatus = "IN_PROGRESS"
	ReserveStatusCreated    ReserveStatus = "CREATED"
)

// IsValid checks if the status is a valid ReserveStatus
func (s ReserveStatus) IsValid() bool {
	switch s {
	case ReserveStatusInProgress, ReserveStatusCreated:
		return true
	}
	return false
}

// String returns the string representation of ReserveStatus
func (s ReserveStatus) String() string {
	return string(s)
}

// Reserve is a soft claim against a lot's available quantity, made before a
// document is finalized. It is consumed when the owning withdraw line is
// applied, or released back to the lot when the line is discarded.
type Reserve struct {
	shared.BaseEntity
	LotID      uuid.UUID     `gorm:"type:uuid;not null;index"`
	ProductID  uuid.UUID     `gorm:"type:uuid;not null;index"`
	Quantity   int64         `gorm:"not null"`
	Status     ReserveStatus `gorm:"type:varchar(20);not null"`
	ReservedBy uuid.UUID     `gorm:"type:uuid;not null"`
	ReservedAt time.Time     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Reserve) TableName() string {
	return "reserves"
}

// NewReserve creates a new in-progress reserve against a lot.
// The available-quantity bound is enforced by the LotLedger, which owns all
// lot mutation; constructing a Reserve alone claims nothing.
func NewReserve(lot *Lot, quantity int64, reservedBy uuid.UUID) (*Reserve, error) {
	if lot == nil {
		return nil, shared.NewPreconditionError("nil lot passed to NewReserve")
	}
	if quantity <= 0 {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Reserve quantity must be positive")
	}
	if reservedBy == uuid.Nil {
		return nil, shared.NewPreconditionError("reserve requires an acting user")
	}

	return &Reserve{
		BaseEntity: shared.NewBaseEntity(),
		LotID:      lot.ID,
		ProductID:  lot.ProductID,
		Quantity:   quantity,
		Status:     ReserveStatusInProgress,
		ReservedBy: reservedBy,
		ReservedAt: time.Now(),
	}, nil
}

// MarkCreated transitions the reserve to CREATED once persisted
func (r *Reserve) MarkCreated() error {
	if r.Status != ReserveStatusInProgress {
		return shared.NewPreconditionError("reserve %s is already %s", r.ID, r.Status)
	}
	r.Status = ReserveStatusCreated
	r.UpdatedAt = time.Now()
	return nil
}

// Absorb merges another reserve's quantity into this one. Both reserves
// already count toward the lot's reserved amount, so the lot itself stays
// untouched; the caller deletes the absorbed row.
func (r *Reserve) Absorb(other *Reserve) error {
	if other == nil {
		return shared.NewPreconditionError("nil reserve passed to Absorb")
	}
	if other.LotID != r.LotID {
		return shared.NewPreconditionError("cannot merge reserves of different lots")
	}
	r.Quantity += other.Quantity
	r.UpdatedAt = time.Now()
	return nil
}
