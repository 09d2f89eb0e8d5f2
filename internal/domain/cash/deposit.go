package cash

import (
	"fmt"
	"time"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DepositStatus represents the lifecycle state of a deposit slip
type DepositStatus string

const (
	DepositStatusInProgress DepositStatus = "IN_PROGRESS"
	DepositStatusCreated    DepositStatus = "CREATED"
	DepositStatusCancelled  DepositStatus = "CANCELLED"
)

// IsValid checks if the status is a valid DepositStatus
func (s DepositStatus) IsValid() bool {
	switch s {
	case DepositStatusInProgress, DepositStatusCreated, DepositStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of DepositStatus
func (s DepositStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s DepositStatus) CanTransitionTo(target DepositStatus) bool {
	switch s {
	case DepositStatusInProgress:
		return target == DepositStatusCreated
	case DepositStatusCreated:
		return target == DepositStatusCancelled
	case DepositStatusCancelled:
		return false // terminal
	}
	return false
}

// DepositDetail is one line of a deposit slip, carrying a claim on one
// receipt's cash.
type DepositDetail struct {
	shared.BaseEntity
	DepositID uuid.UUID       `gorm:"type:uuid;not null;index"`
	CashID    uuid.UUID       `gorm:"type:uuid;not null"`
	ReserveID *uuid.UUID      `gorm:"type:uuid"`
	Amount    decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Applied   bool            `gorm:"not null;default:false"`
}

// TableName returns the table name for GORM
func (DepositDetail) TableName() string {
	return "deposit_details"
}

// NewDepositDetail creates a deposit line wrapping a cash reserve
func NewDepositDetail(cash *Cash, reserve *CashReserve, amount decimal.Decimal) (*DepositDetail, error) {
	if cash == nil {
		return nil, shared.NewPreconditionError("nil cash passed to NewDepositDetail")
	}
	if reserve == nil {
		return nil, shared.NewPreconditionError("deposit line requires a cash reserve")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewValidationError("INVALID_AMOUNT", "Deposit amount must be positive")
	}

	return &DepositDetail{
		BaseEntity: shared.NewBaseEntity(),
		CashID:     cash.ID,
		ReserveID:  &reserve.ID,
		Amount:     amount.Round(2),
	}, nil
}

// Key returns the merge identity of the line: the cash row it draws on
func (d *DepositDetail) Key() string {
	return d.CashID.String()
}

// Merge folds another line on the same cash row into this one. Reserve
// merging is the caller's job.
func (d *DepositDetail) Merge(other *DepositDetail) error {
	if other == nil {
		return shared.NewPreconditionError("nil detail passed to Merge")
	}
	if other.Key() != d.Key() {
		return shared.NewPreconditionError("cannot merge deposit lines of different cash rows")
	}
	d.Amount = d.Amount.Add(other.Amount)
	d.UpdatedAt = time.Now()
	return nil
}

// Deposit is a bank deposit slip aggregating claims on receipt cash. Saving
// the slip consumes each line's reserve, moving the money from reserved to
// deposited; cancelling returns it to the available pool.
type Deposit struct {
	shared.AuditedAggregateRoot
	BankAccountID uuid.UUID       `gorm:"type:uuid;not null;index"`
	RegisterID    uuid.UUID       `gorm:"type:uuid;not null;index"`
	SlipNumber    string          `gorm:"type:varchar(50);not null"`
	Status        DepositStatus   `gorm:"type:varchar(20);not null;index"`
	Total         decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Details       []DepositDetail `gorm:"foreignKey:DepositID"`
	DepositedAt   *time.Time
	CancelledBy   *uuid.UUID `gorm:"type:uuid"`
	CancelledAt   *time.Time
	CancelReason  string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (Deposit) TableName() string {
	return "deposits"
}

// NewDeposit creates an in-progress deposit slip
func NewDeposit(createdBy, bankAccountID, registerID uuid.UUID, slipNumber string) (*Deposit, error) {
	if bankAccountID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_ACCOUNT", "Bank account ID cannot be empty")
	}
	if registerID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_REGISTER", "Register ID cannot be empty")
	}
	if slipNumber == "" {
		return nil, shared.NewFieldValidationError("MISSING_SLIP_NUMBER", "Slip number cannot be empty", "slip_number")
	}

	return &Deposit{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(createdBy),
		BankAccountID:        bankAccountID,
		RegisterID:           registerID,
		SlipNumber:           slipNumber,
		Status:               DepositStatusInProgress,
		Total:                decimal.Zero,
		Details:              make([]DepositDetail, 0),
	}, nil
}

// AddDetail attaches a line, merging by cash row. Returns the line the
// detail landed on and whether a merge happened; on a merge the caller folds
// the new detail's reserve into the kept line's through the cash ledger.
func (d *Deposit) AddDetail(detail *DepositDetail) (*DepositDetail, bool, error) {
	if d.Status != DepositStatusInProgress {
		return nil, false, shared.NewValidationError("INVALID_STATE", "Cannot add lines to a finalized deposit")
	}
	if detail == nil {
		return nil, false, shared.NewPreconditionError("nil detail passed to AddDetail")
	}

	for idx := range d.Details {
		if d.Details[idx].Key() == detail.Key() {
			if err := d.Details[idx].Merge(detail); err != nil {
				return nil, false, err
			}
			d.recalculateTotal()
			d.UpdatedAt = time.Now()
			return &d.Details[idx], true, nil
		}
	}

	detail.DepositID = d.ID
	d.Details = append(d.Details, *detail)
	d.recalculateTotal()
	d.UpdatedAt = time.Now()
	return &d.Details[len(d.Details)-1], false, nil
}

// DeleteDetail removes a line by key and returns it so the caller can
// release its reserve.
func (d *Deposit) DeleteDetail(key string) (*DepositDetail, error) {
	if d.Status != DepositStatusInProgress {
		return nil, shared.NewValidationError("INVALID_STATE", "Cannot remove lines from a finalized deposit")
	}

	for idx := range d.Details {
		if d.Details[idx].Key() == key {
			removed := d.Details[idx]
			d.Details = append(d.Details[:idx], d.Details[idx+1:]...)
			d.recalculateTotal()
			d.UpdatedAt = time.Now()
			return &removed, nil
		}
	}
	return nil, shared.NewValidationError("DETAIL_NOT_FOUND", "Deposit line not found")
}

// MarkCreated finalizes the slip after its lines' reserves were consumed
func (d *Deposit) MarkCreated() error {
	if !d.Status.CanTransitionTo(DepositStatusCreated) {
		return shared.NewValidationError("INVALID_STATE",
			fmt.Sprintf("Cannot save a deposit in %s status", d.Status))
	}
	if len(d.Details) == 0 {
		return shared.NewValidationError("NO_DETAILS", "Deposit has no lines")
	}
	now := time.Now()
	d.Status = DepositStatusCreated
	d.DepositedAt = &now
	d.UpdatedAt = now
	d.AddDomainEvent(NewDepositCreatedEvent(d))
	return nil
}

// MarkCancelled records the cancellation audit after the deposited amounts
// were returned to the available pool.
func (d *Deposit) MarkCancelled(cancelledBy uuid.UUID, reason string) error {
	if !d.Status.CanTransitionTo(DepositStatusCancelled) {
		return shared.NewValidationError("INVALID_STATE",
			fmt.Sprintf("Cannot cancel a deposit in %s status", d.Status))
	}
	if cancelledBy == uuid.Nil {
		return shared.NewPreconditionError("cancellation requires an acting user")
	}
	now := time.Now()
	d.Status = DepositStatusCancelled
	d.CancelledBy = &cancelledBy
	d.CancelledAt = &now
	d.CancelReason = reason
	d.UpdatedAt = now
	d.AddDomainEvent(NewDepositCancelledEvent(d, cancelledBy, reason))
	return nil
}

// CanDiscard reports whether the slip can be abandoned before save
func (d *Deposit) CanDiscard() bool {
	return d.Status == DepositStatusInProgress
}

func (d *Deposit) recalculateTotal() {
	total := decimal.Zero
	for idx := range d.Details {
		total = total.Add(d.Details[idx].Amount)
	}
	d.Total = total
}

// Show returns a flat field-to-value map of the slip header
func (d *Deposit) Show() map[string]string {
	deposited := ""
	if d.DepositedAt != nil {
		deposited = d.DepositedAt.Format("02/01/2006 15:04")
	}
	return map[string]string{
		"slip_number":  d.SlipNumber,
		"status":       d.Status.String(),
		"total":        d.Total.StringFixed(2),
		"deposited_at": deposited,
	}
}
