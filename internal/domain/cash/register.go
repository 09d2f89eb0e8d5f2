package cash

import (
	"fmt"
	"time"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Bank is a banking institution deposits are made to
type Bank struct {
	shared.BaseEntity
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (Bank) TableName() string {
	return "banks"
}

// NewBank creates a new bank
func NewBank(name string) (*Bank, error) {
	if name == "" {
		return nil, shared.NewFieldValidationError("MISSING_NAME", "Bank name cannot be empty", "name")
	}
	return &Bank{BaseEntity: shared.NewBaseEntity(), Name: name}, nil
}

// BankAccount is an account at a bank that receives deposits
type BankAccount struct {
	shared.BaseEntity
	BankID        uuid.UUID `gorm:"type:uuid;not null;index"`
	AccountNumber string    `gorm:"type:varchar(50);not null;uniqueIndex"`
	HolderName    string    `gorm:"type:varchar(100);not null"`
}

// TableName returns the table name for GORM
func (BankAccount) TableName() string {
	return "bank_accounts"
}

// NewBankAccount creates a new bank account
func NewBankAccount(bankID uuid.UUID, accountNumber, holderName string) (*BankAccount, error) {
	if bankID == uuid.Nil {
		return nil, shared.NewValidationError("INVALID_BANK", "Bank ID cannot be empty")
	}
	if accountNumber == "" {
		return nil, shared.NewFieldValidationError("MISSING_ACCOUNT_NUMBER", "Account number cannot be empty", "account_number")
	}
	if holderName == "" {
		return nil, shared.NewFieldValidationError("MISSING_HOLDER", "Holder name cannot be empty", "holder_name")
	}
	return &BankAccount{
		BaseEntity:    shared.NewBaseEntity(),
		BankID:        bankID,
		AccountNumber: accountNumber,
		HolderName:    holderName,
	}, nil
}

// Shift is a named working period of the day. Every register is opened
// under one, so takings can be balanced per shift rather than per calendar
// day.
type Shift struct {
	shared.BaseEntity
	Name string `gorm:"type:varchar(50);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (Shift) TableName() string {
	return "shifts"
}

// NewShift creates a new working shift
func NewShift(name string) (*Shift, error) {
	if name == "" {
		return nil, shared.NewFieldValidationError("MISSING_NAME", "Shift name cannot be empty", "name")
	}
	return &Shift{BaseEntity: shared.NewBaseEntity(), Name: name}, nil
}

// RegisterStatus represents the open/closed state of a cash register shift
type RegisterStatus string

const (
	RegisterStatusOpen   RegisterStatus = "OPEN"
	RegisterStatusClosed RegisterStatus = "CLOSED"
)

// IsValid checks if the status is a valid RegisterStatus
func (s RegisterStatus) IsValid() bool {
	switch s {
	case RegisterStatusOpen, RegisterStatusClosed:
		return true
	}
	return false
}

// CashRegister is one till opened for a shift. Receipts record their cash
// against the register that took the money; a register must be open to
// receive and is balanced at close.
type CashRegister struct {
	shared.AuditedAggregateRoot
	Name           string           `gorm:"type:varchar(100);not null"`
	ShiftID        uuid.UUID        `gorm:"type:uuid;not null;index"`
	Status         RegisterStatus   `gorm:"type:varchar(10);not null;index"`
	OpeningBalance decimal.Decimal  `gorm:"type:decimal(18,2);not null"`
	ClosingBalance *decimal.Decimal `gorm:"type:decimal(18,2)"`
	OpenedBy       uuid.UUID        `gorm:"type:uuid;not null"`
	OpenedAt       time.Time        `gorm:"not null"`
	ClosedBy       *uuid.UUID       `gorm:"type:uuid"`
	ClosedAt       *time.Time
}

// TableName returns the table name for GORM
func (CashRegister) TableName() string {
	return "cash_registers"
}

// OpenRegister opens a till under a working shift with its counted opening
// balance
func OpenRegister(openedBy uuid.UUID, name string, shiftID uuid.UUID, openingBalance decimal.Decimal) (*CashRegister, error) {
	if name == "" {
		return nil, shared.NewFieldValidationError("MISSING_NAME", "Register name cannot be empty", "name")
	}
	if shiftID == uuid.Nil {
		return nil, shared.NewValidationError("MISSING_SHIFT", "Register must be opened under a shift")
	}
	if openingBalance.IsNegative() {
		return nil, shared.NewValidationError("INVALID_BALANCE", "Opening balance cannot be negative")
	}
	if openedBy == uuid.Nil {
		return nil, shared.NewPreconditionError("opening a register requires an acting user")
	}

	return &CashRegister{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(openedBy),
		Name:                 name,
		ShiftID:              shiftID,
		Status:               RegisterStatusOpen,
		OpeningBalance:       openingBalance.Round(2),
		OpenedBy:             openedBy,
		OpenedAt:             time.Now(),
	}, nil
}

// IsOpen reports whether the register can still receive cash
func (r *CashRegister) IsOpen() bool {
	return r.Status == RegisterStatusOpen
}

// Close balances and closes the register with its counted closing balance
func (r *CashRegister) Close(closedBy uuid.UUID, closingBalance decimal.Decimal) error {
	if r.Status != RegisterStatusOpen {
		return shared.NewValidationError("INVALID_STATE",
			fmt.Sprintf("Register is already %s", r.Status))
	}
	if closingBalance.IsNegative() {
		return shared.NewValidationError("INVALID_BALANCE", "Closing balance cannot be negative")
	}
	if closedBy == uuid.Nil {
		return shared.NewPreconditionError("closing a register requires an acting user")
	}

	now := time.Now()
	balance := closingBalance.Round(2)
	r.Status = RegisterStatusClosed
	r.ClosingBalance = &balance
	r.ClosedBy = &closedBy
	r.ClosedAt = &now
	r.UpdatedAt = now
	r.AddDomainEvent(NewRegisterClosedEvent(r))
	return nil
}
