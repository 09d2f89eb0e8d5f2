package cash

import (
	"context"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashRepository defines the interface for receipt cash persistence
type CashRepository interface {
	// FindByID finds a cash row by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Cash, error)

	// FindByReceipt finds the cash row of a receipt
	FindByReceipt(ctx context.Context, receiptID uuid.UUID) (*Cash, error)

	// FindAvailableByRegister finds rows with available money at a register, oldest first
	FindAvailableByRegister(ctx context.Context, registerID uuid.UUID) ([]Cash, error)

	// SumAvailableByRegister sums available money at a register
	SumAvailableByRegister(ctx context.Context, registerID uuid.UUID) (decimal.Decimal, error)

	// Save creates or updates a cash row
	Save(ctx context.Context, cash *Cash) error
}

// CashReserveRepository defines the interface for cash reserve persistence
type CashReserveRepository interface {
	// FindByID finds a cash reserve by ID
	FindByID(ctx context.Context, id uuid.UUID) (*CashReserve, error)

	// FindByCash finds all reserves against a cash row
	FindByCash(ctx context.Context, cashID uuid.UUID) ([]CashReserve, error)

	// SumAmountByCash sums reserved amounts across a cash row's reserves
	SumAmountByCash(ctx context.Context, cashID uuid.UUID) (decimal.Decimal, error)

	// Save creates or updates a cash reserve
	Save(ctx context.Context, reserve *CashReserve) error

	// Delete removes a cash reserve row
	Delete(ctx context.Context, id uuid.UUID) error
}

// DepositRepository defines the interface for deposit slip persistence
type DepositRepository interface {
	// FindByID finds a deposit with its lines by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Deposit, error)

	// FindByRegister finds deposits made from a register, newest first
	FindByRegister(ctx context.Context, registerID uuid.UUID, filter shared.Filter) ([]Deposit, error)

	// Save creates or updates a deposit and its lines
	Save(ctx context.Context, deposit *Deposit) error

	// Delete removes an in-progress deposit that was discarded
	Delete(ctx context.Context, id uuid.UUID) error
}

// VoucherRepository defines the interface for card voucher persistence
type VoucherRepository interface {
	// FindByReceipt finds vouchers taken on a receipt
	FindByReceipt(ctx context.Context, receiptID uuid.UUID) ([]Voucher, error)

	// SumAmountByRegister sums voucher amounts taken at a register
	SumAmountByRegister(ctx context.Context, registerID uuid.UUID) (decimal.Decimal, error)

	// Save creates a voucher
	Save(ctx context.Context, voucher *Voucher) error

	// DeleteByReceipt removes the vouchers taken on a cancelled receipt
	DeleteByReceipt(ctx context.Context, receiptID uuid.UUID) error
}

// BankRepository defines the interface for bank persistence
type BankRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Bank, error)
	FindAll(ctx context.Context) ([]Bank, error)
	Save(ctx context.Context, bank *Bank) error
}

// BankAccountRepository defines the interface for bank account persistence
type BankAccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*BankAccount, error)
	FindByBank(ctx context.Context, bankID uuid.UUID) ([]BankAccount, error)
	Save(ctx context.Context, account *BankAccount) error
}

// ShiftRepository defines the interface for working shift persistence
type ShiftRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Shift, error)
	FindAll(ctx context.Context) ([]Shift, error)
	Save(ctx context.Context, shift *Shift) error
}

// CashRegisterRepository defines the interface for register persistence
type CashRegisterRepository interface {
	// FindByID finds a register by ID
	FindByID(ctx context.Context, id uuid.UUID) (*CashRegister, error)

	// FindOpen finds the registers currently open
	FindOpen(ctx context.Context) ([]CashRegister, error)

	// Save creates or updates a register
	Save(ctx context.Context, register *CashRegister) error
}
