package cash

import (
	"time"

	"github.com/pos/backend/internal/domain/cash"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateDepositRequest opens a new in-progress deposit slip
type CreateDepositRequest struct {
	CreatedBy     uuid.UUID `json:"-"`
	BankAccountID uuid.UUID `json:"bank_account_id" validate:"required"`
	RegisterID    uuid.UUID `json:"register_id" validate:"required"`
	SlipNumber    string    `json:"slip_number" validate:"required"`
}

// AddCashRequest claims available register cash onto a slip
type AddCashRequest struct {
	DepositID uuid.UUID       `json:"-"`
	Actor     uuid.UUID       `json:"-"`
	Amount    decimal.Decimal `json:"amount" validate:"required"`
}

// CancelDepositRequest reverses a saved deposit slip
type CancelDepositRequest struct {
	DepositID   uuid.UUID `json:"-"`
	CancelledBy uuid.UUID `json:"-"`
	Reason      string    `json:"reason" validate:"required"`
}

// DepositDetailResponse is one slip line in API responses
type DepositDetailResponse struct {
	Key     string          `json:"key"`
	CashID  uuid.UUID       `json:"cash_id"`
	Amount  decimal.Decimal `json:"amount"`
	Applied bool            `json:"applied"`
}

// DepositResponse is the API representation of a deposit slip
type DepositResponse struct {
	ID            uuid.UUID               `json:"id"`
	BankAccountID uuid.UUID               `json:"bank_account_id"`
	RegisterID    uuid.UUID               `json:"register_id"`
	SlipNumber    string                  `json:"slip_number"`
	Status        string                  `json:"status"`
	Total         decimal.Decimal         `json:"total"`
	Details       []DepositDetailResponse `json:"details"`
	DepositedAt   *time.Time              `json:"deposited_at,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
}

// ToDepositResponse converts a deposit to its API representation
func ToDepositResponse(d *cash.Deposit) *DepositResponse {
	details := make([]DepositDetailResponse, len(d.Details))
	for i := range d.Details {
		detail := &d.Details[i]
		details[i] = DepositDetailResponse{
			Key:     detail.Key(),
			CashID:  detail.CashID,
			Amount:  detail.Amount,
			Applied: detail.Applied,
		}
	}
	return &DepositResponse{
		ID:            d.ID,
		BankAccountID: d.BankAccountID,
		RegisterID:    d.RegisterID,
		SlipNumber:    d.SlipNumber,
		Status:        string(d.Status),
		Total:         d.Total,
		Details:       details,
		DepositedAt:   d.DepositedAt,
		CreatedAt:     d.CreatedAt,
	}
}

// OpenRegisterRequest opens a cash register under a working shift
type OpenRegisterRequest struct {
	OpenedBy       uuid.UUID       `json:"-"`
	Name           string          `json:"name" validate:"required"`
	ShiftID        uuid.UUID       `json:"shift_id" validate:"required"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// ShiftResponse is the API representation of a working shift
type ShiftResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ToShiftResponse converts a shift to its API representation
func ToShiftResponse(s *cash.Shift) *ShiftResponse {
	return &ShiftResponse{ID: s.ID, Name: s.Name}
}

// CloseRegisterRequest closes a register with its counted balance
type CloseRegisterRequest struct {
	RegisterID     uuid.UUID       `json:"-"`
	ClosedBy       uuid.UUID       `json:"-"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

// RegisterResponse is the API representation of a cash register
type RegisterResponse struct {
	ID             uuid.UUID        `json:"id"`
	Name           string           `json:"name"`
	ShiftID        uuid.UUID        `json:"shift_id"`
	Status         string           `json:"status"`
	OpeningBalance decimal.Decimal  `json:"opening_balance"`
	ClosingBalance *decimal.Decimal `json:"closing_balance,omitempty"`
	OpenedAt       time.Time        `json:"opened_at"`
	ClosedAt       *time.Time       `json:"closed_at,omitempty"`
}

// ToRegisterResponse converts a register to its API representation
func ToRegisterResponse(r *cash.CashRegister) *RegisterResponse {
	return &RegisterResponse{
		ID:             r.ID,
		Name:           r.Name,
		ShiftID:        r.ShiftID,
		Status:         string(r.Status),
		OpeningBalance: r.OpeningBalance,
		ClosingBalance: r.ClosingBalance,
		OpenedAt:       r.OpenedAt,
		ClosedAt:       r.ClosedAt,
	}
}

// RegisterBalanceResponse reports a register's money position
type RegisterBalanceResponse struct {
	RegisterID     uuid.UUID       `json:"register_id"`
	Name           string          `json:"name"`
	Status         string          `json:"status"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CashAvailable  decimal.Decimal `json:"cash_available"`
	VoucherTotal   decimal.Decimal `json:"voucher_total"`
}

// CreateBankAccountRequest registers an account at a bank
type CreateBankAccountRequest struct {
	BankID        uuid.UUID `json:"bank_id" validate:"required"`
	AccountNumber string    `json:"account_number" validate:"required"`
	HolderName    string    `json:"holder_name" validate:"required"`
}

// BankResponse is the API representation of a bank
type BankResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// ToBankResponse converts a bank to its API representation
func ToBankResponse(b *cash.Bank) *BankResponse {
	return &BankResponse{ID: b.ID, Name: b.Name}
}

// BankAccountResponse is the API representation of a bank account
type BankAccountResponse struct {
	ID            uuid.UUID `json:"id"`
	BankID        uuid.UUID `json:"bank_id"`
	AccountNumber string    `json:"account_number"`
	HolderName    string    `json:"holder_name"`
}

// ToBankAccountResponse converts a bank account to its API representation
func ToBankAccountResponse(a *cash.BankAccount) *BankAccountResponse {
	return &BankAccountResponse{
		ID:            a.ID,
		BankID:        a.BankID,
		AccountNumber: a.AccountNumber,
		HolderName:    a.HolderName,
	}
}
