package cash

import (
	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventCashReceived     = "cash.received"
	EventCashReversed     = "cash.reversed"
	EventVoucherReceived  = "cash.voucher.received"
	EventDepositCreated   = "cash.deposit.created"
	EventDepositCancelled = "cash.deposit.cancelled"
	EventRegisterClosed   = "cash.register.closed"
)

// CashReceivedEvent fires when money is taken on a receipt
type CashReceivedEvent struct {
	shared.BaseDomainEvent
	CashID    uuid.UUID       `json:"cash_id"`
	ReceiptID uuid.UUID       `json:"receipt_id"`
	Amount    decimal.Decimal `json:"amount"`
}

func NewCashReceivedEvent(c *Cash) *CashReceivedEvent {
	return &CashReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventCashReceived, "Cash", c.ID),
		CashID:          c.ID,
		ReceiptID:       c.ReceiptID,
		Amount:          c.Received,
	}
}

// CashReversedEvent fires when a cancelled receipt's cash is pulled back
type CashReversedEvent struct {
	shared.BaseDomainEvent
	CashID    uuid.UUID       `json:"cash_id"`
	ReceiptID uuid.UUID       `json:"receipt_id"`
	Amount    decimal.Decimal `json:"amount"`
}

func NewCashReversedEvent(c *Cash, amount decimal.Decimal) *CashReversedEvent {
	return &CashReversedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventCashReversed, "Cash", c.ID),
		CashID:          c.ID,
		ReceiptID:       c.ReceiptID,
		Amount:          amount,
	}
}

// VoucherReceivedEvent fires when a card payment is taken on a receipt
type VoucherReceivedEvent struct {
	shared.BaseDomainEvent
	VoucherID uuid.UUID       `json:"voucher_id"`
	ReceiptID uuid.UUID       `json:"receipt_id"`
	Amount    decimal.Decimal `json:"amount"`
}

func NewVoucherReceivedEvent(v *Voucher) *VoucherReceivedEvent {
	return &VoucherReceivedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventVoucherReceived, "Voucher", v.ID),
		VoucherID:       v.ID,
		ReceiptID:       v.ReceiptID,
		Amount:          v.Amount,
	}
}

// DepositCreatedEvent fires when a deposit slip is saved
type DepositCreatedEvent struct {
	shared.BaseDomainEvent
	DepositID     uuid.UUID       `json:"deposit_id"`
	BankAccountID uuid.UUID       `json:"bank_account_id"`
	Total         decimal.Decimal `json:"total"`
}

func NewDepositCreatedEvent(d *Deposit) *DepositCreatedEvent {
	return &DepositCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventDepositCreated, "Deposit", d.ID),
		DepositID:       d.ID,
		BankAccountID:   d.BankAccountID,
		Total:           d.Total,
	}
}

// DepositCancelledEvent fires when a saved deposit slip is cancelled
type DepositCancelledEvent struct {
	shared.BaseDomainEvent
	DepositID   uuid.UUID `json:"deposit_id"`
	CancelledBy uuid.UUID `json:"cancelled_by"`
	Reason      string    `json:"reason"`
}

func NewDepositCancelledEvent(d *Deposit, cancelledBy uuid.UUID, reason string) *DepositCancelledEvent {
	return &DepositCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventDepositCancelled, "Deposit", d.ID),
		DepositID:       d.ID,
		CancelledBy:     cancelledBy,
		Reason:          reason,
	}
}

// RegisterClosedEvent fires when a till is balanced and closed
type RegisterClosedEvent struct {
	shared.BaseDomainEvent
	RegisterID     uuid.UUID       `json:"register_id"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	ClosingBalance decimal.Decimal `json:"closing_balance"`
}

func NewRegisterClosedEvent(r *CashRegister) *RegisterClosedEvent {
	closing := decimal.Zero
	if r.ClosingBalance != nil {
		closing = *r.ClosingBalance
	}
	return &RegisterClosedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventRegisterClosed, "CashRegister", r.ID),
		RegisterID:      r.ID,
		OpeningBalance:  r.OpeningBalance,
		ClosingBalance:  closing,
	}
}
