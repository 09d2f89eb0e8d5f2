package inventory

import (
	"time"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// StockTransactionType represents the type of a stock journal record
type StockTransactionType string

const (
	StockTransactionEntry          StockTransactionType = "ENTRY"
	StockTransactionWithdraw       StockTransactionType = "WITHDRAW"
	StockTransactionReserve        StockTransactionType = "RESERVE"
	StockTransactionReserveRelease StockTransactionType = "RESERVE_RELEASE"
	StockTransactionCancellation   StockTransactionType = "CANCELLATION"
)

// IsValid returns true if the transaction type is valid
func (t StockTransactionType) IsValid() bool {
	switch t {
	case StockTransactionEntry,
		StockTransactionWithdraw,
		StockTransactionReserve,
		StockTransactionReserveRelease,
		StockTransactionCancellation:
		return true
	}
	return false
}

// String returns the string representation of the transaction type
func (t StockTransactionType) String() string {
	return string(t)
}

// SourceType identifies the kind of document that caused a stock movement
type SourceType string

const (
	SourceTypeInvoice            SourceType = "INVOICE"
	SourceTypeReceipt            SourceType = "RECEIPT"
	SourceTypeShipment           SourceType = "SHIPMENT"
	SourceTypePurchaseReturn     SourceType = "PURCHASE_RETURN"
	SourceTypeEntryAdjustment    SourceType = "ENTRY_ADJUSTMENT"
	SourceTypeWithdrawAdjustment SourceType = "WITHDRAW_ADJUSTMENT"
)

// IsValid returns true if the source type is valid
func (s SourceType) IsValid() bool {
	switch s {
	case SourceTypeInvoice,
		SourceTypeReceipt,
		SourceTypeShipment,
		SourceTypePurchaseReturn,
		SourceTypeEntryAdjustment,
		SourceTypeWithdrawAdjustment:
		return true
	}
	return false
}

// String returns the string representation of the source type
func (s SourceType) String() string {
	return string(s)
}

// StockTransaction is an immutable journal record of a lot mutation.
type StockTransaction struct {
	shared.BaseEntity
	LotID           uuid.UUID            `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID            `gorm:"type:uuid;not null;index"`
	Type            StockTransactionType `gorm:"type:varchar(20);not null;index"`
	Quantity        int64                `gorm:"not null"`
	BalanceBefore   int64                `gorm:"not null"`
	BalanceAfter    int64                `gorm:"not null"`
	SourceType      *SourceType          `gorm:"type:varchar(30);index:idx_stock_tx_source"`
	SourceID        *uuid.UUID           `gorm:"type:uuid;index:idx_stock_tx_source"`
	OperatorID      uuid.UUID            `gorm:"type:uuid;not null"`
	TransactionDate time.Time            `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (StockTransaction) TableName() string {
	return "stock_transactions"
}

// NewStockTransaction creates a new stock journal record
func NewStockTransaction(lot *Lot, txType StockTransactionType, quantity, balanceBefore, balanceAfter int64, operatorID uuid.UUID) (*StockTransaction, error) {
	if lot == nil {
		return nil, shared.NewPreconditionError("nil lot passed to NewStockTransaction")
	}
	if !txType.IsValid() {
		return nil, shared.NewPreconditionError("invalid stock transaction type %q", txType)
	}
	if quantity <= 0 {
		return nil, shared.NewValidationError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if operatorID == uuid.Nil {
		return nil, shared.NewPreconditionError("stock transaction requires an operator")
	}

	return &StockTransaction{
		BaseEntity:      shared.NewBaseEntity(),
		LotID:           lot.ID,
		ProductID:       lot.ProductID,
		Type:            txType,
		Quantity:        quantity,
		BalanceBefore:   balanceBefore,
		BalanceAfter:    balanceAfter,
		OperatorID:      operatorID,
		TransactionDate: time.Now(),
	}, nil
}

// WithSource attaches the causing document to the record
func (t *StockTransaction) WithSource(sourceType SourceType, sourceID uuid.UUID) *StockTransaction {
	t.SourceType = &sourceType
	t.SourceID = &sourceID
	return t
}
