package inventory

import (
	"time"

	"github.com/pos/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockResponse is a product's stock position with its lot breakdown
type StockResponse struct {
	ProductID   uuid.UUID           `json:"product_id"`
	Description string              `json:"description"`
	Quantity    int64               `json:"quantity"`
	Available   int64               `json:"available"`
	Lots        []map[string]string `json:"lots"`
}

// LotResponse is the API representation of a lot
type LotResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	Quantity       int64           `json:"quantity"`
	Reserved       int64           `json:"reserved"`
	Available      int64           `json:"available"`
	Price          decimal.Decimal `json:"price"`
	ExpirationDate *time.Time      `json:"expiration_date,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

// ToLotResponse converts a lot to its API representation
func ToLotResponse(lot *inventory.Lot) *LotResponse {
	return &LotResponse{
		ID:             lot.ID,
		ProductID:      lot.ProductID,
		Quantity:       lot.Quantity,
		Reserved:       lot.Reserved,
		Available:      lot.Available(),
		Price:          lot.Price,
		ExpirationDate: lot.ExpirationDate,
		CreatedAt:      lot.CreatedAt,
	}
}

// StockTransactionResponse is one journal record in API responses
type StockTransactionResponse struct {
	ID              uuid.UUID  `json:"id"`
	LotID           uuid.UUID  `json:"lot_id"`
	ProductID       uuid.UUID  `json:"product_id"`
	Type            string     `json:"type"`
	Quantity        int64      `json:"quantity"`
	BalanceBefore   int64      `json:"balance_before"`
	BalanceAfter    int64      `json:"balance_after"`
	SourceType      string     `json:"source_type,omitempty"`
	SourceID        *uuid.UUID `json:"source_id,omitempty"`
	OperatorID      uuid.UUID  `json:"operator_id"`
	TransactionDate time.Time  `json:"transaction_date"`
}

// ToStockTransactionResponse converts a journal record to its API representation
func ToStockTransactionResponse(tx *inventory.StockTransaction) *StockTransactionResponse {
	resp := &StockTransactionResponse{
		ID:              tx.ID,
		LotID:           tx.LotID,
		ProductID:       tx.ProductID,
		Type:            string(tx.Type),
		Quantity:        tx.Quantity,
		BalanceBefore:   tx.BalanceBefore,
		BalanceAfter:    tx.BalanceAfter,
		SourceID:        tx.SourceID,
		OperatorID:      tx.OperatorID,
		TransactionDate: tx.TransactionDate,
	}
	if tx.SourceType != nil {
		resp.SourceType = string(*tx.SourceType)
	}
	return resp
}
