package inventory

import (
	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

const (
	EventLotCreated      = "inventory.lot.created"
	EventStockIncreased  = "inventory.stock.increased"
	EventStockDecreased  = "inventory.stock.decreased"
	EventStockReserved   = "inventory.stock.reserved"
	EventReserveReleased = "inventory.reserve.released"
	EventStockNegative   = "inventory.stock.negative"
)

// LotCreatedEvent fires when a new lot is opened, including synthetic empty
// lots created to carry oversold remainders.
type LotCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	LotID     uuid.UUID `json:"lot_id"`
}

func NewLotCreatedEvent(lot *Lot) *LotCreatedEvent {
	return &LotCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventLotCreated, "Lot", lot.ID),
		ProductID:       lot.ProductID,
		LotID:           lot.ID,
	}
}

// StockChangedEvent carries the before and after balance of a lot mutation
type StockChangedEvent struct {
	shared.BaseDomainEvent
	ProductID     uuid.UUID `json:"product_id"`
	LotID         uuid.UUID `json:"lot_id"`
	Quantity      int64     `json:"quantity"`
	BalanceBefore int64     `json:"balance_before"`
	BalanceAfter  int64     `json:"balance_after"`
}

func NewStockIncreasedEvent(lot *Lot, quantity, before, after int64) *StockChangedEvent {
	return &StockChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventStockIncreased, "Lot", lot.ID),
		ProductID:       lot.ProductID,
		LotID:           lot.ID,
		Quantity:        quantity,
		BalanceBefore:   before,
		BalanceAfter:    after,
	}
}

func NewStockDecreasedEvent(lot *Lot, quantity, before, after int64) *StockChangedEvent {
	eventType := EventStockDecreased
	if after < 0 {
		eventType = EventStockNegative
	}
	return &StockChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Lot", lot.ID),
		ProductID:       lot.ProductID,
		LotID:           lot.ID,
		Quantity:        quantity,
		BalanceBefore:   before,
		BalanceAfter:    after,
	}
}

// StockReservedEvent fires when available quantity is claimed by a reserve
type StockReservedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	LotID     uuid.UUID `json:"lot_id"`
	ReserveID uuid.UUID `json:"reserve_id"`
	Quantity  int64     `json:"quantity"`
}

func NewStockReservedEvent(lot *Lot, reserve *Reserve) *StockReservedEvent {
	return &StockReservedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventStockReserved, "Lot", lot.ID),
		ProductID:       lot.ProductID,
		LotID:           lot.ID,
		ReserveID:       reserve.ID,
		Quantity:        reserve.Quantity,
	}
}

// ReserveReleasedEvent fires when a reserve is returned to the available pool
type ReserveReleasedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	LotID     uuid.UUID `json:"lot_id"`
	ReserveID uuid.UUID `json:"reserve_id"`
	Quantity  int64     `json:"quantity"`
}

func NewReserveReleasedEvent(lot *Lot, reserve *Reserve) *ReserveReleasedEvent {
	return &ReserveReleasedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventReserveReleased, "Lot", lot.ID),
		ProductID:       lot.ProductID,
		LotID:           lot.ID,
		ReserveID:       reserve.ID,
		Quantity:        reserve.Quantity,
	}
}
