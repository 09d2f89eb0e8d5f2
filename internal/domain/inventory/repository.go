package inventory

import (
	"context"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// LotRepository defines the interface for lot persistence.
// Lots are never deleted; they are created empty on demand and mutated only
// through the LotLedger.
type LotRepository interface {
	// FindByID finds a lot by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Lot, error)

	// FindByProduct finds all lots of a product in creation order
	FindByProduct(ctx context.Context, productID uuid.UUID) ([]Lot, error)

	// FindInStock finds lots of a product with available quantity, in creation order
	FindInStock(ctx context.Context, productID uuid.UUID) ([]Lot, error)

	// FindNegative finds lots of a product with negative on-hand quantity, in creation order
	FindNegative(ctx context.Context, productID uuid.UUID) ([]Lot, error)

	// FindExpired finds lots past their expiration date that still hold stock
	FindExpired(ctx context.Context, filter shared.Filter) ([]Lot, error)

	// SumQuantityByProduct sums on-hand quantity across a product's lots
	SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (int64, error)

	// SumAvailableByProduct sums available (on-hand minus reserved) quantity across a product's lots
	SumAvailableByProduct(ctx context.Context, productID uuid.UUID) (int64, error)

	// Save creates or updates a lot
	Save(ctx context.Context, lot *Lot) error
}

// ReserveRepository defines the interface for reserve persistence
type ReserveRepository interface {
	// FindByID finds a reserve by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Reserve, error)

	// FindByLot finds all reserves against a lot
	FindByLot(ctx context.Context, lotID uuid.UUID) ([]Reserve, error)

	// SumQuantityByLot sums reserved quantity across a lot's reserves
	SumQuantityByLot(ctx context.Context, lotID uuid.UUID) (int64, error)

	// Save creates or updates a reserve
	Save(ctx context.Context, reserve *Reserve) error

	// Delete removes a reserve row
	Delete(ctx context.Context, id uuid.UUID) error
}

// StockTransactionRepository defines the interface for the append-only
// stock movement journal. Corrections are made with new records, never
// updates.
type StockTransactionRepository interface {
	// Create appends a stock transaction record
	Create(ctx context.Context, tx *StockTransaction) error

	// FindByLot finds transactions against a lot
	FindByLot(ctx context.Context, lotID uuid.UUID, filter shared.Filter) ([]StockTransaction, error)

	// FindByProduct finds transactions for a product
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]StockTransaction, error)

	// FindBySource finds transactions by source document
	FindBySource(ctx context.Context, sourceType SourceType, sourceID uuid.UUID) ([]StockTransaction, error)
}
