package inventory

import (
	"context"
	"time"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SourceRef identifies the document that caused a lot mutation
type SourceRef struct {
	Type SourceType
	ID   uuid.UUID
}

// LotLedger is the single ownership boundary for all lot and reserve
// mutation. Domain and application code never writes lot state directly;
// every increase, decrease, reservation and release goes through here, which
// keeps the reserve conservation invariant (sum of reserves against a lot
// equals the lot's reserved quantity) in one place and lets the application
// layer wrap a whole document save or cancel in one transaction scope.
type LotLedger struct {
	lots     LotRepository
	reserves ReserveRepository
	journal  StockTransactionRepository
}

// NewLotLedger creates a new lot ledger over the given repositories.
// The journal repository may be nil; mutation then goes unjournaled.
func NewLotLedger(lots LotRepository, reserves ReserveRepository, journal StockTransactionRepository) *LotLedger {
	return &LotLedger{
		lots:     lots,
		reserves: reserves,
		journal:  journal,
	}
}

// GetLot returns a lot by ID
func (g *LotLedger) GetLot(ctx context.Context, id uuid.UUID) (*Lot, error) {
	return g.lots.FindByID(ctx, id)
}

// GetAvailable returns the product's total available quantity across lots
func (g *LotLedger) GetAvailable(ctx context.Context, productID uuid.UUID) (int64, error) {
	return g.lots.SumAvailableByProduct(ctx, productID)
}

// GetQuantity returns the product's total on-hand quantity across lots
func (g *LotLedger) GetQuantity(ctx context.Context, productID uuid.UUID) (int64, error) {
	return g.lots.SumQuantityByProduct(ctx, productID)
}

// SelectLots returns the lots needed to fulfill the requested quantity of
// units. Existing lots with available stock are taken in creation order; if
// stock runs out before the requirement is met, a new empty lot carrying the
// given price and expiration is created and persisted for the remainder.
func (g *LotLedger) SelectLots(ctx context.Context, productID uuid.UUID, requiredQty int64, price decimal.Decimal, expiration *time.Time) ([]*Lot, error) {
	if productID == uuid.Nil {
		return nil, shared.NewPreconditionError("SelectLots called with empty product ID")
	}
	if requiredQty <= 0 {
		return nil, shared.NewPreconditionError("SelectLots called with non-positive quantity %d", requiredQty)
	}

	inStock, err := g.lots.FindInStock(ctx, productID)
	if err != nil {
		return nil, err
	}

	lots := make([]*Lot, 0, len(inStock)+1)
	remaining := requiredQty
	for idx := range inStock {
		if remaining <= 0 {
			break
		}
		lot := &inStock[idx]
		available := lot.Available()
		if available <= 0 {
			continue
		}
		lots = append(lots, lot)
		if available >= remaining {
			remaining = 0
		} else {
			remaining -= available
		}
	}

	if remaining > 0 {
		empty, err := NewEmptyLot(productID, price, expiration)
		if err != nil {
			return nil, err
		}
		if err := g.lots.Save(ctx, empty); err != nil {
			return nil, err
		}
		lots = append(lots, empty)
	}

	return lots, nil
}

// SelectNegativeLots returns the lots with negative on-hand quantity needed
// to settle the requested quantity, used to pay off backorders first when
// new stock enters. A new empty lot with the given price and expiration
// carries any remainder.
func (g *LotLedger) SelectNegativeLots(ctx context.Context, productID uuid.UUID, requiredQty int64, price decimal.Decimal, expiration *time.Time) ([]*Lot, error) {
	if productID == uuid.Nil {
		return nil, shared.NewPreconditionError("SelectNegativeLots called with empty product ID")
	}
	if requiredQty <= 0 {
		return nil, shared.NewPreconditionError("SelectNegativeLots called with non-positive quantity %d", requiredQty)
	}

	negatives, err := g.lots.FindNegative(ctx, productID)
	if err != nil {
		return nil, err
	}

	lots := make([]*Lot, 0, len(negatives)+1)
	remaining := requiredQty
	for idx := range negatives {
		if remaining <= 0 {
			break
		}
		lot := &negatives[idx]
		owed := -lot.Available()
		if owed <= 0 {
			continue
		}
		lots = append(lots, lot)
		if owed >= remaining {
			remaining = 0
		} else {
			remaining -= owed
		}
	}

	if remaining > 0 {
		empty, err := NewEmptyLot(productID, price, expiration)
		if err != nil {
			return nil, err
		}
		if err := g.lots.Save(ctx, empty); err != nil {
			return nil, err
		}
		lots = append(lots, empty)
	}

	return lots, nil
}

// Increase adds stock to a lot
func (g *LotLedger) Increase(ctx context.Context, lot *Lot, quantity int64, actor uuid.UUID, source *SourceRef) error {
	if err := validateMutation(lot, quantity); err != nil {
		return err
	}

	before := lot.Quantity
	lot.Quantity += quantity
	lot.UpdatedAt = time.Now()
	if err := g.lots.Save(ctx, lot); err != nil {
		return err
	}

	return g.record(ctx, lot, StockTransactionEntry, quantity, before, lot.Quantity, actor, source)
}

// Decrease removes stock from a lot. The quantity may exceed the on-hand
// amount; the lot then enters the negative (oversold) regime.
func (g *LotLedger) Decrease(ctx context.Context, lot *Lot, quantity int64, actor uuid.UUID, source *SourceRef) error {
	if err := validateMutation(lot, quantity); err != nil {
		return err
	}

	before := lot.Quantity
	lot.Quantity -= quantity
	lot.UpdatedAt = time.Now()
	if err := g.lots.Save(ctx, lot); err != nil {
		return err
	}

	return g.record(ctx, lot, StockTransactionWithdraw, quantity, before, lot.Quantity, actor, source)
}

// CreateReserve claims available quantity from a lot ahead of a committing
// withdrawal. The requested quantity must not exceed the lot's available
// quantity.
func (g *LotLedger) CreateReserve(ctx context.Context, lot *Lot, quantity int64, actor uuid.UUID) (*Reserve, error) {
	if err := validateMutation(lot, quantity); err != nil {
		return nil, err
	}
	if quantity > lot.Available() {
		return nil, shared.NewValidationError("INSUFFICIENT_STOCK",
			"Requested quantity exceeds the lot's available quantity")
	}
	return g.reserve(ctx, lot, quantity, actor)
}

// CreateBackorderReserve claims quantity from a lot beyond its available
// stock. Used only against synthetic empty lots when a withdrawal cannot be
// covered; applying the withdraw drives the lot negative.
func (g *LotLedger) CreateBackorderReserve(ctx context.Context, lot *Lot, quantity int64, actor uuid.UUID) (*Reserve, error) {
	if err := validateMutation(lot, quantity); err != nil {
		return nil, err
	}
	return g.reserve(ctx, lot, quantity, actor)
}

func (g *LotLedger) reserve(ctx context.Context, lot *Lot, quantity int64, actor uuid.UUID) (*Reserve, error) {
	reserve, err := NewReserve(lot, quantity, actor)
	if err != nil {
		return nil, err
	}

	before := lot.Quantity
	lot.Reserved += quantity
	lot.UpdatedAt = time.Now()
	if err := g.lots.Save(ctx, lot); err != nil {
		return nil, err
	}

	if err := reserve.MarkCreated(); err != nil {
		return nil, err
	}
	if err := g.reserves.Save(ctx, reserve); err != nil {
		return nil, err
	}

	if err := g.record(ctx, lot, StockTransactionReserve, quantity, before, lot.Quantity, actor, nil); err != nil {
		return nil, err
	}
	return reserve, nil
}

// MergeReserves folds src into dst: quantities are summed and the source row
// is deleted. Both reserves already count toward the lot's reserved
// quantity, so the lot itself is untouched and conservation holds.
func (g *LotLedger) MergeReserves(ctx context.Context, dst, src *Reserve) error {
	if dst == nil || src == nil {
		return shared.NewPreconditionError("nil reserve passed to MergeReserves")
	}
	if dst.Status != ReserveStatusCreated || src.Status != ReserveStatusCreated {
		return shared.NewPreconditionError("merge requires persisted reserves")
	}

	if err := dst.Absorb(src); err != nil {
		return err
	}
	if err := g.reserves.Save(ctx, dst); err != nil {
		return err
	}
	return g.reserves.Delete(ctx, src.ID)
}

// ReleaseReserve returns a reserve's quantity to the lot's available pool
// and removes the reserve row. Used when a document line is discarded before
// its withdrawal was ever applied.
func (g *LotLedger) ReleaseReserve(ctx context.Context, reserve *Reserve, actor uuid.UUID) error {
	if reserve == nil {
		return shared.NewPreconditionError("nil reserve passed to ReleaseReserve")
	}
	if reserve.Status != ReserveStatusCreated {
		return shared.NewPreconditionError("release requires a persisted reserve")
	}

	lot, err := g.lots.FindByID(ctx, reserve.LotID)
	if err != nil {
		return err
	}

	before := lot.Quantity
	lot.Reserved -= reserve.Quantity
	lot.UpdatedAt = time.Now()
	if err := g.lots.Save(ctx, lot); err != nil {
		return err
	}
	if err := g.reserves.Delete(ctx, reserve.ID); err != nil {
		return err
	}

	return g.record(ctx, lot, StockTransactionReserveRelease, reserve.Quantity, before, lot.Quantity, actor, nil)
}

// ConsumeReserve turns a soft reservation into a hard deduction: the lot's
// reserved and on-hand quantities both drop by the reserved amount and the
// reserve row is removed.
func (g *LotLedger) ConsumeReserve(ctx context.Context, reserve *Reserve, actor uuid.UUID, source *SourceRef) error {
	if reserve == nil {
		return shared.NewPreconditionError("nil reserve passed to ConsumeReserve")
	}
	if reserve.Status != ReserveStatusCreated {
		return shared.NewPreconditionError("consume requires a persisted reserve")
	}

	lot, err := g.lots.FindByID(ctx, reserve.LotID)
	if err != nil {
		return err
	}

	before := lot.Quantity
	lot.Reserved -= reserve.Quantity
	lot.Quantity -= reserve.Quantity
	lot.UpdatedAt = time.Now()
	if err := g.lots.Save(ctx, lot); err != nil {
		return err
	}
	if err := g.reserves.Delete(ctx, reserve.ID); err != nil {
		return err
	}

	return g.record(ctx, lot, StockTransactionWithdraw, reserve.Quantity, before, lot.Quantity, actor, source)
}

// GetReserve returns a reserve by ID
func (g *LotLedger) GetReserve(ctx context.Context, id uuid.UUID) (*Reserve, error) {
	return g.reserves.FindByID(ctx, id)
}

// ShowLots returns flat field maps of a product's lots plus total and
// available sums, for presentation.
func (g *LotLedger) ShowLots(ctx context.Context, productID uuid.UUID) ([]map[string]string, int64, int64, error) {
	lots, err := g.lots.FindByProduct(ctx, productID)
	if err != nil {
		return nil, 0, 0, err
	}

	rows := make([]map[string]string, 0, len(lots))
	var quantity, available int64
	for idx := range lots {
		rows = append(rows, lots[idx].Show())
		quantity += lots[idx].Quantity
		available += lots[idx].Available()
	}
	return rows, quantity, available, nil
}

func (g *LotLedger) record(ctx context.Context, lot *Lot, txType StockTransactionType, quantity, before, after int64, actor uuid.UUID, source *SourceRef) error {
	if g.journal == nil {
		return nil
	}
	record, err := NewStockTransaction(lot, txType, quantity, before, after, actor)
	if err != nil {
		return err
	}
	if source != nil {
		record.WithSource(source.Type, source.ID)
	}
	return g.journal.Create(ctx, record)
}

func validateMutation(lot *Lot, quantity int64) error {
	if lot == nil {
		return shared.NewPreconditionError("nil lot passed to lot ledger")
	}
	if quantity <= 0 {
		return shared.NewPreconditionError("lot ledger mutation with non-positive quantity %d", quantity)
	}
	return nil
}
