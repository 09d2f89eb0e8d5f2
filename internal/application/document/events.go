package document

import (
	"context"
	"time"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/document"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EntryEvent adds incoming stock lines to a document. Negative lots are
// settled first so backorders are paid off before new stock piles up in a
// fresh lot carrying the entry's price and expiration.
type EntryEvent struct {
	ledger *inventory.LotLedger
}

// NewEntryEvent creates an entry event over the lot ledger
func NewEntryEvent(ledger *inventory.LotLedger) *EntryEvent {
	return &EntryEvent{ledger: ledger}
}

// AddProduct distributes the incoming quantity over the product's negative
// lots and a remainder lot, adding one document line per lot touched.
// Entry lines claim no reserve; stock only moves when the document is saved.
func (e *EntryEvent) AddProduct(ctx context.Context, doc *document.Document, product *catalog.Product, quantity int64, price decimal.Decimal, expiration *time.Time) error {
	lots, err := e.ledger.SelectNegativeLots(ctx, product.ID, quantity, price, expiration)
	if err != nil {
		return err
	}

	remaining := quantity
	for _, lot := range lots {
		take := remaining
		if owed := -lot.Available(); owed > 0 && owed < remaining {
			take = owed
		}

		detail, err := document.NewProductDetail(product.ID, product.Description, product.UnitOfMeasure,
			lot, nil, inventory.MovementEntry, take, price)
		if err != nil {
			return err
		}
		if _, _, err := doc.AddDetail(detail); err != nil {
			return err
		}
		remaining -= take
		if remaining <= 0 {
			break
		}
	}
	return nil
}

// WithdrawEvent adds outgoing stock lines to a document. Each line claims a
// reserve on its lot so the stock cannot be promised twice before the
// document is saved. When existing lots cannot cover the quantity, the
// remainder is backordered against a fresh empty lot.
type WithdrawEvent struct {
	ledger *inventory.LotLedger
}

// NewWithdrawEvent creates a withdraw event over the lot ledger
func NewWithdrawEvent(ledger *inventory.LotLedger) *WithdrawEvent {
	return &WithdrawEvent{ledger: ledger}
}

// AddProduct distributes the outgoing quantity over the product's lots in
// creation order, reserving each slice. Lines landing on a lot the document
// already draws from at the same price merge, and so do their reserves.
func (e *WithdrawEvent) AddProduct(ctx context.Context, doc *document.Document, product *catalog.Product, quantity int64, price decimal.Decimal) error {
	lots, err := e.ledger.SelectLots(ctx, product.ID, quantity, decimal.Zero, nil)
	if err != nil {
		return err
	}

	actor := doc.GetCreatedBy()
	remaining := quantity
	for _, lot := range lots {
		take := remaining
		if available := lot.Available(); available > 0 && available < remaining {
			take = available
		}

		reserve, err := e.reserveSlice(ctx, lot, take, actor)
		if err != nil {
			return err
		}

		detail, err := document.NewProductDetail(product.ID, product.Description, product.UnitOfMeasure,
			lot, reserve, inventory.MovementWithdraw, take, price)
		if err != nil {
			return err
		}
		kept, merged, err := doc.AddDetail(detail)
		if err != nil {
			return err
		}
		if merged {
			if err := e.mergeInto(ctx, kept, reserve); err != nil {
				return err
			}
		}
		remaining -= take
		if remaining <= 0 {
			break
		}
	}
	return nil
}

// reserveSlice claims quantity from the lot, falling back to a backorder
// reserve when the lot cannot cover it.
func (e *WithdrawEvent) reserveSlice(ctx context.Context, lot *inventory.Lot, quantity int64, actor uuid.UUID) (*inventory.Reserve, error) {
	if quantity <= lot.Available() {
		return e.ledger.CreateReserve(ctx, lot, quantity, actor)
	}
	return e.ledger.CreateBackorderReserve(ctx, lot, quantity, actor)
}

// mergeInto folds the freshly created reserve into the reserve the kept
// line already carries. Merged lines share a lot, so the absorb is safe.
func (e *WithdrawEvent) mergeInto(ctx context.Context, kept *document.DocumentDetail, src *inventory.Reserve) error {
	if kept.ReserveID == nil {
		return shared.NewPreconditionError("merged withdraw line lost its reserve")
	}
	if *kept.ReserveID == src.ID {
		return nil
	}
	dst, err := e.ledger.GetReserve(ctx, *kept.ReserveID)
	if err != nil {
		return err
	}
	return e.ledger.MergeReserves(ctx, dst, src)
}

// RetailEvent adds sale lines to an invoice: priced lines at the product's
// current price plus free bonus units the customer takes home at no charge.
type RetailEvent struct {
	withdraw *WithdrawEvent
	ledger   *inventory.LotLedger
}

// NewRetailEvent creates a retail event over the lot ledger
func NewRetailEvent(ledger *inventory.LotLedger) *RetailEvent {
	return &RetailEvent{withdraw: NewWithdrawEvent(ledger), ledger: ledger}
}

// AddProduct adds a priced sale line at the product's current price
func (e *RetailEvent) AddProduct(ctx context.Context, doc *document.Document, product *catalog.Product, quantity int64) error {
	return e.withdraw.AddProduct(ctx, doc, product, quantity, product.Price)
}

// AddBonus adds free units of the product to the invoice. All bonus units
// of one product ride a single lot so repeated bonuses merge into one line
// with one reserve; when the lot cannot cover them the reserve is a
// backorder.
func (e *RetailEvent) AddBonus(ctx context.Context, doc *document.Document, product *catalog.Product, quantity int64) error {
	actor := doc.GetCreatedBy()

	lot, err := e.bonusLot(ctx, doc, product, quantity)
	if err != nil {
		return err
	}

	var reserve *inventory.Reserve
	if quantity <= lot.Available() {
		reserve, err = e.ledger.CreateReserve(ctx, lot, quantity, actor)
	} else {
		reserve, err = e.ledger.CreateBackorderReserve(ctx, lot, quantity, actor)
	}
	if err != nil {
		return err
	}

	detail, err := document.NewBonusDetail(product.ID, product.Description, lot, reserve, quantity)
	if err != nil {
		return err
	}
	kept, merged, err := doc.AddDetail(detail)
	if err != nil {
		return err
	}
	if merged {
		return e.withdraw.mergeInto(ctx, kept, reserve)
	}
	return nil
}

// bonusLot picks the lot bonus units ride on: the lot of the document's
// existing bonus line for the product, or the first lot with stock.
func (e *RetailEvent) bonusLot(ctx context.Context, doc *document.Document, product *catalog.Product, quantity int64) (*inventory.Lot, error) {
	for idx := range doc.Details {
		d := &doc.Details[idx]
		if d.Kind == document.DetailKindBonus && d.ProductID == product.ID && d.LotID != nil {
			return e.ledger.GetLot(ctx, *d.LotID)
		}
	}
	lots, err := e.ledger.SelectLots(ctx, product.ID, quantity, decimal.Zero, nil)
	if err != nil {
		return nil, err
	}
	return lots[0], nil
}
