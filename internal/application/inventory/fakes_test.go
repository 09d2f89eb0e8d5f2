package inventory

import (
	"context"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// In-memory repositories backing the service tests. They copy on read and
// write so tests observe only what was saved.

type memLotRepository struct {
	order []uuid.UUID
	lots  map[uuid.UUID]*inventory.Lot
}

func newMemLotRepository() *memLotRepository {
	return &memLotRepository{lots: make(map[uuid.UUID]*inventory.Lot)}
}

func (r *memLotRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Lot, error) {
	lot, ok := r.lots[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *lot
	return &copied, nil
}

func (r *memLotRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.Lot, error) {
	var out []inventory.Lot
	for _, id := range r.order {
		if r.lots[id].ProductID == productID {
			out = append(out, *r.lots[id])
		}
	}
	return out, nil
}

func (r *memLotRepository) FindInStock(ctx context.Context, productID uuid.UUID) ([]inventory.Lot, error) {
	var out []inventory.Lot
	for _, id := range r.order {
		lot := r.lots[id]
		if lot.ProductID == productID && lot.Available() > 0 {
			out = append(out, *lot)
		}
	}
	return out, nil
}

func (r *memLotRepository) FindNegative(ctx context.Context, productID uuid.UUID) ([]inventory.Lot, error) {
	var out []inventory.Lot
	for _, id := range r.order {
		lot := r.lots[id]
		if lot.ProductID == productID && lot.Quantity < 0 {
			out = append(out, *lot)
		}
	}
	return out, nil
}

func (r *memLotRepository) FindExpired(ctx context.Context, filter shared.Filter) ([]inventory.Lot, error) {
	var out []inventory.Lot
	for _, id := range r.order {
		if r.lots[id].IsExpired() && r.lots[id].Quantity > 0 {
			out = append(out, *r.lots[id])
		}
	}
	return out, nil
}

func (r *memLotRepository) SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var sum int64
	for _, lot := range r.lots {
		if lot.ProductID == productID {
			sum += lot.Quantity
		}
	}
	return sum, nil
}

func (r *memLotRepository) SumAvailableByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var sum int64
	for _, lot := range r.lots {
		if lot.ProductID == productID {
			sum += lot.Available()
		}
	}
	return sum, nil
}

func (r *memLotRepository) Save(ctx context.Context, lot *inventory.Lot) error {
	if _, ok := r.lots[lot.ID]; !ok {
		r.order = append(r.order, lot.ID)
	}
	copied := *lot
	r.lots[lot.ID] = &copied
	return nil
}

type memReserveRepository struct {
	reserves map[uuid.UUID]*inventory.Reserve
}

func newMemReserveRepository() *memReserveRepository {
	return &memReserveRepository{reserves: make(map[uuid.UUID]*inventory.Reserve)}
}

func (r *memReserveRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Reserve, error) {
	reserve, ok := r.reserves[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *reserve
	return &copied, nil
}

func (r *memReserveRepository) FindByLot(ctx context.Context, lotID uuid.UUID) ([]inventory.Reserve, error) {
	var out []inventory.Reserve
	for _, reserve := range r.reserves {
		if reserve.LotID == lotID {
			out = append(out, *reserve)
		}
	}
	return out, nil
}

func (r *memReserveRepository) SumQuantityByLot(ctx context.Context, lotID uuid.UUID) (int64, error) {
	var sum int64
	for _, reserve := range r.reserves {
		if reserve.LotID == lotID {
			sum += reserve.Quantity
		}
	}
	return sum, nil
}

func (r *memReserveRepository) Save(ctx context.Context, reserve *inventory.Reserve) error {
	copied := *reserve
	r.reserves[reserve.ID] = &copied
	return nil
}

func (r *memReserveRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.reserves[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.reserves, id)
	return nil
}

type memJournal struct {
	records []inventory.StockTransaction
}

func (r *memJournal) Create(ctx context.Context, tx *inventory.StockTransaction) error {
	r.records = append(r.records, *tx)
	return nil
}

func (r *memJournal) FindByLot(ctx context.Context, lotID uuid.UUID, filter shared.Filter) ([]inventory.StockTransaction, error) {
	var out []inventory.StockTransaction
	for _, rec := range r.records {
		if rec.LotID == lotID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memJournal) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]inventory.StockTransaction, error) {
	var out []inventory.StockTransaction
	for _, rec := range r.records {
		if rec.ProductID == productID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memJournal) FindBySource(ctx context.Context, sourceType inventory.SourceType, sourceID uuid.UUID) ([]inventory.StockTransaction, error) {
	var out []inventory.StockTransaction
	for _, rec := range r.records {
		if rec.SourceType != nil && *rec.SourceType == sourceType && rec.SourceID != nil && *rec.SourceID == sourceID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type memProductRepository struct {
	products map[uuid.UUID]*catalog.Product
}

func newMemProductRepository() *memProductRepository {
	return &memProductRepository{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *memProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *memProductRepository) FindByBarCode(ctx context.Context, barCode string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.BarCode == barCode && !p.Deactivated {
			copied := *p
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range r.products {
		out = append(out, *p)
	}
	return out, nil
}

func (r *memProductRepository) ExistsBarCode(ctx context.Context, barCode string, excludeID uuid.UUID) (bool, error) {
	for _, p := range r.products {
		if p.BarCode == barCode && !p.Deactivated && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memProductRepository) ExistsDetail(ctx context.Context, supplierID uuid.UUID, supplierSKU string) (bool, error) {
	for _, p := range r.products {
		if p.GetDetail(supplierID, supplierSKU) != nil {
			return true, nil
		}
	}
	return false, nil
}

func (r *memProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *memProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *memProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(r.products)), nil
}
