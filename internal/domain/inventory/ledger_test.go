package inventory

import (
	"context"
	"testing"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memLotRepository is an in-memory LotRepository preserving insertion order
type memLotRepository struct {
	order []uuid.UUID
	lots  map[uuid.UUID]*Lot
}

func newMemLotRepository() *memLotRepository {
	return &memLotRepository{lots: make(map[uuid.UUID]*Lot)}
}

func (r *memLotRepository) FindByID(ctx context.Context, id uuid.UUID) (*Lot, error) {
	lot, ok := r.lots[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *lot
	return &copied, nil
}

func (r *memLotRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]Lot, error) {
	var out []Lot
	for _, id := range r.order {
		if r.lots[id].ProductID == productID {
			out = append(out, *r.lots[id])
		}
	}
	return out, nil
}

func (r *memLotRepository) FindInStock(ctx context.Context, productID uuid.UUID) ([]Lot, error) {
	var out []Lot
	for _, id := range r.order {
		lot := r.lots[id]
		if lot.ProductID == productID && lot.Available() > 0 {
			out = append(out, *lot)
		}
	}
	return out, nil
}

func (r *memLotRepository) FindNegative(ctx context.Context, productID uuid.UUID) ([]Lot, error) {
	var out []Lot
	for _, id := range r.order {
		lot := r.lots[id]
		if lot.ProductID == productID && lot.Quantity < 0 {
			out = append(out, *lot)
		}
	}
	return out, nil
}

func (r *memLotRepository) FindExpired(ctx context.Context, filter shared.Filter) ([]Lot, error) {
	var out []Lot
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

func (r *memLotRepository) Save(ctx context.Context, lot *Lot) error {
	if _, ok := r.lots[lot.ID]; !ok {
		r.order = append(r.order, lot.ID)
	}
	copied := *lot
	r.lots[lot.ID] = &copied
	return nil
}

// memReserveRepository is an in-memory ReserveRepository
type memReserveRepository struct {
	reserves map[uuid.UUID]*Reserve
}

func newMemReserveRepository() *memReserveRepository {
	return &memReserveRepository{reserves: make(map[uuid.UUID]*Reserve)}
}

func (r *memReserveRepository) FindByID(ctx context.Context, id uuid.UUID) (*Reserve, error) {
	reserve, ok := r.reserves[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *reserve
	return &copied, nil
}

func (r *memReserveRepository) FindByLot(ctx context.Context, lotID uuid.UUID) ([]Reserve, error) {
	var out []Reserve
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

func (r *memReserveRepository) Save(ctx context.Context, reserve *Reserve) error {
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

// memJournal records stock transactions in memory
type memJournal struct {
	records []StockTransaction
}

func (j *memJournal) Create(ctx context.Context, tx *StockTransaction) error {
	j.records = append(j.records, *tx)
	return nil
}

func (j *memJournal) FindByLot(ctx context.Context, lotID uuid.UUID, filter shared.Filter) ([]StockTransaction, error) {
	var out []StockTransaction
	for _, rec := range j.records {
		if rec.LotID == lotID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (j *memJournal) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]StockTransaction, error) {
	var out []StockTransaction
	for _, rec := range j.records {
		if rec.ProductID == productID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (j *memJournal) FindBySource(ctx context.Context, sourceType SourceType, sourceID uuid.UUID) ([]StockTransaction, error) {
	var out []StockTransaction
	for _, rec := range j.records {
		if rec.SourceType != nil && *rec.SourceType == sourceType && rec.SourceID != nil && *rec.SourceID == sourceID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type ledgerFixture struct {
	lots     *memLotRepository
	reserves *memReserveRepository
	journal  *memJournal
	ledger   *LotLedger
}

func newLedgerFixture() *ledgerFixture {
	lots := newMemLotRepository()
	reserves := newMemReserveRepository()
	journal := &memJournal{}
	return &ledgerFixture{
		lots:     lots,
		reserves: reserves,
		journal:  journal,
		ledger:   NewLotLedger(lots, reserves, journal),
	}
}

func (f *ledgerFixture) seedLot(t *testing.T, productID uuid.UUID, quantity int64) *Lot {
	t.Helper()
	lot, err := NewLot(productID, quantity, decimal.NewFromInt(10), nil)
	require.NoError(t, err)
	require.NoError(t, f.lots.Save(context.Background(), lot))
	return lot
}

// conservation asserts that the reserve rows against a lot sum to the lot's
// reserved quantity.
func (f *ledgerFixture) conservation(t *testing.T, lotID uuid.UUID) {
	t.Helper()
	lot, err := f.lots.FindByID(context.Background(), lotID)
	require.NoError(t, err)
	sum, err := f.reserves.SumQuantityByLot(context.Background(), lotID)
	require.NoError(t, err)
	assert.Equal(t, lot.Reserved, sum, "sum of reserves must equal lot reserved")
}

func TestLotLedgerSelectLots(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()

	t.Run("covers requirement from existing lots in creation order", func(t *testing.T) {
		f := newLedgerFixture()
		first := f.seedLot(t, productID, 5)
		second := f.seedLot(t, productID, 10)

		lots, err := f.ledger.SelectLots(ctx, productID, 8, decimal.Zero, nil)

		require.NoError(t, err)
		require.Len(t, lots, 2)
		assert.Equal(t, first.ID, lots[0].ID)
		assert.Equal(t, second.ID, lots[1].ID)
	})

	t.Run("stops once the requirement is met", func(t *testing.T) {
		f := newLedgerFixture()
		first := f.seedLot(t, productID, 5)
		f.seedLot(t, productID, 10)

		lots, err := f.ledger.SelectLots(ctx, productID, 3, decimal.Zero, nil)

		require.NoError(t, err)
		require.Len(t, lots, 1)
		assert.Equal(t, first.ID, lots[0].ID)
	})

	t.Run("synthesizes an empty lot for the shortfall", func(t *testing.T) {
		f := newLedgerFixture()
		f.seedLot(t, productID, 5)

		lots, err := f.ledger.SelectLots(ctx, productID, 8, decimal.Zero, nil)

		require.NoError(t, err)
		require.Len(t, lots, 2)
		assert.Equal(t, int64(0), lots[1].Quantity)

		persisted, err := f.lots.FindByID(ctx, lots[1].ID)
		require.NoError(t, err)
		assert.Equal(t, int64(0), persisted.Quantity)
	})

	t.Run("no stock at all yields only a synthetic lot", func(t *testing.T) {
		f := newLedgerFixture()

		lots, err := f.ledger.SelectLots(ctx, productID, 4, decimal.Zero, nil)

		require.NoError(t, err)
		require.Len(t, lots, 1)
		assert.Equal(t, int64(0), lots[0].Quantity)
	})

	t.Run("skips fully reserved lots", func(t *testing.T) {
		f := newLedgerFixture()
		blocked := f.seedLot(t, productID, 5)
		blocked.Reserved = 5
		require.NoError(t, f.lots.Save(ctx, blocked))
		open := f.seedLot(t, productID, 5)

		lots, err := f.ledger.SelectLots(ctx, productID, 5, decimal.Zero, nil)

		require.NoError(t, err)
		require.Len(t, lots, 1)
		assert.Equal(t, open.ID, lots[0].ID)
	})

	t.Run("rejects non-positive requirement", func(t *testing.T) {
		f := newLedgerFixture()
		_, err := f.ledger.SelectLots(ctx, productID, 0, decimal.Zero, nil)
		assert.Error(t, err)
	})
}

func TestLotLedgerSelectNegativeLots(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()

	t.Run("settles backorders before opening a new lot", func(t *testing.T) {
		f := newLedgerFixture()
		owed, err := NewEmptyLot(productID, decimal.Zero, nil)
		require.NoError(t, err)
		owed.Quantity = -3
		require.NoError(t, f.lots.Save(ctx, owed))

		lots, err := f.ledger.SelectNegativeLots(ctx, productID, 10, decimal.Zero, nil)

		require.NoError(t, err)
		require.Len(t, lots, 2)
		assert.Equal(t, owed.ID, lots[0].ID)
		assert.Equal(t, int64(0), lots[1].Quantity)
	})

	t.Run("no negative lots yields only a synthetic lot", func(t *testing.T) {
		f := newLedgerFixture()
		f.seedLot(t, productID, 5)

		lots, err := f.ledger.SelectNegativeLots(ctx, productID, 4, decimal.Zero, nil)

		require.NoError(t, err)
		require.Len(t, lots, 1)
		assert.Equal(t, int64(0), lots[0].Quantity)
	})
}

func TestLotLedgerIncreaseDecrease(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()
	actor := uuid.New()

	t.Run("increase adds stock and journals it", func(t *testing.T) {
		f := newLedgerFixture()
		lot := f.seedLot(t, productID, 5)

		require.NoError(t, f.ledger.Increase(ctx, lot, 7, actor, nil))

		stored, err := f.lots.FindByID(ctx, lot.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(12), stored.Quantity)

		require.Len(t, f.journal.records, 1)
		assert.Equal(t, StockTransactionEntry, f.journal.records[0].Type)
		assert.Equal(t, int64(5), f.journal.records[0].BalanceBefore)
		assert.Equal(t, int64(12), f.journal.records[0].BalanceAfter)
	})

	t.Run("decrease can drive a lot negative", func(t *testing.T) {
		f := newLedgerFixture()
		lot := f.seedLot(t, productID, 5)

		require.NoError(t, f.ledger.Decrease(ctx, lot, 8, actor, nil))

		stored, err := f.lots.FindByID(ctx, lot.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(-3), stored.Quantity)
		assert.True(t, stored.IsNegative())
	})

	t.Run("non-positive quantities are rejected", func(t *testing.T) {
		f := newLedgerFixture()
		lot := f.seedLot(t, productID, 5)

		assert.Error(t, f.ledger.Increase(ctx, lot, 0, actor, nil))
		assert.Error(t, f.ledger.Decrease(ctx, lot, -2, actor, nil))
	})
}

func TestLotLedgerCreateReserve(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()
	actor := uuid.New()

	t.Run("claims available quantity", func(t *testing.T) {
		f := newLedgerFixture()
		lot := f.seedLot(t, productID, 10)

		reserve, err := f.ledger.CreateReserve(ctx, lot, 4, actor)

		require.NoError(t, err)
		assert.Equal(t, ReserveStatusCreated, reserve.Status)

		stored, err := f.lots.FindByID(ctx, lot.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(4), stored.Reserved)
		assert.Equal(t, int64(6), stored.Available())
		f.conservation(t, lot.ID)
	})

	t.Run("rejects quantity beyond available", func(t *testing.T) {
		f := newLedgerFixture()
		lot := f.seedLot(t, productID, 10)

		_, err := f.ledger.CreateReserve(ctx, lot, 11, actor)
		assert.Error(t, err)
	})

	t.Run("backorder reserve bypasses the bound on empty lots", func(t *testing.T) {
		f := newLedgerFixture()
		empty, err := NewEmptyLot(productID, decimal.Zero, nil)
		require.NoError(t, err)
		require.NoError(t, f.lots.Save(ctx, empty))

		reserve, err := f.ledger.CreateBackorderReserve(ctx, empty, 3, actor)

		require.NoError(t, err)
		assert.Equal(t, int64(3), reserve.Quantity)

		stored, err := f.lots.FindByID(ctx, empty.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(-3), stored.Available())
		f.conservation(t, empty.ID)
	})
}

func TestLotLedgerMergeReserves(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()
	actor := uuid.New()

	f := newLedgerFixture()
	lot := f.seedLot(t, productID, 10)

	first, err := f.ledger.CreateReserve(ctx, lot, 3, actor)
	require.NoError(t, err)
	fresh, err := f.lots.FindByID(ctx, lot.ID)
	require.NoError(t, err)
	second, err := f.ledger.CreateReserve(ctx, fresh, 2, actor)
	require.NoError(t, err)

	require.NoError(t, f.ledger.MergeReserves(ctx, first, second))

	merged, err := f.reserves.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), merged.Quantity)

	_, err = f.reserves.FindByID(ctx, second.ID)
	assert.Error(t, err, "absorbed reserve must be deleted")

	stored, err := f.lots.FindByID(ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(5), stored.Reserved, "merge must not change lot reserved")
	f.conservation(t, lot.ID)
}

func TestLotLedgerReleaseReserve(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()
	actor := uuid.New()

	f := newLedgerFixture()
	lot := f.seedLot(t, productID, 10)

	reserve, err := f.ledger.CreateReserve(ctx, lot, 4, actor)
	require.NoError(t, err)

	require.NoError(t, f.ledger.ReleaseReserve(ctx, reserve, actor))

	stored, err := f.lots.FindByID(ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), stored.Reserved)
	assert.Equal(t, int64(10), stored.Quantity, "release must not touch on-hand stock")

	_, err = f.reserves.FindByID(ctx, reserve.ID)
	assert.Error(t, err)
	f.conservation(t, lot.ID)
}

func TestLotLedgerConsumeReserve(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()
	actor := uuid.New()

	f := newLedgerFixture()
	lot := f.seedLot(t, productID, 10)

	reserve, err := f.ledger.CreateReserve(ctx, lot, 4, actor)
	require.NoError(t, err)

	source := &SourceRef{Type: SourceTypeInvoice, ID: uuid.New()}
	require.NoError(t, f.ledger.ConsumeReserve(ctx, reserve, actor, source))

	stored, err := f.lots.FindByID(ctx, lot.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(6), stored.Quantity)
	assert.Equal(t, int64(0), stored.Reserved)

	_, err = f.reserves.FindByID(ctx, reserve.ID)
	assert.Error(t, err)
	f.conservation(t, lot.ID)

	records, err := f.journal.FindBySource(ctx, SourceTypeInvoice, source.ID)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, StockTransactionWithdraw, records[0].Type)
}

func TestLotLedgerAggregates(t *testing.T) {
	ctx := context.Background()
	productID := uuid.New()

	f := newLedgerFixture()
	a := f.seedLot(t, productID, 10)
	a.Reserved = 3
	require.NoError(t, f.lots.Save(ctx, a))
	f.seedLot(t, productID, 5)

	quantity, err := f.ledger.GetQuantity(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(15), quantity)

	available, err := f.ledger.GetAvailable(ctx, productID)
	require.NoError(t, err)
	assert.Equal(t, int64(12), available)
}
