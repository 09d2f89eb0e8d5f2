package cash

import (
	"context"
	"testing"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCashRepository is an in-memory CashRepository preserving insertion order
type memCashRepository struct {
	order []uuid.UUID
	rows  map[uuid.UUID]*Cash
}

func newMemCashRepository() *memCashRepository {
	return &memCashRepository{rows: make(map[uuid.UUID]*Cash)}
}

func (r *memCashRepository) FindByID(ctx context.Context, id uuid.UUID) (*Cash, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *row
	return &copied, nil
}

func (r *memCashRepository) FindByReceipt(ctx context.Context, receiptID uuid.UUID) (*Cash, error) {
	for _, row := range r.rows {
		if row.ReceiptID == receiptID {
			copied := *row
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCashRepository) FindAvailableByRegister(ctx context.Context, registerID uuid.UUID) ([]Cash, error) {
	var out []Cash
	for _, id := range r.order {
		row := r.rows[id]
		if row.RegisterID == registerID && row.Available().GreaterThan(decimal.Zero) {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (r *memCashRepository) SumAvailableByRegister(ctx context.Context, registerID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, row := range r.rows {
		if row.RegisterID == registerID {
			sum = sum.Add(row.Available())
		}
	}
	return sum, nil
}

func (r *memCashRepository) Save(ctx context.Context, cash *Cash) error {
	if _, ok := r.rows[cash.ID]; !ok {
		r.order = append(r.order, cash.ID)
	}
	copied := *cash
	r.rows[cash.ID] = &copied
	return nil
}

// memCashReserveRepository is an in-memory CashReserveRepository
type memCashReserveRepository struct {
	reserves map[uuid.UUID]*CashReserve
}

func newMemCashReserveRepository() *memCashReserveRepository {
	return &memCashReserveRepository{reserves: make(map[uuid.UUID]*CashReserve)}
}

func (r *memCashReserveRepository) FindByID(ctx context.Context, id uuid.UUID) (*CashReserve, error) {
	reserve, ok := r.reserves[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *reserve
	return &copied, nil
}

func (r *memCashReserveRepository) FindByCash(ctx context.Context, cashID uuid.UUID) ([]CashReserve, error) {
	var out []CashReserve
	for _, reserve := range r.reserves {
		if reserve.CashID == cashID {
			out = append(out, *reserve)
		}
	}
	return out, nil
}

func (r *memCashReserveRepository) SumAmountByCash(ctx context.Context, cashID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, reserve := range r.reserves {
		if reserve.CashID == cashID {
			sum = sum.Add(reserve.Amount)
		}
	}
	return sum, nil
}

func (r *memCashReserveRepository) Save(ctx context.Context, reserve *CashReserve) error {
	copied := *reserve
	r.reserves[reserve.ID] = &copied
	return nil
}

func (r *memCashReserveRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.reserves[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.reserves, id)
	return nil
}

type cashFixture struct {
	cash     *memCashRepository
	reserves *memCashReserveRepository
	ledger   *CashLedger
}

func newCashFixture() *cashFixture {
	cash := newMemCashRepository()
	reserves := newMemCashReserveRepository()
	return &cashFixture{
		cash:     cash,
		reserves: reserves,
		ledger:   NewCashLedger(cash, reserves),
	}
}

func (f *cashFixture) receive(t *testing.T, registerID uuid.UUID, amount int64) *Cash {
	t.Helper()
	row, err := f.ledger.Receive(context.Background(), uuid.New(), registerID, decimal.NewFromInt(amount))
	require.NoError(t, err)
	return row
}

func (f *cashFixture) conservation(t *testing.T, cashID uuid.UUID) {
	t.Helper()
	row, err := f.cash.FindByID(context.Background(), cashID)
	require.NoError(t, err)
	sum, err := f.reserves.SumAmountByCash(context.Background(), cashID)
	require.NoError(t, err)
	assert.True(t, row.Reserved.Equal(sum), "sum of reserves must equal cash reserved")
}

func TestCashLedgerReceive(t *testing.T) {
	ctx := context.Background()
	registerID := uuid.New()

	f := newCashFixture()
	row := f.receive(t, registerID, 150)

	assert.Equal(t, "150.00", row.Received.StringFixed(2))
	assert.Equal(t, "150.00", row.Available().StringFixed(2))

	total, err := f.ledger.GetAvailable(ctx, registerID)
	require.NoError(t, err)
	assert.Equal(t, "150.00", total.StringFixed(2))
}

func TestCashLedgerReverseReceipt(t *testing.T) {
	ctx := context.Background()
	registerID := uuid.New()

	t.Run("reversal takes the receipt's money back out", func(t *testing.T) {
		f := newCashFixture()
		receiptID := uuid.New()
		row, err := f.ledger.Receive(ctx, receiptID, registerID, decimal.NewFromInt(80))
		require.NoError(t, err)

		reversed, amount, err := f.ledger.ReverseReceipt(ctx, receiptID)
		require.NoError(t, err)
		assert.Equal(t, row.ID, reversed.ID)
		assert.Equal(t, "80.00", amount.StringFixed(2))
		assert.True(t, reversed.Available().IsZero())

		total, err := f.ledger.GetAvailable(ctx, registerID)
		require.NoError(t, err)
		assert.True(t, total.IsZero())
	})

	t.Run("money claimed by a deposit stays put", func(t *testing.T) {
		f := newCashFixture()
		receiptID := uuid.New()
		row, err := f.ledger.Receive(ctx, receiptID, registerID, decimal.NewFromInt(80))
		require.NoError(t, err)
		_, err = f.ledger.CreateReserve(ctx, row, decimal.NewFromInt(30), uuid.New())
		require.NoError(t, err)

		_, _, err = f.ledger.ReverseReceipt(ctx, receiptID)
		require.Error(t, err)
		var validationErr *shared.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.Equal(t, "CASH_COMMITTED", validationErr.Code)
	})
}

func TestCashLedgerSelectAvailableCash(t *testing.T) {
	ctx := context.Background()
	registerID := uuid.New()

	t.Run("covers the requirement oldest first", func(t *testing.T) {
		f := newCashFixture()
		first := f.receive(t, registerID, 50)
		second := f.receive(t, registerID, 100)

		rows, err := f.ledger.SelectAvailableCash(ctx, registerID, decimal.NewFromInt(120))

		require.NoError(t, err)
		require.Len(t, rows, 2)
		assert.Equal(t, first.ID, rows[0].ID)
		assert.Equal(t, second.ID, rows[1].ID)
	})

	t.Run("insufficient cash fails instead of synthesizing", func(t *testing.T) {
		f := newCashFixture()
		f.receive(t, registerID, 50)

		_, err := f.ledger.SelectAvailableCash(ctx, registerID, decimal.NewFromInt(80))
		assert.Error(t, err)
	})
}

func TestCashLedgerReserves(t *testing.T) {
	ctx := context.Background()
	registerID := uuid.New()
	actor := uuid.New()

	t.Run("create reserve claims available money", func(t *testing.T) {
		f := newCashFixture()
		row := f.receive(t, registerID, 100)

		reserve, err := f.ledger.CreateReserve(ctx, row, decimal.NewFromInt(60), actor)

		require.NoError(t, err)
		assert.Equal(t, CashReserveStatusCreated, reserve.Status)

		stored, err := f.cash.FindByID(ctx, row.ID)
		require.NoError(t, err)
		assert.Equal(t, "40.00", stored.Available().StringFixed(2))
		f.conservation(t, row.ID)
	})

	t.Run("reserve beyond available is rejected", func(t *testing.T) {
		f := newCashFixture()
		row := f.receive(t, registerID, 100)

		_, err := f.ledger.CreateReserve(ctx, row, decimal.NewFromInt(101), actor)
		assert.Error(t, err)
	})

	t.Run("merge keeps conservation", func(t *testing.T) {
		f := newCashFixture()
		row := f.receive(t, registerID, 100)

		first, err := f.ledger.CreateReserve(ctx, row, decimal.NewFromInt(30), actor)
		require.NoError(t, err)
		fresh, err := f.cash.FindByID(ctx, row.ID)
		require.NoError(t, err)
		second, err := f.ledger.CreateReserve(ctx, fresh, decimal.NewFromInt(20), actor)
		require.NoError(t, err)

		require.NoError(t, f.ledger.MergeReserves(ctx, first, second))

		merged, err := f.reserves.FindByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "50.00", merged.Amount.StringFixed(2))
		f.conservation(t, row.ID)
	})

	t.Run("release returns money to the pool", func(t *testing.T) {
		f := newCashFixture()
		row := f.receive(t, registerID, 100)

		reserve, err := f.ledger.CreateReserve(ctx, row, decimal.NewFromInt(60), actor)
		require.NoError(t, err)
		require.NoError(t, f.ledger.ReleaseReserve(ctx, reserve))

		stored, err := f.cash.FindByID(ctx, row.ID)
		require.NoError(t, err)
		assert.Equal(t, "100.00", stored.Available().StringFixed(2))
		f.conservation(t, row.ID)
	})

	t.Run("consume moves reserved to deposited", func(t *testing.T) {
		f := newCashFixture()
		row := f.receive(t, registerID, 100)

		reserve, err := f.ledger.CreateReserve(ctx, row, decimal.NewFromInt(60), actor)
		require.NoError(t, err)
		require.NoError(t, f.ledger.ConsumeReserve(ctx, reserve))

		stored, err := f.cash.FindByID(ctx, row.ID)
		require.NoError(t, err)
		assert.Equal(t, "60.00", stored.Deposited.StringFixed(2))
		assert.Equal(t, "0.00", stored.Reserved.StringFixed(2))
		assert.Equal(t, "40.00", stored.Available().StringFixed(2))
		f.conservation(t, row.ID)
	})

	t.Run("revert deposit restores the round trip", func(t *testing.T) {
		f := newCashFixture()
		row := f.receive(t, registerID, 100)

		reserve, err := f.ledger.CreateReserve(ctx, row, decimal.NewFromInt(60), actor)
		require.NoError(t, err)
		require.NoError(t, f.ledger.ConsumeReserve(ctx, reserve))
		require.NoError(t, f.ledger.RevertDeposit(ctx, row.ID, decimal.NewFromInt(60)))

		stored, err := f.cash.FindByID(ctx, row.ID)
		require.NoError(t, err)
		assert.Equal(t, "100.00", stored.Available().StringFixed(2), "state must match before the deposit")
	})
}
