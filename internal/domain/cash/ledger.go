package cash

import (
	"context"
	"time"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CashLedger is the single ownership boundary for cash and cash-reserve
// mutation, mirroring the lot ledger on the inventory side. Unlike stock,
// cash never goes negative: every claim is bound-checked against the
// available amount.
type CashLedger struct {
	cash     CashRepository
	reserves CashReserveRepository
}

// NewCashLedger creates a new cash ledger over the given repositories
func NewCashLedger(cash CashRepository, reserves CashReserveRepository) *CashLedger {
	return &CashLedger{cash: cash, reserves: reserves}
}

// GetCash returns a cash row by ID
func (g *CashLedger) GetCash(ctx context.Context, id uuid.UUID) (*Cash, error) {
	return g.cash.FindByID(ctx, id)
}

// GetAvailable returns the total amount available for deposit at a register
func (g *CashLedger) GetAvailable(ctx context.Context, registerID uuid.UUID) (decimal.Decimal, error) {
	return g.cash.SumAvailableByRegister(ctx, registerID)
}

// Receive records the money taken on a receipt
func (g *CashLedger) Receive(ctx context.Context, receiptID, registerID uuid.UUID, amount decimal.Decimal) (*Cash, error) {
	cash, err := NewCash(receiptID, registerID, amount)
	if err != nil {
		return nil, err
	}
	if err := g.cash.Save(ctx, cash); err != nil {
		return nil, err
	}
	return cash, nil
}

// ReverseReceipt pulls a cancelled receipt's cash back out of the drawer
// and returns the row with the amount it held. Fails once any of the money
// has been claimed by a deposit.
func (g *CashLedger) ReverseReceipt(ctx context.Context, receiptID uuid.UUID) (*Cash, decimal.Decimal, error) {
	row, err := g.cash.FindByReceipt(ctx, receiptID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	amount, err := row.Reverse()
	if err != nil {
		return nil, decimal.Zero, err
	}
	if err := g.cash.Save(ctx, row); err != nil {
		return nil, decimal.Zero, err
	}
	return row, amount, nil
}

// SelectAvailableCash returns cash rows with available money at a register,
// oldest first, until the cumulative available amount covers the required
// amount. Cash has no synthetic-row regime: if the register cannot cover
// the requirement the selection fails.
func (g *CashLedger) SelectAvailableCash(ctx context.Context, registerID uuid.UUID, required decimal.Decimal) ([]*Cash, error) {
	if registerID == uuid.Nil {
		return nil, shared.NewPreconditionError("SelectAvailableCash called with empty register ID")
	}
	if required.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewPreconditionError("SelectAvailableCash called with non-positive amount %s", required)
	}

	rows, err := g.cash.FindAvailableByRegister(ctx, registerID)
	if err != nil {
		return nil, err
	}

	selected := make([]*Cash, 0, len(rows))
	remaining := required
	for idx := range rows {
		if remaining.LessThanOrEqual(decimal.Zero) {
			break
		}
		row := &rows[idx]
		available := row.Available()
		if available.LessThanOrEqual(decimal.Zero) {
			continue
		}
		selected = append(selected, row)
		remaining = remaining.Sub(available)
	}

	if remaining.GreaterThan(decimal.Zero) {
		return nil, shared.NewValidationError("INSUFFICIENT_CASH",
			"Register does not hold enough available cash for the requested amount")
	}
	return selected, nil
}

// CreateReserve claims available money from a cash row ahead of a deposit.
// The amount must not exceed the row's available amount.
func (g *CashLedger) CreateReserve(ctx context.Context, cash *Cash, amount decimal.Decimal, actor uuid.UUID) (*CashReserve, error) {
	if cash == nil {
		return nil, shared.NewPreconditionError("nil cash passed to CreateReserve")
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewPreconditionError("cash reserve with non-positive amount %s", amount)
	}
	if amount.GreaterThan(cash.Available()) {
		return nil, shared.NewValidationError("INSUFFICIENT_CASH",
			"Requested amount exceeds the receipt's available cash")
	}

	reserve, err := NewCashReserve(cash, amount, actor)
	if err != nil {
		return nil, err
	}

	cash.Reserved = cash.Reserved.Add(amount)
	cash.UpdatedAt = time.Now()
	if err := g.cash.Save(ctx, cash); err != nil {
		return nil, err
	}

	if err := reserve.MarkCreated(); err != nil {
		return nil, err
	}
	if err := g.reserves.Save(ctx, reserve); err != nil {
		return nil, err
	}
	return reserve, nil
}

// MergeReserves folds src into dst and deletes the source row. The cash row
// itself stays untouched.
func (g *CashLedger) MergeReserves(ctx context.Context, dst, src *CashReserve) error {
	if dst == nil || src == nil {
		return shared.NewPreconditionError("nil reserve passed to MergeReserves")
	}
	if dst.Status != CashReserveStatusCreated || src.Status != CashReserveStatusCreated {
		return shared.NewPreconditionError("merge requires persisted cash reserves")
	}

	if err := dst.Absorb(src); err != nil {
		return err
	}
	if err := g.reserves.Save(ctx, dst); err != nil {
		return err
	}
	return g.reserves.Delete(ctx, src.ID)
}

// ReleaseReserve returns a reserve's amount to the available pool and
// removes the reserve row.
func (g *CashLedger) ReleaseReserve(ctx context.Context, reserve *CashReserve) error {
	if reserve == nil {
		return shared.NewPreconditionError("nil reserve passed to ReleaseReserve")
	}
	if reserve.Status != CashReserveStatusCreated {
		return shared.NewPreconditionError("release requires a persisted cash reserve")
	}

	cash, err := g.cash.FindByID(ctx, reserve.CashID)
	if err != nil {
		return err
	}

	cash.Reserved = cash.Reserved.Sub(reserve.Amount)
	cash.UpdatedAt = time.Now()
	if err := g.cash.Save(ctx, cash); err != nil {
		return err
	}
	return g.reserves.Delete(ctx, reserve.ID)
}

// ConsumeReserve turns a reserve into a deposit: the reserved amount moves
// to deposited and the reserve row is removed.
func (g *CashLedger) ConsumeReserve(ctx context.Context, reserve *CashReserve) error {
	if reserve == nil {
		return shared.NewPreconditionError("nil reserve passed to ConsumeReserve")
	}
	if reserve.Status != CashReserveStatusCreated {
		return shared.NewPreconditionError("consume requires a persisted cash reserve")
	}

	cash, err := g.cash.FindByID(ctx, reserve.CashID)
	if err != nil {
		return err
	}

	cash.Reserved = cash.Reserved.Sub(reserve.Amount)
	cash.Deposited = cash.Deposited.Add(reserve.Amount)
	cash.UpdatedAt = time.Now()
	if err := g.cash.Save(ctx, cash); err != nil {
		return err
	}
	return g.reserves.Delete(ctx, reserve.ID)
}

// RevertDeposit returns an already-deposited amount to the available pool
// when a deposit slip is cancelled.
func (g *CashLedger) RevertDeposit(ctx context.Context, cashID uuid.UUID, amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return shared.NewPreconditionError("deposit reversal with non-positive amount %s", amount)
	}

	cash, err := g.cash.FindByID(ctx, cashID)
	if err != nil {
		return err
	}
	if amount.GreaterThan(cash.Deposited) {
		return shared.NewPreconditionError("deposit reversal exceeds the deposited amount")
	}

	cash.Deposited = cash.Deposited.Sub(amount)
	cash.UpdatedAt = time.Now()
	return g.cash.Save(ctx, cash)
}

// GetReserve returns a cash reserve by ID
func (g *CashLedger) GetReserve(ctx context.Context, id uuid.UUID) (*CashReserve, error) {
	return g.reserves.FindByID(ctx, id)
}
