package inventory

import (
	"context"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MovementKind discriminates the direction of a document line's stock effect
type MovementKind string

const (
	MovementEntry    MovementKind = "ENTRY"
	MovementWithdraw MovementKind = "WITHDRAW"
)

// IsValid checks if the movement kind is known
func (k MovementKind) IsValid() bool {
	switch k {
	case MovementEntry, MovementWithdraw:
		return true
	}
	return false
}

// Claim is a document line's stake on one lot: how many units, against which
// lot, and (for withdrawals) through which reserve. The actor and source
// carry into the stock journal.
type Claim struct {
	LotID     uuid.UUID
	Quantity  int64
	ReserveID *uuid.UUID
	Actor     uuid.UUID
	Source    *SourceRef
}

// Movement is the stock effect of a document line. Entry and withdrawal are
// mirror strategies over the lot ledger: each knows how to apply itself, how
// to undo itself on document cancellation, and whether undoing is currently
// possible.
type Movement interface {
	Kind() MovementKind
	Apply(ctx context.Context, ledger *LotLedger, claim Claim) error
	Cancel(ctx context.Context, ledger *LotLedger, claim Claim) error
	IsCancellable(ctx context.Context, ledger *LotLedger, claim Claim) (bool, error)
}

// MovementFor returns the movement strategy for a kind
func MovementFor(kind MovementKind) (Movement, error) {
	switch kind {
	case MovementEntry:
		return EntryMovement{}, nil
	case MovementWithdraw:
		return WithdrawMovement{}, nil
	}
	return nil, shared.NewValidationError("INVALID_MOVEMENT", "Unknown movement kind: "+string(kind))
}

// EntryMovement adds stock to a lot when applied. Cancelling takes the stock
// back out, which is only possible while the lot still has that much
// available; stock already promised or sold onward blocks the cancellation.
type EntryMovement struct{}

func (EntryMovement) Kind() MovementKind { return MovementEntry }

func (EntryMovement) Apply(ctx context.Context, ledger *LotLedger, claim Claim) error {
	lot, err := ledger.GetLot(ctx, claim.LotID)
	if err != nil {
		return err
	}
	return ledger.Increase(ctx, lot, claim.Quantity, claim.Actor, claim.Source)
}

func (m EntryMovement) Cancel(ctx context.Context, ledger *LotLedger, claim Claim) error {
	lot, err := ledger.GetLot(ctx, claim.LotID)
	if err != nil {
		return err
	}
	if lot.Available() < claim.Quantity {
		return shared.NewValidationError("NOT_CANCELLABLE",
			"Entered stock has already been consumed and cannot be taken back")
	}
	return ledger.Decrease(ctx, lot, claim.Quantity, claim.Actor, claim.Source)
}

func (EntryMovement) IsCancellable(ctx context.Context, ledger *LotLedger, claim Claim) (bool, error) {
	lot, err := ledger.GetLot(ctx, claim.LotID)
	if err != nil {
		return false, err
	}
	return lot.Available() >= claim.Quantity, nil
}

// WithdrawMovement consumes a previously created reserve when applied,
// turning the soft claim into a hard stock deduction. Cancelling re-enters
// the quantity, which is always possible.
type WithdrawMovement struct{}

func (WithdrawMovement) Kind() MovementKind { return MovementWithdraw }

func (WithdrawMovement) Apply(ctx context.Context, ledger *LotLedger, claim Claim) error {
	if claim.ReserveID == nil {
		return shared.NewPreconditionError("withdraw movement applied without a reserve")
	}
	reserve, err := ledger.GetReserve(ctx, *claim.ReserveID)
	if err != nil {
		return err
	}
	return ledger.ConsumeReserve(ctx, reserve, claim.Actor, claim.Source)
}

func (WithdrawMovement) Cancel(ctx context.Context, ledger *LotLedger, claim Claim) error {
	lot, err := ledger.GetLot(ctx, claim.LotID)
	if err != nil {
		return err
	}
	return ledger.Increase(ctx, lot, claim.Quantity, claim.Actor, claim.Source)
}

func (WithdrawMovement) IsCancellable(ctx context.Context, ledger *LotLedger, claim Claim) (bool, error) {
	return true, nil
}
