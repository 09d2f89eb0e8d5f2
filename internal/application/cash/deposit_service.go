package cash

import (
	"context"

	"github.com/pos/backend/internal/domain/cash"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DepositService builds bank deposit slips out of receipt cash. A slip in
// progress reserves the money it claims; saving it moves the money to
// deposited, cancelling a saved slip puts it back in the drawer.
type DepositService struct {
	deposits       cash.DepositRepository
	accounts       cash.BankAccountRepository
	ledger         *cash.CashLedger
	scope          shared.TransactionScope
	eventPublisher shared.EventPublisher
}

// NewDepositService creates a new deposit service
func NewDepositService(
	deposits cash.DepositRepository,
	accounts cash.BankAccountRepository,
	ledger *cash.CashLedger,
	scope shared.TransactionScope,
) *DepositService {
	return &DepositService{
		deposits: deposits,
		accounts: accounts,
		ledger:   ledger,
		scope:    scope,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *DepositService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens a new in-progress deposit slip
func (s *DepositService) Create(ctx context.Context, req CreateDepositRequest) (*DepositResponse, error) {
	if _, err := s.accounts.FindByID(ctx, req.BankAccountID); err != nil {
		return nil, err
	}
	deposit, err := cash.NewDeposit(req.CreatedBy, req.BankAccountID, req.RegisterID, req.SlipNumber)
	if err != nil {
		return nil, err
	}
	if err := s.deposits.Save(ctx, deposit); err != nil {
		return nil, err
	}
	return ToDepositResponse(deposit), nil
}

// GetByID returns a deposit slip with its lines
func (s *DepositService) GetByID(ctx context.Context, id uuid.UUID) (*DepositResponse, error) {
	deposit, err := s.deposits.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToDepositResponse(deposit), nil
}

// List returns the deposits made from a register, newest first
func (s *DepositService) List(ctx context.Context, registerID uuid.UUID, filter shared.Filter) ([]DepositResponse, error) {
	deposits, err := s.deposits.FindByRegister(ctx, registerID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]DepositResponse, len(deposits))
	for i := range deposits {
		responses[i] = *ToDepositResponse(&deposits[i])
	}
	return responses, nil
}

// AddCash claims the given amount from the register's available cash,
// oldest receipts first, adding one slip line per cash row touched. Lines
// landing on a row the slip already draws from merge, and so do their
// reserves.
func (s *DepositService) AddCash(ctx context.Context, req AddCashRequest) (*DepositResponse, error) {
	var deposit *cash.Deposit
	err := s.scope.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		deposit, err = s.deposits.FindByID(ctx, req.DepositID)
		if err != nil {
			return err
		}

		rows, err := s.ledger.SelectAvailableCash(ctx, deposit.RegisterID, req.Amount)
		if err != nil {
			return err
		}

		remaining := req.Amount
		for _, row := range rows {
			take := remaining
			if available := row.Available(); available.LessThan(remaining) {
				take = available
			}

			reserve, err := s.ledger.CreateReserve(ctx, row, take, req.Actor)
			if err != nil {
				return err
			}
			detail, err := cash.NewDepositDetail(row, reserve, take)
			if err != nil {
				return err
			}
			kept, merged, err := deposit.AddDetail(detail)
			if err != nil {
				return err
			}
			if merged {
				if err := s.mergeInto(ctx, kept, reserve); err != nil {
					return err
				}
			}
			remaining = remaining.Sub(take)
			if remaining.LessThanOrEqual(decimal.Zero) {
				break
			}
		}
		return s.deposits.Save(ctx, deposit)
	})
	if err != nil {
		return nil, err
	}
	return ToDepositResponse(deposit), nil
}

// mergeInto folds the freshly created reserve into the reserve the kept
// line already carries. Merged lines share a cash row, so the absorb is
// safe.
func (s *DepositService) mergeInto(ctx context.Context, kept *cash.DepositDetail, src *cash.CashReserve) error {
	if kept.ReserveID == nil {
		return shared.NewPreconditionError("merged deposit line lost its reserve")
	}
	if *kept.ReserveID == src.ID {
		return nil
	}
	dst, err := s.ledger.GetReserve(ctx, *kept.ReserveID)
	if err != nil {
		return err
	}
	return s.ledger.MergeReserves(ctx, dst, src)
}

// RemoveDetail deletes a line from an in-progress slip, releasing the cash
// it had reserved.
func (s *DepositService) RemoveDetail(ctx context.Context, depositID uuid.UUID, key string) (*DepositResponse, error) {
	var deposit *cash.Deposit
	err := s.scope.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		deposit, err = s.deposits.FindByID(ctx, depositID)
		if err != nil {
			return err
		}
		removed, err := deposit.DeleteDetail(key)
		if err != nil {
			return err
		}
		if err := s.releaseLine(ctx, removed); err != nil {
			return err
		}
		return s.deposits.Save(ctx, deposit)
	})
	if err != nil {
		return nil, err
	}
	return ToDepositResponse(deposit), nil
}

// Save finalizes a slip: every line's reserve is consumed, moving the money
// from reserved to deposited in one transaction.
func (s *DepositService) Save(ctx context.Context, depositID uuid.UUID) (*DepositResponse, error) {
	var deposit *cash.Deposit
	err := s.scope.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		deposit, err = s.deposits.FindByID(ctx, depositID)
		if err != nil {
			return err
		}

		for idx := range deposit.Details {
			detail := &deposit.Details[idx]
			if detail.Applied || detail.ReserveID == nil {
				continue
			}
			reserve, err := s.ledger.GetReserve(ctx, *detail.ReserveID)
			if err != nil {
				return err
			}
			if err := s.ledger.ConsumeReserve(ctx, reserve); err != nil {
				return err
			}
			detail.Applied = true
			detail.ReserveID = nil
		}

		if err := deposit.MarkCreated(); err != nil {
			return err
		}
		return s.deposits.Save(ctx, deposit)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, deposit)
	return ToDepositResponse(deposit), nil
}

// Cancel reverses a saved slip, returning every line's money to the
// register's available cash.
func (s *DepositService) Cancel(ctx context.Context, req CancelDepositRequest) (*DepositResponse, error) {
	var deposit *cash.Deposit
	err := s.scope.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		deposit, err = s.deposits.FindByID(ctx, req.DepositID)
		if err != nil {
			return err
		}
		if deposit.Status != cash.DepositStatusCreated {
			return shared.NewValidationError("INVALID_STATE", "Only saved deposits can be cancelled")
		}

		for idx := range deposit.Details {
			detail := &deposit.Details[idx]
			if err := s.ledger.RevertDeposit(ctx, detail.CashID, detail.Amount); err != nil {
				return err
			}
		}
		if err := deposit.MarkCancelled(req.CancelledBy, req.Reason); err != nil {
			return err
		}
		return s.deposits.Save(ctx, deposit)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, deposit)
	return ToDepositResponse(deposit), nil
}

// Discard drops an in-progress slip, releasing the cash its lines reserved
func (s *DepositService) Discard(ctx context.Context, depositID uuid.UUID) error {
	return s.scope.WithinTransaction(ctx, func(ctx context.Context) error {
		deposit, err := s.deposits.FindByID(ctx, depositID)
		if err != nil {
			return err
		}
		if !deposit.CanDiscard() {
			return shared.NewValidationError("INVALID_STATE", "Only in-progress deposits can be discarded")
		}
		for idx := range deposit.Details {
			if err := s.releaseLine(ctx, &deposit.Details[idx]); err != nil {
				return err
			}
		}
		return s.deposits.Delete(ctx, deposit.ID)
	})
}

// releaseLine gives back the reserve of an unapplied line, if it holds one
func (s *DepositService) releaseLine(ctx context.Context, detail *cash.DepositDetail) error {
	if detail.Applied || detail.ReserveID == nil {
		return nil
	}
	reserve, err := s.ledger.GetReserve(ctx, *detail.ReserveID)
	if err != nil {
		return err
	}
	return s.ledger.ReleaseReserve(ctx, reserve)
}

func (s *DepositService) publishEvents(ctx context.Context, deposit *cash.Deposit) {
	if s.eventPublisher == nil {
		return
	}
	events := deposit.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	deposit.ClearDomainEvents()
}
