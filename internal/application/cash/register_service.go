package cash

import (
	"context"

	"github.com/pos/backend/internal/domain/cash"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// RegisterService opens and closes cash registers and keeps the catalog of
// working shifts, banks and accounts deposits are made to.
type RegisterService struct {
	registers      cash.CashRegisterRepository
	shifts         cash.ShiftRepository
	banks          cash.BankRepository
	accounts       cash.BankAccountRepository
	cashRepo       cash.CashRepository
	vouchers       cash.VoucherRepository
	eventPublisher shared.EventPublisher
}

// NewRegisterService creates a new register service
func NewRegisterService(
	registers cash.CashRegisterRepository,
	shifts cash.ShiftRepository,
	banks cash.BankRepository,
	accounts cash.BankAccountRepository,
	cashRepo cash.CashRepository,
	vouchers cash.VoucherRepository,
) *RegisterService {
	return &RegisterService{
		registers: registers,
		shifts:    shifts,
		banks:     banks,
		accounts:  accounts,
		cashRepo:  cashRepo,
		vouchers:  vouchers,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *RegisterService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Open opens a new cash register under a working shift
func (s *RegisterService) Open(ctx context.Context, req OpenRegisterRequest) (*RegisterResponse, error) {
	shift, err := s.shifts.FindByID(ctx, req.ShiftID)
	if err != nil {
		return nil, err
	}
	register, err := cash.OpenRegister(req.OpenedBy, req.Name, shift.ID, req.OpeningBalance)
	if err != nil {
		return nil, err
	}
	if err := s.registers.Save(ctx, register); err != nil {
		return nil, err
	}
	return ToRegisterResponse(register), nil
}

// CreateShift registers a working shift registers can be opened under
func (s *RegisterService) CreateShift(ctx context.Context, name string) (*ShiftResponse, error) {
	shift, err := cash.NewShift(name)
	if err != nil {
		return nil, err
	}
	if err := s.shifts.Save(ctx, shift); err != nil {
		return nil, err
	}
	return ToShiftResponse(shift), nil
}

// ListShifts returns the registered working shifts
func (s *RegisterService) ListShifts(ctx context.Context) ([]ShiftResponse, error) {
	shifts, err := s.shifts.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]ShiftResponse, len(shifts))
	for i := range shifts {
		responses[i] = *ToShiftResponse(&shifts[i])
	}
	return responses, nil
}

// Close closes a register with its counted balance
func (s *RegisterService) Close(ctx context.Context, req CloseRegisterRequest) (*RegisterResponse, error) {
	register, err := s.registers.FindByID(ctx, req.RegisterID)
	if err != nil {
		return nil, err
	}
	if err := register.Close(req.ClosedBy, req.ClosingBalance); err != nil {
		return nil, err
	}
	if err := s.registers.Save(ctx, register); err != nil {
		return nil, err
	}
	if s.eventPublisher != nil {
		events := register.GetDomainEvents()
		if len(events) > 0 {
			_ = s.eventPublisher.Publish(ctx, events...)
			register.ClearDomainEvents()
		}
	}
	return ToRegisterResponse(register), nil
}

// ListOpen returns the registers currently open
func (s *RegisterService) ListOpen(ctx context.Context) ([]RegisterResponse, error) {
	registers, err := s.registers.FindOpen(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]RegisterResponse, len(registers))
	for i := range registers {
		responses[i] = *ToRegisterResponse(&registers[i])
	}
	return responses, nil
}

// Balance reports a register's money position: cash available for deposit
// and card vouchers taken.
func (s *RegisterService) Balance(ctx context.Context, registerID uuid.UUID) (*RegisterBalanceResponse, error) {
	register, err := s.registers.FindByID(ctx, registerID)
	if err != nil {
		return nil, err
	}
	available, err := s.cashRepo.SumAvailableByRegister(ctx, registerID)
	if err != nil {
		return nil, err
	}
	voucherTotal, err := s.vouchers.SumAmountByRegister(ctx, registerID)
	if err != nil {
		return nil, err
	}
	return &RegisterBalanceResponse{
		RegisterID:     register.ID,
		Name:           register.Name,
		Status:         string(register.Status),
		OpeningBalance: register.OpeningBalance,
		CashAvailable:  available,
		VoucherTotal:   voucherTotal,
	}, nil
}

// CreateBank registers a bank deposits can be made to
func (s *RegisterService) CreateBank(ctx context.Context, name string) (*BankResponse, error) {
	bank, err := cash.NewBank(name)
	if err != nil {
		return nil, err
	}
	if err := s.banks.Save(ctx, bank); err != nil {
		return nil, err
	}
	return ToBankResponse(bank), nil
}

// CreateBankAccount registers an account at a bank
func (s *RegisterService) CreateBankAccount(ctx context.Context, req CreateBankAccountRequest) (*BankAccountResponse, error) {
	if _, err := s.banks.FindByID(ctx, req.BankID); err != nil {
		return nil, err
	}
	account, err := cash.NewBankAccount(req.BankID, req.AccountNumber, req.HolderName)
	if err != nil {
		return nil, err
	}
	if err := s.accounts.Save(ctx, account); err != nil {
		return nil, err
	}
	return ToBankAccountResponse(account), nil
}

// ListBanks returns the registered banks
func (s *RegisterService) ListBanks(ctx context.Context) ([]BankResponse, error) {
	banks, err := s.banks.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	responses := make([]BankResponse, len(banks))
	for i := range banks {
		responses[i] = *ToBankResponse(&banks[i])
	}
	return responses, nil
}

// ListBankAccounts returns the accounts at a bank
func (s *RegisterService) ListBankAccounts(ctx context.Context, bankID uuid.UUID) ([]BankAccountResponse, error) {
	accounts, err := s.accounts.FindByBank(ctx, bankID)
	if err != nil {
		return nil, err
	}
	responses := make([]BankAccountResponse, len(accounts))
	for i := range accounts {
		responses[i] = *ToBankAccountResponse(&accounts[i])
	}
	return responses, nil
}
