package cash

import (
	"context"

	"github.com/pos/backend/internal/domain/cash"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// In-memory repositories backing the service tests. Copies go in and out so
// mutating a returned aggregate never leaks into the store before Save.

type memCashRepository struct {
	order []uuid.UUID
	rows  map[uuid.UUID]*cash.Cash
}

func newMemCashRepository() *memCashRepository {
	return &memCashRepository{rows: make(map[uuid.UUID]*cash.Cash)}
}

func (r *memCashRepository) FindByID(ctx context.Context, id uuid.UUID) (*cash.Cash, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *row
	return &copied, nil
}

func (r *memCashRepository) FindByReceipt(ctx context.Context, receiptID uuid.UUID) (*cash.Cash, error) {
	for _, id := range r.order {
		if r.rows[id].ReceiptID == receiptID {
			copied := *r.rows[id]
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCashRepository) FindAvailableByRegister(ctx context.Context, registerID uuid.UUID) ([]cash.Cash, error) {
	var out []cash.Cash
	for _, id := range r.order {
		row := r.rows[id]
		if row.RegisterID == registerID && row.Available().IsPositive() {
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

func (r *memCashRepository) Save(ctx context.Context, row *cash.Cash) error {
	if _, ok := r.rows[row.ID]; !ok {
		r.order = append(r.order, row.ID)
	}
	copied := *row
	r.rows[row.ID] = &copied
	return nil
}

type memCashReserveRepository struct {
	reserves map[uuid.UUID]*cash.CashReserve
}

func newMemCashReserveRepository() *memCashReserveRepository {
	return &memCashReserveRepository{reserves: make(map[uuid.UUID]*cash.CashReserve)}
}

func (r *memCashReserveRepository) FindByID(ctx context.Context, id uuid.UUID) (*cash.CashReserve, error) {
	reserve, ok := r.reserves[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *reserve
	return &copied, nil
}

func (r *memCashReserveRepository) FindByCash(ctx context.Context, cashID uuid.UUID) ([]cash.CashReserve, error) {
	var out []cash.CashReserve
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

func (r *memCashReserveRepository) Save(ctx context.Context, reserve *cash.CashReserve) error {
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

type memDepositRepository struct {
	order    []uuid.UUID
	deposits map[uuid.UUID]*cash.Deposit
}

func newMemDepositRepository() *memDepositRepository {
	return &memDepositRepository{deposits: make(map[uuid.UUID]*cash.Deposit)}
}

func copyDeposit(d *cash.Deposit) *cash.Deposit {
	copied := *d
	copied.Details = make([]cash.DepositDetail, len(d.Details))
	copy(copied.Details, d.Details)
	return &copied
}

func (r *memDepositRepository) FindByID(ctx context.Context, id uuid.UUID) (*cash.Deposit, error) {
	deposit, ok := r.deposits[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return copyDeposit(deposit), nil
}

func (r *memDepositRepository) FindByRegister(ctx context.Context, registerID uuid.UUID, filter shared.Filter) ([]cash.Deposit, error) {
	var out []cash.Deposit
	for idx := len(r.order) - 1; idx >= 0; idx-- {
		deposit := r.deposits[r.order[idx]]
		if deposit.RegisterID == registerID {
			out = append(out, *copyDeposit(deposit))
		}
	}
	return out, nil
}

func (r *memDepositRepository) Save(ctx context.Context, deposit *cash.Deposit) error {
	if _, ok := r.deposits[deposit.ID]; !ok {
		r.order = append(r.order, deposit.ID)
	}
	r.deposits[deposit.ID] = copyDeposit(deposit)
	return nil
}

func (r *memDepositRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.deposits[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.deposits, id)
	for idx, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:idx], r.order[idx+1:]...)
			break
		}
	}
	return nil
}

type memVoucherRepository struct {
	vouchers []cash.Voucher
}

func (r *memVoucherRepository) FindByReceipt(ctx context.Context, receiptID uuid.UUID) ([]cash.Voucher, error) {
	var out []cash.Voucher
	for _, v := range r.vouchers {
		if v.ReceiptID == receiptID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *memVoucherRepository) SumAmountByRegister(ctx context.Context, registerID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, v := range r.vouchers {
		if v.RegisterID == registerID {
			sum = sum.Add(v.Amount)
		}
	}
	return sum, nil
}

func (r *memVoucherRepository) Save(ctx context.Context, voucher *cash.Voucher) error {
	r.vouchers = append(r.vouchers, *voucher)
	return nil
}

func (r *memVoucherRepository) DeleteByReceipt(ctx context.Context, receiptID uuid.UUID) error {
	kept := r.vouchers[:0]
	for _, v := range r.vouchers {
		if v.ReceiptID != receiptID {
			kept = append(kept, v)
		}
	}
	r.vouchers = kept
	return nil
}

type memShiftRepository struct {
	shifts map[uuid.UUID]*cash.Shift
}

func newMemShiftRepository() *memShiftRepository {
	return &memShiftRepository{shifts: make(map[uuid.UUID]*cash.Shift)}
}

func (r *memShiftRepository) FindByID(ctx context.Context, id uuid.UUID) (*cash.Shift, error) {
	shift, ok := r.shifts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *shift
	return &copied, nil
}

func (r *memShiftRepository) FindAll(ctx context.Context) ([]cash.Shift, error) {
	out := make([]cash.Shift, 0, len(r.shifts))
	for _, shift := range r.shifts {
		out = append(out, *shift)
	}
	return out, nil
}

func (r *memShiftRepository) Save(ctx context.Context, shift *cash.Shift) error {
	copied := *shift
	r.shifts[shift.ID] = &copied
	return nil
}

type memRegisterRepository struct {
	registers map[uuid.UUID]*cash.CashRegister
}

func newMemRegisterRepository() *memRegisterRepository {
	return &memRegisterRepository{registers: make(map[uuid.UUID]*cash.CashRegister)}
}

func (r *memRegisterRepository) FindByID(ctx context.Context, id uuid.UUID) (*cash.CashRegister, error) {
	register, ok := r.registers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *register
	return &copied, nil
}

func (r *memRegisterRepository) FindOpen(ctx context.Context) ([]cash.CashRegister, error) {
	var out []cash.CashRegister
	for _, register := range r.registers {
		if register.IsOpen() {
			out = append(out, *register)
		}
	}
	return out, nil
}

func (r *memRegisterRepository) Save(ctx context.Context, register *cash.CashRegister) error {
	copied := *register
	r.registers[register.ID] = &copied
	return nil
}

type memBankRepository struct {
	banks map[uuid.UUID]*cash.Bank
}

func newMemBankRepository() *memBankRepository {
	return &memBankRepository{banks: make(map[uuid.UUID]*cash.Bank)}
}

func (r *memBankRepository) FindByID(ctx context.Context, id uuid.UUID) (*cash.Bank, error) {
	bank, ok := r.banks[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *bank
	return &copied, nil
}

func (r *memBankRepository) FindAll(ctx context.Context) ([]cash.Bank, error) {
	out := make([]cash.Bank, 0, len(r.banks))
	for _, bank := range r.banks {
		out = append(out, *bank)
	}
	return out, nil
}

func (r *memBankRepository) Save(ctx context.Context, bank *cash.Bank) error {
	copied := *bank
	r.banks[bank.ID] = &copied
	return nil
}

type memBankAccountRepository struct {
	accounts map[uuid.UUID]*cash.BankAccount
}

func newMemBankAccountRepository() *memBankAccountRepository {
	return &memBankAccountRepository{accounts: make(map[uuid.UUID]*cash.BankAccount)}
}

func (r *memBankAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*cash.BankAccount, error) {
	account, ok := r.accounts[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *account
	return &copied, nil
}

func (r *memBankAccountRepository) FindByBank(ctx context.Context, bankID uuid.UUID) ([]cash.BankAccount, error) {
	var out []cash.BankAccount
	for _, account := range r.accounts {
		if account.BankID == bankID {
			out = append(out, *account)
		}
	}
	return out, nil
}

func (r *memBankAccountRepository) Save(ctx context.Context, account *cash.BankAccount) error {
	copied := *account
	r.accounts[account.ID] = &copied
	return nil
}
