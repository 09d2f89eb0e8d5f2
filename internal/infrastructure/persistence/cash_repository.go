package persistence

import (
	"context"
	"errors"

	"github.com/pos/backend/internal/domain/cash"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GormCashRepository implements CashRepository using GORM
type GormCashRepository struct {
	db *gorm.DB
}

// NewGormCashRepository creates a new GormCashRepository
func NewGormCashRepository(db *gorm.DB) *GormCashRepository {
	return &GormCashRepository{db: db}
}

// FindByID finds a cash row by ID
func (r *GormCashRepository) FindByID(ctx context.Context, id uuid.UUID) (*cash.Cash, error) {
	var row cash.Cash
	if err := dbFrom(ctx, r.db).WithContext(ctx).First(&row, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// FindByReceipt finds the cash row of a receipt
func (r *GormCashRepository) FindByReceipt(ctx context.Context, receiptID uuid.UUID) (*cash.Cash, error) {
	var row cash.Cash
	if err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("receipt_id = ?", receiptID).
		First(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// FindAvailableByRegister finds rows with available money at a register, oldest first
func (r *GormCashRepository) FindAvailableByRegister(ctx context.Context, registerID uuid.UUID) ([]cash.Cash, error) {
	var rows []cash.Cash
	if err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("register_id = ? AND received - reserved - deposited > 0", registerID).
		Order("received_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// SumAvailableByRegister sums available money at a register
func (r *GormCashRepository) SumAvailableByRegister(ctx context.Context, registerID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := dbFrom(ctx, r.db).WithContext(ctx).
		Model(&cash.Cash{}).
		Select("COALESCE(SUM(received - reserved - deposited), 0)").
		Where("register_id = ?", registerID).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// Save creates or updates a cash row
func (r *GormCashRepository) Save(ctx context.Context, row *cash.Cash) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(row).Error
}

// GormCashReserveRepository implements CashReserveRepository using GORM
type GormCashReserveRepository struct {
	db *gorm.DB
}

// NewGormCashReserveRepository creates a new GormCashReserveRepository
func NewGormCashReserveRepository(db *gorm.DB) *GormCashReserveRepository {
	return &GormCashReserveRepository{db: db}
}

// FindByID finds a cash reserve by ID
func (r *GormCashReserveRepository) FindByID(ctx context.Context, id uuid.UUID) (*cash.CashReserve, error) {
	var reserve cash.CashReserve
	if err := dbFrom(ctx, r.db).WithContext(ctx).First(&reserve, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &reserve, nil
}

// FindByCash finds all reserves against a cash row
func (r *GormCashReserveRepository) FindByCash(ctx context.Context, cashID uuid.UUID) ([]cash.CashReserve, error) {
	var reserves []cash.CashReserve
	if err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("cash_id = ?", cashID).
		Order("reserved_at ASC").
		Find(&reserves).Error; err != nil {
		return nil, err
	}
	return reserves, nil
}

// SumAmountByCash sums reserved amounts across a cash row's reserves
func (r *GormCashReserveRepository) SumAmountByCash(ctx context.Context, cashID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := dbFrom(ctx, r.db).WithContext(ctx).
		Model(&cash.CashReserve{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("cash_id = ?", cashID).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// Save creates or updates a cash reserve
func (r *GormCashReserveRepository) Save(ctx context.Context, reserve *cash.CashReserve) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(reserve).Error
}

// Delete removes a cash reserve row
func (r *GormCashReserveRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFrom(ctx, r.db).WithContext(ctx).Delete(&cash.CashReserve{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// depositSortFields contains allowed sort fields for deposits
var depositSortFields = map[string]bool{
	"id":           true,
	"created_at":   true,
	"deposited_at": true,
	"total":        true,
}

// GormDepositRepository implements DepositRepository using GORM
type GormDepositRepository struct {
	db *gorm.DB
}

// NewGormDepositRepository creates a new GormDepositRepository
func NewGormDepositRepository(db *gorm.DB) *GormDepositRepository {
	return &GormDepositRepository{db: db}
}

// FindByID finds a deposit with its lines by ID
func (r *GormDepositRepository) FindByID(ctx context.Context, id uuid.UUID) (*cash.Deposit, error) {
	var deposit cash.Deposit
	if err := dbFrom(ctx, r.db).WithContext(ctx).
		Preload("Details").
		First(&deposit, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &deposit, nil
}

// FindByRegister finds deposits made from a register, newest first
func (r *GormDepositRepository) FindByRegister(ctx context.Context, registerID uuid.UUID, filter shared.Filter) ([]cash.Deposit, error) {
	var deposits []cash.Deposit
	query := dbFrom(ctx, r.db).WithContext(ctx).
		Model(&cash.Deposit{}).
		Preload("Details").
		Where("register_id = ?", registerID)
	query = applyFilter(query, filter, depositSortFields, "created_at")
	if err := query.Find(&deposits).Error; err != nil {
		return nil, err
	}
	return deposits, nil
}

// Save creates or updates a deposit and its lines. Lines removed from
// the slip are removed from the table as well.
func (r *GormDepositRepository) Save(ctx context.Context, deposit *cash.Deposit) error {
	db := dbFrom(ctx, r.db).WithContext(ctx)

	keep := make([]uuid.UUID, 0, len(deposit.Details))
	for idx := range deposit.Details {
		keep = append(keep, deposit.Details[idx].ID)
	}
	query := db.Where("deposit_id = ?", deposit.ID)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	if err := query.Delete(&cash.DepositDetail{}).Error; err != nil {
		return err
	}

	return db.Session(&gorm.Session{FullSaveAssociations: true}).Save(deposit).Error
}

// Delete removes an in-progress deposit that was discarded
func (r *GormDepositRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := dbFrom(ctx, r.db).WithContext(ctx)
	if err := db.Delete(&cash.DepositDetail{}, "deposit_id = ?", id).Error; err != nil {
		return err
	}
	result := db.Delete(&cash.Deposit{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormVoucherRepository implements VoucherRepository using GORM
type GormVoucherRepository struct {
	db *gorm.DB
}

// NewGormVoucherRepository creates a new GormVoucherRepository
func NewGormVoucherRepository(db *gorm.DB) *GormVoucherRepository {
	return &GormVoucherRepository{db: db}
}

// FindByReceipt finds vouchers taken on a receipt
func (r *GormVoucherRepository) FindByReceipt(ctx context.Context, receiptID uuid.UUID) ([]cash.Voucher, error) {
	var vouchers []cash.Voucher
	if err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("receipt_id = ?", receiptID).
		Order("received_at ASC").
		Find(&vouchers).Error; err != nil {
		return nil, err
	}
	return vouchers, nil
}

// SumAmountByRegister sums voucher amounts taken at a register
func (r *GormVoucherRepository) SumAmountByRegister(ctx context.Context, registerID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.Decimal
	if err := dbFrom(ctx, r.db).WithContext(ctx).
		Model(&cash.Voucher{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("register_id = ?", registerID).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	return total, nil
}

// Save creates a voucher
func (r *GormVoucherRepository) Save(ctx context.Context, voucher *cash.Voucher) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(voucher).Error
}

// DeleteByReceipt removes the vouchers taken on a cancelled receipt
func (r *GormVoucherRepository) DeleteByReceipt(ctx context.Context, receiptID uuid.UUID) error {
	return dbFrom(ctx, r.db).WithContext(ctx).
		Delete(&cash.Voucher{}, "receipt_id = ?", receiptID).Error
}

// GormBankRepository implements BankRepository using GORM
type GormBankRepository struct {
	db *gorm.DB
}

// NewGormBankRepository creates a new GormBankRepository
func NewGormBankRepository(db *gorm.DB) *GormBankRepository {
	return &GormBankRepository{db: db}
}

func (r *GormBankRepository) FindByID(ctx context.Context, id uuid.UUID) (*cash.Bank, error) {
	var bank cash.Bank
	if err := dbFrom(ctx, r.db).WithContext(ctx).First(&bank, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &bank, nil
}

func (r *GormBankRepository) FindAll(ctx context.Context) ([]cash.Bank, error) {
	var banks []cash.Bank
	if err := dbFrom(ctx, r.db).WithContext(ctx).
		Order("name ASC").
		Find(&banks).Error; err != nil {
		return nil, err
	}
	return banks, nil
}

func (r *GormBankRepository) Save(ctx context.Context, bank *cash.Bank) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(bank).Error
}

// GormBankAccountRepository implements BankAccountRepository using GORM
type GormBankAccountRepository struct {
	db *gorm.DB
}

// NewGormBankAccountRepository creates a new GormBankAccountRepository
func NewGormBankAccountRepository(db *gorm.DB) *GormBankAccountRepository {
	return &GormBankAccountRepository{db: db}
}

func (r *GormBankAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*cash.BankAccount, error) {
	var account cash.BankAccount
	if err := dbFrom(ctx, r.db).WithContext(ctx).First(&account, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &account, nil
}

func (r *GormBankAccountRepository) FindByBank(ctx context.Context, bankID uuid.UUID) ([]cash.BankAccount, error) {
	var accounts []cash.BankAccount
	if err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("bank_id = ?", bankID).
		Find(&accounts).Error; err != nil {
		return nil, err
	}
	return accounts, nil
}

func (r *GormBankAccountRepository) Save(ctx context.Context, account *cash.BankAccount) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(account).Error
}

// GormShiftRepository implements ShiftRepository using GORM
type GormShiftRepository struct {
	db *gorm.DB
}

// NewGormShiftRepository creates a new GormShiftRepository
func NewGormShiftRepository(db *gorm.DB) *GormShiftRepository {
	return &GormShiftRepository{db: db}
}

func (r *GormShiftRepository) FindByID(ctx context.Context, id uuid.UUID) (*cash.Shift, error) {
	var shift cash.Shift
	if err := dbFrom(ctx, r.db).WithContext(ctx).First(&shift, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &shift, nil
}

func (r *GormShiftRepository) FindAll(ctx context.Context) ([]cash.Shift, error) {
	var shifts []cash.Shift
	if err := dbFrom(ctx, r.db).WithContext(ctx).
		Order("name ASC").
		Find(&shifts).Error; err != nil {
		return nil, err
	}
	return shifts, nil
}

func (r *GormShiftRepository) Save(ctx context.Context, shift *cash.Shift) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(shift).Error
}

// GormCashRegisterRepository implements CashRegisterRepository using GORM
type GormCashRegisterRepository struct {
	db *gorm.DB
}

// NewGormCashRegisterRepository creates a new GormCashRegisterRepository
func NewGormCashRegisterRepository(db *gorm.DB) *GormCashRegisterRepository {
	return &GormCashRegisterRepository{db: db}
}

// FindByID finds a register by ID
func (r *GormCashRegisterRepository) FindByID(ctx context.Context, id uuid.UUID) (*cash.CashRegister, error) {
	var register cash.CashRegister
	if err := dbFrom(ctx, r.db).WithContext(ctx).First(&register, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &register, nil
}

// FindOpen finds the registers currently open
func (r *GormCashRegisterRepository) FindOpen(ctx context.Context) ([]cash.CashRegister, error) {
	var registers []cash.CashRegister
	if err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("status = ?", cash.RegisterStatusOpen).
		Order("opened_at ASC").
		Find(&registers).Error; err != nil {
		return nil, err
	}
	return registers, nil
}

// Save creates or updates a register
func (r *GormCashRegisterRepository) Save(ctx context.Context, register *cash.CashRegister) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(register).Error
}

var (
	_ cash.CashRepository         = (*GormCashRepository)(nil)
	_ cash.CashReserveRepository  = (*GormCashReserveRepository)(nil)
	_ cash.DepositRepository      = (*GormDepositRepository)(nil)
	_ cash.VoucherRepository      = (*GormVoucherRepository)(nil)
	_ cash.BankRepository         = (*GormBankRepository)(nil)
	_ cash.BankAccountRepository  = (*GormBankAccountRepository)(nil)
	_ cash.CashRegisterRepository = (*GormCashRegisterRepository)(nil)
)
