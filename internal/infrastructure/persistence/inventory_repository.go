package persistence

import (
	"context"
	"errors"

	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// lotSortFields contains allowed sort fields for lots
var lotSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"entry_date":      true,
	"expiration_date": true,
	"quantity":        true,
}

// GormLotRepository implements LotRepository using GORM
type GormLotRepository struct {
	db *gorm.DB
}

// NewGormLotRepository creates a new GormLotRepository
func NewGormLotRepository(db *gorm.DB) *GormLotRepository {
	return &GormLotRepository{db: db}
}

// FindByID finds a lot by its ID
func (r *GormLotRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Lot, error) {
	var lot inventory.Lot
	if err := dbFrom(ctx, r.db).WithContext(ctx).First(&lot, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &lot, nil
}

// FindByProduct finds all lots of a product in creation order
func (r *GormLotRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.Lot, error) {
	var lots []inventory.Lot
	if err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("product_id = ?", productID).
		Order("created_at ASC").
		Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// FindInStock finds lots of a product with available quantity, in creation order
func (r *GormLotRepository) FindInStock(ctx context.Context, productID uuid.UUID) ([]inventory.Lot, error) {
	var lots []inventory.Lot
	if err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("product_id = ? AND quantity - reserved > 0", productID).
		Order("created_at ASC").
		Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// FindNegative finds lots of a product with negative on-hand quantity, in creation order
func (r *GormLotRepository) FindNegative(ctx context.Context, productID uuid.UUID) ([]inventory.Lot, error) {
	var lots []inventory.Lot
	if err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("product_id = ? AND quantity < 0", productID).
		Order("created_at ASC").
		Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// FindExpired finds lots past their expiration date that still hold stock
func (r *GormLotRepository) FindExpired(ctx context.Context, filter shared.Filter) ([]inventory.Lot, error) {
	var lots []inventory.Lot
	query := dbFrom(ctx, r.db).WithContext(ctx).
		Model(&inventory.Lot{}).
		Where("expiration_date IS NOT NULL AND expiration_date < CURRENT_DATE AND quantity > 0")
	query = applyFilter(query, filter, lotSortFields, "expiration_date")

	if err := query.Find(&lots).Error; err != nil {
		return nil, err
	}
	return lots, nil
}

// SumQuantityByProduct sums on-hand quantity across a product's lots
func (r *GormLotRepository) SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var sum int64
	if err := dbFrom(ctx, r.db).WithContext(ctx).
		Model(&inventory.Lot{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum, nil
}

// SumAvailableByProduct sums available quantity across a product's lots
func (r *GormLotRepository) SumAvailableByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var sum int64
	if err := dbFrom(ctx, r.db).WithContext(ctx).
		Model(&inventory.Lot{}).
		Where("product_id = ?", productID).
		Select("COALESCE(SUM(quantity - reserved), 0)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum, nil
}

// Save creates or updates a lot
func (r *GormLotRepository) Save(ctx context.Context, lot *inventory.Lot) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(lot).Error
}

// GormReserveRepository implements ReserveRepository using GORM
type GormReserveRepository struct {
	db *gorm.DB
}

// NewGormReserveRepository creates a new GormReserveRepository
func NewGormReserveRepository(db *gorm.DB) *GormReserveRepository {
	return &GormReserveRepository{db: db}
}

// FindByID finds a reserve by its ID
func (r *GormReserveRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Reserve, error) {
	var reserve inventory.Reserve
	if err := dbFrom(ctx, r.db).WithContext(ctx).First(&reserve, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &reserve, nil
}

// FindByLot finds all reserves against a lot
func (r *GormReserveRepository) FindByLot(ctx context.Context, lotID uuid.UUID) ([]inventory.Reserve, error) {
	var reserves []inventory.Reserve
	if err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("lot_id = ?", lotID).
		Order("reserved_at ASC").
		Find(&reserves).Error; err != nil {
		return nil, err
	}
	return reserves, nil
}

// SumQuantityByLot sums reserved quantity across a lot's reserves
func (r *GormReserveRepository) SumQuantityByLot(ctx context.Context, lotID uuid.UUID) (int64, error) {
	var sum int64
	if err := dbFrom(ctx, r.db).WithContext(ctx).
		Model(&inventory.Reserve{}).
		Where("lot_id = ?", lotID).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&sum).Error; err != nil {
		return 0, err
	}
	return sum, nil
}

// Save creates or updates a reserve
func (r *GormReserveRepository) Save(ctx context.Context, reserve *inventory.Reserve) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(reserve).Error
}

// Delete removes a reserve row
func (r *GormReserveRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFrom(ctx, r.db).WithContext(ctx).Delete(&inventory.Reserve{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// stockTransactionSortFields contains allowed sort fields for the journal
var stockTransactionSortFields = map[string]bool{
	"id":               true,
	"created_at":       true,
	"transaction_date": true,
}

// GormStockTransactionRepository implements StockTransactionRepository using GORM
type GormStockTransactionRepository struct {
	db *gorm.DB
}

// NewGormStockTransactionRepository creates a new GormStockTransactionRepository
func NewGormStockTransactionRepository(db *gorm.DB) *GormStockTransactionRepository {
	return &GormStockTransactionRepository{db: db}
}

// Create appends a stock transaction record
func (r *GormStockTransactionRepository) Create(ctx context.Context, tx *inventory.StockTransaction) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Create(tx).Error
}

// FindByLot finds transactions against a lot
func (r *GormStockTransactionRepository) FindByLot(ctx context.Context, lotID uuid.UUID, filter shared.Filter) ([]inventory.StockTransaction, error) {
	var transactions []inventory.StockTransaction
	query := dbFrom(ctx, r.db).WithContext(ctx).
		Model(&inventory.StockTransaction{}).
		Where("lot_id = ?", lotID)
	query = applyFilter(query, filter, stockTransactionSortFields, "transaction_date")

	if err := query.Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// FindByProduct finds transactions for a product
func (r *GormStockTransactionRepository) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]inventory.StockTransaction, error) {
	var transactions []inventory.StockTransaction
	query := dbFrom(ctx, r.db).WithContext(ctx).
		Model(&inventory.StockTransaction{}).
		Where("product_id = ?", productID)
	query = applyFilter(query, filter, stockTransactionSortFields, "transaction_date")

	if err := query.Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

// FindBySource finds transactions by source document
func (r *GormStockTransactionRepository) FindBySource(ctx context.Context, sourceType inventory.SourceType, sourceID uuid.UUID) ([]inventory.StockTransaction, error) {
	var transactions []inventory.StockTransaction
	if err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("source_type = ? AND source_id = ?", sourceType, sourceID).
		Order("transaction_date ASC").
		Find(&transactions).Error; err != nil {
		return nil, err
	}
	return transactions, nil
}

var (
	_ inventory.LotRepository              = (*GormLotRepository)(nil)
	_ inventory.ReserveRepository          = (*GormReserveRepository)(nil)
	_ inventory.StockTransactionRepository = (*GormStockTransactionRepository)(nil)
)
