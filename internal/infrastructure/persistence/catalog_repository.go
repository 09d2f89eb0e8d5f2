package persistence

import (
	"context"
	"errors"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// productSortFields contains allowed sort fields for products
var productSortFields = map[string]bool{
	"id":          true,
	"created_at":  true,
	"updated_at":  true,
	"bar_code":    true,
	"description": true,
	"price":       true,
}

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := dbFrom(ctx, r.db).WithContext(ctx).
		Preload("Details").
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByBarCode finds an active product by its bar code
func (r *GormProductRepository) FindByBarCode(ctx context.Context, barCode string) (*catalog.Product, error) {
	var product catalog.Product
	if err := dbFrom(ctx, r.db).WithContext(ctx).
		Preload("Details").
		Where("bar_code = ? AND deactivated = false", barCode).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAll finds products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := dbFrom(ctx, r.db).WithContext(ctx).
		Model(&catalog.Product{}).
		Preload("Details")
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("description ILIKE ? OR bar_code ILIKE ?", pattern, pattern)
	}
	query = applyFilter(query, filter, productSortFields, "description")

	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// ExistsBarCode checks whether an active product other than excludeID uses the bar code
func (r *GormProductRepository) ExistsBarCode(ctx context.Context, barCode string, excludeID uuid.UUID) (bool, error) {
	var count int64
	query := dbFrom(ctx, r.db).WithContext(ctx).
		Model(&catalog.Product{}).
		Where("bar_code = ? AND deactivated = false", barCode)
	if excludeID != uuid.Nil {
		query = query.Where("id <> ?", excludeID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ExistsDetail checks whether any product already carries the supplier+SKU cross-reference
func (r *GormProductRepository) ExistsDetail(ctx context.Context, supplierID uuid.UUID, supplierSKU string) (bool, error) {
	var count int64
	if err := dbFrom(ctx, r.db).WithContext(ctx).
		Model(&catalog.ProductDetail{}).
		Where("supplier_id = ? AND supplier_sku = ?", supplierID, supplierSKU).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a product with its details. Detail rows the
// product no longer carries are removed.
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	db := dbFrom(ctx, r.db).WithContext(ctx)

	keep := make([]uuid.UUID, 0, len(product.Details))
	for idx := range product.Details {
		keep = append(keep, product.Details[idx].ID)
	}
	query := db.Where("product_id = ?", product.ID)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	if err := query.Delete(&catalog.ProductDetail{}).Error; err != nil {
		return err
	}

	return db.Session(&gorm.Session{FullSaveAssociations: true}).Save(product).Error
}

// Delete deletes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := dbFrom(ctx, r.db).WithContext(ctx)
	if err := db.Delete(&catalog.ProductDetail{}, "product_id = ?", id).Error; err != nil {
		return err
	}
	result := db.Delete(&catalog.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := dbFrom(ctx, r.db).WithContext(ctx).Model(&catalog.Product{})
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		query = query.Where("description ILIKE ? OR bar_code ILIKE ?", pattern, pattern)
	}
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// nameSortFields contains allowed sort fields for the name catalogs
var nameSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"name":       true,
}

// GormManufacturerRepository implements ManufacturerRepository using GORM
type GormManufacturerRepository struct {
	db *gorm.DB
}

// NewGormManufacturerRepository creates a new GormManufacturerRepository
func NewGormManufacturerRepository(db *gorm.DB) *GormManufacturerRepository {
	return &GormManufacturerRepository{db: db}
}

func (r *GormManufacturerRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Manufacturer, error) {
	var m catalog.Manufacturer
	if err := dbFrom(ctx, r.db).WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *GormManufacturerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Manufacturer, error) {
	var manufacturers []catalog.Manufacturer
	query := applyFilter(dbFrom(ctx, r.db).WithContext(ctx).Model(&catalog.Manufacturer{}), filter, nameSortFields, "name")
	if err := query.Find(&manufacturers).Error; err != nil {
		return nil, err
	}
	return manufacturers, nil
}

func (r *GormManufacturerRepository) Save(ctx context.Context, m *catalog.Manufacturer) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(m).Error
}

func (r *GormManufacturerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFrom(ctx, r.db).WithContext(ctx).Delete(&catalog.Manufacturer{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormSupplierRepository implements SupplierRepository using GORM
type GormSupplierRepository struct {
	db *gorm.DB
}

// NewGormSupplierRepository creates a new GormSupplierRepository
func NewGormSupplierRepository(db *gorm.DB) *GormSupplierRepository {
	return &GormSupplierRepository{db: db}
}

func (r *GormSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Supplier, error) {
	var s catalog.Supplier
	if err := dbFrom(ctx, r.db).WithContext(ctx).First(&s, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &s, nil
}

func (r *GormSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Supplier, error) {
	var suppliers []catalog.Supplier
	query := applyFilter(dbFrom(ctx, r.db).WithContext(ctx).Model(&catalog.Supplier{}), filter, nameSortFields, "name")
	if err := query.Find(&suppliers).Error; err != nil {
		return nil, err
	}
	return suppliers, nil
}

func (r *GormSupplierRepository) Save(ctx context.Context, s *catalog.Supplier) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(s).Error
}

func (r *GormSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFrom(ctx, r.db).WithContext(ctx).Delete(&catalog.Supplier{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormBranchRepository implements BranchRepository using GORM
type GormBranchRepository struct {
	db *gorm.DB
}

// NewGormBranchRepository creates a new GormBranchRepository
func NewGormBranchRepository(db *gorm.DB) *GormBranchRepository {
	return &GormBranchRepository{db: db}
}

func (r *GormBranchRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Branch, error) {
	var b catalog.Branch
	if err := dbFrom(ctx, r.db).WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *GormBranchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Branch, error) {
	var branches []catalog.Branch
	query := applyFilter(dbFrom(ctx, r.db).WithContext(ctx).Model(&catalog.Branch{}), filter, nameSortFields, "name")
	if err := query.Find(&branches).Error; err != nil {
		return nil, err
	}
	return branches, nil
}

func (r *GormBranchRepository) Save(ctx context.Context, b *catalog.Branch) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(b).Error
}

func (r *GormBranchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := dbFrom(ctx, r.db).WithContext(ctx).Delete(&catalog.Branch{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GormCustomerRepository implements CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

func (r *GormCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Customer, error) {
	var c catalog.Customer
	if err := dbFrom(ctx, r.db).WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *GormCustomerRepository) FindByNit(ctx context.Context, nit string) (*catalog.Customer, error) {
	var c catalog.Customer
	if err := dbFrom(ctx, r.db).WithContext(ctx).Where("nit = ?", nit).First(&c).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (r *GormCustomerRepository) Save(ctx context.Context, c *catalog.Customer) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(c).Error
}

var (
	_ catalog.ProductRepository      = (*GormProductRepository)(nil)
	_ catalog.ManufacturerRepository = (*GormManufacturerRepository)(nil)
	_ catalog.SupplierRepository     = (*GormSupplierRepository)(nil)
	_ catalog.BranchRepository       = (*GormBranchRepository)(nil)
	_ catalog.CustomerRepository     = (*GormCustomerRepository)(nil)
)
