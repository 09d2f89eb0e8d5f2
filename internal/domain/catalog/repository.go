package catalog

import (
	"context"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByBarCode finds an active product by its bar code
	FindByBarCode(ctx context.Context, barCode string) (*Product, error)

	// FindAll finds products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// ExistsBarCode checks whether an active product other than excludeID uses the bar code
	ExistsBarCode(ctx context.Context, barCode string, excludeID uuid.UUID) (bool, error)

	// ExistsDetail checks whether any product already carries the supplier+SKU cross-reference
	ExistsDetail(ctx context.Context, supplierID uuid.UUID, supplierSKU string) (bool, error)

	// Save creates or updates a product with its details
	Save(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// ManufacturerRepository defines the interface for manufacturer persistence
type ManufacturerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Manufacturer, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Manufacturer, error)
	Save(ctx context.Context, m *Manufacturer) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SupplierRepository defines the interface for supplier persistence
type SupplierRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Supplier, error)
	Save(ctx context.Context, s *Supplier) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BranchRepository defines the interface for branch persistence
type BranchRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Branch, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Branch, error)
	Save(ctx context.Context, b *Branch) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// CustomerRepository defines the interface for customer persistence
type CustomerRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Customer, error)
	FindByNit(ctx context.Context, nit string) (*Customer, error)
	Save(ctx context.Context, c *Customer) error
}
