package catalog

import (
	"context"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductService manages the product catalog. Bar codes are unique among
// active products and supplier SKU cross-references are unique across the
// whole catalog.
type ProductService struct {
	products      catalog.ProductRepository
	manufacturers catalog.ManufacturerRepository
	suppliers     catalog.SupplierRepository
}

// NewProductService creates a new product service
func NewProductService(
	products catalog.ProductRepository,
	manufacturers catalog.ManufacturerRepository,
	suppliers catalog.SupplierRepository,
) *ProductService {
	return &ProductService{
		products:      products,
		manufacturers: manufacturers,
		suppliers:     suppliers,
	}
}

// Create registers a new product
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	if _, err := s.manufacturers.FindByID(ctx, req.ManufacturerID); err != nil {
		return nil, err
	}

	taken, err := s.products.ExistsBarCode(ctx, req.BarCode, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewValidationError("DUPLICATE_BAR_CODE", "An active product already uses this bar code")
	}

	product, err := catalog.NewProduct(req.BarCode, req.Packaging, req.Description,
		req.UnitOfMeasure, req.ManufacturerID, req.Price)
	if err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// GetByID returns a product with its supplier cross-references
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// GetByBarCode returns the active product carrying the bar code
func (s *ProductService) GetByBarCode(ctx context.Context, barCode string) (*ProductResponse, error) {
	product, err := s.products.FindByBarCode(ctx, barCode)
	if err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// List returns products matching the filter
func (s *ProductService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[ProductResponse], error) {
	products, err := s.products.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = *ToProductResponse(&products[i])
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Update changes a product's descriptive fields and price
func (s *ProductService) Update(ctx context.Context, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	if req.BarCode != nil && *req.BarCode != product.BarCode {
		taken, err := s.products.ExistsBarCode(ctx, *req.BarCode, product.ID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, shared.NewValidationError("DUPLICATE_BAR_CODE", "An active product already uses this bar code")
		}
		if err := product.SetBarCode(*req.BarCode); err != nil {
			return nil, err
		}
	}
	if req.Price != nil {
		if err := product.SetPrice(*req.Price); err != nil {
			return nil, err
		}
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// Deactivate retires a product from sale. Its lots and history remain.
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID) error {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	product.Deactivate()
	return s.products.Save(ctx, product)
}

// AddSupplierSKU attaches a supplier SKU cross-reference to a product.
// A supplier SKU identifies exactly one product.
func (s *ProductService) AddSupplierSKU(ctx context.Context, req AddSupplierSKURequest) (*ProductResponse, error) {
	if _, err := s.suppliers.FindByID(ctx, req.SupplierID); err != nil {
		return nil, err
	}

	taken, err := s.products.ExistsDetail(ctx, req.SupplierID, req.SupplierSKU)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, shared.NewValidationError("DUPLICATE_SKU", "This supplier SKU is already mapped to a product")
	}

	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if _, err := product.AddDetail(req.SupplierID, req.SupplierSKU); err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}

// RemoveSupplierSKU detaches a supplier SKU cross-reference
func (s *ProductService) RemoveSupplierSKU(ctx context.Context, req AddSupplierSKURequest) (*ProductResponse, error) {
	product, err := s.products.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if err := product.RemoveDetail(req.SupplierID, req.SupplierSKU); err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	return ToProductResponse(product), nil
}
