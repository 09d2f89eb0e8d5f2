package catalog

import (
	"time"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductRequest registers a new product
type CreateProductRequest struct {
	BarCode        string          `json:"bar_code" validate:"required"`
	Packaging      string          `json:"packaging" validate:"required"`
	Description    string          `json:"description" validate:"required"`
	UnitOfMeasure  string          `json:"unit_of_measure" validate:"required"`
	ManufacturerID uuid.UUID       `json:"manufacturer_id" validate:"required"`
	Price          decimal.Decimal `json:"price"`
}

// UpdateProductRequest changes a product's bar code or price
type UpdateProductRequest struct {
	ProductID uuid.UUID        `json:"-"`
	BarCode   *string          `json:"bar_code,omitempty"`
	Price     *decimal.Decimal `json:"price,omitempty"`
}

// AddSupplierSKURequest attaches or detaches a supplier SKU cross-reference
type AddSupplierSKURequest struct {
	ProductID   uuid.UUID `json:"-"`
	SupplierID  uuid.UUID `json:"supplier_id" validate:"required"`
	SupplierSKU string    `json:"supplier_sku" validate:"required"`
}

// SupplierSKUResponse is one supplier cross-reference in API responses
type SupplierSKUResponse struct {
	SupplierID  uuid.UUID `json:"supplier_id"`
	SupplierSKU string    `json:"supplier_sku"`
}

// ProductResponse is the API representation of a product
type ProductResponse struct {
	ID             uuid.UUID             `json:"id"`
	BarCode        string                `json:"bar_code"`
	Packaging      string                `json:"packaging"`
	Description    string                `json:"description"`
	UnitOfMeasure  string                `json:"unit_of_measure"`
	ManufacturerID uuid.UUID             `json:"manufacturer_id"`
	Price          decimal.Decimal       `json:"price"`
	LastPrice      decimal.Decimal       `json:"last_price"`
	Deactivated    bool                  `json:"deactivated"`
	SupplierSKUs   []SupplierSKUResponse `json:"supplier_skus"`
	CreatedAt      time.Time             `json:"created_at"`
}

// ToProductResponse converts a product to its API representation
func ToProductResponse(p *catalog.Product) *ProductResponse {
	skus := make([]SupplierSKUResponse, len(p.Details))
	for i := range p.Details {
		skus[i] = SupplierSKUResponse{
			SupplierID:  p.Details[i].SupplierID,
			SupplierSKU: p.Details[i].SupplierSKU,
		}
	}
	return &ProductResponse{
		ID:             p.ID,
		BarCode:        p.BarCode,
		Packaging:      p.Packaging,
		Description:    p.Description,
		UnitOfMeasure:  p.UnitOfMeasure,
		ManufacturerID: p.ManufacturerID,
		Price:          p.Price,
		LastPrice:      p.LastPrice,
		Deactivated:    p.Deactivated,
		SupplierSKUs:   skus,
		CreatedAt:      p.CreatedAt,
	}
}
