package catalog

import (
	"time"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product represents a sellable product in the catalog.
// It is the aggregate root for catalog operations; supplier SKU
// cross-references are child entities managed through it.
type Product struct {
	shared.BaseAggregateRoot
	BarCode        string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_bar_code,where:deactivated = false"`
	Packaging      string          `gorm:"type:varchar(100);not null"`
	Description    string          `gorm:"type:varchar(255);not null"`
	UnitOfMeasure  string          `gorm:"type:varchar(30);not null"`
	ManufacturerID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Price          decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	LastPrice      decimal.Decimal `gorm:"type:decimal(18,2);not null;default:0"`
	Deactivated    bool            `gorm:"not null;default:false"`

	Details []ProductDetail `gorm:"foreignKey:ProductID;references:ID"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(barCode, packaging, description, unitOfMeasure string, manufacturerID uuid.UUID, price decimal.Decimal) (*Product, error) {
	if barCode == "" {
		return nil, shared.NewFieldValidationError("INVALID_BAR_CODE", "Bar code cannot be empty", "bar_code")
	}
	if packaging == "" {
		return nil, shared.NewFieldValidationError("INVALID_PACKAGING", "Packaging cannot be empty", "packaging")
	}
	if description == "" {
		return nil, shared.NewFieldValidationError("INVALID_DESCRIPTION", "Description cannot be empty", "description")
	}
	if unitOfMeasure == "" {
		return nil, shared.NewFieldValidationError("INVALID_UNIT", "Unit of measure cannot be empty", "unit_of_measure")
	}
	if manufacturerID == uuid.Nil {
		return nil, shared.NewFieldValidationError("INVALID_MANUFACTURER", "Manufacturer cannot be empty", "manufacturer_id")
	}
	if price.IsNegative() {
		return nil, shared.NewFieldValidationError("INVALID_PRICE", "Price cannot be negative", "price")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		BarCode:           barCode,
		Packaging:         packaging,
		Description:       description,
		UnitOfMeasure:     unitOfMeasure,
		ManufacturerID:    manufacturerID,
		Price:             price.Round(2),
		LastPrice:         decimal.Zero,
		Details:           make([]ProductDetail, 0),
	}, nil
}

// SetPrice updates the product price, remembering the previous one
func (p *Product) SetPrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewFieldValidationError("INVALID_PRICE", "Price cannot be negative", "price")
	}

	price = price.Round(2)
	if !p.Price.Equal(price) {
		p.LastPrice = p.Price
		p.Price = price
		p.UpdatedAt = time.Now()
		p.IncrementVersion()
	}
	return nil
}

// SetBarCode updates the product bar code. Uniqueness among active products
// is enforced by the repository at save time.
func (p *Product) SetBarCode(barCode string) error {
	if barCode == "" {
		return shared.NewFieldValidationError("INVALID_BAR_CODE", "Bar code cannot be empty", "bar_code")
	}
	p.BarCode = barCode
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// Deactivate marks the product as no longer sellable
func (p *Product) Deactivate() {
	p.Deactivated = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// AddDetail adds a supplier SKU cross-reference to the product.
// The supplier+SKU key must be unique within the product.
func (p *Product) AddDetail(supplierID uuid.UUID, supplierSKU string) (*ProductDetail, error) {
	if supplierID == uuid.Nil {
		return nil, shared.NewFieldValidationError("INVALID_SUPPLIER", "Supplier cannot be empty", "supplier_id")
	}
	if supplierSKU == "" {
		return nil, shared.NewFieldValidationError("INVALID_SKU", "Supplier SKU cannot be empty", "supplier_sku")
	}

	key := detailKey(supplierID, supplierSKU)
	for idx := range p.Details {
		if p.Details[idx].Key() == key {
			return nil, shared.NewValidationError("DUPLICATE_DETAIL", "Supplier SKU already registered for this product")
		}
	}

	detail := NewProductDetail(p.ID, supplierID, supplierSKU)
	p.Details = append(p.Details, *detail)
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return detail, nil
}

// RemoveDetail removes a supplier SKU cross-reference by its composite key
func (p *Product) RemoveDetail(supplierID uuid.UUID, supplierSKU string) error {
	key := detailKey(supplierID, supplierSKU)
	for idx := range p.Details {
		if p.Details[idx].Key() == key {
			p.Details = append(p.Details[:idx], p.Details[idx+1:]...)
			p.UpdatedAt = time.Now()
			p.IncrementVersion()
			return nil
		}
	}
	return shared.ErrNotFound
}

// GetDetail returns the detail matching the supplier+SKU key, nil if absent
func (p *Product) GetDetail(supplierID uuid.UUID, supplierSKU string) *ProductDetail {
	key := detailKey(supplierID, supplierSKU)
	for idx := range p.Details {
		if p.Details[idx].Key() == key {
			return &p.Details[idx]
		}
	}
	return nil
}

// Show returns a flat field-to-value map for presentation
func (p *Product) Show() map[string]string {
	return map[string]string{
		"bar_code":        p.BarCode,
		"packaging":       p.Packaging,
		"description":     p.Description,
		"unit_of_measure": p.UnitOfMeasure,
		"price":           p.Price.StringFixed(2),
	}
}

// ProductDetail is a supplier SKU cross-reference owned by a Product
type ProductDetail struct {
	shared.BaseEntity
	ProductID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_detail_key,priority:1"`
	SupplierID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_product_detail_key,priority:2"`
	SupplierSKU string    `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_detail_key,priority:3"`
}

// TableName returns the table name for GORM
func (ProductDetail) TableName() string {
	return "product_details"
}

// NewProductDetail creates a new supplier SKU cross-reference
func NewProductDetail(productID, supplierID uuid.UUID, supplierSKU string) *ProductDetail {
	return &ProductDetail{
		BaseEntity:  shared.NewBaseEntity(),
		ProductID:   productID,
		SupplierID:  supplierID,
		SupplierSKU: supplierSKU,
	}
}

// Key returns the detail's composite identity (supplier + SKU)
func (d *ProductDetail) Key() string {
	return detailKey(d.SupplierID, d.SupplierSKU)
}

// Show returns a flat field-to-value map for presentation
func (d *ProductDetail) Show() map[string]string {
	return map[string]string{
		"supplier_id":  d.SupplierID.String(),
		"supplier_sku": d.SupplierSKU,
	}
}

func detailKey(supplierID uuid.UUID, supplierSKU string) string {
	return supplierID.String() + ":" + supplierSKU
}
