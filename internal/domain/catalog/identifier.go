package catalog

import (
	"github.com/pos/backend/internal/domain/shared"
)

// Manufacturer is a product manufacturer, a simple named identifier
type Manufacturer struct {
	shared.BaseEntity
	Name string `gorm:"type:varchar(100);not null;uniqueIndex"`
}

// TableName returns the table name for GORM
func (Manufacturer) TableName() string {
	return "manufacturers"
}

// NewManufacturer creates a new manufacturer
func NewManufacturer(name string) (*Manufacturer, error) {
	if name == "" {
		return nil, shared.NewFieldValidationError("INVALID_NAME", "Name cannot be empty", "name")
	}
	return &Manufacturer{BaseEntity: shared.NewBaseEntity(), Name: name}, nil
}

// Supplier is a product supplier
type Supplier struct {
	shared.BaseEntity
	Name    string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Contact string `gorm:"type:varchar(100)"`
	Phone   string `gorm:"type:varchar(30)"`
}

// TableName returns the table name for GORM
func (Supplier) TableName() string {
	return "suppliers"
}

// NewSupplier creates a new supplier
func NewSupplier(name string) (*Supplier, error) {
	if name == "" {
		return nil, shared.NewFieldValidationError("INVALID_NAME", "Name cannot be empty", "name")
	}
	return &Supplier{BaseEntity: shared.NewBaseEntity(), Name: name}, nil
}

// Branch is a company branch that shipments are sent to
type Branch struct {
	shared.BaseEntity
	Name    string `gorm:"type:varchar(100);not null;uniqueIndex"`
	Address string `gorm:"type:varchar(255)"`
}

// TableName returns the table name for GORM
func (Branch) TableName() string {
	return "branches"
}

// NewBranch creates a new branch
func NewBranch(name string) (*Branch, error) {
	if name == "" {
		return nil, shared.NewFieldValidationError("INVALID_NAME", "Name cannot be empty", "name")
	}
	return &Branch{BaseEntity: shared.NewBaseEntity(), Name: name}, nil
}

// Customer is an invoice customer identified by tax number (NIT)
type Customer struct {
	shared.BaseEntity
	Nit  string `gorm:"type:varchar(30);not null;uniqueIndex"`
	Name string `gorm:"type:varchar(150);not null"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer
func NewCustomer(nit, name string) (*Customer, error) {
	if nit == "" {
		return nil, shared.NewFieldValidationError("INVALID_NIT", "Nit cannot be empty", "nit")
	}
	if name == "" {
		return nil, shared.NewFieldValidationError("INVALID_NAME", "Name cannot be empty", "name")
	}
	return &Customer{BaseEntity: shared.NewBaseEntity(), Nit: nit, Name: name}, nil
}
