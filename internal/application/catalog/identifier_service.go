package catalog

import (
	"context"
	"errors"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// IdentifierService keeps the small catalogs documents refer to:
// manufacturers, suppliers, branches and customers.
type IdentifierService struct {
	manufacturers catalog.ManufacturerRepository
	suppliers     catalog.SupplierRepository
	branches      catalog.BranchRepository
	customers     catalog.CustomerRepository
}

// NewIdentifierService creates a new identifier service
func NewIdentifierService(
	manufacturers catalog.ManufacturerRepository,
	suppliers catalog.SupplierRepository,
	branches catalog.BranchRepository,
	customers catalog.CustomerRepository,
) *IdentifierService {
	return &IdentifierService{
		manufacturers: manufacturers,
		suppliers:     suppliers,
		branches:      branches,
		customers:     customers,
	}
}

// CreateManufacturer registers a manufacturer
func (s *IdentifierService) CreateManufacturer(ctx context.Context, name string) (*IdentifierResponse, error) {
	m, err := catalog.NewManufacturer(name)
	if err != nil {
		return nil, err
	}
	if err := s.manufacturers.Save(ctx, m); err != nil {
		return nil, err
	}
	return &IdentifierResponse{ID: m.ID, Name: m.Name}, nil
}

// ListManufacturers returns manufacturers matching the filter
func (s *IdentifierService) ListManufacturers(ctx context.Context, filter shared.Filter) ([]IdentifierResponse, error) {
	items, err := s.manufacturers.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]IdentifierResponse, len(items))
	for i := range items {
		responses[i] = IdentifierResponse{ID: items[i].ID, Name: items[i].Name}
	}
	return responses, nil
}

// CreateSupplier registers a supplier
func (s *IdentifierService) CreateSupplier(ctx context.Context, name string) (*IdentifierResponse, error) {
	sup, err := catalog.NewSupplier(name)
	if err != nil {
		return nil, err
	}
	if err := s.suppliers.Save(ctx, sup); err != nil {
		return nil, err
	}
	return &IdentifierResponse{ID: sup.ID, Name: sup.Name}, nil
}

// ListSuppliers returns suppliers matching the filter
func (s *IdentifierService) ListSuppliers(ctx context.Context, filter shared.Filter) ([]IdentifierResponse, error) {
	items, err := s.suppliers.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]IdentifierResponse, len(items))
	for i := range items {
		responses[i] = IdentifierResponse{ID: items[i].ID, Name: items[i].Name}
	}
	return responses, nil
}

// CreateBranch registers a branch shipments can be sent to
func (s *IdentifierService) CreateBranch(ctx context.Context, name string) (*IdentifierResponse, error) {
	b, err := catalog.NewBranch(name)
	if err != nil {
		return nil, err
	}
	if err := s.branches.Save(ctx, b); err != nil {
		return nil, err
	}
	return &IdentifierResponse{ID: b.ID, Name: b.Name}, nil
}

// ListBranches returns branches matching the filter
func (s *IdentifierService) ListBranches(ctx context.Context, filter shared.Filter) ([]IdentifierResponse, error) {
	items, err := s.branches.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]IdentifierResponse, len(items))
	for i := range items {
		responses[i] = IdentifierResponse{ID: items[i].ID, Name: items[i].Name}
	}
	return responses, nil
}

// FindOrCreateCustomer returns the customer with the given tax ID, creating
// the record on first sight. Invoices look customers up by NIT at the till.
func (s *IdentifierService) FindOrCreateCustomer(ctx context.Context, nit, name string) (*CustomerResponse, error) {
	existing, err := s.customers.FindByNit(ctx, nit)
	if err == nil {
		return &CustomerResponse{ID: existing.ID, Nit: existing.Nit, Name: existing.Name}, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		return nil, err
	}

	customer, err := catalog.NewCustomer(nit, name)
	if err != nil {
		return nil, err
	}
	if err := s.customers.Save(ctx, customer); err != nil {
		return nil, err
	}
	return &CustomerResponse{ID: customer.ID, Nit: customer.Nit, Name: customer.Name}, nil
}

// GetCustomerByNit returns the customer with the given tax ID
func (s *IdentifierService) GetCustomerByNit(ctx context.Context, nit string) (*CustomerResponse, error) {
	customer, err := s.customers.FindByNit(ctx, nit)
	if err != nil {
		return nil, err
	}
	return &CustomerResponse{ID: customer.ID, Nit: customer.Nit, Name: customer.Name}, nil
}

// IdentifierResponse is a named catalog entry in API responses
type IdentifierResponse struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// CustomerResponse is the API representation of a customer
type CustomerResponse struct {
	ID   uuid.UUID `json:"id"`
	Nit  string    `json:"nit"`
	Name string    `json:"name"`
}
