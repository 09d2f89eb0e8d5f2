package catalog

import (
	"context"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// In-memory repositories backing the service tests. They copy on read and
// write so tests observe only what was saved.

type memProductRepository struct {
	order    []uuid.UUID
	products map[uuid.UUID]*catalog.Product
}

func newMemProductRepository() *memProductRepository {
	return &memProductRepository{products: make(map[uuid.UUID]*catalog.Product)}
}

func copyProduct(p *catalog.Product) *catalog.Product {
	copied := *p
	copied.Details = make([]catalog.ProductDetail, len(p.Details))
	copy(copied.Details, p.Details)
	return &copied
}

func (r *memProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return copyProduct(p), nil
}

func (r *memProductRepository) FindByBarCode(ctx context.Context, barCode string) (*catalog.Product, error) {
	for _, id := range r.order {
		p := r.products[id]
		if p.BarCode == barCode && !p.Deactivated {
			return copyProduct(p), nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *copyProduct(r.products[id]))
	}
	return out, nil
}

func (r *memProductRepository) ExistsBarCode(ctx context.Context, barCode string, excludeID uuid.UUID) (bool, error) {
	for _, p := range r.products {
		if p.BarCode == barCode && !p.Deactivated && p.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *memProductRepository) ExistsDetail(ctx context.Context, supplierID uuid.UUID, supplierSKU string) (bool, error) {
	for _, p := range r.products {
		if p.GetDetail(supplierID, supplierSKU) != nil {
			return true, nil
		}
	}
	return false, nil
}

func (r *memProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	if _, ok := r.products[product.ID]; !ok {
		r.order = append(r.order, product.ID)
	}
	r.products[product.ID] = copyProduct(product)
	return nil
}

func (r *memProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.products[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.products, id)
	return nil
}

func (r *memProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(r.products)), nil
}

type memManufacturerRepository struct {
	order []uuid.UUID
	rows  map[uuid.UUID]*catalog.Manufacturer
}

func newMemManufacturerRepository() *memManufacturerRepository {
	return &memManufacturerRepository{rows: make(map[uuid.UUID]*catalog.Manufacturer)}
}

func (r *memManufacturerRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Manufacturer, error) {
	m, ok := r.rows[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *m
	return &copied, nil
}

func (r *memManufacturerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Manufacturer, error) {
	out := make([]catalog.Manufacturer, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.rows[id])
	}
	return out, nil
}

func (r *memManufacturerRepository) Save(ctx context.Context, m *catalog.Manufacturer) error {
	if _, ok := r.rows[m.ID]; !ok {
		r.order = append(r.order, m.ID)
	}
	copied := *m
	r.rows[m.ID] = &copied
	return nil
}

func (r *memManufacturerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.rows[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

type memSupplierRepository struct {
	order []uuid.UUID
	rows  map[uuid.UUID]*catalog.Supplier
}

func newMemSupplierRepository() *memSupplierRepository {
	return &memSupplierRepository{rows: make(map[uuid.UUID]*catalog.Supplier)}
}

func (r *memSupplierRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Supplier, error) {
	s, ok := r.rows[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *s
	return &copied, nil
}

func (r *memSupplierRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Supplier, error) {
	out := make([]catalog.Supplier, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.rows[id])
	}
	return out, nil
}

func (r *memSupplierRepository) Save(ctx context.Context, s *catalog.Supplier) error {
	if _, ok := r.rows[s.ID]; !ok {
		r.order = append(r.order, s.ID)
	}
	copied := *s
	r.rows[s.ID] = &copied
	return nil
}

func (r *memSupplierRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.rows[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

type memBranchRepository struct {
	order []uuid.UUID
	rows  map[uuid.UUID]*catalog.Branch
}

func newMemBranchRepository() *memBranchRepository {
	return &memBranchRepository{rows: make(map[uuid.UUID]*catalog.Branch)}
}

func (r *memBranchRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Branch, error) {
	b, ok := r.rows[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (r *memBranchRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Branch, error) {
	out := make([]catalog.Branch, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.rows[id])
	}
	return out, nil
}

func (r *memBranchRepository) Save(ctx context.Context, b *catalog.Branch) error {
	if _, ok := r.rows[b.ID]; !ok {
		r.order = append(r.order, b.ID)
	}
	copied := *b
	r.rows[b.ID] = &copied
	return nil
}

func (r *memBranchRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.rows[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.rows, id)
	return nil
}

type memCustomerRepository struct {
	order []uuid.UUID
	rows  map[uuid.UUID]*catalog.Customer
}

func newMemCustomerRepository() *memCustomerRepository {
	return &memCustomerRepository{rows: make(map[uuid.UUID]*catalog.Customer)}
}

func (r *memCustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Customer, error) {
	c, ok := r.rows[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *memCustomerRepository) FindByNit(ctx context.Context, nit string) (*catalog.Customer, error) {
	for _, id := range r.order {
		if r.rows[id].Nit == nit {
			copied := *r.rows[id]
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCustomerRepository) Save(ctx context.Context, c *catalog.Customer) error {
	if _, ok := r.rows[c.ID]; !ok {
		r.order = append(r.order, c.ID)
	}
	copied := *c
	r.rows[c.ID] = &copied
	return nil
}
