package document

import (
	"context"
	"time"

	"github.com/pos/backend/internal/domain/cash"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/document"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// In-memory repositories backing the service tests. They copy on read and
// write so tests observe only what was saved.

type memLotRepository struct {
	order []uuid.UUID
	lots  map[uuid.UUID]*inventory.Lot
}

func newMemLotRepository() *memLotRepository {
	return &memLotRepository{lots: make(map[uuid.UUID]*inventory.Lot)}
}

func (r *memLotRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Lot, error) {
	lot, ok := r.lots[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *lot
	return &copied, nil
}

func (r *memLotRepository) FindByProduct(ctx context.Context, productID uuid.UUID) ([]inventory.Lot, error) {
	var out []inventory.Lot
	for _, id := range r.order {
		if r.lots[id].ProductID == productID {
			out = append(out, *r.lots[id])
		}
	}
	return out, nil
}

func (r *memLotRepository) FindInStock(ctx context.Context, productID uuid.UUID) ([]inventory.Lot, error) {
	var out []inventory.Lot
	for _, id := range r.order {
		lot := r.lots[id]
		if lot.ProductID == productID && lot.Available() > 0 {
			out = append(out, *lot)
		}
	}
	return out, nil
}

func (r *memLotRepository) FindNegative(ctx context.Context, productID uuid.UUID) ([]inventory.Lot, error) {
	var out []inventory.Lot
	for _, id := range r.order {
		lot := r.lots[id]
		if lot.ProductID == productID && lot.Quantity < 0 {
			out = append(out, *lot)
		}
	}
	return out, nil
}

func (r *memLotRepository) FindExpired(ctx context.Context, filter shared.Filter) ([]inventory.Lot, error) {
	var out []inventory.Lot
	for _, id := range r.order {
		if r.lots[id].IsExpired() && r.lots[id].Quantity > 0 {
			out = append(out, *r.lots[id])
		}
	}
	return out, nil
}

func (r *memLotRepository) SumQuantityByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var sum int64
	for _, lot := range r.lots {
		if lot.ProductID == productID {
			sum += lot.Quantity
		}
	}
	return sum, nil
}

func (r *memLotRepository) SumAvailableByProduct(ctx context.Context, productID uuid.UUID) (int64, error) {
	var sum int64
	for _, lot := range r.lots {
		if lot.ProductID == productID {
			sum += lot.Available()
		}
	}
	return sum, nil
}

func (r *memLotRepository) Save(ctx context.Context, lot *inventory.Lot) error {
	if _, ok := r.lots[lot.ID]; !ok {
		r.order = append(r.order, lot.ID)
	}
	copied := *lot
	r.lots[lot.ID] = &copied
	return nil
}

type memReserveRepository struct {
	reserves map[uuid.UUID]*inventory.Reserve
}

func newMemReserveRepository() *memReserveRepository {
	return &memReserveRepository{reserves: make(map[uuid.UUID]*inventory.Reserve)}
}

func (r *memReserveRepository) FindByID(ctx context.Context, id uuid.UUID) (*inventory.Reserve, error) {
	reserve, ok := r.reserves[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *reserve
	return &copied, nil
}

func (r *memReserveRepository) FindByLot(ctx context.Context, lotID uuid.UUID) ([]inventory.Reserve, error) {
	var out []inventory.Reserve
	for _, reserve := range r.reserves {
		if reserve.LotID == lotID {
			out = append(out, *reserve)
		}
	}
	return out, nil
}

func (r *memReserveRepository) SumQuantityByLot(ctx context.Context, lotID uuid.UUID) (int64, error) {
	var sum int64
	for _, reserve := range r.reserves {
		if reserve.LotID == lotID {
			sum += reserve.Quantity
		}
	}
	return sum, nil
}

func (r *memReserveRepository) Save(ctx context.Context, reserve *inventory.Reserve) error {
	copied := *reserve
	r.reserves[reserve.ID] = &copied
	return nil
}

func (r *memReserveRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.reserves[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.reserves, id)
	return nil
}

type memJournal struct {
	records []inventory.StockTransaction
}

func (r *memJournal) Create(ctx context.Context, tx *inventory.StockTransaction) error {
	r.records = append(r.records, *tx)
	return nil
}

func (r *memJournal) FindByLot(ctx context.Context, lotID uuid.UUID, filter shared.Filter) ([]inventory.StockTransaction, error) {
	var out []inventory.StockTransaction
	for _, rec := range r.records {
		if rec.LotID == lotID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memJournal) FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]inventory.StockTransaction, error) {
	var out []inventory.StockTransaction
	for _, rec := range r.records {
		if rec.ProductID == productID {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (r *memJournal) FindBySource(ctx context.Context, sourceType inventory.SourceType, sourceID uuid.UUID) ([]inventory.StockTransaction, error) {
	var out []inventory.StockTransaction
	for _, rec := range r.records {
		if rec.SourceType != nil && *rec.SourceType == sourceType && rec.SourceID != nil && *rec.SourceID == sourceID {
			out = append(out, rec)
		}
	}
	return out, nil
}

type memDocumentRepository struct {
	order []uuid.UUID
	docs  map[uuid.UUID]*document.Document
}

func newMemDocumentRepository() *memDocumentRepository {
	return &memDocumentRepository{docs: make(map[uuid.UUID]*document.Document)}
}

func copyDocument(doc *document.Document) *document.Document {
	copied := *doc
	copied.Details = make([]document.DocumentDetail, len(doc.Details))
	copy(copied.Details, doc.Details)
	return &copied
}

func (r *memDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	doc, ok := r.docs[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	return copyDocument(doc), nil
}

func (r *memDocumentRepository) FindByType(ctx context.Context, docType document.DocumentType, filter shared.Filter) ([]document.Document, error) {
	var out []document.Document
	for _, id := range r.order {
		if r.docs[id].Type == docType {
			out = append(out, *copyDocument(r.docs[id]))
		}
	}
	return out, nil
}

func (r *memDocumentRepository) FindByStatus(ctx context.Context, status document.DocumentStatus, filter shared.Filter) ([]document.Document, error) {
	var out []document.Document
	for _, id := range r.order {
		if r.docs[id].Status == status {
			out = append(out, *copyDocument(r.docs[id]))
		}
	}
	return out, nil
}

func (r *memDocumentRepository) FindIssuedBetween(ctx context.Context, docType document.DocumentType, from, to time.Time) ([]document.Document, error) {
	var out []document.Document
	for _, id := range r.order {
		doc := r.docs[id]
		if doc.Type != docType || doc.IssuedAt == nil {
			continue
		}
		if !doc.IssuedAt.Before(from) && doc.IssuedAt.Before(to) {
			out = append(out, *copyDocument(doc))
		}
	}
	return out, nil
}

func (r *memDocumentRepository) Save(ctx context.Context, doc *document.Document) error {
	if _, ok := r.docs[doc.ID]; !ok {
		r.order = append(r.order, doc.ID)
	}
	r.docs[doc.ID] = copyDocument(doc)
	return nil
}

func (r *memDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.docs[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}

func (r *memDocumentRepository) Count(ctx context.Context, docType document.DocumentType) (int64, error) {
	var count int64
	for _, doc := range r.docs {
		if doc.Type == docType {
			count++
		}
	}
	return count, nil
}

type memCorrelativeRepository struct {
	order        []uuid.UUID
	correlatives map[uuid.UUID]*document.Correlative
}

func newMemCorrelativeRepository() *memCorrelativeRepository {
	return &memCorrelativeRepository{correlatives: make(map[uuid.UUID]*document.Correlative)}
}

func (r *memCorrelativeRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Correlative, error) {
	c, ok := r.correlatives[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *c
	return &copied, nil
}

func (r *memCorrelativeRepository) FindCurrent(ctx context.Context) (*document.Correlative, error) {
	for _, id := range r.order {
		if r.correlatives[id].Status == document.CorrelativeStatusCurrent {
			copied := *r.correlatives[id]
			return &copied, nil
		}
	}
	for _, id := range r.order {
		if r.correlatives[id].Status == document.CorrelativeStatusCreated {
			copied := *r.correlatives[id]
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCorrelativeRepository) FindPending(ctx context.Context) ([]document.Correlative, error) {
	var out []document.Correlative
	for _, id := range r.order {
		if r.correlatives[id].Status == document.CorrelativeStatusCreated {
			out = append(out, *r.correlatives[id])
		}
	}
	return out, nil
}

func (r *memCorrelativeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]document.Correlative, error) {
	out := make([]document.Correlative, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.correlatives[id])
	}
	return out, nil
}

func (r *memCorrelativeRepository) Save(ctx context.Context, c *document.Correlative) error {
	if _, ok := r.correlatives[c.ID]; !ok {
		r.order = append(r.order, c.ID)
	}
	copied := *c
	r.correlatives[c.ID] = &copied
	return nil
}

type memProductRepository struct {
	products map[uuid.UUID]*catalog.Product
}

func newMemProductRepository() *memProductRepository {
	return &memProductRepository{products: make(map[uuid.UUID]*catalog.Product)}
}

func (r *memProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	p, ok := r.products[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (r *memProductRepository) FindByBarCode(ctx context.Context, barCode string) (*catalog.Product, error) {
	for _, p := range r.products {
		if p.BarCode == barCode && !p.Deactivated {
			copied := *p
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range r.products {
		out = append(out, *p)
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
	copied := *product
	r.products[product.ID] = &copied
	return nil
}

func (r *memProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	delete(r.products, id)
	return nil
}

func (r *memProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	return int64(len(r.products)), nil
}

type memCashRepository struct {
	order []uuid.UUID
	rows  map[uuid.UUID]*cash.Cash
}

func newMemCashRepository() *memCashRepository {
	return &memCashRepository{rows: make(map[uuid.UUID]*cash.Cash)}
}

func (r *memCashRepository) FindByID(ctx context.Context, id uuid.UUID) (*cash.Cash, error) {
	row, ok := r.rows[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *row
	return &copied, nil
}

func (r *memCashRepository) FindByReceipt(ctx context.Context, receiptID uuid.UUID) (*cash.Cash, error) {
	for _, id := range r.order {
		if r.rows[id].ReceiptID == receiptID {
			copied := *r.rows[id]
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCashRepository) FindAvailableByRegister(ctx context.Context, registerID uuid.UUID) ([]cash.Cash, error) {
	var out []cash.Cash
	for _, id := range r.order {
		row := r.rows[id]
		if row.RegisterID == registerID && row.Available().IsPositive() {
			out = append(out, *row)
		}
	}
	return out, nil
}

func (r *memCashRepository) SumAvailableByRegister(ctx context.Context, registerID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, row := range r.rows {
		if row.RegisterID == registerID {
			sum = sum.Add(row.Available())
		}
	}
	return sum, nil
}

func (r *memCashRepository) Save(ctx context.Context, row *cash.Cash) error {
	if _, ok := r.rows[row.ID]; !ok {
		r.order = append(r.order, row.ID)
	}
	copied := *row
	r.rows[row.ID] = &copied
	return nil
}

type memCashReserveRepository struct {
	reserves map[uuid.UUID]*cash.CashReserve
}

func newMemCashReserveRepository() *memCashReserveRepository {
	return &memCashReserveRepository{reserves: make(map[uuid.UUID]*cash.CashReserve)}
}

func (r *memCashReserveRepository) FindByID(ctx context.Context, id uuid.UUID) (*cash.CashReserve, error) {
	reserve, ok := r.reserves[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *reserve
	return &copied, nil
}

func (r *memCashReserveRepository) FindByCash(ctx context.Context, cashID uuid.UUID) ([]cash.CashReserve, error) {
	var out []cash.CashReserve
	for _, reserve := range r.reserves {
		if reserve.CashID == cashID {
			out = append(out, *reserve)
		}
	}
	return out, nil
}

func (r *memCashReserveRepository) SumAmountByCash(ctx context.Context, cashID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, reserve := range r.reserves {
		if reserve.CashID == cashID {
			sum = sum.Add(reserve.Amount)
		}
	}
	return sum, nil
}

func (r *memCashReserveRepository) Save(ctx context.Context, reserve *cash.CashReserve) error {
	copied := *reserve
	r.reserves[reserve.ID] = &copied
	return nil
}

func (r *memCashReserveRepository) Delete(ctx context.Context, id uuid.UUID) error {
	if _, ok := r.reserves[id]; !ok {
		return shared.ErrNotFound
	}
	delete(r.reserves, id)
	return nil
}

type memVoucherRepository struct {
	vouchers []cash.Voucher
}

func (r *memVoucherRepository) FindByReceipt(ctx context.Context, receiptID uuid.UUID) ([]cash.Voucher, error) {
	var out []cash.Voucher
	for _, v := range r.vouchers {
		if v.ReceiptID == receiptID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (r *memVoucherRepository) SumAmountByRegister(ctx context.Context, registerID uuid.UUID) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, v := range r.vouchers {
		if v.RegisterID == registerID {
			sum = sum.Add(v.Amount)
		}
	}
	return sum, nil
}

func (r *memVoucherRepository) Save(ctx context.Context, voucher *cash.Voucher) error {
	r.vouchers = append(r.vouchers, *voucher)
	return nil
}

func (r *memVoucherRepository) DeleteByReceipt(ctx context.Context, receiptID uuid.UUID) error {
	kept := r.vouchers[:0]
	for _, v := range r.vouchers {
		if v.ReceiptID != receiptID {
			kept = append(kept, v)
		}
	}
	r.vouchers = kept
	return nil
}

type memRegisterRepository struct {
	registers map[uuid.UUID]*cash.CashRegister
}

func newMemRegisterRepository() *memRegisterRepository {
	return &memRegisterRepository{registers: make(map[uuid.UUID]*cash.CashRegister)}
}

func (r *memRegisterRepository) FindByID(ctx context.Context, id uuid.UUID) (*cash.CashRegister, error) {
	register, ok := r.registers[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *register
	return &copied, nil
}

func (r *memRegisterRepository) FindOpen(ctx context.Context) ([]cash.CashRegister, error) {
	var out []cash.CashRegister
	for _, register := range r.registers {
		if register.IsOpen() {
			out = append(out, *register)
		}
	}
	return out, nil
}

func (r *memRegisterRepository) Save(ctx context.Context, register *cash.CashRegister) error {
	copied := *register
	r.registers[register.ID] = &copied
	return nil
}

// memEventPublisher records published events for inspection
type memEventPublisher struct {
	events []shared.DomainEvent
}

func (p *memEventPublisher) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}
