package inventory

import (
	"context"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// InventoryService answers stock questions: how much of a product is on
// hand and promisable, which lots carry it, what is about to expire, and
// the journal of every movement. All mutation goes through documents, so
// this service only reads.
type InventoryService struct {
	ledger   *inventory.LotLedger
	lots     inventory.LotRepository
	journal  inventory.StockTransactionRepository
	products catalog.ProductRepository
}

// NewInventoryService creates a new inventory service
func NewInventoryService(
	ledger *inventory.LotLedger,
	lots inventory.LotRepository,
	journal inventory.StockTransactionRepository,
	products catalog.ProductRepository,
) *InventoryService {
	return &InventoryService{
		ledger:   ledger,
		lots:     lots,
		journal:  journal,
		products: products,
	}
}

// GetStock returns a product's stock position with its lot breakdown
func (s *InventoryService) GetStock(ctx context.Context, productID uuid.UUID) (*StockResponse, error) {
	product, err := s.products.FindByID(ctx, productID)
	if err != nil {
		return nil, err
	}

	lots, quantity, available, err := s.ledger.ShowLots(ctx, productID)
	if err != nil {
		return nil, err
	}

	return &StockResponse{
		ProductID:   product.ID,
		Description: product.Description,
		Quantity:    quantity,
		Available:   available,
		Lots:        lots,
	}, nil
}

// GetAvailable returns how many units of the product can still be promised
func (s *InventoryService) GetAvailable(ctx context.Context, productID uuid.UUID) (int64, error) {
	return s.ledger.GetAvailable(ctx, productID)
}

// ListExpired returns lots past their expiration date that still hold stock
func (s *InventoryService) ListExpired(ctx context.Context, filter shared.Filter) ([]LotResponse, error) {
	lots, err := s.lots.FindExpired(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]LotResponse, len(lots))
	for i := range lots {
		responses[i] = *ToLotResponse(&lots[i])
	}
	return responses, nil
}

// History returns the movement journal of a product, newest first
func (s *InventoryService) History(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]StockTransactionResponse, error) {
	records, err := s.journal.FindByProduct(ctx, productID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]StockTransactionResponse, len(records))
	for i := range records {
		responses[i] = *ToStockTransactionResponse(&records[i])
	}
	return responses, nil
}

// LotHistory returns the movement journal of a single lot
func (s *InventoryService) LotHistory(ctx context.Context, lotID uuid.UUID, filter shared.Filter) ([]StockTransactionResponse, error) {
	records, err := s.journal.FindByLot(ctx, lotID, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]StockTransactionResponse, len(records))
	for i := range records {
		responses[i] = *ToStockTransactionResponse(&records[i])
	}
	return responses, nil
}

// TraceSource returns the journal records caused by one document
func (s *InventoryService) TraceSource(ctx context.Context, sourceType inventory.SourceType, sourceID uuid.UUID) ([]StockTransactionResponse, error) {
	if !sourceType.IsValid() {
		return nil, shared.NewValidationError("INVALID_SOURCE_TYPE", "Unknown source type")
	}
	records, err := s.journal.FindBySource(ctx, sourceType, sourceID)
	if err != nil {
		return nil, err
	}
	responses := make([]StockTransactionResponse, len(records))
	for i := range records {
		responses[i] = *ToStockTransactionResponse(&records[i])
	}
	return responses, nil
}
