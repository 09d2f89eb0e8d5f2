package document

import (
	"context"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/document"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DocumentService drives the lifecycle of stock documents: build them line
// by line while in progress, save them (moving stock and consuming
// reserves atomically), cancel them with the symmetric counter-movement,
// or discard them before they ever touch stock.
type DocumentService struct {
	documents      document.DocumentRepository
	products       catalog.ProductRepository
	ledger         *inventory.LotLedger
	scope          shared.TransactionScope
	eventPublisher shared.EventPublisher
}

// NewDocumentService creates a new document service
func NewDocumentService(
	documents document.DocumentRepository,
	products catalog.ProductRepository,
	ledger *inventory.LotLedger,
	scope shared.TransactionScope,
) *DocumentService {
	return &DocumentService{
		documents: documents,
		products:  products,
		ledger:    ledger,
		scope:     scope,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *DocumentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create opens a new in-progress document of the requested type
func (s *DocumentService) Create(ctx context.Context, req CreateDocumentRequest) (*DocumentResponse, error) {
	doc, err := s.build(req)
	if err != nil {
		return nil, err
	}
	if err := s.documents.Save(ctx, doc); err != nil {
		return nil, err
	}
	return ToDocumentResponse(doc), nil
}

func (s *DocumentService) build(req CreateDocumentRequest) (*document.Document, error) {
	switch req.Type {
	case document.DocumentTypeInvoice:
		return document.NewInvoice(req.CreatedBy, req.Nit, req.CustomerName, req.VATPercent)
	case document.DocumentTypeReceipt:
		if req.ShipmentID == nil || req.ShipmentTotal == nil {
			return nil, shared.NewValidationError("MISSING_SHIPMENT", "Receipt requires a shipment and its total")
		}
		return document.NewReceipt(req.CreatedBy, *req.ShipmentID, *req.ShipmentTotal)
	case document.DocumentTypeShipment:
		var branchID uuid.UUID
		if req.BranchID != nil {
			branchID = *req.BranchID
		}
		return document.NewShipment(req.CreatedBy, branchID)
	case document.DocumentTypePurchaseReturn:
		var supplierID uuid.UUID
		if req.SupplierID != nil {
			supplierID = *req.SupplierID
		}
		return document.NewPurchaseReturn(req.CreatedBy, supplierID)
	case document.DocumentTypeEntryAdjustment:
		return document.NewEntryAdjustment(req.CreatedBy)
	case document.DocumentTypeWithdrawAdjustment:
		return document.NewWithdrawAdjustment(req.CreatedBy)
	}
	return nil, shared.NewValidationError("INVALID_DOCUMENT_TYPE", "Unknown document type")
}

// GetByID returns a document with its lines
func (s *DocumentService) GetByID(ctx context.Context, id uuid.UUID) (*DocumentResponse, error) {
	doc, err := s.documents.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToDocumentResponse(doc), nil
}

// List returns documents of one type, newest first
func (s *DocumentService) List(ctx context.Context, docType document.DocumentType, filter shared.Filter) (*shared.Paginated[DocumentResponse], error) {
	docs, err := s.documents.FindByType(ctx, docType, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.documents.Count(ctx, docType)
	if err != nil {
		return nil, err
	}

	responses := make([]DocumentResponse, len(docs))
	for i := range docs {
		responses[i] = *ToDocumentResponse(&docs[i])
	}
	result := shared.NewPaginated(responses, total, filter.Page, filter.PageSize)
	return &result, nil
}

// AddProduct adds product lines to an in-progress document. The movement
// direction follows the document type: receipts and entry adjustments bring
// stock in, everything else takes it out and claims reserves up front.
func (s *DocumentService) AddProduct(ctx context.Context, req AddProductRequest) (*DocumentResponse, error) {
	var doc *document.Document
	err := s.scope.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.documents.FindByID(ctx, req.DocumentID)
		if err != nil {
			return err
		}
		product, err := s.products.FindByID(ctx, req.ProductID)
		if err != nil {
			return err
		}
		if product.Deactivated {
			return shared.NewValidationError("PRODUCT_DEACTIVATED", "Product is no longer sellable")
		}

		switch doc.Type {
		case document.DocumentTypeReceipt, document.DocumentTypeEntryAdjustment:
			err = NewEntryEvent(s.ledger).AddProduct(ctx, doc, product, req.Quantity, req.Price, req.ExpirationDate)
		case document.DocumentTypeInvoice:
			retail := NewRetailEvent(s.ledger)
			err = retail.AddProduct(ctx, doc, product, req.Quantity)
			if err == nil && req.BonusQuantity > 0 {
				err = retail.AddBonus(ctx, doc, product, req.BonusQuantity)
			}
		default:
			err = NewWithdrawEvent(s.ledger).AddProduct(ctx, doc, product, req.Quantity, req.Price)
		}
		if err != nil {
			return err
		}
		return s.documents.Save(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	return ToDocumentResponse(doc), nil
}

// RemoveDetail deletes a line from an in-progress document, releasing the
// reserve the line claimed.
func (s *DocumentService) RemoveDetail(ctx context.Context, documentID uuid.UUID, key string, actor uuid.UUID) (*DocumentResponse, error) {
	var doc *document.Document
	err := s.scope.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.documents.FindByID(ctx, documentID)
		if err != nil {
			return err
		}
		removed, err := doc.DeleteDetail(key)
		if err != nil {
			return err
		}
		if err := s.releaseLine(ctx, removed, actor); err != nil {
			return err
		}
		return s.documents.Save(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	return ToDocumentResponse(doc), nil
}

// Save finalizes an in-progress document: validates it, applies every line
// to stock in order, and marks it created. The whole batch commits or rolls
// back as one.
func (s *DocumentService) Save(ctx context.Context, documentID, actor uuid.UUID) (*DocumentResponse, error) {
	var doc *document.Document
	err := s.scope.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.documents.FindByID(ctx, documentID)
		if err != nil {
			return err
		}
		if doc.Type == document.DocumentTypeInvoice {
			return shared.NewValidationError("INVALID_DOCUMENT_TYPE",
				"Invoices are settled through the register with a payment")
		}
		if err := s.applyAndCreate(ctx, doc, actor); err != nil {
			return err
		}
		return s.documents.Save(ctx, doc)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, doc)
	return ToDocumentResponse(doc), nil
}

// applyAndCreate validates the document and moves stock for each line in
// sequence order, then transitions it to created. Callers wrap it in a
// transaction scope.
func (s *DocumentService) applyAndCreate(ctx context.Context, doc *document.Document, actor uuid.UUID) error {
	if err := doc.ValidateMainProperties(); err != nil {
		return err
	}
	source := sourceRefFor(doc)
	for idx := range doc.Details {
		if err := doc.Details[idx].Apply(ctx, s.ledger, actor, source); err != nil {
			return err
		}
	}
	return doc.MarkCreated()
}

// Cancel reverses a created document. Every line must still be reversible;
// the check and the counter-movements run inside one transaction so stock
// cannot slip away between them.
func (s *DocumentService) Cancel(ctx context.Context, req CancelDocumentRequest) (*DocumentResponse, error) {
	var doc *document.Document
	err := s.scope.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.documents.FindByID(ctx, req.DocumentID)
		if err != nil {
			return err
		}
		if doc.Type == document.DocumentTypeInvoice {
			return shared.NewValidationError("INVALID_DOCUMENT_TYPE",
				"Invoices are cancelled through the register so their payment is reversed")
		}
		return s.reverseAndCancel(ctx, doc, req.CancelledBy, req.Reason)
	})
	if err != nil {
		return nil, err
	}
	s.publishEvents(ctx, doc)
	return ToDocumentResponse(doc), nil
}

// reverseAndCancel reverses a created document's stock movements and marks
// it cancelled. Every line must still be reversible; the check and the
// counter-movements run together, so callers wrap it in a transaction scope.
func (s *DocumentService) reverseAndCancel(ctx context.Context, doc *document.Document, cancelledBy uuid.UUID, reason string) error {
	if doc.Status != document.DocumentStatusCreated {
		return shared.NewValidationError("INVALID_STATE", "Only created documents can be cancelled")
	}

	for idx := range doc.Details {
		ok, err := doc.Details[idx].IsCancellable(ctx, s.ledger, cancelledBy)
		if err != nil {
			return err
		}
		if !ok {
			return shared.NewValidationError("NOT_CANCELLABLE",
				"Stock moved by this document has already been taken by another")
		}
	}

	source := sourceRefFor(doc)
	for idx := range doc.Details {
		if err := doc.Details[idx].CancelEffect(ctx, s.ledger, cancelledBy, source); err != nil {
			return err
		}
	}
	if err := doc.MarkCancelled(cancelledBy, reason); err != nil {
		return err
	}
	return s.documents.Save(ctx, doc)
}

// Discard drops an in-progress document, releasing the reserves its lines
// claimed. Nothing of it remains afterwards.
func (s *DocumentService) Discard(ctx context.Context, documentID, actor uuid.UUID) error {
	return s.scope.WithinTransaction(ctx, func(ctx context.Context) error {
		doc, err := s.documents.FindByID(ctx, documentID)
		if err != nil {
			return err
		}
		if !doc.CanDiscard() {
			return shared.NewValidationError("INVALID_STATE", "Only in-progress documents can be discarded")
		}
		for idx := range doc.Details {
			if err := s.releaseLine(ctx, &doc.Details[idx], actor); err != nil {
				return err
			}
		}
		return s.documents.Delete(ctx, doc.ID)
	})
}

// releaseLine gives back the reserve of an unapplied line, if it holds one
func (s *DocumentService) releaseLine(ctx context.Context, detail *document.DocumentDetail, actor uuid.UUID) error {
	if detail.Applied || detail.ReserveID == nil {
		return nil
	}
	reserve, err := s.ledger.GetReserve(ctx, *detail.ReserveID)
	if err != nil {
		return err
	}
	return s.ledger.ReleaseReserve(ctx, reserve, actor)
}

func (s *DocumentService) publishEvents(ctx context.Context, doc *document.Document) {
	if s.eventPublisher == nil {
		return
	}
	events := doc.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	doc.ClearDomainEvents()
}

// sourceRefFor maps a document to the journal source tag its stock
// movements are recorded under.
func sourceRefFor(doc *document.Document) *inventory.SourceRef {
	var sourceType inventory.SourceType
	switch doc.Type {
	case document.DocumentTypeInvoice:
		sourceType = inventory.SourceTypeInvoice
	case document.DocumentTypeReceipt:
		sourceType = inventory.SourceTypeReceipt
	case document.DocumentTypeShipment:
		sourceType = inventory.SourceTypeShipment
	case document.DocumentTypePurchaseReturn:
		sourceType = inventory.SourceTypePurchaseReturn
	case document.DocumentTypeEntryAdjustment:
		sourceType = inventory.SourceTypeEntryAdjustment
	case document.DocumentTypeWithdrawAdjustment:
		sourceType = inventory.SourceTypeWithdrawAdjustment
	}
	return &inventory.SourceRef{Type: sourceType, ID: doc.ID}
}
