package document

import (
	"context"
	"time"

	"github.com/pos/backend/internal/domain/cash"
	"github.com/pos/backend/internal/domain/document"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// InvoiceService settles invoices: assigns the fiscal number from the
// current correlative, moves the sold stock, and books the payment into
// the register's cash, all in one transaction.
type InvoiceService struct {
	documents      *DocumentService
	correlatives   document.CorrelativeRepository
	cashLedger     *cash.CashLedger
	vouchers       cash.VoucherRepository
	registers      cash.CashRegisterRepository
	scope          shared.TransactionScope
	eventPublisher shared.EventPublisher
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	documents *DocumentService,
	correlatives document.CorrelativeRepository,
	cashLedger *cash.CashLedger,
	vouchers cash.VoucherRepository,
	registers cash.CashRegisterRepository,
	scope shared.TransactionScope,
) *InvoiceService {
	return &InvoiceService{
		documents:    documents,
		correlatives: correlatives,
		cashLedger:   cashLedger,
		vouchers:     vouchers,
		registers:    registers,
		scope:        scope,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *InvoiceService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// SaveWithPayment finalizes an invoice: takes the next fiscal number,
// applies the stock movements, and records the cash and card payments at
// the register. The payment must cover the payable total; excess cash
// comes back as change.
func (s *InvoiceService) SaveWithPayment(ctx context.Context, req SavePaymentRequest) (*PaymentResponse, error) {
	var (
		doc    *document.Document
		change decimal.Decimal
		events []shared.DomainEvent
	)
	err := s.scope.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.documents.documents.FindByID(ctx, req.InvoiceID)
		if err != nil {
			return err
		}
		if doc.Type != document.DocumentTypeInvoice {
			return shared.NewValidationError("INVALID_DOCUMENT_TYPE", "Only invoices are settled with a payment")
		}
		if doc.Status != document.DocumentStatusInProgress {
			return shared.NewValidationError("INVALID_STATE", "Invoice has already been settled")
		}

		register, err := s.registers.FindByID(ctx, req.RegisterID)
		if err != nil {
			return err
		}
		if !register.IsOpen() {
			return shared.NewValidationError("REGISTER_CLOSED", "Cash register is not open")
		}

		if req.Discount != nil {
			if err := doc.SetDiscount(*req.Discount); err != nil {
				return err
			}
		}

		correlativeEvents, err := s.assignNumber(ctx, doc)
		if err != nil {
			return err
		}
		events = append(events, correlativeEvents...)

		change, err = s.bookPayment(ctx, doc, req)
		if err != nil {
			return err
		}

		if err := s.documents.applyAndCreate(ctx, doc, req.Actor); err != nil {
			return err
		}
		if err := s.documents.documents.Save(ctx, doc); err != nil {
			return err
		}
		events = append(events, doc.GetDomainEvents()...)
		doc.ClearDomainEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil && len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}
	return &PaymentResponse{Document: ToDocumentResponse(doc), Change: change}, nil
}

// assignNumber stamps the invoice with the next number of the current
// correlative. A closed or expired range yields no number and the save
// fails rather than issuing an unnumbered invoice. Returns the events the
// correlative raised while issuing (activation, exhaustion) so the caller
// can publish them once the transaction commits.
func (s *InvoiceService) assignNumber(ctx context.Context, doc *document.Document) ([]shared.DomainEvent, error) {
	correlative, err := s.correlatives.FindCurrent(ctx)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.NewValidationError("CORRELATIVE_EXHAUSTED", "No invoice number range is available")
		}
		return nil, err
	}

	number := correlative.NextNumber(time.Now())
	if err := s.correlatives.Save(ctx, correlative); err != nil {
		return nil, err
	}
	if number == 0 {
		return nil, shared.NewValidationError("CORRELATIVE_EXHAUSTED", "No invoice number range is available")
	}
	if err := doc.AssignCorrelative(correlative.Serial, number); err != nil {
		return nil, err
	}
	events := correlative.GetDomainEvents()
	correlative.ClearDomainEvents()
	return events, nil
}

// bookPayment validates the tendered amounts against the payable total and
// records the cash and vouchers at the register. Returns the change due.
func (s *InvoiceService) bookPayment(ctx context.Context, doc *document.Document, req SavePaymentRequest) (decimal.Decimal, error) {
	if req.CashAmount.IsNegative() {
		return decimal.Zero, shared.NewValidationError("INVALID_AMOUNT", "Cash amount cannot be negative")
	}

	voucherTotal := decimal.Zero
	for _, v := range req.Vouchers {
		voucherTotal = voucherTotal.Add(v.Amount)
	}

	payable := doc.PayableTotal()
	tendered := req.CashAmount.Add(voucherTotal)
	if tendered.LessThan(payable) {
		return decimal.Zero, shared.NewValidationError("INSUFFICIENT_PAYMENT", "Payment does not cover the invoice total")
	}
	if voucherTotal.GreaterThan(payable) {
		return decimal.Zero, shared.NewValidationError("VOUCHER_EXCEEDS_TOTAL", "Card payments cannot exceed the invoice total")
	}

	change := tendered.Sub(payable)
	cashReceived := req.CashAmount.Sub(change)

	if cashReceived.GreaterThan(decimal.Zero) {
		row, err := s.cashLedger.Receive(ctx, doc.ID, req.RegisterID, cashReceived)
		if err != nil {
			return decimal.Zero, err
		}
		if s.eventPublisher != nil {
			_ = s.eventPublisher.Publish(ctx, cash.NewCashReceivedEvent(row))
		}
	}

	for _, v := range req.Vouchers {
		voucher, err := cash.NewVoucher(doc.ID, req.RegisterID, v.Amount, v.CardSuffix, v.Authorization)
		if err != nil {
			return decimal.Zero, err
		}
		if err := s.vouchers.Save(ctx, voucher); err != nil {
			return decimal.Zero, err
		}
		if s.eventPublisher != nil {
			_ = s.eventPublisher.Publish(ctx, cash.NewVoucherReceivedEvent(voucher))
		}
	}

	return change, nil
}

// Cancel reverses a settled invoice: the stock comes back, the receipt's
// cash is pulled out of the drawer and its vouchers are voided, all in one
// transaction. The register must be open, and cash a deposit has already
// claimed blocks the cancellation.
func (s *InvoiceService) Cancel(ctx context.Context, req CancelInvoiceRequest) (*DocumentResponse, error) {
	var (
		doc    *document.Document
		events []shared.DomainEvent
	)
	err := s.scope.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		doc, err = s.documents.documents.FindByID(ctx, req.InvoiceID)
		if err != nil {
			return err
		}
		if doc.Type != document.DocumentTypeInvoice {
			return shared.NewValidationError("INVALID_DOCUMENT_TYPE", "Only invoices are cancelled at the register")
		}

		register, err := s.registers.FindByID(ctx, req.RegisterID)
		if err != nil {
			return err
		}
		if !register.IsOpen() {
			return shared.NewValidationError("REGISTER_CLOSED", "Cash register is not open")
		}

		// a card-only sale has no cash row to reverse
		row, amount, err := s.cashLedger.ReverseReceipt(ctx, doc.ID)
		if err != nil && err != shared.ErrNotFound {
			return err
		}
		if row != nil {
			events = append(events, cash.NewCashReversedEvent(row, amount))
		}
		if err := s.vouchers.DeleteByReceipt(ctx, doc.ID); err != nil {
			return err
		}

		if err := s.documents.reverseAndCancel(ctx, doc, req.CancelledBy, req.Reason); err != nil {
			return err
		}
		events = append(events, doc.GetDomainEvents()...)
		doc.ClearDomainEvents()
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil && len(events) > 0 {
		_ = s.eventPublisher.Publish(ctx, events...)
	}
	return ToDocumentResponse(doc), nil
}
