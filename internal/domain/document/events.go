package document

import (
	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	EventDocumentCreated      = "document.created"
	EventDocumentCancelled    = "document.cancelled"
	EventCorrelativeActivated = "document.correlative.activated"
	EventCorrelativeUsedUp    = "document.correlative.used_up"
	EventCorrelativeExpired   = "document.correlative.expired"
)

// DocumentCreatedEvent fires when a document is saved and its lines applied
type DocumentCreatedEvent struct {
	shared.BaseDomainEvent
	DocumentID uuid.UUID       `json:"document_id"`
	Type       DocumentType    `json:"type"`
	Total      decimal.Decimal `json:"total"`
}

func NewDocumentCreatedEvent(doc *Document) *DocumentCreatedEvent {
	return &DocumentCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventDocumentCreated, "Document", doc.ID),
		DocumentID:      doc.ID,
		Type:            doc.Type,
		Total:           doc.Total,
	}
}

// DocumentCancelledEvent fires when a created document is cancelled
type DocumentCancelledEvent struct {
	shared.BaseDomainEvent
	DocumentID  uuid.UUID    `json:"document_id"`
	Type        DocumentType `json:"type"`
	CancelledBy uuid.UUID    `json:"cancelled_by"`
	Reason      string       `json:"reason"`
}

func NewDocumentCancelledEvent(doc *Document, cancelledBy uuid.UUID, reason string) *DocumentCancelledEvent {
	return &DocumentCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventDocumentCancelled, "Document", doc.ID),
		DocumentID:      doc.ID,
		Type:            doc.Type,
		CancelledBy:     cancelledBy,
		Reason:          reason,
	}
}

// CorrelativeActivatedEvent fires when a correlative issues its first number
type CorrelativeActivatedEvent struct {
	shared.BaseDomainEvent
	CorrelativeID uuid.UUID `json:"correlative_id"`
	Serial        string    `json:"serial"`
}

func NewCorrelativeActivatedEvent(c *Correlative) *CorrelativeActivatedEvent {
	return &CorrelativeActivatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventCorrelativeActivated, "Correlative", c.ID),
		CorrelativeID:   c.ID,
		Serial:          c.Serial,
	}
}

// CorrelativeUsedUpEvent fires when a correlative's range is consumed
type CorrelativeUsedUpEvent struct {
	shared.BaseDomainEvent
	CorrelativeID uuid.UUID `json:"correlative_id"`
	Serial        string    `json:"serial"`
	FinalNumber   int64     `json:"final_number"`
}

func NewCorrelativeUsedUpEvent(c *Correlative) *CorrelativeUsedUpEvent {
	return &CorrelativeUsedUpEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventCorrelativeUsedUp, "Correlative", c.ID),
		CorrelativeID:   c.ID,
		Serial:          c.Serial,
		FinalNumber:     c.FinalNumber,
	}
}

// CorrelativeExpiredEvent fires when a never-activated correlative passes
// its activation window.
type CorrelativeExpiredEvent struct {
	shared.BaseDomainEvent
	CorrelativeID uuid.UUID `json:"correlative_id"`
	Serial        string    `json:"serial"`
}

func NewCorrelativeExpiredEvent(c *Correlative) *CorrelativeExpiredEvent {
	return &CorrelativeExpiredEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventCorrelativeExpired, "Correlative", c.ID),
		CorrelativeID:   c.ID,
		Serial:          c.Serial,
	}
}
