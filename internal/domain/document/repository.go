package document

import (
	"context"
	"time"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// DocumentRepository defines the interface for document persistence
type DocumentRepository interface {
	// FindByID finds a document with its lines by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Document, error)

	// FindByType finds documents of one type, newest first
	FindByType(ctx context.Context, docType DocumentType, filter shared.Filter) ([]Document, error)

	// FindByStatus finds documents in one status, newest first
	FindByStatus(ctx context.Context, status DocumentStatus, filter shared.Filter) ([]Document, error)

	// FindIssuedBetween finds created documents issued in [from, to)
	FindIssuedBetween(ctx context.Context, docType DocumentType, from, to time.Time) ([]Document, error)

	// Save creates or updates a document and its lines
	Save(ctx context.Context, doc *Document) error

	// Delete removes an in-progress document that was discarded
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts documents of one type
	Count(ctx context.Context, docType DocumentType) (int64, error)
}

// CorrelativeRepository defines the interface for correlative persistence
type CorrelativeRepository interface {
	// FindByID finds a correlative by ID
	FindByID(ctx context.Context, id uuid.UUID) (*Correlative, error)

	// FindCurrent finds the correlative currently issuing numbers, or the
	// queued one next in line. Returns shared.ErrNotFound when none exists.
	FindCurrent(ctx context.Context) (*Correlative, error)

	// FindPending finds queued correlatives that have never issued a number
	FindPending(ctx context.Context) ([]Correlative, error)

	// FindAll lists correlatives, newest first
	FindAll(ctx context.Context, filter shared.Filter) ([]Correlative, error)

	// Save creates or updates a correlative
	Save(ctx context.Context, c *Correlative) error
}
