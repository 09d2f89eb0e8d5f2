package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/pos/backend/internal/domain/document"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// documentSortFields contains allowed sort fields for documents
var documentSortFields = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
	"issued_at":  true,
	"total":      true,
}

// GormDocumentRepository implements DocumentRepository using GORM
type GormDocumentRepository struct {
	db *gorm.DB
}

// NewGormDocumentRepository creates a new GormDocumentRepository
func NewGormDocumentRepository(db *gorm.DB) *GormDocumentRepository {
	return &GormDocumentRepository{db: db}
}

// FindByID finds a document with its lines by ID
func (r *GormDocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Document, error) {
	var doc document.Document
	if err := dbFrom(ctx, r.db).WithContext(ctx).
		Preload("Details").
		First(&doc, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &doc, nil
}

// FindByType finds documents of one type, newest first
func (r *GormDocumentRepository) FindByType(ctx context.Context, docType document.DocumentType, filter shared.Filter) ([]document.Document, error) {
	var docs []document.Document
	query := dbFrom(ctx, r.db).WithContext(ctx).
		Model(&document.Document{}).
		Preload("Details").
		Where("type = ?", docType)
	query = applyFilter(query, filter, documentSortFields, "created_at")
	if err := query.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// FindByStatus finds documents in one status, newest first
func (r *GormDocumentRepository) FindByStatus(ctx context.Context, status document.DocumentStatus, filter shared.Filter) ([]document.Document, error) {
	var docs []document.Document
	query := dbFrom(ctx, r.db).WithContext(ctx).
		Model(&document.Document{}).
		Preload("Details").
		Where("status = ?", status)
	query = applyFilter(query, filter, documentSortFields, "created_at")
	if err := query.Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// FindIssuedBetween finds created documents issued in [from, to)
func (r *GormDocumentRepository) FindIssuedBetween(ctx context.Context, docType document.DocumentType, from, to time.Time) ([]document.Document, error) {
	var docs []document.Document
	if err := dbFrom(ctx, r.db).WithContext(ctx).
		Preload("Details").
		Where("type = ? AND status = ? AND issued_at >= ? AND issued_at < ?",
			docType, document.DocumentStatusCreated, from, to).
		Order("issued_at ASC").
		Find(&docs).Error; err != nil {
		return nil, err
	}
	return docs, nil
}

// Save creates or updates a document and its lines. Lines removed from
// the aggregate are removed from the table as well.
func (r *GormDocumentRepository) Save(ctx context.Context, doc *document.Document) error {
	db := dbFrom(ctx, r.db).WithContext(ctx)

	keep := make([]uuid.UUID, 0, len(doc.Details))
	for idx := range doc.Details {
		keep = append(keep, doc.Details[idx].ID)
	}
	query := db.Where("document_id = ?", doc.ID)
	if len(keep) > 0 {
		query = query.Where("id NOT IN ?", keep)
	}
	if err := query.Delete(&document.DocumentDetail{}).Error; err != nil {
		return err
	}

	return db.Session(&gorm.Session{FullSaveAssociations: true}).Save(doc).Error
}

// Delete removes an in-progress document that was discarded
func (r *GormDocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := dbFrom(ctx, r.db).WithContext(ctx)
	if err := db.Delete(&document.DocumentDetail{}, "document_id = ?", id).Error; err != nil {
		return err
	}
	result := db.Delete(&document.Document{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts documents of one type
func (r *GormDocumentRepository) Count(ctx context.Context, docType document.DocumentType) (int64, error) {
	var count int64
	if err := dbFrom(ctx, r.db).WithContext(ctx).
		Model(&document.Document{}).
		Where("type = ?", docType).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// correlativeSortFields contains allowed sort fields for correlatives
var correlativeSortFields = map[string]bool{
	"id":              true,
	"created_at":      true,
	"resolution_date": true,
	"serial":          true,
}

// GormCorrelativeRepository implements CorrelativeRepository using GORM
type GormCorrelativeRepository struct {
	db *gorm.DB
}

// NewGormCorrelativeRepository creates a new GormCorrelativeRepository
func NewGormCorrelativeRepository(db *gorm.DB) *GormCorrelativeRepository {
	return &GormCorrelativeRepository{db: db}
}

// FindByID finds a correlative by ID
func (r *GormCorrelativeRepository) FindByID(ctx context.Context, id uuid.UUID) (*document.Correlative, error) {
	var c document.Correlative
	if err := dbFrom(ctx, r.db).WithContext(ctx).First(&c, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindCurrent finds the issuing correlative, falling back to the queued one.
// The active range wins over a waiting range regardless of age.
func (r *GormCorrelativeRepository) FindCurrent(ctx context.Context) (*document.Correlative, error) {
	var c document.Correlative
	err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("status = ?", document.CorrelativeStatusCurrent).
		Order("created_at ASC").
		First(&c).Error
	if err == nil {
		return &c, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	err = dbFrom(ctx, r.db).WithContext(ctx).
		Where("status = ?", document.CorrelativeStatusCreated).
		Order("created_at ASC").
		First(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// FindPending finds queued correlatives that have never issued a number
func (r *GormCorrelativeRepository) FindPending(ctx context.Context) ([]document.Correlative, error) {
	var correlatives []document.Correlative
	if err := dbFrom(ctx, r.db).WithContext(ctx).
		Where("status = ?", document.CorrelativeStatusCreated).
		Order("created_at ASC").
		Find(&correlatives).Error; err != nil {
		return nil, err
	}
	return correlatives, nil
}

// FindAll lists correlatives, newest first
func (r *GormCorrelativeRepository) FindAll(ctx context.Context, filter shared.Filter) ([]document.Correlative, error) {
	var correlatives []document.Correlative
	query := applyFilter(dbFrom(ctx, r.db).WithContext(ctx).Model(&document.Correlative{}), filter, correlativeSortFields, "created_at")
	if err := query.Find(&correlatives).Error; err != nil {
		return nil, err
	}
	return correlatives, nil
}

// Save creates or updates a correlative
func (r *GormCorrelativeRepository) Save(ctx context.Context, c *document.Correlative) error {
	return dbFrom(ctx, r.db).WithContext(ctx).Save(c).Error
}

var (
	_ document.DocumentRepository    = (*GormDocumentRepository)(nil)
	_ document.CorrelativeRepository = (*GormCorrelativeRepository)(nil)
)
