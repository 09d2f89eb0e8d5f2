package document

import (
	"context"
	"time"

	"github.com/pos/backend/internal/domain/document"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CorrelativeService manages invoice number ranges. At most one range may
// sit queued behind the current one; expiry is applied lazily whenever a
// range is read.
type CorrelativeService struct {
	correlatives   document.CorrelativeRepository
	scope          shared.TransactionScope
	eventPublisher shared.EventPublisher
}

// NewCorrelativeService creates a new correlative service
func NewCorrelativeService(correlatives document.CorrelativeRepository, scope shared.TransactionScope) *CorrelativeService {
	return &CorrelativeService{
		correlatives: correlatives,
		scope:        scope,
	}
}

// SetEventPublisher sets the event publisher for domain events
func (s *CorrelativeService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a new number range. Only one unactivated range may be
// queued at a time; ranges that silently expired no longer count.
func (s *CorrelativeService) Create(ctx context.Context, req CreateCorrelativeRequest) (*CorrelativeResponse, error) {
	var correlative *document.Correlative
	err := s.scope.WithinTransaction(ctx, func(ctx context.Context) error {
		pending, err := s.correlatives.FindPending(ctx)
		if err != nil {
			return err
		}
		now := time.Now()
		for idx := range pending {
			c := &pending[idx]
			c.Refresh(now)
			if !c.IsPending() {
				if err := s.correlatives.Save(ctx, c); err != nil {
					return err
				}
				s.publish(ctx, c)
				continue
			}
			return shared.NewValidationError("CORRELATIVE_ALREADY_PENDING", "A number range is already queued")
		}

		correlative, err = document.NewCorrelative(req.CreatedBy, req.Serial, req.Resolution,
			req.InitialNumber, req.FinalNumber, req.ResolutionDate)
		if err != nil {
			return err
		}
		if err := correlative.MarkCreated(); err != nil {
			return err
		}
		return s.correlatives.Save(ctx, correlative)
	})
	if err != nil {
		return nil, err
	}
	return ToCorrelativeResponse(correlative), nil
}

// GetCurrent returns the range currently issuing numbers (or next in line),
// refreshing its expiry state first.
func (s *CorrelativeService) GetCurrent(ctx context.Context) (*CorrelativeResponse, error) {
	var correlative *document.Correlative
	err := s.scope.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		correlative, err = s.correlatives.FindCurrent(ctx)
		if err != nil {
			return err
		}
		before := correlative.Status
		correlative.Refresh(time.Now())
		if correlative.Status != before {
			if err := s.correlatives.Save(ctx, correlative); err != nil {
				return err
			}
			s.publish(ctx, correlative)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToCorrelativeResponse(correlative), nil
}

// GetByID returns a correlative by ID, refreshing its expiry state the way
// GetCurrent does so a stale range never reads back as still queued.
func (s *CorrelativeService) GetByID(ctx context.Context, id uuid.UUID) (*CorrelativeResponse, error) {
	var correlative *document.Correlative
	err := s.scope.WithinTransaction(ctx, func(ctx context.Context) error {
		var err error
		correlative, err = s.correlatives.FindByID(ctx, id)
		if err != nil {
			return err
		}
		before := correlative.Status
		correlative.Refresh(time.Now())
		if correlative.Status != before {
			if err := s.correlatives.Save(ctx, correlative); err != nil {
				return err
			}
			s.publish(ctx, correlative)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ToCorrelativeResponse(correlative), nil
}

// List returns correlatives, newest first
func (s *CorrelativeService) List(ctx context.Context, filter shared.Filter) ([]CorrelativeResponse, error) {
	correlatives, err := s.correlatives.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	responses := make([]CorrelativeResponse, len(correlatives))
	for i := range correlatives {
		responses[i] = *ToCorrelativeResponse(&correlatives[i])
	}
	return responses, nil
}

func (s *CorrelativeService) publish(ctx context.Context, c *document.Correlative) {
	if s.eventPublisher == nil {
		return
	}
	events := c.GetDomainEvents()
	if len(events) == 0 {
		return
	}
	_ = s.eventPublisher.Publish(ctx, events...)
	c.ClearDomainEvents()
}
