package document

import (
	"fmt"
	"time"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CorrelativeValidDays is the activation window: a correlative not put into
// use within this many days of its resolution date expires unused.
const CorrelativeValidDays = 10

// CorrelativeStatus represents the lifecycle state of a correlative
type CorrelativeStatus string

const (
	CorrelativeStatusInProgress CorrelativeStatus = "IN_PROGRESS"
	CorrelativeStatusCreated    CorrelativeStatus = "CREATED"
	CorrelativeStatusCurrent    CorrelativeStatus = "CURRENT"
	CorrelativeStatusExpired    CorrelativeStatus = "EXPIRED"
	CorrelativeStatusUsedUp     CorrelativeStatus = "USED_UP"
)

// IsValid checks if the status is a valid CorrelativeStatus
func (s CorrelativeStatus) IsValid() bool {
	switch s {
	case CorrelativeStatusInProgress,
		CorrelativeStatusCreated,
		CorrelativeStatusCurrent,
		CorrelativeStatusExpired,
		CorrelativeStatusUsedUp:
		return true
	}
	return false
}

// String returns the string representation of CorrelativeStatus
func (s CorrelativeStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s CorrelativeStatus) CanTransitionTo(target CorrelativeStatus) bool {
	switch s {
	case CorrelativeStatusInProgress:
		return target == CorrelativeStatusCreated
	case CorrelativeStatusCreated:
		return target == CorrelativeStatusCurrent || target == CorrelativeStatusExpired
	case CorrelativeStatusCurrent:
		return target == CorrelativeStatusUsedUp
	case CorrelativeStatusExpired, CorrelativeStatusUsedUp:
		return false // terminal
	}
	return false
}

// Correlative is a government-assigned range of sequential invoice numbers.
// Numbers are issued strictly increasing with no gaps and never reused; a
// correlative never activated within its validity window expires.
type Correlative struct {
	shared.AuditedAggregateRoot
	Serial         string            `gorm:"type:varchar(20);not null"`
	Resolution     string            `gorm:"type:varchar(50);not null"`
	InitialNumber  int64             `gorm:"not null"`
	FinalNumber    int64             `gorm:"not null"`
	CurrentNumber  int64             `gorm:"not null"`
	Status         CorrelativeStatus `gorm:"type:varchar(20);not null;index"`
	ResolutionDate time.Time         `gorm:"not null"`
	ActivatedAt    *time.Time
	ClosedAt       *time.Time
}

// TableName returns the table name for GORM
func (Correlative) TableName() string {
	return "correlatives"
}

// NewCorrelative creates a new correlative covering [initial, final].
// CurrentNumber starts one below the initial number; the first issued
// number is InitialNumber itself.
func NewCorrelative(createdBy uuid.UUID, serial, resolution string, initialNumber, finalNumber int64, resolutionDate time.Time) (*Correlative, error) {
	if serial == "" {
		return nil, shared.NewFieldValidationError("MISSING_SERIAL", "Serial cannot be empty", "serial")
	}
	if resolution == "" {
		return nil, shared.NewFieldValidationError("MISSING_RESOLUTION", "Resolution cannot be empty", "resolution")
	}
	if initialNumber <= 0 {
		return nil, shared.NewValidationError("INVALID_RANGE", "Initial number must be positive")
	}
	if initialNumber >= finalNumber {
		return nil, shared.NewValidationError("INVALID_RANGE", "Initial number must be below the final number")
	}

	return &Correlative{
		AuditedAggregateRoot: shared.NewAuditedAggregateRoot(createdBy),
		Serial:               serial,
		Resolution:           resolution,
		InitialNumber:        initialNumber,
		FinalNumber:          finalNumber,
		CurrentNumber:        initialNumber - 1,
		Status:               CorrelativeStatusInProgress,
		ResolutionDate:       resolutionDate,
	}, nil
}

// MarkCreated transitions the correlative to CREATED once persisted
func (c *Correlative) MarkCreated() error {
	if !c.Status.CanTransitionTo(CorrelativeStatusCreated) {
		return shared.NewPreconditionError("correlative %s is already %s", c.ID, c.Status)
	}
	c.Status = CorrelativeStatusCreated
	c.UpdatedAt = time.Now()
	return nil
}

// Refresh applies the lazy transitions performed as a side effect of
// reading: a CREATED correlative past its activation window expires, and a
// CURRENT correlative whose range is consumed is used up.
func (c *Correlative) Refresh(now time.Time) {
	switch c.Status {
	case CorrelativeStatusCreated:
		deadline := c.ResolutionDate.AddDate(0, 0, CorrelativeValidDays)
		if now.After(deadline) {
			c.Status = CorrelativeStatusExpired
			c.ClosedAt = &now
			c.UpdatedAt = now
			c.AddDomainEvent(NewCorrelativeExpiredEvent(c))
		}
	case CorrelativeStatusCurrent:
		if c.CurrentNumber >= c.FinalNumber {
			c.Status = CorrelativeStatusUsedUp
			c.ClosedAt = &now
			c.UpdatedAt = now
			c.AddDomainEvent(NewCorrelativeUsedUpEvent(c))
		}
	}
}

// IsPending reports whether the correlative is queued and not yet issuing
func (c *Correlative) IsPending() bool {
	return c.Status == CorrelativeStatusCreated
}

// NextNumber issues the next sequential invoice number. The first call on a
// CREATED correlative activates it. Returns the sentinel 0 when the
// correlative is not in an issuing state; callers must check.
func (c *Correlative) NextNumber(now time.Time) int64 {
	c.Refresh(now)

	if c.Status == CorrelativeStatusCreated {
		c.Status = CorrelativeStatusCurrent
		c.ActivatedAt = &now
		c.UpdatedAt = now
		c.AddDomainEvent(NewCorrelativeActivatedEvent(c))
	}
	if c.Status != CorrelativeStatusCurrent {
		return 0
	}

	c.CurrentNumber++
	c.UpdatedAt = now
	if c.CurrentNumber >= c.FinalNumber {
		c.Status = CorrelativeStatusUsedUp
		c.ClosedAt = &now
		c.AddDomainEvent(NewCorrelativeUsedUpEvent(c))
	}
	return c.CurrentNumber
}

// Remaining returns how many numbers the correlative can still issue
func (c *Correlative) Remaining() int64 {
	if c.Status != CorrelativeStatusCreated && c.Status != CorrelativeStatusCurrent {
		return 0
	}
	return c.FinalNumber - c.CurrentNumber
}

// Show returns a flat field-to-value map for presentation
func (c *Correlative) Show() map[string]string {
	return map[string]string{
		"serial":          c.Serial,
		"resolution":      c.Resolution,
		"status":          c.Status.String(),
		"range":           fmt.Sprintf("%d-%d", c.InitialNumber, c.FinalNumber),
		"current":         fmt.Sprintf("%d", c.CurrentNumber),
		"resolution_date": c.ResolutionDate.Format("02/01/2006"),
	}
}
