package identity

import (
	"context"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user account persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByUsername finds a user by username
	FindByUsername(ctx context.Context, username string) (*User, error)

	// FindAll lists user accounts
	FindAll(ctx context.Context, filter shared.Filter) ([]User, error)

	// ExistsUsername checks whether a username is taken
	ExistsUsername(ctx context.Context, username string) (bool, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error
}
