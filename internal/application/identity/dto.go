package identity

import (
	"time"

	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/infrastructure/auth"
	"github.com/google/uuid"
)

// LoginInput contains credentials for authentication
type LoginInput struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// LoginResult contains the authenticated user and their tokens
type LoginResult struct {
	User      *UserResponse   `json:"user"`
	TokenPair *auth.TokenPair `json:"tokens"`
}

// ChangePasswordInput changes the authenticated user's password
type ChangePasswordInput struct {
	UserID      uuid.UUID `json:"-"`
	OldPassword string    `json:"old_password" validate:"required"`
	NewPassword string    `json:"new_password" validate:"required"`
}

// CreateUserInput registers a new user account
type CreateUserInput struct {
	Username string            `json:"username" validate:"required"`
	Password string            `json:"password" validate:"required"`
	FullName string            `json:"full_name,omitempty"`
	Role     identity.UserRole `json:"role" validate:"required"`
}

// UserResponse is the API representation of a user
type UserResponse struct {
	ID          uuid.UUID  `json:"id"`
	Username    string     `json:"username"`
	FullName    string     `json:"full_name,omitempty"`
	Role        string     `json:"role"`
	Status      string     `json:"status"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// ToUserResponse converts a user to its API representation
func ToUserResponse(user *identity.User) *UserResponse {
	return &UserResponse{
		ID:          user.ID,
		Username:    user.Username,
		FullName:    user.FullName,
		Role:        string(user.Role),
		Status:      string(user.Status),
		LastLoginAt: user.LastLoginAt,
		CreatedAt:   user.CreatedAt,
	}
}
