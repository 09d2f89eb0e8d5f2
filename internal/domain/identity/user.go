package identity

import (
	"regexp"
	"strings"
	"time"

	"github.com/pos/backend/internal/domain/shared"
	"golang.org/x/crypto/bcrypt"
)

// UserStatus represents the status of a user account
type UserStatus string

const (
	UserStatusActive      UserStatus = "active"
	UserStatusLocked      UserStatus = "locked"
	UserStatusDeactivated UserStatus = "deactivated"
)

// UserRole is the store role a user account carries. Authorization in a
// single-store deployment is coarse: admins manage correlatives, registers
// and cancellations; cashiers sell.
type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleCashier UserRole = "cashier"
)

// IsValid checks if the role is a valid UserRole
func (r UserRole) IsValid() bool {
	switch r {
	case RoleAdmin, RoleCashier:
		return true
	}
	return false
}

// Password cost for bcrypt
const bcryptCost = 12

// User is a store employee account. Every document, reserve and cash
// mutation is attributed to the user that performed it.
type User struct {
	shared.BaseAggregateRoot
	Username       string     `gorm:"type:varchar(100);not null;uniqueIndex"`
	FullName       string     `gorm:"type:varchar(200)"`
	PasswordHash   string     `gorm:"type:varchar(100);not null"`
	Role           UserRole   `gorm:"type:varchar(20);not null"`
	Status         UserStatus `gorm:"type:varchar(20);not null"`
	LastLoginAt    *time.Time
	FailedAttempts int `gorm:"not null;default:0"`
	LockedUntil    *time.Time
}

// TableName returns the table name for GORM
func (User) TableName() string {
	return "users"
}

// NewUser creates a new active user account
func NewUser(username, password string, role UserRole) (*User, error) {
	if err := validateUsername(username); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	if !role.IsValid() {
		return nil, shared.NewValidationError("INVALID_ROLE", "Unknown role: "+string(role))
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		return nil, shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}

	return &User{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Username:          strings.ToLower(strings.TrimSpace(username)),
		PasswordHash:      passwordHash,
		Role:              role,
		Status:            UserStatusActive,
	}, nil
}

// SetFullName sets the user's full name
func (u *User) SetFullName(fullName string) error {
	if len(fullName) > 200 {
		return shared.NewValidationError("INVALID_NAME", "Full name cannot exceed 200 characters")
	}
	u.FullName = strings.TrimSpace(fullName)
	u.UpdatedAt = time.Now()
	return nil
}

// ChangePassword changes the user's password after verifying the current one
func (u *User) ChangePassword(oldPassword, newPassword string) error {
	if !u.VerifyPassword(oldPassword) {
		return shared.NewValidationError("INVALID_PASSWORD", "Current password is incorrect")
	}
	return u.SetPassword(newPassword)
}

// SetPassword sets a new password without an old-password check (admin reset)
func (u *User) SetPassword(newPassword string) error {
	if err := validatePassword(newPassword); err != nil {
		return err
	}
	passwordHash, err := hashPassword(newPassword)
	if err != nil {
		return shared.NewDomainError("PASSWORD_HASH_ERROR", "Failed to hash password")
	}
	u.PasswordHash = passwordHash
	u.UpdatedAt = time.Now()
	return nil
}

// VerifyPassword verifies if the provided password matches
func (u *User) VerifyPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password))
	return err == nil
}

// Deactivate deactivates the account
func (u *User) Deactivate() error {
	if u.Status == UserStatusDeactivated {
		return shared.NewValidationError("ALREADY_DEACTIVATED", "User is already deactivated")
	}
	u.Status = UserStatusDeactivated
	u.UpdatedAt = time.Now()
	return nil
}

// RecordLoginSuccess records a successful login
func (u *User) RecordLoginSuccess() {
	now := time.Now()
	u.LastLoginAt = &now
	u.FailedAttempts = 0
	u.UpdatedAt = now
}

// RecordLoginFailure records a failed attempt and locks the account once the
// limit is reached. Returns true if the account is now locked.
func (u *User) RecordLoginFailure(maxAttempts int, lockDuration time.Duration) bool {
	u.FailedAttempts++
	u.UpdatedAt = time.Now()

	if u.FailedAttempts >= maxAttempts {
		u.Status = UserStatusLocked
		if lockDuration > 0 {
			lockedUntil := time.Now().Add(lockDuration)
			u.LockedUntil = &lockedUntil
		}
		return true
	}
	return false
}

// Unlock unlocks a locked account
func (u *User) Unlock() error {
	if u.Status != UserStatusLocked {
		return shared.NewValidationError("NOT_LOCKED", "User is not locked")
	}
	u.Status = UserStatusActive
	u.FailedAttempts = 0
	u.LockedUntil = nil
	u.UpdatedAt = time.Now()
	return nil
}

// IsLocked returns true if the account is locked and the lock has not lapsed
func (u *User) IsLocked() bool {
	if u.Status != UserStatusLocked {
		return false
	}
	if u.LockedUntil != nil && time.Now().After(*u.LockedUntil) {
		return false
	}
	return true
}

// CanLogin returns true if the account can sign in
func (u *User) CanLogin() bool {
	return u.Status != UserStatusDeactivated && !u.IsLocked()
}

// IsAdmin returns true for store administrators
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func validateUsername(username string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return shared.NewFieldValidationError("INVALID_USERNAME", "Username cannot be empty", "username")
	}
	if len(username) < 3 {
		return shared.NewFieldValidationError("INVALID_USERNAME", "Username must be at least 3 characters", "username")
	}
	if len(username) > 100 {
		return shared.NewFieldValidationError("INVALID_USERNAME", "Username cannot exceed 100 characters", "username")
	}

	usernameRegex := regexp.MustCompile(`^[a-zA-Z0-9_\-.]+$`)
	if !usernameRegex.MatchString(username) {
		return shared.NewFieldValidationError("INVALID_USERNAME", "Username can only contain letters, numbers, underscores, hyphens, and dots", "username")
	}
	return nil
}

func validatePassword(password string) error {
	if password == "" {
		return shared.NewFieldValidationError("INVALID_PASSWORD", "Password cannot be empty", "password")
	}
	if len(password) < 8 {
		return shared.NewFieldValidationError("INVALID_PASSWORD", "Password must be at least 8 characters", "password")
	}
	if len(password) > 128 {
		return shared.NewFieldValidationError("INVALID_PASSWORD", "Password cannot exceed 128 characters", "password")
	}

	hasLetter := regexp.MustCompile(`[a-zA-Z]`).MatchString(password)
	hasNumber := regexp.MustCompile(`[0-9]`).MatchString(password)
	if !hasLetter || !hasNumber {
		return shared.NewFieldValidationError("INVALID_PASSWORD", "Password must contain at least one letter and one number", "password")
	}
	return nil
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
