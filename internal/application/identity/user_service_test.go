package identity

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestUserService(t *testing.T) (*UserService, *memUserRepository) {
	t.Helper()
	repo := newMemUserRepository()
	return NewUserService(repo, zap.NewNop()), repo
}

func validationCode(t *testing.T, err error) string {
	t.Helper()
	var validationErr *shared.ValidationError
	require.True(t, errors.As(err, &validationErr), "expected a validation error, got %v", err)
	return validationErr.Code
}

func TestUserService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates an active user", func(t *testing.T) {
		svc, repo := newTestUserService(t)

		resp, err := svc.Create(ctx, CreateUserInput{
			Username: "Cashier1",
			Password: "password1",
			FullName: "First Cashier",
			Role:     identity.RoleCashier,
		})

		require.NoError(t, err)
		assert.Equal(t, "cashier1", resp.Username)
		assert.Equal(t, "cashier", resp.Role)
		assert.Equal(t, "active", resp.Status)
		assert.Equal(t, "First Cashier", resp.FullName)

		stored, err := repo.FindByID(ctx, resp.ID)
		require.NoError(t, err)
		assert.True(t, stored.VerifyPassword("password1"))
	})

	t.Run("rejects a taken username", func(t *testing.T) {
		svc, repo := newTestUserService(t)
		seedUser(t, repo, "cashier1", "password1", identity.RoleCashier)

		_, err := svc.Create(ctx, CreateUserInput{
			Username: "cashier1",
			Password: "password2",
			Role:     identity.RoleCashier,
		})

		assert.Equal(t, "USERNAME_TAKEN", validationCode(t, err))
	})

	t.Run("rejects a weak password", func(t *testing.T) {
		svc, _ := newTestUserService(t)

		_, err := svc.Create(ctx, CreateUserInput{
			Username: "cashier1",
			Password: "short",
			Role:     identity.RoleCashier,
		})

		assert.Equal(t, "INVALID_PASSWORD", validationCode(t, err))
	})

	t.Run("rejects an unknown role", func(t *testing.T) {
		svc, _ := newTestUserService(t)

		_, err := svc.Create(ctx, CreateUserInput{
			Username: "cashier1",
			Password: "password1",
			Role:     identity.UserRole("manager"),
		})

		assert.Equal(t, "INVALID_ROLE", validationCode(t, err))
	})
}

func TestUserService_List(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestUserService(t)
	seedUser(t, repo, "admin1", "password1", identity.RoleAdmin)
	seedUser(t, repo, "cashier1", "password1", identity.RoleCashier)

	users, err := svc.List(ctx)

	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "admin1", users[0].Username)
	assert.Equal(t, "cashier1", users[1].Username)
}

func TestUserService_ResetPassword(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestUserService(t)
	user := seedUser(t, repo, "cashier1", "password1", identity.RoleCashier)

	err := svc.ResetPassword(ctx, user.ID, "password9")

	require.NoError(t, err)
	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, stored.VerifyPassword("password9"))
}

func TestUserService_Unlock(t *testing.T) {
	ctx := context.Background()

	t.Run("unlocks a locked account", func(t *testing.T) {
		svc, repo := newTestUserService(t)
		user := seedUser(t, repo, "cashier1", "password1", identity.RoleCashier)
		user.RecordLoginFailure(1, 15*time.Minute)
		require.NoError(t, repo.Save(ctx, user))

		err := svc.Unlock(ctx, user.ID)

		require.NoError(t, err)
		stored, err := repo.FindByID(ctx, user.ID)
		require.NoError(t, err)
		assert.True(t, stored.CanLogin())
		assert.Zero(t, stored.FailedAttempts)
	})

	t.Run("fails for an account that is not locked", func(t *testing.T) {
		svc, repo := newTestUserService(t)
		user := seedUser(t, repo, "cashier1", "password1", identity.RoleCashier)

		err := svc.Unlock(ctx, user.ID)

		assert.Equal(t, "NOT_LOCKED", validationCode(t, err))
	})
}

func TestUserService_Deactivate(t *testing.T) {
	ctx := context.Background()
	svc, repo := newTestUserService(t)
	user := seedUser(t, repo, "cashier1", "password1", identity.RoleCashier)

	require.NoError(t, svc.Deactivate(ctx, user.ID))

	stored, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.False(t, stored.CanLogin())

	// A second deactivation is rejected.
	err = svc.Deactivate(ctx, user.ID)
	assert.Equal(t, "ALREADY_DEACTIVATED", validationCode(t, err))
}
