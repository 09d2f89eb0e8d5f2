package identity

import (
	"context"
	"strings"

	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// In-memory user repository backing the service tests. Copies go in and out
// so mutating a returned aggregate never leaks into the store before Save.
type memUserRepository struct {
	order []uuid.UUID
	users map[uuid.UUID]*identity.User
}

func newMemUserRepository() *memUserRepository {
	return &memUserRepository{users: make(map[uuid.UUID]*identity.User)}
}

func (r *memUserRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.User, error) {
	user, ok := r.users[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	copied := *user
	return &copied, nil
}

func (r *memUserRepository) FindByUsername(ctx context.Context, username string) (*identity.User, error) {
	username = strings.ToLower(username)
	for _, id := range r.order {
		if r.users[id].Username == username {
			copied := *r.users[id]
			return &copied, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memUserRepository) FindAll(ctx context.Context, filter shared.Filter) ([]identity.User, error) {
	out := make([]identity.User, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.users[id])
	}
	return out, nil
}

func (r *memUserRepository) ExistsUsername(ctx context.Context, username string) (bool, error) {
	_, err := r.FindByUsername(ctx, username)
	if err == nil {
		return true, nil
	}
	return false, nil
}

func (r *memUserRepository) Save(ctx context.Context, user *identity.User) error {
	if _, ok := r.users[user.ID]; !ok {
		r.order = append(r.order, user.ID)
	}
	copied := *user
	r.users[user.ID] = &copied
	return nil
}
