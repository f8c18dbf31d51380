package memory

import (
	"context"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/postpilot-app/postpilot/pkg/domain/interfaces"
	"github.com/postpilot-app/postpilot/pkg/domain/model"
	"github.com/postpilot-app/postpilot/pkg/domain/types"
)

type userRepository struct {
	mu    sync.RWMutex
	users map[types.UserID]*model.User
}

var _ interfaces.UserRepository = &userRepository{}

func newUserRepository() *userRepository {
	return &userRepository{
		users: make(map[types.UserID]*model.User),
	}
}

// clone copies the stored record so callers never share memory with the store
func clone(u *model.User) *model.User {
	c := *u
	return &c
}

func (r *userRepository) Get(ctx context.Context, id types.UserID) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[id]
	if !ok {
		return nil, goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
	}
	return clone(user), nil
}

func (r *userRepository) Put(ctx context.Context, user *model.User) error {
	if err := user.ID.Validate(); err != nil {
		return goerr.Wrap(err, "invalid user ID")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.users[user.ID] = clone(user)
	return nil
}

func (r *userRepository) Delete(ctx context.Context, id types.UserID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[id]; !ok {
		return goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
	}
	delete(r.users, id)
	return nil
}

func (r *userRepository) ListAutoPosting(ctx context.Context) ([]*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var users []*model.User
	for _, user := range r.users {
		if user.AutoPosting {
			users = append(users, clone(user))
		}
	}
	return users, nil
}

func (r *userRepository) UpdateLastPostedSlot(ctx context.Context, id types.UserID, slot string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return goerr.Wrap(ErrNotFound, "user not found", goerr.V("id", id))
	}
	user.LastPostedSlot = slot
	user.UpdatedAt = time.Now().UTC()
	return nil
}
