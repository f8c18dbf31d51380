package interfaces

import (
	"context"

	"github.com/postpilot-app/postpilot/pkg/domain/model"
	"github.com/postpilot-app/postpilot/pkg/domain/types"
)

// UserRepository defines persistence operations for users
type UserRepository interface {
	// Get retrieves a user by ID
	Get(ctx context.Context, id types.UserID) (*model.User, error)

	// Put creates or replaces a user record
	Put(ctx context.Context, user *model.User) error

	// Delete removes a user record
	Delete(ctx context.Context, id types.UserID) error

	// ListAutoPosting returns all users with the automation switch enabled.
	// The result is a read-only snapshot taken at tick start.
	ListAutoPosting(ctx context.Context) ([]*model.User, error)

	// UpdateLastPostedSlot records the slot key of the latest successful
	// scheduled publish without touching any other field.
	UpdateLastPostedSlot(ctx context.Context, id types.UserID, slot string) error
}
