package repositories

import (
	"context"

	"github.com/FxPeer/fx_marketplace_app/internal/core/domain"
)

// UserReader defines read access to the user read-model.
type UserReader interface {
	// FindUserByID retrieves a user by ID.
	FindUserByID(ctx context.Context, userID string) (*domain.User, error)
}

// UserWriter defines the single write the core performs on users:
// admin provisioning of vendor accounts.
type UserWriter interface {
	// SaveUser persists a new user.
	SaveUser(ctx context.Context, user domain.User) error
}

// UserRepositoryFacade combines all user-related repository interfaces
type UserRepositoryFacade interface {
	UserReader
	UserWriter
}
