package identity

import (
	"context"

	"github.com/Patrickscodegit/Beconnect-sub010/internal/domain/shared"
	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by (lower-cased) email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// FindAll returns users with pagination, optionally narrowed to a role
	FindAll(ctx context.Context, filter shared.Filter, role Role) ([]User, int64, error)

	// Save creates or updates a user
	Save(ctx context.Context, user *User) error

	// ExistsByEmail checks if an email is already registered
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
