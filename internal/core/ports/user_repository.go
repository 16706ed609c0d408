package ports

import (
	"context"

	"github.com/feedyapp/feedy-api/internal/core/domain"
)

// UserUpdate carries the mutable profile fields. Nil pointers leave the
// stored value untouched.
type UserUpdate struct {
	FullName     *string
	Email        *string
	Biography    *string
	PasswordHash *string
}

// UserRepository defines persistence operations for user accounts.
type UserRepository interface {
	// Create inserts a new user. Returns domain.ErrUserExists when the
	// username or email is already taken.
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, username string, upd UserUpdate) (*domain.User, error)
	SetVerified(ctx context.Context, username string) error
	SetPasswordHash(ctx context.Context, username, hash string) error
	SetRole(ctx context.Context, username string, role domain.Role) error
}
