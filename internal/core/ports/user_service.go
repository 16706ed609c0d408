package ports

import (
	"context"
	"io"

	"github.com/feedyapp/feedy-api/internal/core/domain"
)

// UpdateProfileInput carries the mutable profile fields; nil means
// unchanged. Setting Password requires a matching OldPassword.
type UpdateProfileInput struct {
	FullName    *string
	Email       *string
	Biography   *string
	OldPassword string
	Password    string
}

// UserService defines use-case operations for user profiles.
type UserService interface {
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	// UpdateProfile is allowed for the profile owner only.
	UpdateProfile(ctx context.Context, actor, username string, in UpdateProfileInput) (*domain.User, error)
	SetRole(ctx context.Context, username string, role domain.Role) (*domain.User, error)
	// SetProfilePicture replaces the caller's picture. size comes from the
	// request's Content-Length and is validated before any bytes are read.
	SetProfilePicture(ctx context.Context, username, contentType string, size int64, r io.Reader) error
	ProfilePicture(ctx context.Context, username string) (io.ReadCloser, string, error)
}
