package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/feedyapp/feedy-api/internal/core/domain"
	"github.com/feedyapp/feedy-api/internal/core/ports"
)

// maxPictureBytes caps profile picture uploads at 5 MiB.
const maxPictureBytes = 5 << 20

// UserService implements profile reads and updates.
type UserService struct {
	users    ports.UserRepository
	pictures ports.PictureStore
	log      zerolog.Logger
}

func NewUserService(users ports.UserRepository, pictures ports.PictureStore, log zerolog.Logger) *UserService {
	return &UserService{users: users, pictures: pictures, log: log}
}

func (s *UserService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.users.FindByUsername(ctx, strings.ToLower(username))
}

// UpdateProfile mutates the caller's own profile. A password change
// requires the current password; an email change must stay unique.
func (s *UserService) UpdateProfile(ctx context.Context, actor, username string, in ports.UpdateProfileInput) (*domain.User, error) {
	username = strings.ToLower(username)
	if actor != username {
		return nil, domain.ErrForbidden
	}

	current, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	upd := ports.UserUpdate{
		FullName:  in.FullName,
		Biography: in.Biography,
	}

	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if email == "" {
			return nil, domain.ErrValidation
		}
		if email != current.Email {
			if _, err := s.users.FindByEmail(ctx, email); err == nil {
				return nil, domain.ErrUserExists
			}
			upd.Email = &email
		}
	}

	if in.Password != "" {
		if len(in.Password) < minPasswordLen {
			return nil, domain.ErrValidation
		}
		if bcrypt.CompareHashAndPassword([]byte(current.PasswordHash), []byte(in.OldPassword)) != nil {
			return nil, domain.ErrInvalidCredentials
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		h := string(hash)
		upd.PasswordHash = &h
	}

	updated, err := s.users.Update(ctx, username, upd)
	if err != nil {
		return nil, err
	}
	s.log.Info().Str("username", username).Msg("profile updated")
	return updated, nil
}

// SetRole escalates or demotes a user. Guarded by the super-admin role
// at the route level.
func (s *UserService) SetRole(ctx context.Context, username string, role domain.Role) (*domain.User, error) {
	if !role.IsValid() {
		return nil, domain.ErrValidation
	}
	username = strings.ToLower(username)
	if err := s.users.SetRole(ctx, username, role); err != nil {
		return nil, err
	}
	s.log.Info().Str("username", username).Str("role", string(role)).Msg("role changed")
	return s.users.FindByUsername(ctx, username)
}

// SetProfilePicture replaces the caller's picture. Only images are
// accepted and the declared size is checked before reading the body.
func (s *UserService) SetProfilePicture(ctx context.Context, username, contentType string, size int64, r io.Reader) error {
	if !strings.HasPrefix(contentType, "image/") {
		return domain.ErrValidation
	}
	if size <= 0 || size > maxPictureBytes {
		return domain.ErrValidation
	}

	username = strings.ToLower(username)
	if err := s.pictures.Save(ctx, username, contentType, io.LimitReader(r, maxPictureBytes)); err != nil {
		return fmt.Errorf("save profile picture: %w", err)
	}
	s.log.Info().Str("username", username).Str("content_type", contentType).Msg("profile picture updated")
	return nil
}

// ProfilePicture streams a user's picture. The caller owns the returned
// reader and must close it.
func (s *UserService) ProfilePicture(ctx context.Context, username string) (io.ReadCloser, string, error) {
	username = strings.ToLower(username)
	if _, err := s.users.FindByUsername(ctx, username); err != nil {
		return nil, "", err
	}
	return s.pictures.Open(ctx, username)
}
