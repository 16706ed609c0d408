package ports

import (
	"context"

	"github.com/feedyapp/feedy-api/internal/core/domain"
)

// SignUpInput carries the fields of a new account request.
type SignUpInput struct {
	FullName string
	Username string
	Email    string
	Password string
}

// RecoveryInput drives the two-phase password recovery flow: the first
// call carries only Email, the second carries Token and NewPassword.
type RecoveryInput struct {
	Email       string
	Token       string
	NewPassword string
}

// SignInResult is returned on successful sign-in.
type SignInResult struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// AuthService orchestrates account lifecycle and session operations.
type AuthService interface {
	SignUp(ctx context.Context, in SignUpInput) (*domain.User, error)
	// ValidateUser checks credentials against a username or email.
	ValidateUser(ctx context.Context, usernameOrEmail, password string) (*domain.User, error)
	SignIn(ctx context.Context, user *domain.User) (*SignInResult, error)
	SignOut(ctx context.Context, token string) error
	AccountRecovery(ctx context.Context, in RecoveryInput) error
	AccountVerification(ctx context.Context, token string) error
	Me(ctx context.Context, username string) (*domain.User, error)
}
