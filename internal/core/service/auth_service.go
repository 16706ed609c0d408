package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/feedyapp/feedy-api/internal/core/domain"
	"github.com/feedyapp/feedy-api/internal/core/ports"
)

const (
	verificationTTL = 24 * time.Hour
	recoveryTTL     = time.Hour
	minPasswordLen  = 6
)

// AuthService implements account lifecycle and session operations.
type AuthService struct {
	users   ports.UserRepository
	tokens  ports.TokenService
	oneTime ports.OneTimeTokenStore
	mail    ports.MailEnqueuer
	baseURL string
	log     zerolog.Logger
}

func NewAuthService(
	users ports.UserRepository,
	tokens ports.TokenService,
	oneTime ports.OneTimeTokenStore,
	mail ports.MailEnqueuer,
	baseURL string,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:   users,
		tokens:  tokens,
		oneTime: oneTime,
		mail:    mail,
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}
}

// SignUp creates a pending-verification account and queues the
// verification mail. Username and email must be unused.
func (s *AuthService) SignUp(ctx context.Context, in ports.SignUpInput) (*domain.User, error) {
	in.Username = strings.ToLower(strings.TrimSpace(in.Username))
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Username == "" || in.Email == "" || len(in.Password) < minPasswordLen {
		return nil, domain.ErrValidation
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &domain.User{
		FullName:     strings.TrimSpace(in.FullName),
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		Role:         domain.RoleUser,
		Verified:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.users.Create(ctx, user)
	if err != nil {
		return nil, err
	}

	token := uuid.NewString()
	if err := s.oneTime.Save(ctx, ports.TokenPurposeVerify, token, created.Username, verificationTTL); err != nil {
		s.log.Error().Err(err).Str("username", created.Username).Msg("failed to store verification token")
		return nil, fmt.Errorf("store verification token: %w", err)
	}

	s.mail.Enqueue(ports.MailMessage{
		To:      created.Email,
		Subject: "Verify your account",
		Body: fmt.Sprintf("Hi %s,\n\nWelcome aboard. Verify your account by opening:\n%s/v1/auth/account-verification?token=%s\n\nThe link expires in 24 hours.",
			created.Username, s.baseURL, token),
	})

	s.log.Info().Str("username", created.Username).Msg("account created, verification pending")
	return created, nil
}

// ValidateUser checks credentials against a username or an email address.
func (s *AuthService) ValidateUser(ctx context.Context, usernameOrEmail, password string) (*domain.User, error) {
	key := strings.ToLower(strings.TrimSpace(usernameOrEmail))
	if key == "" || password == "" {
		return nil, domain.ErrInvalidCredentials
	}

	var (
		user *domain.User
		err  error
	)
	if strings.Contains(key, "@") {
		user, err = s.users.FindByEmail(ctx, key)
	} else {
		user, err = s.users.FindByUsername(ctx, key)
	}
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrInvalidCredentials
		}
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, domain.ErrInvalidCredentials
	}
	return user, nil
}

// SignIn issues a token for a validated user. Unverified accounts are
// rejected until the verification link is followed.
func (s *AuthService) SignIn(ctx context.Context, user *domain.User) (*ports.SignInResult, error) {
	if !user.Verified {
		return nil, domain.ErrAccountNotVerified
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	s.log.Info().Str("username", user.Username).Msg("signed in")
	return &ports.SignInResult{Token: token, User: user}, nil
}

// SignOut revokes the presented token. Idempotent: revoking an invalid
// or already-revoked token succeeds silently.
func (s *AuthService) SignOut(ctx context.Context, token string) error {
	return s.tokens.Invalidate(ctx, token)
}

// AccountRecovery handles both recovery phases. With only Email set it
// issues a recovery token and queues the mail; with Token and NewPassword
// set it consumes the token and replaces the password hash.
func (s *AuthService) AccountRecovery(ctx context.Context, in ports.RecoveryInput) error {
	if in.Token != "" {
		return s.completeRecovery(ctx, in.Token, in.NewPassword)
	}

	email := strings.ToLower(strings.TrimSpace(in.Email))
	if email == "" {
		return domain.ErrValidation
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	token := uuid.NewString()
	if err := s.oneTime.Save(ctx, ports.TokenPurposeRecover, token, user.Username, recoveryTTL); err != nil {
		return fmt.Errorf("store recovery token: %w", err)
	}

	s.mail.Enqueue(ports.MailMessage{
		To:      user.Email,
		Subject: "Password recovery",
		Body: fmt.Sprintf("Hi %s,\n\nA password reset was requested for your account. Use this token within one hour:\n%s\n\nIf you did not request this, ignore this message.",
			user.Username, token),
	})

	s.log.Info().Str("username", user.Username).Msg("recovery token issued")
	return nil
}

func (s *AuthService) completeRecovery(ctx context.Context, token, newPassword string) error {
	if len(newPassword) < minPasswordLen {
		return domain.ErrValidation
	}

	username, err := s.oneTime.Consume(ctx, ports.TokenPurposeRecover, token)
	if err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.SetPasswordHash(ctx, username, string(hash)); err != nil {
		return err
	}

	s.log.Info().Str("username", username).Msg("password reset completed")
	return nil
}

// AccountVerification consumes a verification token and marks the
// account verified.
func (s *AuthService) AccountVerification(ctx context.Context, token string) error {
	if token == "" {
		return domain.ErrInvalidToken
	}

	username, err := s.oneTime.Consume(ctx, ports.TokenPurposeVerify, token)
	if err != nil {
		return err
	}
	if err := s.users.SetVerified(ctx, username); err != nil {
		return err
	}

	s.log.Info().Str("username", username).Msg("account verified")
	return nil
}

// Me returns the profile of the authenticated caller.
func (s *AuthService) Me(ctx context.Context, username string) (*domain.User, error) {
	return s.users.FindByUsername(ctx, username)
}
