// Package service contains the application's business logic.
package service

import (
	"context"
	"log/slog"

	"photoshare/internal/auth"
	"photoshare/internal/mail"
	"photoshare/internal/middleware"
	"photoshare/internal/models"
	"photoshare/internal/repository"
	"photoshare/internal/validation"
)

// TokenPair is the access/refresh token pair returned by login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
}

// AuthService implements signup, login, token refresh, and email confirmation.
type AuthService struct {
	users  repository.UserRepository
	tokens *auth.TokenService
	mailer mail.Sender
	host   string
}

type SignupInput struct {
	Username string
	Email    string
	Password string
}

// NewAuthService creates an AuthService. host is the public base URL used in
// confirmation links.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenService, mailer mail.Sender, host string) *AuthService {
	return &AuthService{
		users:  users,
		tokens: tokens,
		mailer: mailer,
		host:   host,
	}
}

// Signup registers a new account. The very first account in the database
// becomes the bootstrap admin; everyone after that starts as a plain user.
func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, models.NewValidationError(err.Error())
	}

	count, err := s.users.Count(ctx)
	if err != nil {
		return nil, err
	}
	role := models.RoleUser
	if count == 0 {
		role = models.RoleAdmin
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
		Role:     role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	s.sendConfirmation(ctx, user)
	return user, nil
}

// sendConfirmation mails the confirmation link. Delivery failure is logged
// but never fails the signup; the user can request a new email later.
func (s *AuthService) sendConfirmation(ctx context.Context, user *models.User) {
	token, err := s.tokens.IssueEmailToken(user.Email)
	if err != nil {
		middleware.Logger.ErrorContext(ctx, "Failed to issue confirmation token",
			slog.String("email", user.Email),
			slog.String("error", err.Error()),
		)
		return
	}
	if err := s.mailer.SendConfirmation(ctx, user.Email, user.Username, s.host, token); err != nil {
		middleware.Logger.WarnContext(ctx, "Confirmation email not delivered",
			slog.String("email", user.Email),
		)
	}
}

// Login checks credentials and returns a fresh token pair. The refresh token
// is persisted on the account so Refresh can verify it was not superseded.
func (s *AuthService) Login(ctx context.Context, email, password string) (*TokenPair, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthenticatedError("Invalid email")
	}
	if !user.Confirmed {
		return nil, models.NewUnauthenticatedError("Email not confirmed")
	}
	if !user.IsActive {
		return nil, models.NewPermissionDeniedError("Account is banned")
	}
	if !auth.VerifyPassword(password, user.Password) {
		return nil, models.NewUnauthenticatedError("Invalid password")
	}

	return s.issuePair(ctx, user)
}

func (s *AuthService) issuePair(ctx context.Context, user *models.User) (*TokenPair, error) {
	access, err := s.tokens.IssueAccessToken(user.Email)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	refresh, err := s.tokens.IssueRefreshToken(user.Email)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user.RefreshToken = &refresh
	if err := s.users.Update(ctx, user); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		TokenType:    "bearer",
	}, nil
}

// Refresh exchanges a valid refresh token for a new pair. Presenting a token
// that is valid but no longer the stored one revokes the stored token too,
// since it means the token leaked or an older session is replaying.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	email, err := s.tokens.Validate(refreshToken, auth.ScopeRefresh)
	if err != nil {
		return nil, models.NewUnauthenticatedError("Could not validate credentials")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, models.NewUnauthenticatedError("Could not validate credentials")
	}

	if user.RefreshToken == nil || *user.RefreshToken != refreshToken {
		user.RefreshToken = nil
		if err := s.users.Update(ctx, user); err != nil {
			return nil, err
		}
		return nil, models.NewUnauthenticatedError("Invalid refresh token")
	}

	return s.issuePair(ctx, user)
}

// Logout revokes the stored refresh token. The access token stays valid
// until its short TTL runs out.
func (s *AuthService) Logout(ctx context.Context, actor *models.User) error {
	actor.RefreshToken = nil
	return s.users.Update(ctx, actor)
}

// ConfirmEmail marks the account confirmed. Returns true when the account
// was already confirmed, so the handler can phrase the response accordingly.
func (s *AuthService) ConfirmEmail(ctx context.Context, token string) (alreadyConfirmed bool, err error) {
	email, err := s.tokens.EmailFromToken(token)
	if err != nil {
		return false, models.NewValidationError("Verification error")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return false, err
	}
	if user == nil {
		return false, models.NewValidationError("Verification error")
	}
	if user.Confirmed {
		return true, nil
	}

	user.Confirmed = true
	if err := s.users.Update(ctx, user); err != nil {
		return false, err
	}
	return false, nil
}

// RequestConfirmationEmail re-sends the confirmation email. The response is
// identical whether or not the address exists, to avoid account enumeration.
func (s *AuthService) RequestConfirmationEmail(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil || user.Confirmed {
		return nil
	}
	s.sendConfirmation(ctx, user)
	return nil
}
