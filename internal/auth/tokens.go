// Package auth provides password hashing and JWT token issuance and validation.
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const (
	// ScopeAccess marks a token usable for authenticating API requests.
	ScopeAccess = "access_token"
	// ScopeRefresh marks a token usable only for minting a new token pair.
	ScopeRefresh = "refresh_token"

	issuer = "photoshare-api"

	// Email confirmation links stay valid for a week.
	emailTokenTTL = 7 * 24 * time.Hour
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrWrongScope   = errors.New("token has wrong scope")
)

// HashPassword hashes a plaintext password with bcrypt.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// VerifyPassword compares a plaintext password against a bcrypt hash.
func VerifyPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// TokenService issues and validates the application's JWT tokens.
// Tokens carry the user's email as subject and a scope claim that
// distinguishes access tokens from refresh tokens. Email confirmation
// tokens carry no scope claim at all.
type TokenService struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenService creates a TokenService with the given signing secret and TTLs.
func NewTokenService(secret string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *TokenService) issue(email, scope string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub": email,
		"iss": issuer,
		"iat": now.Unix(),
		"exp": now.Add(ttl).Unix(),
	}
	if scope != "" {
		claims["scope"] = scope
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// IssueAccessToken creates a short-lived access token for the given email.
func (s *TokenService) IssueAccessToken(email string) (string, error) {
	return s.issue(email, ScopeAccess, s.accessTTL)
}

// IssueRefreshToken creates a long-lived refresh token for the given email.
func (s *TokenService) IssueRefreshToken(email string) (string, error) {
	return s.issue(email, ScopeRefresh, s.refreshTTL)
}

// IssueEmailToken creates a confirmation token embedded in the signup email.
func (s *TokenService) IssueEmailToken(email string) (string, error) {
	return s.issue(email, "", emailTokenTTL)
}

func (s *TokenService) parse(tokenString string) (jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, ErrInvalidToken
	}
	if iss, issOk := claims["iss"].(string); !issOk || iss != issuer {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

// Validate parses the token, checks its scope claim against expectedScope,
// and returns the email carried in the subject. A structurally valid token
// with the wrong scope yields ErrWrongScope so callers can reject an access
// token presented where a refresh token is required (and vice versa).
func (s *TokenService) Validate(tokenString, expectedScope string) (string, error) {
	claims, err := s.parse(tokenString)
	if err != nil {
		return "", err
	}

	scope, _ := claims["scope"].(string)
	if scope != expectedScope {
		return "", ErrWrongScope
	}

	email, ok := claims["sub"].(string)
	if !ok || email == "" {
		return "", ErrInvalidToken
	}
	return email, nil
}

// EmailFromToken extracts the subject email from an email confirmation token.
// Confirmation tokens carry no scope claim; a scoped token is rejected here.
func (s *TokenService) EmailFromToken(tokenString string) (string, error) {
	return s.Validate(tokenString, "")
}
