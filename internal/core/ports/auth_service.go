package ports

import (
	"context"

	"github.com/moneytrail/wallet-api/internal/core/domain"
)

// RegisterInput carries the registration payload.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// LoginInput carries the login payload.
type LoginInput struct {
	Email    string
	Password string
}

// Session is the token pair issued at login.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *domain.User
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.User, error)
	RegisterAdmin(ctx context.Context, in RegisterInput) (*domain.User, error)
	Login(ctx context.Context, in LoginInput) (*Session, error)
	Logout(ctx context.Context, refreshToken string) error
}

// TokenRefresh is present on a gate result when the access token had expired
// and was re-issued from the refresh token. The transport must return
// AccessToken to the client and surface Message on the response body.
type TokenRefresh struct {
	AccessToken string
	Message     string
}

// GateResult is the outcome of a successful authentication.
type GateResult struct {
	Identity domain.Identity
	Refresh  *TokenRefresh
}

// Gate resolves the caller identity from the two session cookies.
type Gate interface {
	Authenticate(accessToken, refreshToken string) (*GateResult, error)
}

// PasswordHasher is the one-way hash primitive.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Compare(plaintext, hash string) bool
}
