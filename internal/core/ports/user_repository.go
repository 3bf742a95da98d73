package ports

import (
	"context"

	"github.com/moneytrail/wallet-api/internal/core/domain"
)

// CredentialStore is everything the account lifecycle needs from persistence.
// Lookups return domain.ErrUserNotFound when nothing matches.
type CredentialStore interface {
	FindByUsername(ctx context.Context, username string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	// FindByUsernameOrEmail backs the registration uniqueness check.
	FindByUsernameOrEmail(ctx context.Context, username, email string) (*domain.User, error)
	FindByRefreshToken(ctx context.Context, token string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
	// UpdateRefreshToken overwrites the stored token; "" clears the session.
	UpdateRefreshToken(ctx context.Context, userID, token string) error
}

// UserRepository extends the credential store with admin-side user management.
type UserRepository interface {
	CredentialStore
	List(ctx context.Context) ([]*domain.User, error)
	FindByEmails(ctx context.Context, emails []string) ([]*domain.User, error)
	DeleteByEmail(ctx context.Context, email string) (int64, error)
}
