package ports

import (
	"context"

	"github.com/moneytrail/wallet-api/internal/core/domain"
)

// UserDeletion reports the cascade of an admin user deletion.
type UserDeletion struct {
	DeletedTransactions int64
	DeletedFromGroup    bool
}

type UserService interface {
	List(ctx context.Context) ([]*domain.User, error)
	Get(ctx context.Context, username string) (*domain.User, error)
	Delete(ctx context.Context, email string) (*UserDeletion, error)
}
