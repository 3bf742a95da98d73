package ports

import (
	"context"
	"time"

	"github.com/moneytrail/wallet-api/internal/core/domain"
)

// TransactionFilter carries the repository query. Zero values mean no filter.
type TransactionFilter struct {
	Usernames []string  // empty = every user
	Type      string    // optional: category type
	DateFrom  time.Time // optional: date >= DateFrom
	DateTo    time.Time // optional: date <= DateTo
	MinAmount *float64
	MaxAmount *float64
}

// TransactionRepository defines persistence operations for transactions.
type TransactionRepository interface {
	Create(ctx context.Context, t *domain.Transaction) error
	FindByID(ctx context.Context, id string) (*domain.Transaction, error)
	FindByIDs(ctx context.Context, ids []string) ([]*domain.Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]*domain.Transaction, error)
	// SetType moves every transaction whose type is in from to the type to.
	SetType(ctx context.Context, from []string, to string) (int64, error)
	DeleteOwned(ctx context.Context, id, username string) (int64, error)
	DeleteByIDs(ctx context.Context, ids []string) (int64, error)
	DeleteByUsername(ctx context.Context, username string) (int64, error)
}

// IdempotencyStore remembers which transaction an Idempotency-Key produced.
type IdempotencyStore interface {
	Lookup(ctx context.Context, username, key string) (string, bool, error)
	Remember(ctx context.Context, username, key, transactionID string) error
}

// CreateTransactionInput is the DTO passed from the transport layer.
type CreateTransactionInput struct {
	RouteUsername  string
	Username       string
	Type           string
	Amount         string
	IdempotencyKey string
}

// TransactionQuery holds the raw date and amount query parameters.
type TransactionQuery struct {
	Date string
	From string
	UpTo string
	Min  string
	Max  string
}

type TransactionService interface {
	Create(ctx context.Context, in CreateTransactionInput) (*domain.Transaction, error)
	ListAll(ctx context.Context) ([]*domain.Transaction, error)
	ListByUser(ctx context.Context, username string, q TransactionQuery) ([]*domain.Transaction, error)
	ListByUserCategory(ctx context.Context, username, category string) ([]*domain.Transaction, error)
	ListByGroup(ctx context.Context, group *domain.Group, category string) ([]*domain.Transaction, error)
	Delete(ctx context.Context, username, id string) error
	DeleteMany(ctx context.Context, ids []string) error
}
