package ports

import (
	"context"

	"github.com/moneytrail/wallet-api/internal/core/domain"
)

// CategoryRepository defines persistence operations for categories.
type CategoryRepository interface {
	// Create returns domain.ErrCategoryExists on a duplicate type.
	Create(ctx context.Context, c *domain.Category) error
	FindByType(ctx context.Context, typ string) (*domain.Category, error)
	// List returns every category, oldest first.
	List(ctx context.Context) ([]*domain.Category, error)
	Update(ctx context.Context, oldType string, c *domain.Category) error
	DeleteByTypes(ctx context.Context, types []string) (int64, error)
}

type CategoryService interface {
	Create(ctx context.Context, typ, color string) (*domain.Category, error)
	// Update returns the number of transactions moved to the new type.
	Update(ctx context.Context, oldType, newType, color string) (int64, error)
	// Delete returns the number of transactions reassigned.
	Delete(ctx context.Context, types []string) (int64, error)
	List(ctx context.Context) ([]*domain.Category, error)
}
