package ports

import (
	"context"

	"github.com/moneytrail/wallet-api/internal/core/domain"
)

// GroupRepository defines persistence operations for groups.
type GroupRepository interface {
	// Create returns domain.ErrGroupExists on a duplicate name.
	Create(ctx context.Context, g *domain.Group) error
	FindByName(ctx context.Context, name string) (*domain.Group, error)
	// FindByMemberEmails returns every group containing any of emails.
	FindByMemberEmails(ctx context.Context, emails []string) ([]*domain.Group, error)
	List(ctx context.Context) ([]*domain.Group, error)
	SetMembers(ctx context.Context, name string, members []domain.Member) error
	// PullMember removes email from every group and reports whether any matched.
	PullMember(ctx context.Context, email string) (bool, error)
	DeleteByName(ctx context.Context, name string) (int64, error)
	DeleteEmpty(ctx context.Context) (int64, error)
}

// GroupChange reports the effect of a membership operation.
type GroupChange struct {
	Group           *domain.Group
	AlreadyInGroup  []string
	MembersNotFound []string
	NotInGroup      []string
}

type GroupService interface {
	Create(ctx context.Context, creator domain.Identity, name string, emails []string) (*GroupChange, error)
	List(ctx context.Context) ([]*domain.Group, error)
	// Find returns domain.ErrGroupNotFound when no group has the name.
	Find(ctx context.Context, name string) (*domain.Group, error)
	Add(ctx context.Context, group *domain.Group, emails []string) (*GroupChange, error)
	Remove(ctx context.Context, group *domain.Group, emails []string) (*GroupChange, error)
	Delete(ctx context.Context, name string) error
}
