package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/moneytrail/wallet-api/internal/core/domain"
	"github.com/moneytrail/wallet-api/internal/core/ports"
)

type UserService struct {
	users  ports.UserRepository
	txs    ports.TransactionRepository
	groups ports.GroupRepository
	logger zerolog.Logger
}

func NewUserService(users ports.UserRepository, txs ports.TransactionRepository, groups ports.GroupRepository, logger zerolog.Logger) *UserService {
	return &UserService{users: users, txs: txs, groups: groups, logger: logger}
}

func (s *UserService) List(ctx context.Context) ([]*domain.User, error) {
	return s.users.List(ctx)
}

func (s *UserService) Get(ctx context.Context, username string) (*domain.User, error) {
	return s.users.FindByUsername(ctx, username)
}

// Delete removes a regular user together with their transactions and group
// membership. A group left without members is deleted as well.
func (s *UserService) Delete(ctx context.Context, email string) (*ports.UserDeletion, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, domain.ErrMissingAttributes
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user.Role == domain.RoleAdmin {
		return nil, domain.ErrAdminNotDeletable
	}

	deleted, err := s.txs.DeleteByUsername(ctx, user.Username)
	if err != nil {
		return nil, fmt.Errorf("delete user: transactions: %w", err)
	}

	pulled, err := s.groups.PullMember(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("delete user: groups: %w", err)
	}
	if pulled {
		if _, err := s.groups.DeleteEmpty(ctx); err != nil {
			return nil, fmt.Errorf("delete user: groups: %w", err)
		}
	}

	if _, err := s.users.DeleteByEmail(ctx, email); err != nil {
		return nil, fmt.Errorf("delete user: %w", err)
	}

	s.logger.Info().
		Str("username", user.Username).
		Int64("transactions", deleted).
		Bool("from_group", pulled).
		Msg("user deleted")

	return &ports.UserDeletion{DeletedTransactions: deleted, DeletedFromGroup: pulled}, nil
}
