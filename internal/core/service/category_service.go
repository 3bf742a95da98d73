package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/moneytrail/wallet-api/internal/core/domain"
	"github.com/moneytrail/wallet-api/internal/core/ports"
)

type CategoryService struct {
	repo   ports.CategoryRepository
	txs    ports.TransactionRepository
	logger zerolog.Logger
}

func NewCategoryService(repo ports.CategoryRepository, txs ports.TransactionRepository, logger zerolog.Logger) *CategoryService {
	return &CategoryService{repo: repo, txs: txs, logger: logger}
}

func (s *CategoryService) Create(ctx context.Context, typ, color string) (*domain.Category, error) {
	typ, color = strings.TrimSpace(typ), strings.TrimSpace(color)
	if typ == "" || color == "" {
		return nil, domain.ErrMissingAttributes
	}

	c := &domain.Category{Type: typ, Color: color, CreatedAt: time.Now().UTC()}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, domain.ErrCategoryExists) {
			return nil, err
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.logger.Info().Str("type", typ).Msg("category created")
	return c, nil
}

// Update renames and recolors a category, moving its transactions along.
func (s *CategoryService) Update(ctx context.Context, oldType, newType, color string) (int64, error) {
	newType, color = strings.TrimSpace(newType), strings.TrimSpace(color)
	if oldType == "" || newType == "" || color == "" {
		return 0, domain.ErrMissingAttributes
	}

	current, err := s.repo.FindByType(ctx, oldType)
	if err != nil {
		return 0, err
	}

	if newType != oldType {
		_, err := s.repo.FindByType(ctx, newType)
		switch {
		case err == nil:
			return 0, domain.ErrCategoryExists
		case !errors.Is(err, domain.ErrCategoryNotFound):
			return 0, fmt.Errorf("update category: %w", err)
		}
	}

	current.Type = newType
	current.Color = color
	if err := s.repo.Update(ctx, oldType, current); err != nil {
		return 0, fmt.Errorf("update category: %w", err)
	}

	if newType == oldType {
		return 0, nil
	}
	count, err := s.txs.SetType(ctx, []string{oldType}, newType)
	if err != nil {
		return 0, fmt.Errorf("update category: move transactions: %w", err)
	}

	s.logger.Info().Str("from", oldType).Str("to", newType).Int64("transactions", count).Msg("category updated")
	return count, nil
}

// Delete removes the given categories and reassigns their transactions to
// the oldest remaining one. At least one category always survives: when every
// category is named, the oldest is kept.
func (s *CategoryService) Delete(ctx context.Context, types []string) (int64, error) {
	if len(types) == 0 {
		return 0, domain.ErrMissingAttributes
	}
	for _, t := range types {
		if strings.TrimSpace(t) == "" {
			return 0, domain.ErrMissingAttributes
		}
	}

	all, err := s.repo.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("delete categories: %w", err)
	}
	if len(all) <= 1 {
		return 0, domain.ErrLastCategory
	}

	known := make(map[string]bool, len(all))
	for _, c := range all {
		known[c.Type] = true
	}
	doomed := make(map[string]bool, len(types))
	for _, t := range types {
		if !known[t] {
			return 0, domain.ErrCategoryNotFound
		}
		doomed[t] = true
	}
	if len(doomed) == len(all) {
		delete(doomed, all[0].Type)
	}

	var target string
	remove := make([]string, 0, len(doomed))
	for _, c := range all {
		if doomed[c.Type] {
			remove = append(remove, c.Type)
		} else if target == "" {
			target = c.Type
		}
	}

	if _, err := s.repo.DeleteByTypes(ctx, remove); err != nil {
		return 0, fmt.Errorf("delete categories: %w", err)
	}
	count, err := s.txs.SetType(ctx, remove, target)
	if err != nil {
		return 0, fmt.Errorf("delete categories: move transactions: %w", err)
	}

	s.logger.Info().Strs("types", remove).Str("into", target).Int64("transactions", count).Msg("categories deleted")
	return count, nil
}

func (s *CategoryService) List(ctx context.Context) ([]*domain.Category, error) {
	return s.repo.List(ctx)
}
