package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/moneytrail/wallet-api/internal/core/domain"
	"github.com/moneytrail/wallet-api/internal/core/ports"
)

type sessionEventService struct {
	repo ports.SessionEventRepository
	log  zerolog.Logger
}

// NewSessionEventService returns a SessionEventService implementation.
func NewSessionEventService(repo ports.SessionEventRepository, log zerolog.Logger) ports.SessionEventService {
	return &sessionEventService{repo: repo, log: log}
}

// Process persists a single lifecycle event to the audit trail.
func (s *sessionEventService) Process(ctx context.Context, event domain.SessionEvent) error {
	if event.Username == "" || event.Kind == "" {
		return fmt.Errorf("process session event: %w", domain.ErrMissingAttributes)
	}

	if err := s.repo.InsertEvent(ctx, &event); err != nil {
		return fmt.Errorf("process session event: %w", err)
	}

	s.log.Debug().
		Str("username", event.Username).
		Str("kind", string(event.Kind)).
		Time("at", event.At).
		Msg("session event stored")

	return nil
}
