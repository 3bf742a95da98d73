package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/moneytrail/wallet-api/internal/core/domain"
)

type stubSessionEventRepo struct {
	insertErr error
	inserted  []*domain.SessionEvent
}

func (r *stubSessionEventRepo) InsertEvent(_ context.Context, e *domain.SessionEvent) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	r.inserted = append(r.inserted, e)
	return nil
}

func TestSessionEventProcess_Stores(t *testing.T) {
	repo := &stubSessionEventRepo{}
	svc := NewSessionEventService(repo, zerolog.Nop())
	at := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)

	err := svc.Process(context.Background(), domain.SessionEvent{Username: "dave", Kind: domain.SessionLoggedIn, At: at})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(repo.inserted) != 1 || repo.inserted[0].Kind != domain.SessionLoggedIn || !repo.inserted[0].At.Equal(at) {
		t.Fatalf("unexpected inserted events: %+v", repo.inserted)
	}
}

func TestSessionEventProcess_Errors(t *testing.T) {
	repo := &stubSessionEventRepo{insertErr: errors.New("mongo down")}
	svc := NewSessionEventService(repo, zerolog.Nop())

	if err := svc.Process(context.Background(), domain.SessionEvent{Kind: domain.SessionLoggedOut}); !errors.Is(err, domain.ErrMissingAttributes) {
		t.Fatalf("expected ErrMissingAttributes, got %v", err)
	}
	if err := svc.Process(context.Background(), domain.SessionEvent{Username: "dave", Kind: domain.SessionLoggedOut}); err == nil {
		t.Fatal("expected repository error to propagate")
	}
}
