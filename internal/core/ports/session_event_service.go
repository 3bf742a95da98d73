package ports

import (
	"context"

	"github.com/moneytrail/wallet-api/internal/core/domain"
)

// SessionRecorder accepts lifecycle events without blocking the caller on I/O.
type SessionRecorder interface {
	Record(event domain.SessionEvent)
}

// SessionEventService processes a single recorded event.
type SessionEventService interface {
	Process(ctx context.Context, event domain.SessionEvent) error
}
