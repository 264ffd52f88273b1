package ports

import (
	"context"
	"time"

	"github.com/emiliopalmerini/codepulse/internal/domain"
)

// EventRepository defines the data access interface for lifecycle events.
// Insert is idempotent: replaying an already-recorded event is a silent
// no-op, enforced by the storage layer's unique constraint.
type EventRepository interface {
	Insert(ctx context.Context, event *domain.Event) error
	ListRange(ctx context.Context, from, to time.Time) ([]domain.Event, error)
	ListSince(ctx context.Context, since time.Time) ([]domain.Event, error)
	ListByProject(ctx context.Context, project string, since time.Time) ([]domain.Event, error)
}
