package web

import (
	"context"
	"time"

	"github.com/emiliopalmerini/codepulse/internal/domain"
)

// MockEventRepository is a mock implementation of ports.EventRepository
// for testing.
type MockEventRepository struct {
	InsertFunc        func(ctx context.Context, event *domain.Event) error
	ListRangeFunc     func(ctx context.Context, from, to time.Time) ([]domain.Event, error)
	ListSinceFunc     func(ctx context.Context, since time.Time) ([]domain.Event, error)
	ListByProjectFunc func(ctx context.Context, project string, since time.Time) ([]domain.Event, error)
}

func (m *MockEventRepository) Insert(ctx context.Context, event *domain.Event) error {
	if m.InsertFunc != nil {
		return m.InsertFunc(ctx, event)
	}
	return nil
}

func (m *MockEventRepository) ListRange(ctx context.Context, from, to time.Time) ([]domain.Event, error) {
	if m.ListRangeFunc != nil {
		return m.ListRangeFunc(ctx, from, to)
	}
	return []domain.Event{}, nil
}

func (m *MockEventRepository) ListSince(ctx context.Context, since time.Time) ([]domain.Event, error) {
	if m.ListSinceFunc != nil {
		return m.ListSinceFunc(ctx, since)
	}
	return []domain.Event{}, nil
}

func (m *MockEventRepository) ListByProject(ctx context.Context, project string, since time.Time) ([]domain.Event, error) {
	if m.ListByProjectFunc != nil {
		return m.ListByProjectFunc(ctx, project, since)
	}
	return []domain.Event{}, nil
}
