package assistant

import (
	"context"

	"github.com/ignite/trello-agent/internal/domain"
	"github.com/ignite/trello-agent/internal/resolve"
	"github.com/ignite/trello-agent/internal/trello"
)

// TrelloAPI is the Trello surface the service drives. *trello.Client
// satisfies it.
type TrelloAPI interface {
	resolve.TrelloReader
	CheckItemUpdater

	CreateList(ctx context.Context, boardID, name string) (*domain.List, error)
	CreateCard(ctx context.Context, p trello.CreateCardParams) (*domain.Card, error)
	ListCardChecklists(ctx context.Context, cardID string) ([]domain.Checklist, error)
	CreateChecklist(ctx context.Context, cardID, name string) (*domain.Checklist, error)
	AddCheckItem(ctx context.Context, checklistID, name string) (*domain.CheckItem, error)
}

// CheckItemUpdater changes the state of a single check item.
type CheckItemUpdater interface {
	SetCheckItemState(ctx context.Context, cardID, itemID string, state domain.CheckItemState) error
}

// ActivityLog stores the mutations performed through the service.
type ActivityLog interface {
	// Record appends an event. Implementations may cap the stored history.
	Record(ctx context.Context, ev *domain.ActivityEvent) error

	// Recent returns up to limit events, newest first.
	Recent(ctx context.Context, limit int) ([]domain.ActivityEvent, error)

	// Ping checks that the backing store is reachable.
	Ping(ctx context.Context) error
}

// NopActivityLog discards every event.
type NopActivityLog struct{}

func (NopActivityLog) Record(context.Context, *domain.ActivityEvent) error { return nil }

func (NopActivityLog) Recent(context.Context, int) ([]domain.ActivityEvent, error) {
	return []domain.ActivityEvent{}, nil
}

func (NopActivityLog) Ping(context.Context) error { return nil }
