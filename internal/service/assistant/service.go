package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ignite/trello-agent/internal/domain"
	"github.com/ignite/trello-agent/internal/normalize"
	"github.com/ignite/trello-agent/internal/pkg/logger"
	"github.com/ignite/trello-agent/internal/resolve"
	"github.com/ignite/trello-agent/internal/trello"
)

// DefaultChecklistName is used when a card has no checklist to add items to.
const DefaultChecklistName = "Checklist"

// Service performs board operations on behalf of a caller. It is safe for
// concurrent use and holds no per-request state.
type Service struct {
	api      TrelloAPI
	resolver *resolve.Resolver
	defaults Defaults
	activity ActivityLog
	now      func() time.Time
}

// NewService creates an assistant service. A nil activity log records nothing.
func NewService(api TrelloAPI, defaults Defaults, activity ActivityLog) *Service {
	if activity == nil {
		activity = NopActivityLog{}
	}
	return &Service{
		api:      api,
		resolver: resolve.New(api),
		defaults: defaults,
		activity: activity,
		now:      time.Now,
	}
}

// Defaults returns the configured fallback hints.
func (s *Service) Defaults() Defaults {
	return s.defaults
}

// Resolver exposes the name resolver bound to the same Trello client.
func (s *Service) Resolver() *resolve.Resolver {
	return s.resolver
}

// Boards returns the caller's open boards in upstream order.
func (s *Service) Boards(ctx context.Context) ([]domain.Board, error) {
	boards, err := s.api.ListMyBoards(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing boards: %w", err)
	}
	open := make([]domain.Board, 0, len(boards))
	for _, b := range boards {
		if !b.Closed {
			open = append(open, b)
		}
	}
	return open, nil
}

// Lists returns the open lists of the board named by boardHint, or of the
// default board when the hint is empty.
func (s *Service) Lists(ctx context.Context, boardHint string) ([]domain.List, error) {
	boardID, err := s.resolver.Board(ctx, orDefault(boardHint, s.defaults.Board))
	if err != nil {
		return nil, err
	}
	lists, err := s.api.ListBoardLists(ctx, boardID)
	if err != nil {
		return nil, fmt.Errorf("listing lists: %w", err)
	}
	open := make([]domain.List, 0, len(lists))
	for _, l := range lists {
		if !l.Closed {
			open = append(open, l)
		}
	}
	return open, nil
}

// CreateList adds a list to a board. Callers check CreateListQuestions first.
func (s *Service) CreateList(ctx context.Context, req CreateListRequest) (*ListResult, error) {
	if blank(req.Name) {
		return nil, fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	boardID, err := s.resolver.Board(ctx, orDefault(req.Board, s.defaults.Board))
	if err != nil {
		return nil, err
	}

	list, err := s.api.CreateList(ctx, boardID, req.Name)
	if err != nil {
		return nil, fmt.Errorf("creating list: %w", err)
	}
	logger.Info("list created", "board_id", boardID, "list_id", list.ID)

	s.record(ctx, domain.ActivityEvent{
		Action:  domain.ActionListCreated,
		BoardID: boardID,
		ListID:  list.ID,
		Name:    list.Name,
	})
	return &ListResult{ID: list.ID, Name: list.Name}, nil
}

// CreateCard creates a card with an optional due date and checklist items.
// Items go onto the card's first checklist, which is created when missing.
// A failure while adding items leaves the card in place.
func (s *Service) CreateCard(ctx context.Context, req CreateCardRequest) (*CardResult, error) {
	if blank(req.Title) {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	due, err := normalize.Due(req.Due)
	if err != nil {
		return nil, err
	}
	items := normalize.Items(req.Checklist)

	boardID, err := s.resolver.Board(ctx, orDefault(req.Board, s.defaults.Board))
	if err != nil {
		return nil, err
	}
	listID, err := s.resolver.List(ctx, boardID, orDefault(req.ListNameOrID, s.defaults.List))
	if err != nil {
		return nil, err
	}

	card, err := s.api.CreateCard(ctx, trello.CreateCardParams{
		ListID: listID,
		Name:   req.Title,
		Desc:   req.Desc,
		Due:    due,
	})
	if err != nil {
		return nil, fmt.Errorf("creating card: %w", err)
	}
	logger.Info("card created", "board_id", boardID, "list_id", listID, "card_id", card.ID, "items", len(items))

	if len(items) > 0 {
		if err := s.addItems(ctx, card.ID, items); err != nil {
			return nil, err
		}
	}

	s.record(ctx, domain.ActivityEvent{
		Action:  domain.ActionCardCreated,
		BoardID: boardID,
		ListID:  listID,
		CardID:  card.ID,
		Name:    card.Name,
		Detail:  items,
	})
	return &CardResult{ID: card.ID, Name: card.Name, URL: card.ShortURL}, nil
}

// CheckItems marks the named checklist items of a card complete.
func (s *Service) CheckItems(ctx context.Context, req CheckItemsRequest) (*CheckItemsResult, error) {
	if blank(req.CardName) {
		return nil, fmt.Errorf("%w: card_name is required", domain.ErrInvalidInput)
	}

	boardID, err := s.resolver.Board(ctx, orDefault(req.Board, s.defaults.Board))
	if err != nil {
		return nil, err
	}
	listID, err := s.resolver.List(ctx, boardID, orDefault(req.ListNameOrID, s.defaults.List))
	if err != nil {
		return nil, err
	}
	card, err := s.resolver.Card(ctx, listID, req.CardName)
	if err != nil {
		return nil, err
	}

	checklists, err := s.api.ListCardChecklists(ctx, card.ID)
	if err != nil {
		return nil, fmt.Errorf("listing checklists: %w", err)
	}
	marked, err := MarkItems(ctx, s.api, card.ID, checklists, WantedSet(normalize.Items(req.Items)))
	if err != nil {
		logger.Warn("check items stopped early", "card_id", card.ID, "marked", len(marked), "error", err)
		return nil, err
	}

	if len(marked) > 0 {
		s.record(ctx, domain.ActivityEvent{
			Action:  domain.ActionItemsChecked,
			BoardID: boardID,
			ListID:  listID,
			CardID:  card.ID,
			Name:    card.Name,
			Detail:  marked,
		})
	}
	return &CheckItemsResult{Marked: marked, CardURL: card.ShortURL}, nil
}

func (s *Service) addItems(ctx context.Context, cardID string, items []string) error {
	checklistID, err := s.ensureChecklist(ctx, cardID)
	if err != nil {
		return err
	}
	for _, it := range items {
		if _, err := s.api.AddCheckItem(ctx, checklistID, it); err != nil {
			return fmt.Errorf("adding item %q: %w", it, err)
		}
	}
	return nil
}

// ensureChecklist returns the card's first checklist, creating one if needed.
func (s *Service) ensureChecklist(ctx context.Context, cardID string) (string, error) {
	checklists, err := s.api.ListCardChecklists(ctx, cardID)
	if err != nil {
		return "", fmt.Errorf("listing checklists: %w", err)
	}
	if len(checklists) > 0 {
		return checklists[0].ID, nil
	}
	cl, err := s.api.CreateChecklist(ctx, cardID, DefaultChecklistName)
	if err != nil {
		return "", fmt.Errorf("creating checklist: %w", err)
	}
	return cl.ID, nil
}

// record stores ev best-effort; a failing activity log never fails the
// operation that produced the event.
func (s *Service) record(ctx context.Context, ev domain.ActivityEvent) {
	ev.ID = uuid.NewString()
	ev.CreatedAt = s.now().UTC()
	if err := s.activity.Record(ctx, &ev); err != nil {
		logger.Warn("failed to record activity", "action", ev.Action, "error", err)
	}
}
