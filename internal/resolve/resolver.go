// Package resolve turns human-friendly board, list and card hints into Trello
// identifiers.
//
// Board hints are shape-checked before any network call: only a hint that
// looks like an object id or a short link gets a direct lookup, and only a
// definitive "no such board" answer (400 or 404) falls back to a name search.
// Transport failures and other upstream errors are returned as-is.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/ignite/trello-agent/internal/domain"
	"github.com/ignite/trello-agent/internal/trello"
)

// TrelloReader is the subset of the Trello client the resolver reads from.
type TrelloReader interface {
	GetBoard(ctx context.Context, idOrShortLink string) (*domain.Board, error)
	ListMyBoards(ctx context.Context) ([]domain.Board, error)
	ListBoardLists(ctx context.Context, boardID string) ([]domain.List, error)
	ListListCards(ctx context.Context, listID string) ([]domain.Card, error)
}

// Resolver resolves hints against a live Trello account. It holds no state
// between calls.
type Resolver struct {
	api TrelloReader
}

// New creates a Resolver.
func New(api TrelloReader) *Resolver {
	return &Resolver{api: api}
}

// Board returns the id of the board named or identified by hint.
func (r *Resolver) Board(ctx context.Context, hint string) (string, error) {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return "", fmt.Errorf("%w: board is required", domain.ErrInvalidInput)
	}

	if domain.IsObjectID(hint) || domain.IsShortLink(hint) {
		board, err := r.api.GetBoard(ctx, hint)
		switch {
		case err == nil:
			return board.ID, nil
		case !isNoSuchResource(err):
			return "", fmt.Errorf("looking up board %q: %w", hint, err)
		}
	}

	boards, err := r.api.ListMyBoards(ctx)
	if err != nil {
		return "", fmt.Errorf("listing boards: %w", err)
	}
	for _, b := range boards {
		if !b.Closed && sameName(b.Name, hint) {
			return b.ID, nil
		}
	}
	return "", fmt.Errorf("%w: board %q", domain.ErrNotFound, hint)
}

// List returns the id of the list on boardID named by hint. A hint already
// shaped like an object id is returned verbatim without a lookup.
func (r *Resolver) List(ctx context.Context, boardID, hint string) (string, error) {
	hint = strings.TrimSpace(hint)
	if hint == "" {
		return "", fmt.Errorf("%w: list is required", domain.ErrInvalidInput)
	}
	if domain.IsObjectID(hint) {
		return hint, nil
	}

	lists, err := r.api.ListBoardLists(ctx, boardID)
	if err != nil {
		return "", fmt.Errorf("listing lists: %w", err)
	}
	for _, l := range lists {
		if !l.Closed && sameName(l.Name, hint) {
			return l.ID, nil
		}
	}
	return "", fmt.Errorf("%w: list %q", domain.ErrNotFound, hint)
}

// Card returns the first card on listID whose name matches name.
func (r *Resolver) Card(ctx context.Context, listID, name string) (*domain.Card, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: card name is required", domain.ErrInvalidInput)
	}

	cards, err := r.api.ListListCards(ctx, listID)
	if err != nil {
		return nil, fmt.Errorf("listing cards: %w", err)
	}
	for i := range cards {
		if sameName(cards[i].Name, name) {
			return &cards[i], nil
		}
	}
	return nil, fmt.Errorf("%w: card %q", domain.ErrNotFound, name)
}

// NormalizeName is the comparison key used for every name match.
func NormalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func sameName(a, b string) bool {
	return NormalizeName(a) == NormalizeName(b)
}

// isNoSuchResource reports whether Trello definitively rejected the hint as an
// identifier, as opposed to failing to answer.
func isNoSuchResource(err error) bool {
	var apiErr *trello.APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	return apiErr.StatusCode == http.StatusNotFound || apiErr.StatusCode == http.StatusBadRequest
}
