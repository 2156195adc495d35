// Package trello is a minimal client for the Trello REST API covering boards,
// lists, cards, checklists and check items.
package trello

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ignite/trello-agent/internal/config"
	"github.com/ignite/trello-agent/internal/domain"
	"github.com/ignite/trello-agent/internal/pkg/httpretry"
	"github.com/ignite/trello-agent/internal/pkg/logger"
)

// Client is a Trello API client. Credentials are appended as key/token query
// parameters to every call.
type Client struct {
	baseURL    string
	key        string
	token      string
	httpClient httpretry.HTTPDoer
}

// NewClient creates a Trello client. It fails with domain.ErrConfigMissing
// when either credential is absent, so callers validate once at startup.
func NewClient(cfg config.TrelloConfig) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = config.DefaultTrelloBaseURL
	}
	return &Client{
		baseURL: baseURL,
		key:     cfg.Key,
		token:   cfg.Token,
		httpClient: httpretry.NewRetryClient(&http.Client{
			Timeout: cfg.Timeout(),
		}, cfg.MaxRetries),
	}, nil
}

// WithHTTPClient swaps the transport. Tests use it to inject fakes.
func (c *Client) WithHTTPClient(doer httpretry.HTTPDoer) *Client {
	c.httpClient = doer
	return c
}

// doRequest issues a request with params in the query string and decodes a
// JSON response into out (which may be nil).
func (c *Client) doRequest(ctx context.Context, method, path string, params url.Values, out any) error {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	q.Set("key", c.key)
	q.Set("token", c.token)

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path+"?"+q.Encode(), nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// *url.Error carries the full URL, credentials included
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return fmt.Errorf("%w: %s %s: %w", ErrTransport, method, path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		logger.Warn("trello API error", "method", method, "path", path, "status", resp.StatusCode)
		return newAPIError(method, path, resp.StatusCode, body)
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("parsing %s %s response: %w", method, path, err)
	}
	return nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, params, out)
}

func (c *Client) post(ctx context.Context, path string, params url.Values, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, params, out)
}

func (c *Client) put(ctx context.Context, path string, params url.Values, out any) error {
	return c.doRequest(ctx, http.MethodPut, path, params, out)
}

// =============================================================================
// BOARDS
// =============================================================================

// GetBoard looks a board up by id or short link.
func (c *Client) GetBoard(ctx context.Context, idOrShortLink string) (*domain.Board, error) {
	var board domain.Board
	err := c.get(ctx, "/boards/"+url.PathEscape(idOrShortLink), url.Values{"fields": {"id,name,closed"}}, &board)
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// ListMyBoards returns every board of the token owner, open or closed.
func (c *Client) ListMyBoards(ctx context.Context) ([]domain.Board, error) {
	var boards []domain.Board
	if err := c.get(ctx, "/members/me/boards", url.Values{"fields": {"id,name,closed"}}, &boards); err != nil {
		return nil, err
	}
	return boards, nil
}

// =============================================================================
// LISTS
// =============================================================================

// ListBoardLists returns the lists of a board, open or closed.
func (c *Client) ListBoardLists(ctx context.Context, boardID string) ([]domain.List, error) {
	var lists []domain.List
	err := c.get(ctx, "/boards/"+url.PathEscape(boardID)+"/lists", url.Values{"fields": {"id,name,closed"}}, &lists)
	if err != nil {
		return nil, err
	}
	return lists, nil
}

// CreateList adds a list to a board.
func (c *Client) CreateList(ctx context.Context, boardID, name string) (*domain.List, error) {
	var list domain.List
	err := c.post(ctx, "/lists", url.Values{"name": {name}, "idBoard": {boardID}}, &list)
	if err != nil {
		return nil, err
	}
	return &list, nil
}

// =============================================================================
// CARDS
// =============================================================================

// CreateCardParams describes a new card. Due must already be normalized;
// an empty Due creates a card without a due date.
type CreateCardParams struct {
	ListID string
	Name   string
	Desc   string
	Due    string
}

// ListListCards returns the cards of a list.
func (c *Client) ListListCards(ctx context.Context, listID string) ([]domain.Card, error) {
	var cards []domain.Card
	err := c.get(ctx, "/lists/"+url.PathEscape(listID)+"/cards", url.Values{"fields": {"id,name,shortUrl"}}, &cards)
	if err != nil {
		return nil, err
	}
	return cards, nil
}

// CreateCard creates a card at the bottom of a list.
func (c *Client) CreateCard(ctx context.Context, p CreateCardParams) (*domain.Card, error) {
	params := url.Values{
		"idList": {p.ListID},
		"name":   {p.Name},
		"desc":   {p.Desc},
	}
	if p.Due != "" {
		params.Set("due", p.Due)
	}

	var card domain.Card
	if err := c.post(ctx, "/cards", params, &card); err != nil {
		return nil, err
	}
	return &card, nil
}

// =============================================================================
// CHECKLISTS
// =============================================================================

// ListCardChecklists returns a card's checklists with their items.
func (c *Client) ListCardChecklists(ctx context.Context, cardID string) ([]domain.Checklist, error) {
	var checklists []domain.Checklist
	if err := c.get(ctx, "/cards/"+url.PathEscape(cardID)+"/checklists", nil, &checklists); err != nil {
		return nil, err
	}
	return checklists, nil
}

// CreateChecklist adds an empty checklist to a card.
func (c *Client) CreateChecklist(ctx context.Context, cardID, name string) (*domain.Checklist, error) {
	var checklist domain.Checklist
	err := c.post(ctx, "/cards/"+url.PathEscape(cardID)+"/checklists", url.Values{"name": {name}}, &checklist)
	if err != nil {
		return nil, err
	}
	return &checklist, nil
}

// AddCheckItem appends an item to a checklist.
func (c *Client) AddCheckItem(ctx context.Context, checklistID, name string) (*domain.CheckItem, error) {
	var item domain.CheckItem
	err := c.post(ctx, "/checklists/"+url.PathEscape(checklistID)+"/checkItems", url.Values{"name": {name}}, &item)
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// SetCheckItemState marks a check item complete or incomplete.
func (c *Client) SetCheckItemState(ctx context.Context, cardID, itemID string, state domain.CheckItemState) error {
	path := "/cards/" + url.PathEscape(cardID) + "/checkItem/" + url.PathEscape(itemID)
	return c.put(ctx, path, url.Values{"state": {string(state)}}, nil)
}
