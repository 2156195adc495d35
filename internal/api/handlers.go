// Package api exposes the board assistant over HTTP.
package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/ignite/trello-agent/internal/domain"
	"github.com/ignite/trello-agent/internal/pkg/httputil"
	"github.com/ignite/trello-agent/internal/service/assistant"
)

const (
	defaultActivityLimit = 20
	maxActivityLimit     = 100
)

// Handlers contains the HTTP handlers. svc is nil when Trello credentials
// are not configured; every route that needs Trello then answers with a
// configuration error while ask responses and activity still work.
type Handlers struct {
	svc             *assistant.Service
	defaults        assistant.Defaults
	activity        assistant.ActivityLog
	activityBackend string
	startTime       time.Time
}

// NewHandlers creates the handler set.
func NewHandlers(svc *assistant.Service, defaults assistant.Defaults, activity assistant.ActivityLog, activityBackend string) *Handlers {
	if activity == nil {
		activity = assistant.NopActivityLog{}
	}
	return &Handlers{
		svc:             svc,
		defaults:        defaults,
		activity:        activity,
		activityBackend: activityBackend,
		startTime:       time.Now(),
	}
}

func (h *Handlers) trelloConfigured() bool {
	return h.svc != nil
}

// ListBoards returns the caller's open boards.
//
//	GET /api/boards
func (h *Handlers) ListBoards(w http.ResponseWriter, r *http.Request) {
	if !h.trelloConfigured() {
		respondConfigMissing(w)
		return
	}
	boards, err := h.svc.Boards(r.Context())
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	httputil.OK(w, boards)
}

// ListLists returns the open lists of a board.
//
//	GET /api/lists?board=
func (h *Handlers) ListLists(w http.ResponseWriter, r *http.Request) {
	if !h.trelloConfigured() {
		respondConfigMissing(w)
		return
	}
	lists, err := h.svc.Lists(r.Context(), r.URL.Query().Get("board"))
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	httputil.OK(w, lists)
}

// CreateList adds a list to a board.
//
//	POST /api/create_list
func (h *Handlers) CreateList(w http.ResponseWriter, r *http.Request) {
	var req assistant.CreateListRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if ask := assistant.CreateListQuestions(req, h.defaults); ask != nil {
		httputil.OK(w, ask)
		return
	}
	if !h.trelloConfigured() {
		respondConfigMissing(w)
		return
	}

	list, err := h.svc.CreateList(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	httputil.Created(w, map[string]any{"ok": true, "list": list})
}

// CreateCard creates a card, optionally with a due date and checklist items.
//
//	POST /api/create_card
func (h *Handlers) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req assistant.CreateCardRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if ask := assistant.CreateCardQuestions(req, h.defaults); ask != nil {
		httputil.OK(w, ask)
		return
	}
	if !h.trelloConfigured() {
		respondConfigMissing(w)
		return
	}

	card, err := h.svc.CreateCard(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	httputil.Created(w, map[string]any{"ok": true, "card": card})
}

// CheckItems marks named checklist items on a card complete.
//
//	POST /api/check_items
func (h *Handlers) CheckItems(w http.ResponseWriter, r *http.Request) {
	var req assistant.CheckItemsRequest
	if !httputil.Decode(w, r, &req) {
		return
	}
	if ask := assistant.CheckItemsQuestions(req, h.defaults); ask != nil {
		httputil.OK(w, ask)
		return
	}
	if !h.trelloConfigured() {
		respondConfigMissing(w)
		return
	}

	res, err := h.svc.CheckItems(r.Context(), req)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	httputil.OK(w, map[string]any{"ok": true, "marked": res.Marked, "card": res.CardURL})
}

// RecentActivity returns the newest recorded mutations.
//
//	GET /api/activity?limit=
func (h *Handlers) RecentActivity(w http.ResponseWriter, r *http.Request) {
	limit := defaultActivityLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 1 {
			httputil.BadRequest(w, "limit must be a positive integer")
			return
		}
		limit = min(n, maxActivityLimit)
	}

	events, err := h.activity.Recent(r.Context(), limit)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if events == nil {
		events = []domain.ActivityEvent{}
	}
	httputil.OK(w, events)
}
