// Package trellotest provides an in-memory fake of the Trello REST API for tests.
package trellotest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/ignite/trello-agent/internal/domain"
)

const (
	Key   = "test-key"
	Token = "test-token"
)

// Server is a fake Trello API backed by in-memory maps. All fields may be
// seeded directly before the first request; use the helper methods afterwards.
type Server struct {
	*httptest.Server

	mu         sync.Mutex
	nextID     int
	Boards     []domain.Board
	ShortLinks map[string]string             // short link -> board id
	Lists      map[string][]domain.List      // board id -> lists
	Cards      map[string][]domain.Card      // list id -> cards
	Checklists map[string][]domain.Checklist // card id -> checklists
	Fail       map[string]int                // "METHOD /path" -> forced status
	requests   []string
}

// NewServer starts a fake Trello API that is closed with the test.
func NewServer(t *testing.T) *Server {
	t.Helper()
	s := &Server{
		ShortLinks: make(map[string]string),
		Lists:      make(map[string][]domain.List),
		Cards:      make(map[string][]domain.Card),
		Checklists: make(map[string][]domain.Checklist),
		Fail:       make(map[string]int),
	}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Get("/boards/{id}", s.getBoard)
	r.Get("/members/me/boards", s.listBoards)
	r.Get("/boards/{id}/lists", s.listLists)
	r.Post("/lists", s.createList)
	r.Get("/lists/{id}/cards", s.listCards)
	r.Post("/cards", s.createCard)
	r.Get("/cards/{id}/checklists", s.listChecklists)
	r.Post("/cards/{id}/checklists", s.createChecklist)
	r.Post("/checklists/{id}/checkItems", s.addCheckItem)
	r.Put("/cards/{card}/checkItem/{item}", s.setCheckItem)

	s.Server = httptest.NewServer(r)
	t.Cleanup(s.Close)
	return s
}

// NewID returns a fresh 24-hex object id.
func (s *Server) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.newIDLocked()
}

func (s *Server) newIDLocked() string {
	s.nextID++
	return fmt.Sprintf("%024x", 0xa0000+s.nextID)
}

// Requests returns "METHOD /path" for every request received so far.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.requests...)
}

// CountRequests returns how many requests matched "METHOD /path".
func (s *Server) CountRequests(methodPath string) int {
	n := 0
	for _, r := range s.Requests() {
		if r == methodPath {
			n++
		}
	}
	return n
}

// AddBoard seeds a board and returns its id.
func (s *Server) AddBoard(name string, closed bool) string {
	id := s.NewID()
	s.mu.Lock()
	s.Boards = append(s.Boards, domain.Board{ID: id, Name: name, Closed: closed})
	s.mu.Unlock()
	return id
}

// AddList seeds a list on a board and returns its id.
func (s *Server) AddList(boardID, name string, closed bool) string {
	id := s.NewID()
	s.mu.Lock()
	s.Lists[boardID] = append(s.Lists[boardID], domain.List{ID: id, Name: name, Closed: closed, IDBoard: boardID})
	s.mu.Unlock()
	return id
}

// AddCard seeds a card on a list and returns its id.
func (s *Server) AddCard(listID, name string) string {
	id := s.NewID()
	s.mu.Lock()
	s.Cards[listID] = append(s.Cards[listID], domain.Card{
		ID: id, Name: name, IDList: listID, ShortURL: "https://trello.com/c/" + id[16:],
	})
	s.mu.Unlock()
	return id
}

// AddChecklist seeds a checklist with items (name -> complete) and returns its id.
func (s *Server) AddChecklist(cardID, name string, items ...domain.CheckItem) string {
	id := s.NewID()
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = s.newIDLocked()
		}
		if items[i].State == "" {
			items[i].State = domain.CheckItemIncomplete
		}
	}
	s.Checklists[cardID] = append(s.Checklists[cardID], domain.Checklist{ID: id, Name: name, IDCard: cardID, CheckItems: items})
	return id
}

// Card returns a seeded or created card by id.
func (s *Server) Card(id string) (domain.Card, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, cards := range s.Cards {
		for _, c := range cards {
			if c.ID == id {
				return c, true
			}
		}
	}
	return domain.Card{}, false
}

// CardChecklists returns a copy of a card's checklists.
func (s *Server) CardChecklists(cardID string) []domain.Checklist {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Checklist(nil), s.Checklists[cardID]...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		methodPath := r.Method + " " + r.URL.Path

		s.mu.Lock()
		s.requests = append(s.requests, methodPath)
		status, fail := s.Fail[methodPath]
		s.mu.Unlock()

		q := r.URL.Query()
		if q.Get("key") != Key || q.Get("token") != Token {
			http.Error(w, "invalid key", http.StatusUnauthorized)
			return
		}
		if fail {
			http.Error(w, http.StatusText(status), status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

func (s *Server) getBoard(w http.ResponseWriter, r *http.Request) {
	hint := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()

	if id, ok := s.ShortLinks[hint]; ok {
		hint = id
	}
	if !domain.IsObjectID(hint) && !domain.IsShortLink(hint) {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return
	}
	for _, b := range s.Boards {
		if b.ID == hint {
			writeJSON(w, b)
			return
		}
	}
	http.Error(w, "The requested resource was not found.", http.StatusNotFound)
}

func (s *Server) listBoards(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, append([]domain.Board{}, s.Boards...))
}

func (s *Server) listLists(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, append([]domain.List{}, s.Lists[chi.URLParam(r, "id")]...))
}

func (s *Server) createList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	s.mu.Lock()
	defer s.mu.Unlock()
	list := domain.List{ID: s.newIDLocked(), Name: q.Get("name"), IDBoard: q.Get("idBoard")}
	s.Lists[list.IDBoard] = append(s.Lists[list.IDBoard], list)
	writeJSON(w, list)
}

func (s *Server) listCards(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, append([]domain.Card{}, s.Cards[chi.URLParam(r, "id")]...))
}

func (s *Server) createCard(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if strings.TrimSpace(q.Get("name")) == "" {
		http.Error(w, "invalid value for name", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.newIDLocked()
	card := domain.Card{
		ID:       id,
		Name:     q.Get("name"),
		Desc:     q.Get("desc"),
		Due:      q.Get("due"),
		IDList:   q.Get("idList"),
		ShortURL: "https://trello.com/c/" + id[16:],
	}
	s.Cards[card.IDList] = append(s.Cards[card.IDList], card)
	writeJSON(w, card)
}

func (s *Server) listChecklists(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, append([]domain.Checklist{}, s.Checklists[chi.URLParam(r, "id")]...))
}

func (s *Server) createChecklist(w http.ResponseWriter, r *http.Request) {
	cardID := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	cl := domain.Checklist{ID: s.newIDLocked(), Name: r.URL.Query().Get("name"), IDCard: cardID, CheckItems: []domain.CheckItem{}}
	s.Checklists[cardID] = append(s.Checklists[cardID], cl)
	writeJSON(w, cl)
}

func (s *Server) addCheckItem(w http.ResponseWriter, r *http.Request) {
	checklistID := chi.URLParam(r, "id")
	s.mu.Lock()
	defer s.mu.Unlock()
	for cardID, cls := range s.Checklists {
		for i := range cls {
			if cls[i].ID != checklistID {
				continue
			}
			item := domain.CheckItem{ID: s.newIDLocked(), Name: r.URL.Query().Get("name"), State: domain.CheckItemIncomplete}
			cls[i].CheckItems = append(cls[i].CheckItems, item)
			s.Checklists[cardID] = cls
			writeJSON(w, item)
			return
		}
	}
	http.Error(w, "checklist not found", http.StatusNotFound)
}

func (s *Server) setCheckItem(w http.ResponseWriter, r *http.Request) {
	cardID, itemID := chi.URLParam(r, "card"), chi.URLParam(r, "item")
	state := domain.CheckItemState(r.URL.Query().Get("state"))
	s.mu.Lock()
	defer s.mu.Unlock()
	cls := s.Checklists[cardID]
	for i := range cls {
		for j := range cls[i].CheckItems {
			if cls[i].CheckItems[j].ID == itemID {
				cls[i].CheckItems[j].State = state
				writeJSON(w, cls[i].CheckItems[j])
				return
			}
		}
	}
	http.Error(w, "check item not found", http.StatusNotFound)
}
