package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignite/trello-agent/internal/config"
	"github.com/ignite/trello-agent/internal/domain"
	activityredis "github.com/ignite/trello-agent/internal/repository/redis"
	"github.com/ignite/trello-agent/internal/service/assistant"
	"github.com/ignite/trello-agent/internal/trello"
	"github.com/ignite/trello-agent/internal/trello/trellotest"
)

type testEnv struct {
	router   http.Handler
	fake     *trellotest.Server
	redis    *miniredis.Miniredis
	activity *activityredis.ActivityLog
}

func setupTestEnv(t *testing.T, defaults assistant.Defaults) *testEnv {
	t.Helper()
	fake := trellotest.NewServer(t)

	client, err := trello.NewClient(config.TrelloConfig{
		BaseURL:        fake.URL,
		Key:            trellotest.Key,
		Token:          trellotest.Token,
		TimeoutSeconds: 5,
	})
	require.NoError(t, err)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	rc := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		rc.Close()
		mr.Close()
	})
	activity := activityredis.NewActivityLog(rc, "", 100)

	svc := assistant.NewService(client, defaults, activity)
	h := NewHandlers(svc, defaults, activity, config.ActivityBackendRedis)
	return &testEnv{
		router:   SetupRoutes(h, config.CORSConfig{AllowedOrigins: []string{"*"}}),
		fake:     fake,
		redis:    mr,
		activity: activity,
	}
}

func unconfiguredRouter(defaults assistant.Defaults) http.Handler {
	h := NewHandlers(nil, defaults, nil, config.ActivityBackendNone)
	return SetupRoutes(h, config.CORSConfig{})
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func doForm(t *testing.T, h http.Handler, path string, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func TestRoot(t *testing.T) {
	rec := doJSON(t, unconfiguredRouter(assistant.Defaults{}), http.MethodGet, "/", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, "online", body["status"])
	assert.Equal(t, "Trello Agent", body["app"])
	assert.Equal(t, false, body["trello_env"])
}

func TestHealthCheck(t *testing.T) {
	env := setupTestEnv(t, assistant.Defaults{})
	rec := doJSON(t, env.router, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var hs HealthStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hs))
	assert.Equal(t, "ok", hs.Status)
	assert.True(t, hs.TrelloEnv)
	assert.Equal(t, "up", hs.Checks["activity"].Status)
	assert.Empty(t, env.fake.Requests(), "health never calls Trello")

	env.redis.Close()
	rec = doJSON(t, env.router, http.MethodGet, "/health", nil)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &hs))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "degraded", hs.Status)
	assert.Equal(t, "down", hs.Checks["activity"].Status)
}

func TestConfigMissing(t *testing.T) {
	router := unconfiguredRouter(assistant.Defaults{})

	rec := doJSON(t, router, http.MethodGet, "/api/boards", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["ok"])
	assert.Contains(t, body["error"], "TRELLO_KEY")

	rec = doJSON(t, router, http.MethodPost, "/api/create_card", map[string]string{
		"board": "Groceries", "list_name_or_id": "This week", "title": "x",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateCard_AsksForEverythingMissing(t *testing.T) {
	env := setupTestEnv(t, assistant.Defaults{})

	rec := doJSON(t, env.router, http.MethodPost, "/api/create_card", map[string]string{})
	require.Equal(t, http.StatusOK, rec.Code)

	var ask assistant.Ask
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &ask))
	assert.True(t, ask.Ask)
	require.Len(t, ask.Questions, 3)
	assert.Contains(t, ask.Questions[0], "'board'")
	assert.Contains(t, ask.Questions[1], "'list_name_or_id'")
	assert.Contains(t, ask.Questions[2], "'title'")
	assert.Empty(t, env.fake.Requests())
}

func TestCreateCard_AskWorksWithoutCredentials(t *testing.T) {
	rec := doJSON(t, unconfiguredRouter(assistant.Defaults{Board: "Groceries"}), http.MethodPost, "/api/create_card", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, true, body["ask"])
	assert.Len(t, body["questions"], 2)
	assert.Equal(t, map[string]any{"board": "Groceries", "list": ""}, body["defaults"])
}

func TestCreateCard_JSON(t *testing.T) {
	env := setupTestEnv(t, assistant.Defaults{})
	boardID := env.fake.AddBoard("Groceries", false)
	listID := env.fake.AddList(boardID, "This week", false)

	rec := doJSON(t, env.router, http.MethodPost, "/api/create_card", map[string]any{
		"board":           "groceries",
		"list_name_or_id": "THIS WEEK",
		"title":           "Weekly shop",
		"desc":            "Saturday",
		"due":             "25122024",
		"checklist":       []string{" milk ", "", "eggs"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, true, body["ok"])
	card := body["card"].(map[string]any)
	assert.Equal(t, "Weekly shop", card["name"])
	assert.NotEmpty(t, card["url"])

	created, ok := env.fake.Card(card["id"].(string))
	require.True(t, ok)
	assert.Equal(t, listID, created.IDList)
	assert.Equal(t, "2024-12-25T12:00:00Z", created.Due)
	assert.Equal(t, "Saturday", created.Desc)

	cls := env.fake.CardChecklists(created.ID)
	require.Len(t, cls, 1)
	assert.Equal(t, "Checklist", cls[0].Name)
	require.Len(t, cls[0].CheckItems, 2)
	assert.Equal(t, "milk", cls[0].CheckItems[0].Name)
	assert.Equal(t, "eggs", cls[0].CheckItems[1].Name)

	events, err := env.activity.Recent(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, domain.ActionCardCreated, events[0].Action)
}

func TestCreateCard_FormWithDefaults(t *testing.T) {
	env := setupTestEnv(t, assistant.Defaults{Board: "Groceries", List: "This week"})
	boardID := env.fake.AddBoard("Groceries", false)
	listID := env.fake.AddList(boardID, "This week", false)

	rec := doForm(t, env.router, "/api/create_card", url.Values{
		"title":     {"Weekly shop"},
		"checklist": {"bread, jam"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	cards := env.fake.Cards[listID]
	require.Len(t, cards, 1)
	cls := env.fake.CardChecklists(cards[0].ID)
	require.Len(t, cls, 1)
	assert.Len(t, cls[0].CheckItems, 2)
	assert.Empty(t, cards[0].Due)
}

func TestCreateCard_InvalidDue(t *testing.T) {
	env := setupTestEnv(t, assistant.Defaults{})
	rec := doJSON(t, env.router, http.MethodPost, "/api/create_card", map[string]string{
		"board": "Groceries", "list_name_or_id": "This week", "title": "x", "due": "not-a-date",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, decode(t, rec)["error"], "DD/MM/YYYY")
	assert.Empty(t, env.fake.Requests())
}

func TestCreateCard_MalformedChecklist(t *testing.T) {
	env := setupTestEnv(t, assistant.Defaults{})
	rec := doJSON(t, env.router, http.MethodPost, "/api/create_card", map[string]any{
		"board": "b", "list_name_or_id": "l", "title": "x", "checklist": 42,
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, false, decode(t, rec)["ok"])
}

func TestCreateCard_BoardNotFound(t *testing.T) {
	env := setupTestEnv(t, assistant.Defaults{})
	env.fake.AddBoard("Groceries", false)

	rec := doJSON(t, env.router, http.MethodPost, "/api/create_card", map[string]string{
		"board": "Work", "list_name_or_id": "Inbox", "title": "x",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["ok"])
	assert.Contains(t, body["error"], "Work")
}

func TestUpstreamStatusIsMirrored(t *testing.T) {
	env := setupTestEnv(t, assistant.Defaults{})
	env.fake.Fail["GET /members/me/boards"] = http.StatusTooManyRequests

	rec := doJSON(t, env.router, http.MethodGet, "/api/boards", nil)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, false, body["ok"])
	assert.NotContains(t, body["error"], trellotest.Token)
}

func TestListBoardsAndLists(t *testing.T) {
	env := setupTestEnv(t, assistant.Defaults{Board: "Groceries"})
	boardID := env.fake.AddBoard("Groceries", false)
	env.fake.AddBoard("Archive", true)
	env.fake.AddList(boardID, "This week", false)
	env.fake.AddList(boardID, "Old", true)

	rec := doJSON(t, env.router, http.MethodGet, "/api/boards", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var boards []domain.Board
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &boards))
	require.Len(t, boards, 1)
	assert.Equal(t, "Groceries", boards[0].Name)

	rec = doJSON(t, env.router, http.MethodGet, "/api/lists", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var lists []domain.List
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lists))
	require.Len(t, lists, 1)
	assert.Equal(t, "This week", lists[0].Name)

	rec = doJSON(t, env.router, http.MethodGet, "/api/lists?board="+boardID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestCreateList(t *testing.T) {
	env := setupTestEnv(t, assistant.Defaults{})
	boardID := env.fake.AddBoard("Groceries", false)

	rec := doJSON(t, env.router, http.MethodPost, "/api/create_list", map[string]string{"board": "Groceries", "name": "Next week"})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	list := decode(t, rec)["list"].(map[string]any)
	assert.Equal(t, "Next week", list["name"])
	assert.Len(t, env.fake.Lists[boardID], 1)

	rec = doJSON(t, env.router, http.MethodPost, "/api/create_list", map[string]string{"board": "Groceries"})
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decode(t, rec)["ask"])
}

func TestCheckItems_MarksOnlyIncompleteDuplicate(t *testing.T) {
	env := setupTestEnv(t, assistant.Defaults{})
	boardID := env.fake.AddBoard("Groceries", false)
	listID := env.fake.AddList(boardID, "This week", false)
	cardID := env.fake.AddCard(listID, "Weekly shop")
	env.fake.AddChecklist(cardID, "Dairy", domain.CheckItem{Name: "Buy milk", State: domain.CheckItemComplete})
	env.fake.AddChecklist(cardID, "Extra", domain.CheckItem{Name: "Buy milk"}, domain.CheckItem{Name: "Eggs"})

	rec := doJSON(t, env.router, http.MethodPost, "/api/check_items", map[string]string{
		"board": boardID, "list_name_or_id": listID, "card_name": "weekly shop", "items": "buy milk",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	body := decode(t, rec)
	assert.Equal(t, true, body["ok"])
	assert.Equal(t, []any{"Buy milk"}, body["marked"])
	assert.Contains(t, body["card"], "https://trello.com/c/")

	cls := env.fake.CardChecklists(cardID)
	assert.True(t, cls[1].CheckItems[0].IsComplete())
	assert.False(t, cls[1].CheckItems[1].IsComplete())

	puts := 0
	for _, r := range env.fake.Requests() {
		if strings.HasPrefix(r, "PUT ") {
			puts++
		}
	}
	assert.Equal(t, 1, puts)
}

func TestCheckItems_NothingToMark(t *testing.T) {
	env := setupTestEnv(t, assistant.Defaults{})
	boardID := env.fake.AddBoard("Groceries", false)
	listID := env.fake.AddList(boardID, "This week", false)
	env.fake.AddCard(listID, "Weekly shop")

	rec := doJSON(t, env.router, http.MethodPost, "/api/check_items", map[string]any{
		"board": "Groceries", "list_name_or_id": "This week", "card_name": "Weekly shop", "items": []string{"caviar"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, []any{}, decode(t, rec)["marked"])

	events, err := env.activity.Recent(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, events)
}

func TestRecentActivity(t *testing.T) {
	env := setupTestEnv(t, assistant.Defaults{})
	for _, name := range []string{"a", "b", "c"} {
		require.NoError(t, env.activity.Record(context.Background(), &domain.ActivityEvent{ID: name, Action: domain.ActionListCreated}))
	}

	rec := doJSON(t, env.router, http.MethodGet, "/api/activity?limit=2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var events []domain.ActivityEvent
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &events))
	require.Len(t, events, 2)
	assert.Equal(t, "c", events[0].ID)

	rec = doJSON(t, env.router, http.MethodGet, "/api/activity?limit=zero", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = doJSON(t, unconfiguredRouter(assistant.Defaults{}), http.MethodGet, "/api/activity", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid", domain.ErrInvalidInput, http.StatusBadRequest},
		{"config", domain.ErrConfigMissing, http.StatusBadRequest},
		{"not found", domain.ErrNotFound, http.StatusNotFound},
		{"upstream", &trello.APIError{StatusCode: http.StatusUnauthorized}, http.StatusUnauthorized},
		{"transport", trello.ErrTransport, http.StatusBadGateway},
		{"other", assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _ := errorStatus(tt.err)
			assert.Equal(t, tt.want, got)
		})
	}
}
