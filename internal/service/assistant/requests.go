package assistant

import "github.com/ignite/trello-agent/internal/normalize"

// Defaults are the fallback hints used when a caller omits board or list.
type Defaults struct {
	Board string `json:"board"`
	List  string `json:"list"`
}

// CreateListRequest is the body of POST /api/create_list.
type CreateListRequest struct {
	Board string `json:"board"`
	Name  string `json:"name"`
}

// CreateCardRequest is the body of POST /api/create_card.
type CreateCardRequest struct {
	Board        string               `json:"board"`
	ListNameOrID string               `json:"list_name_or_id"`
	Title        string               `json:"title"`
	Desc         string               `json:"desc"`
	Due          string               `json:"due"`
	Checklist    normalize.ItemsInput `json:"checklist"`
}

// CheckItemsRequest is the body of POST /api/check_items.
type CheckItemsRequest struct {
	Board        string               `json:"board"`
	ListNameOrID string               `json:"list_name_or_id"`
	CardName     string               `json:"card_name"`
	Items        normalize.ItemsInput `json:"items"`
}

// ListResult describes a created list.
type ListResult struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CardResult describes a created card.
type CardResult struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CheckItemsResult lists the item names that were marked complete.
type CheckItemsResult struct {
	Marked  []string `json:"marked"`
	CardURL string   `json:"card"`
}

func orDefault(v, def string) string {
	if blank(v) {
		return def
	}
	return v
}
