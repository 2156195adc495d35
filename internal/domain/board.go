package domain

import "regexp"

// CheckItemState enumerates the completion states Trello reports for a check item.
type CheckItemState string

const (
	CheckItemComplete   CheckItemState = "complete"
	CheckItemIncomplete CheckItemState = "incomplete"
)

// Board is a top-level container of lists.
type Board struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Closed bool   `json:"closed"`
}

// List is a named column within a board.
type List struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Closed  bool   `json:"closed"`
	IDBoard string `json:"idBoard,omitempty"`
}

// Card is a task item within a list.
type Card struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Desc     string `json:"desc,omitempty"`
	Due      string `json:"due,omitempty"`
	ShortURL string `json:"shortUrl,omitempty"`
	IDList   string `json:"idList,omitempty"`
}

// Checklist is a named group of check items attached to a card.
type Checklist struct {
	ID         string      `json:"id"`
	Name       string      `json:"name"`
	IDCard     string      `json:"idCard,omitempty"`
	CheckItems []CheckItem `json:"checkItems"`
}

// CheckItem is a single sub-task of a checklist.
type CheckItem struct {
	ID    string         `json:"id"`
	Name  string         `json:"name"`
	State CheckItemState `json:"state"`
}

// IsComplete reports whether the item is already checked.
func (c CheckItem) IsComplete() bool {
	return c.State == CheckItemComplete
}

var (
	objectIDPattern  = regexp.MustCompile(`^[0-9a-fA-F]{24}$`)
	shortLinkPattern = regexp.MustCompile(`^[0-9A-Za-z]{8}$`)
)

// IsObjectID reports whether s has the shape of a Trello object id
// (24 hexadecimal characters, either case).
func IsObjectID(s string) bool {
	return objectIDPattern.MatchString(s)
}

// IsShortLink reports whether s has the shape of a Trello short link
// (8 alphanumeric characters, as in https://trello.com/b/<shortLink>).
func IsShortLink(s string) bool {
	return shortLinkPattern.MatchString(s)
}
