package assistant

import "strings"

// Ask is returned instead of performing an operation when required fields are
// missing and no default covers them.
type Ask struct {
	Ask       bool     `json:"ask"`
	Questions []string `json:"questions"`
	Defaults  Defaults `json:"defaults"`
}

const (
	askBoard    = "Which board should I use? (send it in 'board')"
	askList     = "Which list should I use? (send it in 'list_name_or_id')"
	askListName = "What should the new list be called? (send it in 'name')"
	askTitle    = "What is the card title? (send it in 'title')"
	askCardName = "What is the exact card name? (send it in 'card_name')"
	askItems    = "Which items should be checked? (send them in 'items' as a list or 'a, b, c')"
)

func blank(s string) bool { return strings.TrimSpace(s) == "" }

func newAsk(questions []string, defaults Defaults) *Ask {
	if len(questions) == 0 {
		return nil
	}
	return &Ask{Ask: true, Questions: questions, Defaults: defaults}
}

// CreateListQuestions returns nil when req can be executed as-is.
func CreateListQuestions(req CreateListRequest, defaults Defaults) *Ask {
	var q []string
	if blank(req.Board) && blank(defaults.Board) {
		q = append(q, askBoard)
	}
	if blank(req.Name) {
		q = append(q, askListName)
	}
	return newAsk(q, defaults)
}

// CreateCardQuestions returns nil when req can be executed as-is.
func CreateCardQuestions(req CreateCardRequest, defaults Defaults) *Ask {
	var q []string
	if blank(req.Board) && blank(defaults.Board) {
		q = append(q, askBoard)
	}
	if blank(req.ListNameOrID) && blank(defaults.List) {
		q = append(q, askList)
	}
	if blank(req.Title) {
		q = append(q, askTitle)
	}
	return newAsk(q, defaults)
}

// CheckItemsQuestions returns nil when req can be executed as-is.
func CheckItemsQuestions(req CheckItemsRequest, defaults Defaults) *Ask {
	var q []string
	if blank(req.Board) && blank(defaults.Board) {
		q = append(q, askBoard)
	}
	if blank(req.ListNameOrID) && blank(defaults.List) {
		q = append(q, askList)
	}
	if blank(req.CardName) {
		q = append(q, askCardName)
	}
	if req.Items.IsEmpty() {
		q = append(q, askItems)
	}
	return newAsk(q, defaults)
}
