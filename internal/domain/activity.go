package domain

import "time"

// ActivityAction enumerates the mutations recorded in the activity log.
type ActivityAction string

const (
	ActionListCreated  ActivityAction = "list_created"
	ActionCardCreated  ActivityAction = "card_created"
	ActionItemsChecked ActivityAction = "items_checked"
)

// ActivityEvent is one successful mutation performed against the board provider.
type ActivityEvent struct {
	ID        string         `json:"id" db:"id"`
	Action    ActivityAction `json:"action" db:"action"`
	BoardID   string         `json:"board_id" db:"board_id"`
	ListID    string         `json:"list_id,omitempty" db:"list_id"`
	CardID    string         `json:"card_id,omitempty" db:"card_id"`
	Name      string         `json:"name" db:"name"`
	Detail    []string       `json:"detail,omitempty" db:"detail"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}
