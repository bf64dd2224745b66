package domain

import "time"

// ChangeEvent types, matching the trigger's TG_OP in lower case.
const (
	EventInsert = "insert"
	EventUpdate = "update"
	EventDelete = "delete"
)

// ChangeEvent describes one row change in an observable collection.
type ChangeEvent struct {
	Collection string    `json:"collection"`
	Event      string    `json:"event"`
	RowID      string    `json:"rowId"`
	UserID     string    `json:"userId,omitempty"`
	At         time.Time `json:"at"`
}
