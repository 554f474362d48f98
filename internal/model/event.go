package model

import (
	"time"

	"github.com/samber/mo"
)

// Event is the canonical calendar event, independent of the field naming
// the server used for it.
type Event struct {
	// ID identifies the event within its calendar.
	ID string `json:"id"`

	// CalendarID is the calendar source the event belongs to.
	CalendarID string `json:"calendar_id"`

	Title       string            `json:"title"`
	Description mo.Option[string] `json:"description"`

	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
	AllDay  bool      `json:"is_all_day"`
}

// MultiDay reports whether the event starts and ends on different days.
func (e Event) MultiDay() bool {
	return !sameDay(e.StartAt, e.EndAt)
}

// EventInput is the request body for creating an event.
type EventInput struct {
	CalendarID  string    `json:"calendar_id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	AllDay      bool      `json:"is_all_day"`
	StartAt     time.Time `json:"start_at"`
	EndAt       time.Time `json:"end_at"`
}

// EventPatch is the request body for a partial event update.
// Nil fields are left unchanged on the server.
type EventPatch struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	AllDay      *bool      `json:"is_all_day,omitempty"`
	StartAt     *time.Time `json:"start_at,omitempty"`
	EndAt       *time.Time `json:"end_at,omitempty"`
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
