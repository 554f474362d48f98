package model

import "github.com/samber/mo"

// Calendar is a calendar source the user can read events and tasks from.
type Calendar struct {
	ID   string            `json:"id"`
	Name mo.Option[string] `json:"name"`

	// Enabled is the local preference; disabled calendars are skipped
	// when aggregating but are not deleted.
	Enabled bool `json:"-"`
}

// Label returns the calendar name, falling back to its id.
func (c Calendar) Label() string {
	return c.Name.OrElse(c.ID)
}

// User is the account returned by the who-am-I probe.
type User struct {
	ID          string            `json:"id"`
	Email       string            `json:"email"`
	DisplayName mo.Option[string] `json:"displayName"`
	Role        string            `json:"role"`
	PhotoURL    mo.Option[string] `json:"photoURL"`
}

// Note is a dated free-text memo.
type Note struct {
	ID         string            `json:"id"`
	CalendarID string            `json:"calendar_id"`
	Date       string            `json:"date"`
	Title      mo.Option[string] `json:"title"`
	Memo       mo.Option[string] `json:"memo"`
}

// NoteInput is the request body for creating a note. Date is YYYY-MM-DD.
type NoteInput struct {
	CalendarID string  `json:"calendar_id"`
	Date       string  `json:"date"`
	Title      *string `json:"title,omitempty"`
	Memo       *string `json:"memo,omitempty"`
}

// Page is one page of a server listing.
type Page[T any] struct {
	Content       []T
	TotalElements mo.Option[int]
	TotalPages    mo.Option[int]
	Number        mo.Option[int]
	Size          mo.Option[int]

	// Skipped counts malformed records dropped while normalizing.
	Skipped int
}
