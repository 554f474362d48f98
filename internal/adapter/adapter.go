// Package adapter normalizes server records into the canonical model.
//
// Single-entity normalizers return a *ShapeError for malformed input;
// collection normalizers skip malformed records and count them in
// Page.Skipped. Neither ever returns a partially populated entity.
package adapter

import (
	"strings"

	"github.com/samber/mo"

	"github.com/nhle/monthcal/internal/credential"
	"github.com/nhle/monthcal/internal/model"
)

// TokenPair normalizes an exchange or refresh response.
func TokenPair(raw any) (credential.Pair, error) {
	rec, ok := asRecord(raw)
	if !ok {
		return credential.Pair{}, shapeErr("token pair", "not an object")
	}

	pair := credential.Pair{
		Access:  rec.text(accessToken).OrEmpty(),
		Refresh: rec.text(refreshToken).OrEmpty(),
	}
	if !pair.Valid() {
		return credential.Pair{}, shapeErr("token pair", "missing access or refresh token")
	}
	return pair, nil
}

// User normalizes the /auth/me response.
func User(raw any) (model.User, error) {
	rec, ok := asRecord(raw)
	if !ok {
		return model.User{}, shapeErr("user", "not an object")
	}
	id, ok := rec.id(userID)
	if !ok {
		return model.User{}, shapeErr("user", "missing %s", userID.Name)
	}

	return model.User{
		ID:          id,
		Email:       rec.text(userEmail).OrEmpty(),
		DisplayName: rec.text(userDisplayName),
		Role:        rec.text(userRole).OrEmpty(),
		PhotoURL:    rec.text(userPhotoURL),
	}, nil
}

// Event normalizes a single event record.
func Event(raw any) (model.Event, error) {
	const entity = "event"

	rec, ok := asRecord(raw)
	if !ok {
		return model.Event{}, shapeErr(entity, "not an object")
	}
	id, ok := rec.id(eventID)
	if !ok {
		return model.Event{}, shapeErr(entity, "missing %s", eventID.Name)
	}
	start, err := rec.time(entity, eventStart)
	if err != nil {
		return model.Event{}, err
	}
	end, err := rec.time(entity, eventEnd)
	if err != nil {
		return model.Event{}, err
	}
	allDay, err := rec.flag(entity, eventAllDay)
	if err != nil {
		return model.Event{}, err
	}

	calID, _ := rec.id(calendarRef)

	return model.Event{
		ID:          id,
		CalendarID:  calID,
		Title:       rec.text(titleField).OrEmpty(),
		Description: rec.text(descriptionField),
		StartAt:     start,
		EndAt:       end,
		AllDay:      allDay,
	}, nil
}

// Task normalizes a single task record.
func Task(raw any) (model.Task, error) {
	const entity = "task"

	rec, ok := asRecord(raw)
	if !ok {
		return model.Task{}, shapeErr(entity, "not an object")
	}
	id, ok := rec.id(taskID)
	if !ok {
		return model.Task{}, shapeErr(entity, "missing %s", taskID.Name)
	}
	due, err := rec.time(entity, taskDue)
	if err != nil {
		return model.Task{}, err
	}

	calID, _ := rec.id(calendarRef)

	return model.Task{
		ID:          id,
		CalendarID:  calID,
		Title:       rec.text(titleField).OrEmpty(),
		Description: rec.text(descriptionField),
		DueAt:       due,
		Status:      taskStatusOf(rec),
		Priority:    Priority(rec.text(taskPriority).OrEmpty()),
		Kind:        rec.text(taskKind),
	}, nil
}

// taskStatusOf prefers the first string status; a boolean completed flag
// is accepted when no string is present.
func taskStatusOf(rec record) model.TaskStatus {
	if s, ok := rec.text(taskStatus).Get(); ok {
		return Status(s)
	}
	if done, ok := rec["completed"].(bool); ok && done {
		return model.TaskCompleted
	}
	return model.TaskPending
}

// Status maps a free-form server status onto the canonical set by
// case-insensitive substring: "comp" is completed, "cancel" is cancelled,
// anything else is pending.
func Status(s string) model.TaskStatus {
	upper := strings.ToUpper(s)
	switch {
	case strings.Contains(upper, "COMP"):
		return model.TaskCompleted
	case strings.Contains(upper, "CANCEL"):
		return model.TaskCancelled
	default:
		return model.TaskPending
	}
}

// Priority maps LOW, MEDIUM and HIGH (any case); anything else is absent.
func Priority(s string) mo.Option[model.TaskPriority] {
	switch p := model.TaskPriority(strings.ToUpper(strings.TrimSpace(s))); p {
	case model.PriorityLow, model.PriorityMedium, model.PriorityHigh:
		return mo.Some(p)
	default:
		return mo.None[model.TaskPriority]()
	}
}

// Calendar normalizes a calendar record. A bare string or number is
// taken as the calendar id.
func Calendar(raw any) (model.Calendar, error) {
	if id, ok := idString(raw); ok {
		if id == "" {
			return model.Calendar{}, shapeErr("calendar", "empty id")
		}
		return model.Calendar{ID: id, Name: mo.None[string](), Enabled: true}, nil
	}

	rec, ok := asRecord(raw)
	if !ok {
		return model.Calendar{}, shapeErr("calendar", "not an object")
	}
	id, ok := rec.id(calendarID)
	if !ok {
		return model.Calendar{}, shapeErr("calendar", "missing %s", calendarID.Name)
	}

	return model.Calendar{
		ID:      id,
		Name:    rec.text(calendarName),
		Enabled: true,
	}, nil
}

// Note normalizes a note record.
func Note(raw any) (model.Note, error) {
	rec, ok := asRecord(raw)
	if !ok {
		return model.Note{}, shapeErr("note", "not an object")
	}
	id, ok := rec.id(noteID)
	if !ok {
		return model.Note{}, shapeErr("note", "missing %s", noteID.Name)
	}
	calID, _ := rec.id(calendarRef)

	return model.Note{
		ID:         id,
		CalendarID: calID,
		Date:       rec.text(noteDate).OrEmpty(),
		Title:      rec.text(titleField),
		Memo:       rec.text(noteMemo),
	}, nil
}
