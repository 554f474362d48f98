package api

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/nhle/monthcal/internal/adapter"
	"github.com/nhle/monthcal/internal/model"
	"github.com/nhle/monthcal/internal/monthgrid"
)

const (
	pathMe        = "/auth/me"
	pathCalendars = "/calendars"
	pathEvents    = "/events"
	pathTasks     = "/tasks"
	pathNotes     = "/notes"
)

// RangeQuery filters an event or task listing. Zero fields are omitted.
type RangeQuery struct {
	CalendarID string
	From       time.Time
	To         time.Time
}

func (q RangeQuery) path(base string) string {
	v := url.Values{}
	if q.CalendarID != "" {
		v.Set("calendarId", q.CalendarID)
	}
	if !q.From.IsZero() {
		v.Set("dateFrom", monthgrid.FormatDay(q.From))
	}
	if !q.To.IsZero() {
		v.Set("dateTo", monthgrid.FormatDay(q.To))
	}
	if len(v) == 0 {
		return base
	}
	return base + "?" + v.Encode()
}

func itemPath(base, id string) string {
	return base + "/" + url.PathEscape(id)
}

// entity issues an authenticated call whose response must be one record.
func (c *Client) entity(ctx context.Context, method, path string, body any, name string) (any, error) {
	raw, err := c.Request(ctx, method, path, body, authed)
	if err != nil {
		return nil, err
	}
	return decodeEntity(name, raw)
}

// Me returns the signed-in account.
func (c *Client) Me(ctx context.Context) (model.User, error) {
	raw, err := c.entity(ctx, http.MethodGet, pathMe, nil, "user")
	if err != nil {
		return model.User{}, fmt.Errorf("fetching current user: %w", err)
	}
	return adapter.User(raw)
}

// ListCalendars returns the calendars visible to the signed-in account.
func (c *Client) ListCalendars(ctx context.Context) ([]model.Calendar, error) {
	var raw any
	if err := c.Get(ctx, pathCalendars, &raw); err != nil {
		return nil, fmt.Errorf("listing calendars: %w", err)
	}
	page := adapter.Calendars(raw)
	if page.Skipped > 0 {
		c.logger.Warn("skipped malformed calendars", "count", page.Skipped)
	}
	return page.Content, nil
}

// ListEvents returns one page of events matching q.
func (c *Client) ListEvents(ctx context.Context, q RangeQuery) (model.Page[model.Event], error) {
	var raw any
	if err := c.Get(ctx, q.path(pathEvents), &raw); err != nil {
		return model.Page[model.Event]{}, fmt.Errorf("listing events: %w", err)
	}
	page := adapter.Events(raw)
	if page.Skipped > 0 {
		c.logger.Warn("skipped malformed events",
			"calendar_id", q.CalendarID, "count", page.Skipped)
	}
	return page, nil
}

// CreateEvent creates an event and returns the stored record.
func (c *Client) CreateEvent(ctx context.Context, in model.EventInput) (model.Event, error) {
	raw, err := c.entity(ctx, http.MethodPost, pathEvents, in, "event")
	if err != nil {
		return model.Event{}, fmt.Errorf("creating event: %w", err)
	}
	return adapter.Event(raw)
}

// UpdateEvent applies patch to the event and returns the stored record.
func (c *Client) UpdateEvent(ctx context.Context, id string, patch model.EventPatch) (model.Event, error) {
	raw, err := c.entity(ctx, http.MethodPatch, itemPath(pathEvents, id), patch, "event")
	if err != nil {
		return model.Event{}, fmt.Errorf("updating event %s: %w", id, err)
	}
	return adapter.Event(raw)
}

// DeleteEvent deletes the event.
func (c *Client) DeleteEvent(ctx context.Context, id string) error {
	if err := c.Delete(ctx, itemPath(pathEvents, id)); err != nil {
		return fmt.Errorf("deleting event %s: %w", id, err)
	}
	return nil
}

// ListTasks returns one page of tasks matching q.
func (c *Client) ListTasks(ctx context.Context, q RangeQuery) (model.Page[model.Task], error) {
	var raw any
	if err := c.Get(ctx, q.path(pathTasks), &raw); err != nil {
		return model.Page[model.Task]{}, fmt.Errorf("listing tasks: %w", err)
	}
	page := adapter.Tasks(raw)
	if page.Skipped > 0 {
		c.logger.Warn("skipped malformed tasks",
			"calendar_id", q.CalendarID, "count", page.Skipped)
	}
	return page, nil
}

// CreateTask creates a task and returns the stored record.
func (c *Client) CreateTask(ctx context.Context, in model.TaskInput) (model.Task, error) {
	raw, err := c.entity(ctx, http.MethodPost, pathTasks, in, "task")
	if err != nil {
		return model.Task{}, fmt.Errorf("creating task: %w", err)
	}
	return adapter.Task(raw)
}

// UpdateTask applies patch to the task and returns the stored record.
func (c *Client) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	raw, err := c.entity(ctx, http.MethodPatch, itemPath(pathTasks, id), patch, "task")
	if err != nil {
		return model.Task{}, fmt.Errorf("updating task %s: %w", id, err)
	}
	return adapter.Task(raw)
}

// ToggleTaskComplete marks the task completed, or back to pending.
func (c *Client) ToggleTaskComplete(ctx context.Context, id string, completed bool) (model.Task, error) {
	status := model.TaskPending
	if completed {
		status = model.TaskCompleted
	}
	return c.UpdateTask(ctx, id, model.TaskPatch{Status: &status})
}

// DeleteTask deletes the task.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if err := c.Delete(ctx, itemPath(pathTasks, id)); err != nil {
		return fmt.Errorf("deleting task %s: %w", id, err)
	}
	return nil
}
