package api

import (
	"context"
	"fmt"
	"net/http"

	"github.com/samber/mo"

	"github.com/nhle/monthcal/internal/adapter"
	"github.com/nhle/monthcal/internal/model"
	"github.com/nhle/monthcal/internal/monthgrid"
)

// MemoResult holds whichever record CreateMemo ended up creating.
type MemoResult struct {
	Note mo.Option[model.Note]
	Task mo.Option[model.Task]
}

// CreateNote creates a dated note.
func (c *Client) CreateNote(ctx context.Context, in model.NoteInput) (model.Note, error) {
	raw, err := c.entity(ctx, http.MethodPost, pathNotes, in, "note")
	if err != nil {
		return model.Note{}, fmt.Errorf("creating note: %w", err)
	}
	return adapter.Note(raw)
}

// CreateMemo creates a note. Backends without a notes endpoint get a task
// tagged KindMemo, due at the start of the note's date.
func (c *Client) CreateMemo(ctx context.Context, in model.NoteInput) (MemoResult, error) {
	note, err := c.CreateNote(ctx, in)
	if err == nil {
		return MemoResult{Note: mo.Some(note)}, nil
	}

	httpErr, ok := AsHTTPError(err)
	if !ok || !notesUnsupported(httpErr.Status) {
		return MemoResult{}, err
	}

	due, perr := monthgrid.ParseDay(in.Date)
	if perr != nil {
		return MemoResult{}, fmt.Errorf("memo date %q: %w", in.Date, perr)
	}

	c.logger.Debug("notes endpoint unavailable, storing memo as task", "status", httpErr.Status)

	title := "Memo"
	switch {
	case in.Title != nil && *in.Title != "":
		title = *in.Title
	case in.Memo != nil && *in.Memo != "":
		title = *in.Memo
	}
	kind := model.KindMemo

	task, err := c.CreateTask(ctx, model.TaskInput{
		CalendarID:  in.CalendarID,
		Title:       title,
		Description: in.Memo,
		DueAt:       due,
		Status:      model.TaskPending,
		Kind:        &kind,
	})
	if err != nil {
		return MemoResult{}, err
	}
	return MemoResult{Task: mo.Some(task)}, nil
}

func notesUnsupported(status int) bool {
	switch status {
	case http.StatusNotFound, http.StatusMethodNotAllowed, http.StatusNotImplemented:
		return true
	}
	return false
}
