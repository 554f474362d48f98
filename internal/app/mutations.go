package app

import (
	"context"

	"github.com/nhle/monthcal/internal/api"
	"github.com/nhle/monthcal/internal/model"
)

// Writes reach the cache only once the server has accepted them, so a
// failed write leaves whatever the latest round loaded.

// CreateEvent creates an event and adds it to the cache.
func (s *Service) CreateEvent(ctx context.Context, in model.EventInput) (model.Event, error) {
	ev, err := s.client.CreateEvent(ctx, in)
	if err != nil {
		return model.Event{}, err
	}
	s.cache.Events.Upsert(ev)
	return ev, nil
}

// UpdateEvent patches an event and replaces it in the cache with the
// server's copy.
func (s *Service) UpdateEvent(ctx context.Context, id string, patch model.EventPatch) (model.Event, error) {
	ev, err := s.client.UpdateEvent(ctx, id, patch)
	if err != nil {
		return model.Event{}, err
	}
	s.cache.Events.Upsert(ev)
	return ev, nil
}

// DeleteEvent deletes an event.
func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	if err := s.client.DeleteEvent(ctx, id); err != nil {
		return err
	}
	s.cache.Events.Remove(id)
	return nil
}

// CreateTask creates a task and adds it to the cache.
func (s *Service) CreateTask(ctx context.Context, in model.TaskInput) (model.Task, error) {
	task, err := s.client.CreateTask(ctx, in)
	if err != nil {
		return model.Task{}, err
	}
	s.cache.Tasks.Upsert(task)
	return task, nil
}

// UpdateTask patches a task.
func (s *Service) UpdateTask(ctx context.Context, id string, patch model.TaskPatch) (model.Task, error) {
	task, err := s.client.UpdateTask(ctx, id, patch)
	if err != nil {
		return model.Task{}, err
	}
	s.cache.Tasks.Upsert(task)
	return task, nil
}

// SetTaskCompleted marks a task completed or pending.
func (s *Service) SetTaskCompleted(ctx context.Context, id string, completed bool) (model.Task, error) {
	task, err := s.client.ToggleTaskComplete(ctx, id, completed)
	if err != nil {
		return model.Task{}, err
	}
	s.cache.Tasks.Upsert(task)
	return task, nil
}

// DeleteTask deletes a task.
func (s *Service) DeleteTask(ctx context.Context, id string) error {
	if err := s.client.DeleteTask(ctx, id); err != nil {
		return err
	}
	s.cache.Tasks.Remove(id)
	return nil
}

// CreateMemo creates a dated memo. When the backend stores it as a task,
// the task is added to the cache.
func (s *Service) CreateMemo(ctx context.Context, in model.NoteInput) (api.MemoResult, error) {
	res, err := s.client.CreateMemo(ctx, in)
	if err != nil {
		return api.MemoResult{}, err
	}
	if task, ok := res.Task.Get(); ok {
		s.cache.Tasks.Upsert(task)
	}
	return res, nil
}
