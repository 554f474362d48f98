package model

import (
	"time"

	"github.com/samber/mo"
)

// TaskStatus is the normalized task status.
type TaskStatus string

const (
	TaskPending   TaskStatus = "PENDING"
	TaskCompleted TaskStatus = "COMPLETED"
	TaskCancelled TaskStatus = "CANCELLED"
)

// TaskPriority is the normalized task priority.
type TaskPriority string

const (
	PriorityLow    TaskPriority = "LOW"
	PriorityMedium TaskPriority = "MEDIUM"
	PriorityHigh   TaskPriority = "HIGH"
)

// KindMemo tags a task that stands in for a memo.
const KindMemo = "MEMO"

// Task is the canonical task, independent of the field naming the server
// used for it.
type Task struct {
	ID          string                  `json:"id"`
	CalendarID  string                  `json:"calendar_id"`
	Title       string                  `json:"title"`
	Description mo.Option[string]       `json:"description"`
	DueAt       time.Time               `json:"due_at"`
	Status      TaskStatus              `json:"status"`
	Priority    mo.Option[TaskPriority] `json:"priority"`

	// Kind is a free-form tag such as KindMemo.
	Kind mo.Option[string] `json:"type"`
}

// Done reports whether the task is completed.
func (t Task) Done() bool {
	return t.Status == TaskCompleted
}

// IsMemo reports whether the task carries the memo tag.
func (t Task) IsMemo() bool {
	return t.Kind.OrEmpty() == KindMemo
}

// Overdue reports whether an unfinished task is past its due time.
func (t Task) Overdue(now time.Time) bool {
	return !t.Done() && t.Status != TaskCancelled && t.DueAt.Before(now)
}

// TaskInput is the request body for creating a task.
type TaskInput struct {
	CalendarID  string        `json:"calendar_id"`
	Title       string        `json:"title"`
	Description *string       `json:"description"`
	DueAt       time.Time     `json:"due_at"`
	Status      TaskStatus    `json:"status,omitempty"`
	Priority    *TaskPriority `json:"priority"`
	Kind        *string       `json:"type,omitempty"`
}

// TaskPatch is the request body for a partial task update.
type TaskPatch struct {
	Title       *string       `json:"title,omitempty"`
	Description *string       `json:"description,omitempty"`
	DueAt       *time.Time    `json:"due_at,omitempty"`
	Status      *TaskStatus   `json:"status,omitempty"`
	Priority    *TaskPriority `json:"priority,omitempty"`
	Kind        *string       `json:"type,omitempty"`
}
