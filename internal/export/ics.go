// Package export writes the month's events and tasks as iCalendar.
package export

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/emersion/go-ical"

	"github.com/nhle/monthcal/internal/model"
)

const productID = "-//monthcal//Month Export//EN"

// Options controls an export.
type Options struct {
	// Name is written as the calendar name, when set.
	Name string

	// Now stamps DTSTAMP. Zero means time.Now.
	Now time.Time
}

// Write encodes events as VEVENT and tasks as VTODO components.
func Write(w io.Writer, events []model.Event, tasks []model.Task, opts Options) error {
	if len(events)+len(tasks) == 0 {
		return fmt.Errorf("nothing to export")
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	now = now.UTC()

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropProductID, productID)
	cal.Props.SetText(ical.PropVersion, "2.0")
	if opts.Name != "" {
		cal.Props.SetText(ical.PropName, opts.Name)
	}

	for _, e := range events {
		cal.Children = append(cal.Children, eventComponent(e, now))
	}
	for _, t := range tasks {
		cal.Children = append(cal.Children, taskComponent(t, now))
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encoding calendar: %w", err)
	}
	return nil
}

func eventComponent(e model.Event, now time.Time) *ical.Component {
	comp := ical.NewComponent(ical.CompEvent)
	comp.Props.SetText(ical.PropUID, uid("event", e.CalendarID, e.ID))
	comp.Props.SetDateTime(ical.PropDateTimeStamp, now)
	comp.Props.SetText(ical.PropSummary, e.Title)
	if d, ok := e.Description.Get(); ok && d != "" {
		comp.Props.SetText(ical.PropDescription, d)
	}

	if e.AllDay {
		comp.Props.SetDate(ical.PropDateTimeStart, e.StartAt)
		comp.Props.SetDate(ical.PropDateTimeEnd, allDayEnd(e.StartAt, e.EndAt))
	} else {
		comp.Props.SetDateTime(ical.PropDateTimeStart, e.StartAt.UTC())
		comp.Props.SetDateTime(ical.PropDateTimeEnd, e.EndAt.UTC())
	}
	return comp
}

// allDayEnd returns the exclusive end date. An end at midnight after the
// start is already exclusive; any other end covers its whole day.
func allDayEnd(start, end time.Time) time.Time {
	y, m, d := end.Date()
	day := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	if end.Equal(day) && end.After(start) {
		return day
	}
	if end.Before(start) {
		sy, sm, sd := start.Date()
		day = time.Date(sy, sm, sd, 0, 0, 0, 0, time.UTC)
	}
	return day.AddDate(0, 0, 1)
}

func taskComponent(t model.Task, now time.Time) *ical.Component {
	comp := ical.NewComponent(ical.CompToDo)
	comp.Props.SetText(ical.PropUID, uid("task", t.CalendarID, t.ID))
	comp.Props.SetDateTime(ical.PropDateTimeStamp, now)
	comp.Props.SetText(ical.PropSummary, t.Title)
	if d, ok := t.Description.Get(); ok && d != "" {
		comp.Props.SetText(ical.PropDescription, d)
	}
	comp.Props.SetDateTime(ical.PropDue, t.DueAt.UTC())
	comp.Props.SetText(ical.PropStatus, todoStatus(t.Status))

	if p, ok := t.Priority.Get(); ok {
		comp.Props.SetText(ical.PropPriority, strconv.Itoa(todoPriority(p)))
	}
	if kind, ok := t.Kind.Get(); ok && kind != "" {
		comp.Props.SetText(ical.PropCategories, kind)
	}
	return comp
}

func todoStatus(s model.TaskStatus) string {
	switch s {
	case model.TaskCompleted:
		return "COMPLETED"
	case model.TaskCancelled:
		return "CANCELLED"
	default:
		return "NEEDS-ACTION"
	}
}

// todoPriority maps onto the RFC 5545 scale, where 1 is highest.
func todoPriority(p model.TaskPriority) int {
	switch p {
	case model.PriorityHigh:
		return 1
	case model.PriorityMedium:
		return 5
	default:
		return 9
	}
}

func uid(kind, calendarID, id string) string {
	if calendarID == "" {
		return fmt.Sprintf("%s-%s@monthcal", kind, id)
	}
	return fmt.Sprintf("%s-%s-%s@monthcal", kind, calendarID, id)
}
