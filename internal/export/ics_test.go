package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/monthcal/internal/model"
)

func decode(t *testing.T, data []byte) *ical.Calendar {
	t.Helper()
	cal, err := ical.NewDecoder(bytes.NewReader(data)).Decode()
	require.NoError(t, err)
	return cal
}

func children(cal *ical.Calendar, name string) []*ical.Component {
	var out []*ical.Component
	for _, c := range cal.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

func TestWriteEventsAndTasks(t *testing.T) {
	now := time.Date(2024, 2, 1, 12, 0, 0, 0, time.UTC)
	events := []model.Event{
		{
			ID:          "e1",
			CalendarID:  "work",
			Title:       "Standup",
			Description: mo.Some("daily"),
			StartAt:     time.Date(2024, 2, 5, 9, 0, 0, 0, time.FixedZone("", 2*3600)),
			EndAt:       time.Date(2024, 2, 5, 9, 15, 0, 0, time.FixedZone("", 2*3600)),
		},
		{
			ID:      "e2",
			Title:   "Offsite",
			AllDay:  true,
			StartAt: time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
			EndAt:   time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		},
	}
	tasks := []model.Task{
		{
			ID:       "t1",
			Title:    "Pay rent",
			DueAt:    time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC),
			Status:   model.TaskCompleted,
			Priority: mo.Some(model.PriorityHigh),
		},
		{
			ID:     "t2",
			Title:  "Call plumber",
			DueAt:  time.Date(2024, 2, 14, 0, 0, 0, 0, time.UTC),
			Status: model.TaskPending,
			Kind:   mo.Some(model.KindMemo),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, events, tasks, Options{Name: "February 2024", Now: now}))
	cal := decode(t, buf.Bytes())

	prodID, err := cal.Props.Text(ical.PropProductID)
	require.NoError(t, err)
	assert.Equal(t, productID, prodID)

	vevents := children(cal, ical.CompEvent)
	require.Len(t, vevents, 2)

	uid, _ := vevents[0].Props.Text(ical.PropUID)
	assert.Equal(t, "event-work-e1@monthcal", uid)
	start, err := vevents[0].Props.DateTime(ical.PropDateTimeStart, time.UTC)
	require.NoError(t, err)
	assert.True(t, start.Equal(time.Date(2024, 2, 5, 7, 0, 0, 0, time.UTC)))

	allDay := vevents[1].Props.Get(ical.PropDateTimeStart)
	require.NotNil(t, allDay)
	assert.Equal(t, ical.ValueDate, allDay.ValueType())
	assert.Equal(t, "20240210", allDay.Value)
	assert.Equal(t, "20240211", vevents[1].Props.Get(ical.PropDateTimeEnd).Value)

	todos := children(cal, ical.CompToDo)
	require.Len(t, todos, 2)

	status, _ := todos[0].Props.Text(ical.PropStatus)
	assert.Equal(t, "COMPLETED", status)
	prio, _ := todos[0].Props.Text(ical.PropPriority)
	assert.Equal(t, "1", prio)

	status, _ = todos[1].Props.Text(ical.PropStatus)
	assert.Equal(t, "NEEDS-ACTION", status)
	cat, _ := todos[1].Props.Text(ical.PropCategories)
	assert.Equal(t, model.KindMemo, cat)
	assert.Nil(t, todos[1].Props.Get(ical.PropPriority))
}

func TestWriteNothing(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, Write(&buf, nil, nil, Options{}))
	assert.Zero(t, buf.Len())
}

func TestAllDayEnd(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2024, 2, d, 0, 0, 0, 0, time.UTC) }

	assert.Equal(t, day(11), allDayEnd(day(10), day(10)))
	assert.Equal(t, day(12), allDayEnd(day(10), day(12)))
	assert.Equal(t, day(13), allDayEnd(day(10), day(12).Add(23*time.Hour)))
	assert.Equal(t, day(11), allDayEnd(day(10), day(9)))
}

func TestTodoMappings(t *testing.T) {
	assert.Equal(t, "CANCELLED", todoStatus(model.TaskCancelled))
	assert.Equal(t, 5, todoPriority(model.PriorityMedium))
	assert.Equal(t, 9, todoPriority(model.PriorityLow))
}
