package adapter

import (
	"errors"
	"testing"
	"time"

	"github.com/samber/mo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/monthcal/internal/credential"
	"github.com/nhle/monthcal/internal/model"
)

func decode(t *testing.T, payload string) any {
	t.Helper()
	raw, err := Decode([]byte(payload))
	require.NoError(t, err)
	return raw
}

func TestEventSameRegardlessOfNamingConvention(t *testing.T) {
	snake := decode(t, `{
		"event_id": "e1", "calendar_id": "c1", "title": "Standup",
		"description": "daily", "start_at": "2024-02-10T09:00:00+09:00",
		"end_at": "2024-02-10T09:15:00+09:00", "is_all_day": false
	}`)
	camel := decode(t, `{
		"eventId": "e1", "calendarId": "c1", "title": "Standup",
		"description": "daily", "startAt": "2024-02-10T09:00:00+09:00",
		"endAt": "2024-02-10T09:15:00+09:00", "isAllDay": false
	}`)

	a, err := Event(snake)
	require.NoError(t, err)
	b, err := Event(camel)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Equal(t, "e1", a.ID)
	assert.Equal(t, "c1", a.CalendarID)
	assert.Equal(t, mo.Some("daily"), a.Description)
	assert.True(t, a.StartAt.Equal(time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC)))
}

func TestEventAliasOrder(t *testing.T) {
	// "id" wins over "event_id"; "start_at" wins over "start".
	ev, err := Event(decode(t, `{
		"id": 7, "event_id": "ignored",
		"start_at": "2024-03-01", "start": "1999-01-01",
		"end": "2024-03-02T10:30", "allDay": "true"
	}`))
	require.NoError(t, err)

	assert.Equal(t, "7", ev.ID)
	assert.Equal(t, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), ev.StartAt)
	assert.Equal(t, time.Date(2024, 3, 2, 10, 30, 0, 0, time.UTC), ev.EndAt)
	assert.True(t, ev.AllDay)
	assert.True(t, ev.Description.IsAbsent())
	assert.True(t, ev.MultiDay())
}

func TestEventMalformed(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{"not an object", `["e1"]`},
		{"missing id", `{"start_at": "2024-02-10", "end_at": "2024-02-10"}`},
		{"empty id", `{"id": "", "start_at": "2024-02-10", "end_at": "2024-02-10"}`},
		{"missing start", `{"id": "e1", "end_at": "2024-02-10"}`},
		{"bad end", `{"id": "e1", "start_at": "2024-02-10", "end_at": "tomorrow"}`},
		{"numeric all-day", `{"id": "e1", "start_at": "2024-02-10", "end_at": "2024-02-10", "is_all_day": 1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Event(decode(t, tt.payload))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidResponseShape))

			var shape *ShapeError
			require.ErrorAs(t, err, &shape)
			assert.Equal(t, "event", shape.Entity)
		})
	}
}

func TestTaskStatusSubstringMatch(t *testing.T) {
	task, err := Task(decode(t, `{"id":"1","due_at":"2024-02-10T00:00:00Z","status":"Completed_by_user"}`))
	require.NoError(t, err)

	assert.Equal(t, model.TaskCompleted, task.Status)
	assert.Equal(t, "1", task.ID)
	assert.Equal(t, "", task.CalendarID)
	assert.Equal(t, time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC), task.DueAt)
}

func TestStatus(t *testing.T) {
	tests := map[string]model.TaskStatus{
		"COMPLETED":   model.TaskCompleted,
		"complete":    model.TaskCompleted,
		"Cancelled":   model.TaskCancelled,
		"canceled":    model.TaskCancelled,
		"PENDING":     model.TaskPending,
		"in_progress": model.TaskPending,
		"":            model.TaskPending,
	}
	for in, want := range tests {
		assert.Equal(t, want, Status(in), "status %q", in)
	}
}

func TestTaskStatusSources(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    model.TaskStatus
	}{
		{"state alias", `{"id":"1","due":"2024-02-10","state":"cancelled"}`, model.TaskCancelled},
		{"string completed", `{"id":"1","dueAt":"2024-02-10","completed":"COMPLETED"}`, model.TaskCompleted},
		{"boolean completed", `{"id":"1","dueAt":"2024-02-10","completed":true}`, model.TaskCompleted},
		{"boolean not completed", `{"id":"1","dueAt":"2024-02-10","completed":false}`, model.TaskPending},
		{"no status", `{"id":"1","dueAt":"2024-02-10"}`, model.TaskPending},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task, err := Task(decode(t, tt.payload))
			require.NoError(t, err)
			assert.Equal(t, tt.want, task.Status)
		})
	}
}

func TestTaskPriorityAndKind(t *testing.T) {
	task, err := Task(decode(t, `{"task_id":"9","due_at":"2024-02-10","priority":"high","type":"MEMO"}`))
	require.NoError(t, err)

	assert.Equal(t, mo.Some(model.PriorityHigh), task.Priority)
	assert.True(t, task.IsMemo())

	task, err = Task(decode(t, `{"task_id":"9","due_at":"2024-02-10","priority":"urgent"}`))
	require.NoError(t, err)
	assert.True(t, task.Priority.IsAbsent())
	assert.False(t, task.IsMemo())
}

func TestTokenPair(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    credential.Pair
		wantErr bool
	}{
		{"camel", `{"accessToken":"a","refreshToken":"b"}`, credential.Pair{Access: "a", Refresh: "b"}, false},
		{"snake", `{"access_token":"a","refresh_token":"b"}`, credential.Pair{Access: "a", Refresh: "b"}, false},
		{"mixed", `{"accessToken":"a","refresh_token":"b"}`, credential.Pair{Access: "a", Refresh: "b"}, false},
		{"missing refresh", `{"accessToken":"a"}`, credential.Pair{}, true},
		{"empty access", `{"accessToken":"","refreshToken":"b"}`, credential.Pair{}, true},
		{"not an object", `"token"`, credential.Pair{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := TokenPair(decode(t, tt.payload))
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidResponseShape)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestPageShapes(t *testing.T) {
	const record = `{"id":"e1","start_at":"2024-02-10","end_at":"2024-02-10"}`

	tests := []struct {
		name    string
		payload string
	}{
		{"bare array", `[` + record + `]`},
		{"content", `{"content":[` + record + `],"totalElements":1}`},
		{"items", `{"items":[` + record + `]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := Events(decode(t, tt.payload))
			require.Len(t, page.Content, 1)
			assert.Equal(t, "e1", page.Content[0].ID)
			assert.Zero(t, page.Skipped)
		})
	}

	page := Events(decode(t, `{"content":[],"totalElements":40,"totalPages":2,"number":1,"size":20}`))
	assert.Equal(t, mo.Some(40), page.TotalElements)
	assert.Equal(t, mo.Some(2), page.TotalPages)
	assert.Equal(t, mo.Some(1), page.Number)
	assert.Equal(t, mo.Some(20), page.Size)

	assert.Empty(t, Events(decode(t, `{"unexpected":true}`)).Content)
}

func TestPageSkipsMalformedRecords(t *testing.T) {
	page := Tasks(decode(t, `{"content":[
		{"id":"t1","due_at":"2024-02-10"},
		{"id":"t2"},
		"garbage",
		{"id":"t3","due_at":"2024-02-11","status":"done"}
	]}`))

	require.Len(t, page.Content, 2)
	assert.Equal(t, "t1", page.Content[0].ID)
	assert.Equal(t, "t3", page.Content[1].ID)
	assert.Equal(t, 2, page.Skipped)
}

func TestCalendars(t *testing.T) {
	page := Calendars(decode(t, `[{"id":"c1","name":"Work"},{"calendar_id":2},"c3",{"name":"nameless"}]`))

	require.Len(t, page.Content, 3)
	assert.Equal(t, "Work", page.Content[0].Label())
	assert.Equal(t, "2", page.Content[1].ID)
	assert.Equal(t, "c3", page.Content[2].Label())
	assert.True(t, page.Content[2].Enabled)
	assert.Equal(t, 1, page.Skipped)
}

func TestUser(t *testing.T) {
	u, err := User(decode(t, `{"id":"u1","email":"a@b.c","display_name":"Ann","role":"USER","photoURL":null}`))
	require.NoError(t, err)

	assert.Equal(t, "u1", u.ID)
	assert.Equal(t, mo.Some("Ann"), u.DisplayName)
	assert.True(t, u.PhotoURL.IsAbsent())

	_, err = User(decode(t, `{"email":"a@b.c"}`))
	assert.ErrorIs(t, err, ErrInvalidResponseShape)
}

func TestFieldLookupOrder(t *testing.T) {
	rec := record{"start": "c", "startAt": "b", "start_at": nil}

	v, ok := rec.lookup(eventStart)
	require.True(t, ok)
	assert.Equal(t, "b", v, "null values are skipped")

	_, ok = record{}.lookup(eventStart)
	assert.False(t, ok)
}

func TestParseTime(t *testing.T) {
	for _, s := range []string{
		"2024-02-10T00:00:00Z",
		"2024-02-10T00:00:00.123Z",
		"2024-02-10T09:00:00+09:00",
		"2024-02-10T00:00:00.000+0000",
		"2024-02-10T00:00:00",
		"2024-02-10T00:00",
		"2024-02-10",
	} {
		_, err := ParseTime(s)
		assert.NoError(t, err, s)
	}

	_, err := ParseTime("10/02/2024")
	assert.Error(t, err)
}
