package api

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/monthcal/internal/credential"
	"github.com/nhle/monthcal/internal/model"
)

var signedIn = credential.Pair{Access: "a", Refresh: "r"}

func TestListEventsQuery(t *testing.T) {
	_, srv := newFakeBackend(t, map[string]http.HandlerFunc{
		"/events": func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query()
			assert.Equal(t, "cal-1", q.Get("calendarId"))
			assert.Equal(t, "2024-01-28", q.Get("dateFrom"))
			assert.Equal(t, "2024-03-09", q.Get("dateTo"))
			writeJSON(w, http.StatusOK, `{
				"content": [
					{"id":"e1","calendar_id":"cal-1","title":"Standup","start_at":"2024-02-05T09:00:00Z","end_at":"2024-02-05T09:15:00Z"},
					{"title":"no id"}
				],
				"totalElements": 2,
				"number": 0
			}`)
		},
	})
	client, _, _ := newTestClient(t, srv, signedIn)

	page, err := client.ListEvents(context.Background(), RangeQuery{
		CalendarID: "cal-1",
		From:       time.Date(2024, 1, 28, 0, 0, 0, 0, time.UTC),
		To:         time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	require.Len(t, page.Content, 1)
	assert.Equal(t, "e1", page.Content[0].ID)
	assert.Equal(t, 1, page.Skipped)
	assert.Equal(t, 2, page.TotalElements.MustGet())
}

func TestRangeQueryOmitsUnsetParams(t *testing.T) {
	assert.Equal(t, "/tasks", RangeQuery{}.path(pathTasks))
	assert.Equal(t, "/tasks?calendarId=a+b", RangeQuery{CalendarID: "a b"}.path(pathTasks))
}

func TestListCalendarsShapes(t *testing.T) {
	for name, body := range map[string]string{
		"bare array": `[{"id":"c1","name":"Work"},"c2"]`,
		"content":    `{"content":[{"id":"c1","name":"Work"},{"calendarId":"c2"}]}`,
		"items":      `{"items":[{"calendar_id":"c1","name":"Work"},{"id":"c2"}]}`,
	} {
		t.Run(name, func(t *testing.T) {
			_, srv := newFakeBackend(t, map[string]http.HandlerFunc{
				"/calendars": func(w http.ResponseWriter, _ *http.Request) {
					writeJSON(w, http.StatusOK, body)
				},
			})
			client, _, _ := newTestClient(t, srv, signedIn)

			cals, err := client.ListCalendars(context.Background())
			require.NoError(t, err)
			require.Len(t, cals, 2)
			assert.Equal(t, "c1", cals[0].ID)
			assert.Equal(t, "Work", cals[0].Label())
			assert.Equal(t, "c2", cals[1].ID)
		})
	}
}

func TestCreateEventSendsSnakeCase(t *testing.T) {
	_, srv := newFakeBackend(t, map[string]http.HandlerFunc{
		"/events": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "cal-1", body["calendar_id"])
			assert.Equal(t, "Review", body["title"])
			assert.Equal(t, true, body["is_all_day"])
			assert.Equal(t, "2024-02-10T00:00:00Z", body["start_at"])

			writeJSON(w, http.StatusCreated, `{"eventId":42,"calendarId":"cal-1","title":"Review","startAt":"2024-02-10","endAt":"2024-02-11","allDay":true}`)
		},
	})
	client, _, _ := newTestClient(t, srv, signedIn)

	ev, err := client.CreateEvent(context.Background(), model.EventInput{
		CalendarID: "cal-1",
		Title:      "Review",
		AllDay:     true,
		StartAt:    time.Date(2024, 2, 10, 0, 0, 0, 0, time.UTC),
		EndAt:      time.Date(2024, 2, 11, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.Equal(t, "42", ev.ID)
	assert.True(t, ev.AllDay)
}

func TestCreateEventMalformedResponse(t *testing.T) {
	_, srv := newFakeBackend(t, map[string]http.HandlerFunc{
		"/events": func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, http.StatusCreated, `{"title":"no id"}`)
		},
	})
	client, _, _ := newTestClient(t, srv, signedIn)

	_, err := client.CreateEvent(context.Background(), model.EventInput{Title: "x"})
	assert.ErrorIs(t, err, ErrInvalidResponseShape)
}

func TestToggleAndDeleteTask(t *testing.T) {
	backend, srv := newFakeBackend(t, map[string]http.HandlerFunc{
		"/tasks/t 1": func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodPatch:
				var body map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, map[string]any{"status": "COMPLETED"}, body)
				writeJSON(w, http.StatusOK, `{"id":"t 1","title":"Pay rent","due_at":"2024-02-01T00:00:00Z","status":"COMPLETED"}`)
			case http.MethodDelete:
				w.WriteHeader(http.StatusNoContent)
			}
		},
	})
	client, _, _ := newTestClient(t, srv, signedIn)

	task, err := client.ToggleTaskComplete(context.Background(), "t 1", true)
	require.NoError(t, err)
	assert.True(t, task.Done())

	require.NoError(t, client.DeleteTask(context.Background(), "t 1"))
	assert.Equal(t, 2, backend.count("/tasks/t 1"))
}

func TestMe(t *testing.T) {
	_, srv := newFakeBackend(t, map[string]http.HandlerFunc{
		"/auth/me": func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Bearer a", r.Header.Get("Authorization"))
			writeJSON(w, http.StatusOK, `{"id":7,"email":"ana@example.com","display_name":"Ana","role":"USER"}`)
		},
	})
	client, _, _ := newTestClient(t, srv, signedIn)

	user, err := client.Me(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "7", user.ID)
	assert.Equal(t, "Ana", user.DisplayName.MustGet())
}

func TestCreateMemo(t *testing.T) {
	memo := "call the plumber"

	t.Run("notes endpoint", func(t *testing.T) {
		_, srv := newFakeBackend(t, map[string]http.HandlerFunc{
			"/notes": func(w http.ResponseWriter, _ *http.Request) {
				writeJSON(w, http.StatusCreated, `{"id":"n1","calendar_id":"c1","date":"2024-02-14","memo":"call the plumber"}`)
			},
		})
		client, _, _ := newTestClient(t, srv, signedIn)

		res, err := client.CreateMemo(context.Background(), model.NoteInput{CalendarID: "c1", Date: "2024-02-14", Memo: &memo})
		require.NoError(t, err)
		assert.Equal(t, "n1", res.Note.MustGet().ID)
		assert.True(t, res.Task.IsAbsent())
	})

	t.Run("falls back to memo task", func(t *testing.T) {
		backend, srv := newFakeBackend(t, map[string]http.HandlerFunc{
			"/tasks": func(w http.ResponseWriter, r *http.Request) {
				var body map[string]any
				require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
				assert.Equal(t, "MEMO", body["type"])
				assert.Equal(t, memo, body["title"])
				assert.Equal(t, "2024-02-14T00:00:00Z", body["due_at"])
				writeJSON(w, http.StatusCreated, `{"id":"t9","title":"call the plumber","due_at":"2024-02-14T00:00:00Z","type":"MEMO"}`)
			},
		})
		client, _, _ := newTestClient(t, srv, signedIn)

		res, err := client.CreateMemo(context.Background(), model.NoteInput{CalendarID: "c1", Date: "2024-02-14", Memo: &memo})
		require.NoError(t, err)
		assert.True(t, res.Note.IsAbsent())
		assert.True(t, res.Task.MustGet().IsMemo())
		assert.Equal(t, 1, backend.count("/notes"))
	})

	t.Run("other failures are returned", func(t *testing.T) {
		backend, srv := newFakeBackend(t, map[string]http.HandlerFunc{
			"/notes": status(http.StatusBadRequest),
		})
		client, _, _ := newTestClient(t, srv, signedIn)

		_, err := client.CreateMemo(context.Background(), model.NoteInput{CalendarID: "c1", Date: "2024-02-14"})
		httpErr, ok := AsHTTPError(err)
		require.True(t, ok)
		assert.Equal(t, http.StatusBadRequest, httpErr.Status)
		assert.Zero(t, backend.count("/tasks"))
	})
}
