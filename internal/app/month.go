package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/nhle/monthcal/internal/export"
	"github.com/nhle/monthcal/internal/model"
	"github.com/nhle/monthcal/internal/monthgrid"
	"github.com/nhle/monthcal/internal/store"
	appsync "github.com/nhle/monthcal/internal/sync"
)

// Day is one grid cell with the records that fall on it.
type Day struct {
	Date    time.Time
	InMonth bool
	Events  []model.Event
	Tasks   []model.Task
}

// MonthView is the cache laid out on the month grid.
type MonthView struct {
	Grid  monthgrid.Grid
	Scope appsync.Scope
	Days  []Day
}

// ErrNoMonth is returned when no month has been loaded yet.
var ErrNoMonth = errors.New("no month loaded")

// LoadMonth runs an aggregation round for the month and returns the
// resulting view. Calendars are listed first if they have not been.
func (s *Service) LoadMonth(ctx context.Context, year int, month time.Month) (MonthView, error) {
	if err := s.requireSession(ctx); err != nil {
		return MonthView{}, err
	}
	if len(s.agg.Calendars()) == 0 {
		if _, err := s.LoadCalendars(ctx); err != nil {
			return MonthView{}, err
		}
	}

	scope, err := s.agg.LoadMonth(ctx, year, month)
	if err != nil {
		return MonthView{}, err
	}

	key := fmt.Sprintf("%04d-%02d", year, month)
	if err := s.store.SetPreference(ctx, store.PrefLastMonth, key); err != nil {
		s.logger.Warn("saving last viewed month", "error", err)
	}
	return s.viewFor(scope), nil
}

// View returns the view of the last loaded round.
func (s *Service) View() (MonthView, error) {
	scope, ok := s.agg.Status().Scope.Get()
	if !ok {
		return MonthView{}, ErrNoMonth
	}
	return s.viewFor(scope), nil
}

// LastMonth returns the most recently viewed month, or the current one.
func (s *Service) LastMonth(ctx context.Context) (int, time.Month) {
	now := time.Now()

	v, err := s.store.GetPreference(ctx, store.PrefLastMonth)
	if err != nil {
		s.logger.Warn("reading last viewed month", "error", err)
		return now.Year(), now.Month()
	}
	if raw, ok := v.Get(); ok {
		if y, m, err := monthgrid.ParseMonth(raw); err == nil {
			return y, m
		}
	}
	return now.Year(), now.Month()
}

// Watch reloads the last requested month on the configured schedule until
// ctx is done. Superseded rounds are not reported.
func (s *Service) Watch(ctx context.Context, onRound func(MonthView, error)) error {
	return s.agg.Watch(ctx, s.cfg.Display.RefreshCron, func(scope appsync.Scope, err error) {
		if errors.Is(err, appsync.ErrSuperseded) {
			return
		}
		if err != nil {
			onRound(MonthView{}, err)
			return
		}
		onRound(s.viewFor(scope), nil)
	})
}

// Export writes the cached month as iCalendar.
func (s *Service) Export(w io.Writer) error {
	view, err := s.View()
	if err != nil {
		return err
	}
	return export.Write(w, s.cache.Events.All(), s.cache.Tasks.All(), export.Options{
		Name: view.Grid.Title(),
	})
}

func (s *Service) viewFor(scope appsync.Scope) MonthView {
	grid := monthgrid.Build(scope.Year, scope.Month)
	return MonthView{
		Grid:  grid,
		Scope: scope,
		Days:  layout(grid, s.cache.Events.All(), s.cache.Tasks.All()),
	}
}

// layout buckets events on every grid day they cover and tasks on their
// due day. Records outside the grid are dropped.
func layout(grid monthgrid.Grid, events []model.Event, tasks []model.Task) []Day {
	cells := grid.Flat()
	days := make([]Day, len(cells))
	index := make(map[string]int, len(cells))
	for i, c := range cells {
		days[i] = Day{Date: c.Date, InMonth: c.InMonth}
		index[monthgrid.FormatDay(c.Date)] = i
	}

	gridFirst, gridLast := grid.Range()
	for _, e := range events {
		first, last := eventDays(e)
		if first.Before(gridFirst) {
			first = gridFirst
		}
		if last.After(gridLast) {
			last = gridLast
		}
		for d := first; !d.After(last); d = d.AddDate(0, 0, 1) {
			if i, ok := index[monthgrid.FormatDay(d)]; ok {
				days[i].Events = append(days[i].Events, e)
			}
		}
	}
	for _, t := range tasks {
		if i, ok := index[monthgrid.FormatDay(dayOf(t.DueAt))]; ok {
			days[i].Tasks = append(days[i].Tasks, t)
		}
	}

	for i := range days {
		sort.SliceStable(days[i].Events, func(a, b int) bool {
			ea, eb := days[i].Events[a], days[i].Events[b]
			if ea.AllDay != eb.AllDay {
				return ea.AllDay
			}
			return ea.StartAt.Before(eb.StartAt)
		})
		sort.SliceStable(days[i].Tasks, func(a, b int) bool {
			return days[i].Tasks[a].DueAt.Before(days[i].Tasks[b].DueAt)
		})
	}
	return days
}

// eventDays returns the first and last calendar day an event covers. An
// end exactly at midnight after the start does not cover that day.
func eventDays(e model.Event) (time.Time, time.Time) {
	first := dayOf(e.StartAt)
	last := dayOf(e.EndAt)
	if e.EndAt.Equal(midnight(e.EndAt)) && e.EndAt.After(e.StartAt) {
		last = last.AddDate(0, 0, -1)
	}
	if last.Before(first) {
		last = first
	}
	return first, last
}

// dayOf is the UTC midnight of t's date in t's own location.
func dayOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
