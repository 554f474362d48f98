// Package sync runs aggregation rounds: one month of events and tasks
// fetched from every enabled calendar and loaded into the cache.
package sync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	gosync "sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/samber/mo"
	"golang.org/x/sync/errgroup"

	"github.com/nhle/monthcal/internal/api"
	"github.com/nhle/monthcal/internal/cache"
	"github.com/nhle/monthcal/internal/model"
	"github.com/nhle/monthcal/internal/monthgrid"
)

// ErrSuperseded is returned by LoadMonth when a newer round, or a change
// to the calendar set, started while it was in flight. Its results are
// discarded.
var ErrSuperseded = errors.New("aggregation round superseded")

// Fetcher lists one calendar's events and tasks for a date range.
type Fetcher interface {
	ListEvents(ctx context.Context, q api.RangeQuery) (model.Page[model.Event], error)
	ListTasks(ctx context.Context, q api.RangeQuery) (model.Page[model.Task], error)
}

// RoundState is the state of the latest aggregation round.
type RoundState int

const (
	RoundIdle RoundState = iota
	RoundLoading
	RoundReady
	RoundError
)

func (s RoundState) String() string {
	switch s {
	case RoundLoading:
		return "loading"
	case RoundReady:
		return "ready"
	case RoundError:
		return "error"
	default:
		return "idle"
	}
}

// Scope is the input captured when a round starts.
type Scope struct {
	Year        int
	Month       time.Month
	From        time.Time
	To          time.Time
	CalendarIDs []string
	Generation  uint64
}

// Status describes the latest round.
type Status struct {
	State RoundState

	// Scope is the scope of the last round that loaded the cache.
	Scope mo.Option[Scope]

	// Err is the failure of the last round, when State is RoundError.
	Err error

	LastLoaded time.Time
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

type monthKey struct {
	year  int
	month time.Month
}

// Aggregator fans out per-calendar fetches and populates the cache only
// when every fetch of the round succeeded and no newer round began.
type Aggregator struct {
	fetcher Fetcher
	cache   *cache.Cache
	logger  *slog.Logger

	mu         gosync.Mutex
	calendars  []model.Calendar
	generation uint64
	status     Status
	requested  mo.Option[monthKey]

	// latest is the generation of the most recent LoadMonth call.
	latest uint64
}

// New creates an Aggregator that loads results into c.
func New(fetcher Fetcher, c *cache.Cache, opts ...Option) *Aggregator {
	a := &Aggregator{
		fetcher:   fetcher,
		cache:     c,
		logger:    slog.Default(),
		requested: mo.None[monthKey](),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// SetCalendars replaces the known calendars. Rounds in flight are
// superseded.
func (a *Aggregator) SetCalendars(cals []model.Calendar) {
	cp := make([]model.Calendar, len(cals))
	copy(cp, cals)

	a.mu.Lock()
	defer a.mu.Unlock()
	a.calendars = cp
	a.generation++
}

// SetEnabled changes one calendar's preference and reports whether the
// calendar is known. Rounds in flight are superseded.
func (a *Aggregator) SetEnabled(id string, enabled bool) bool {
	a.mu.Lock()
	defer a.mu.Unlock()

	for i := range a.calendars {
		if a.calendars[i].ID == id {
			a.calendars[i].Enabled = enabled
			a.generation++
			return true
		}
	}
	return false
}

// Calendars returns the known calendars with their preferences.
func (a *Aggregator) Calendars() []model.Calendar {
	a.mu.Lock()
	defer a.mu.Unlock()

	out := make([]model.Calendar, len(a.calendars))
	copy(out, a.calendars)
	return out
}

// EnabledIDs returns the ids of the enabled calendars in listing order.
func (a *Aggregator) EnabledIDs() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.enabledIDsLocked()
}

func (a *Aggregator) enabledIDsLocked() []string {
	ids := make([]string, 0, len(a.calendars))
	for _, c := range a.calendars {
		if c.Enabled {
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Status returns the state of the latest round.
func (a *Aggregator) Status() Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// LoadMonth runs one round for the given month. With no enabled calendar
// the round issues no requests and empties the cache.
func (a *Aggregator) LoadMonth(ctx context.Context, year int, month time.Month) (Scope, error) {
	from, to := monthgrid.Build(year, month).Range()

	a.mu.Lock()
	a.generation++
	scope := Scope{
		Year:        year,
		Month:       month,
		From:        from,
		To:          to,
		CalendarIDs: a.enabledIDsLocked(),
		Generation:  a.generation,
	}
	a.requested = mo.Some(monthKey{year: year, month: month})
	a.latest = a.generation
	prev := a.status
	a.status.State = RoundLoading
	a.status.Err = nil
	a.mu.Unlock()

	start := time.Now()
	events, tasks, err := a.fetch(ctx, scope)

	a.mu.Lock()
	defer a.mu.Unlock()

	if scope.Generation != a.generation {
		a.logger.Debug("discarding superseded round",
			"month", fmt.Sprintf("%d-%02d", year, month),
			"generation", scope.Generation,
		)
		// Only a newer LoadMonth owns the loading state.
		if a.latest == scope.Generation {
			a.status = prev
		}
		return scope, ErrSuperseded
	}

	if err != nil {
		a.status.State = RoundError
		a.status.Err = err
		a.logger.Warn("aggregation round failed", "error", err)
		return scope, fmt.Errorf("loading %d-%02d: %w", year, month, err)
	}

	a.cache.Events.Load(events)
	a.cache.Tasks.Load(tasks)
	a.status = Status{
		State:      RoundReady,
		Scope:      mo.Some(scope),
		LastLoaded: time.Now(),
	}

	a.logger.Debug("aggregation round loaded",
		"calendars", len(scope.CalendarIDs),
		"events", len(events),
		"tasks", len(tasks),
		"duration", time.Since(start),
	)
	return scope, nil
}

// fetch issues one events and one tasks request per calendar concurrently.
// Results are joined in calendar order.
func (a *Aggregator) fetch(ctx context.Context, scope Scope) ([]model.Event, []model.Task, error) {
	if len(scope.CalendarIDs) == 0 {
		return nil, nil, nil
	}

	eventsByCal := make([][]model.Event, len(scope.CalendarIDs))
	tasksByCal := make([][]model.Task, len(scope.CalendarIDs))

	g, gctx := errgroup.WithContext(ctx)
	for i, id := range scope.CalendarIDs {
		q := api.RangeQuery{CalendarID: id, From: scope.From, To: scope.To}

		g.Go(func() error {
			page, err := a.fetcher.ListEvents(gctx, q)
			if err != nil {
				return fmt.Errorf("calendar %s: %w", id, err)
			}
			eventsByCal[i] = page.Content
			return nil
		})
		g.Go(func() error {
			page, err := a.fetcher.ListTasks(gctx, q)
			if err != nil {
				return fmt.Errorf("calendar %s: %w", id, err)
			}
			tasksByCal[i] = page.Content
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var events []model.Event
	for _, page := range eventsByCal {
		events = append(events, page...)
	}
	var tasks []model.Task
	for _, page := range tasksByCal {
		tasks = append(tasks, page...)
	}
	return events, tasks, nil
}

// Reload reruns the most recently requested month. It reports false when
// no month has been requested yet.
func (a *Aggregator) Reload(ctx context.Context) (Scope, bool, error) {
	a.mu.Lock()
	key, ok := a.requested.Get()
	a.mu.Unlock()
	if !ok {
		return Scope{}, false, nil
	}

	scope, err := a.LoadMonth(ctx, key.year, key.month)
	return scope, true, err
}

// Watch reloads the most recently requested month on the cron schedule
// spec until ctx is done. onRound, if set, receives every round's result.
// A round still running when the next tick fires is not overlapped.
func (a *Aggregator) Watch(ctx context.Context, spec string, onRound func(Scope, error)) error {
	c := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))

	_, err := c.AddFunc(spec, func() {
		scope, ok, err := a.Reload(ctx)
		if !ok {
			return
		}
		if onRound != nil {
			onRound(scope, err)
		}
	})
	if err != nil {
		return fmt.Errorf("parsing refresh schedule %q: %w", spec, err)
	}

	a.logger.Debug("watching month", "schedule", spec)
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	return ctx.Err()
}
