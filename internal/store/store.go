package store

import (
	"context"

	"github.com/samber/mo"

	"github.com/nhle/monthcal/internal/model"
)

// Preference keys.
const (
	PrefLastMonth = "last_month"
)

// Store defines the persistence interface for local calendar preferences.
type Store interface {
	// UpsertCalendars records the calendars the server listed and returns
	// them in the same order with their stored enabled flags. Calendars
	// seen for the first time are enabled.
	UpsertCalendars(ctx context.Context, cals []model.Calendar) ([]model.Calendar, error)

	// GetCalendars returns every calendar ever recorded.
	GetCalendars(ctx context.Context) ([]model.Calendar, error)

	// SetCalendarEnabled changes one calendar's preference. Unknown ids
	// are an error.
	SetCalendarEnabled(ctx context.Context, id string, enabled bool) error

	GetPreference(ctx context.Context, key string) (mo.Option[string], error)
	SetPreference(ctx context.Context, key, value string) error

	Close() error
}
