package app

import (
	"context"
	"fmt"

	"github.com/nhle/monthcal/internal/model"
)

// LoadCalendars lists the server's calendars, merges them with the
// stored enabled flags and hands them to the aggregator.
func (s *Service) LoadCalendars(ctx context.Context) ([]model.Calendar, error) {
	if err := s.requireSession(ctx); err != nil {
		return nil, err
	}

	listed, err := s.client.ListCalendars(ctx)
	if err != nil {
		return nil, err
	}

	cals, err := s.store.UpsertCalendars(ctx, listed)
	if err != nil {
		return nil, fmt.Errorf("saving calendars: %w", err)
	}

	s.agg.SetCalendars(cals)
	s.logger.Debug("calendars loaded",
		"count", len(cals),
		"enabled", len(s.agg.EnabledIDs()),
	)
	return cals, nil
}

// Calendars returns the calendars from the last LoadCalendars.
func (s *Service) Calendars() []model.Calendar {
	return s.agg.Calendars()
}

// SetCalendarEnabled stores a calendar preference. The next round
// includes or skips the calendar; a round in flight is discarded.
func (s *Service) SetCalendarEnabled(ctx context.Context, id string, enabled bool) error {
	if err := s.store.SetCalendarEnabled(ctx, id, enabled); err != nil {
		return err
	}
	s.agg.SetEnabled(id, enabled)

	s.logger.Debug("calendar preference changed", "calendar_id", id, "enabled", enabled)
	return nil
}
