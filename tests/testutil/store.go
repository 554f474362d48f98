package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/nhle/monthcal/internal/model"
	"github.com/nhle/monthcal/internal/store"
)

// NewTestStore returns a migrated in-memory store holding cals, closed
// when the test ends.
func NewTestStore(t *testing.T, cals ...model.Calendar) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err, "creating test store")
	t.Cleanup(func() {
		require.NoError(t, s.Close(), "closing test store")
	})

	if len(cals) > 0 {
		_, err := s.UpsertCalendars(context.Background(), cals)
		require.NoError(t, err, "seeding calendars")
		for _, c := range cals {
			if !c.Enabled {
				require.NoError(t, s.SetCalendarEnabled(context.Background(), c.ID, false))
			}
		}
	}
	return s
}
