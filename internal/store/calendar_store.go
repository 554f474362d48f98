package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/samber/mo"

	"github.com/nhle/monthcal/internal/model"
)

type calendarRow struct {
	ID      string            `db:"id"`
	Name    mo.Option[string] `db:"name"`
	Enabled int               `db:"enabled"`
}

func (r calendarRow) model() model.Calendar {
	return model.Calendar{ID: r.ID, Name: r.Name, Enabled: r.Enabled != 0}
}

// UpsertCalendars records the listed calendars, keeping stored enabled
// flags, and returns the listing with those flags applied.
func (s *SQLiteStore) UpsertCalendars(
	ctx context.Context,
	cals []model.Calendar,
) ([]model.Calendar, error) {
	if len(cals) == 0 {
		return []model.Calendar{}, nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx, `
		INSERT INTO calendars (id, name, enabled, updated_at)
		VALUES (?, ?, 1, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			updated_at = excluded.updated_at`)
	if err != nil {
		return nil, fmt.Errorf("preparing upsert statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, c := range cals {
		if _, err := stmt.ExecContext(ctx, c.ID, c.Name, now); err != nil {
			return nil, fmt.Errorf("upserting calendar %s: %w", c.ID, err)
		}
	}

	out := make([]model.Calendar, 0, len(cals))
	for _, c := range cals {
		var row calendarRow
		err := tx.GetContext(ctx, &row,
			"SELECT id, name, enabled FROM calendars WHERE id = ?", c.ID)
		if err != nil {
			return nil, fmt.Errorf("reading calendar %s: %w", c.ID, err)
		}
		out = append(out, row.model())
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("committing calendars: %w", err)
	}
	return out, nil
}

// GetCalendars retrieves every recorded calendar ordered by name.
func (s *SQLiteStore) GetCalendars(ctx context.Context) ([]model.Calendar, error) {
	var rows []calendarRow
	err := s.db.SelectContext(ctx, &rows,
		"SELECT id, name, enabled FROM calendars ORDER BY COALESCE(name, id), id")
	if err != nil {
		return nil, fmt.Errorf("querying calendars: %w", err)
	}

	cals := make([]model.Calendar, len(rows))
	for i, r := range rows {
		cals[i] = r.model()
	}
	return cals, nil
}

// SetCalendarEnabled changes one calendar's preference.
func (s *SQLiteStore) SetCalendarEnabled(ctx context.Context, id string, enabled bool) error {
	result, err := s.db.ExecContext(ctx,
		"UPDATE calendars SET enabled = ?, updated_at = ? WHERE id = ?",
		boolToInt(enabled), time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("updating calendar %s: %w", id, err)
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return fmt.Errorf("calendar %s not found", id)
	}
	return nil
}

// GetPreference returns a stored preference value.
func (s *SQLiteStore) GetPreference(ctx context.Context, key string) (mo.Option[string], error) {
	var value string
	err := s.db.GetContext(ctx, &value, "SELECT value FROM preferences WHERE key = ?", key)
	if errors.Is(err, sql.ErrNoRows) {
		return mo.None[string](), nil
	}
	if err != nil {
		return mo.None[string](), fmt.Errorf("reading preference %s: %w", key, err)
	}
	return mo.Some(value), nil
}

// SetPreference stores a preference value.
func (s *SQLiteStore) SetPreference(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (key, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		key, value, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("storing preference %s: %w", key, err)
	}
	return nil
}
