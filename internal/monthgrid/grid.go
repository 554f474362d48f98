// Package monthgrid computes the six-week grid shown for a calendar month
// and the date range fetched to fill it.
package monthgrid

import (
	"fmt"
	"time"
)

const (
	Rows = 6
	Cols = 7
)

// DayLayout is the YYYY-MM-DD form used in query parameters and deep links.
const DayLayout = "2006-01-02"

// Cell is one day of the grid.
type Cell struct {
	Date    time.Time
	InMonth bool
}

// Grid is six Sunday-to-Saturday weeks covering a month.
type Grid struct {
	Year  int
	Month time.Month
	Cells [Rows][Cols]Cell
}

// Build returns the grid for the given month. Cell dates are midnight UTC.
// The first cell is the Sunday on or before the 1st; the grid always has
// six rows, so it may run a full week into the following month.
func Build(year int, month time.Month) Grid {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, 0, -int(first.Weekday()))

	g := Grid{Year: first.Year(), Month: first.Month()}
	for i := 0; i < Rows*Cols; i++ {
		d := start.AddDate(0, 0, i)
		g.Cells[i/Cols][i%Cols] = Cell{
			Date:    d,
			InMonth: d.Year() == g.Year && d.Month() == g.Month,
		}
	}
	return g
}

// Range returns the first and last cell dates, both inclusive.
func (g Grid) Range() (from, to time.Time) {
	return g.Cells[0][0].Date, g.Cells[Rows-1][Cols-1].Date
}

// Flat returns the 42 cells in row-major order.
func (g Grid) Flat() []Cell {
	out := make([]Cell, 0, Rows*Cols)
	for _, row := range g.Cells {
		out = append(out, row[:]...)
	}
	return out
}

// InMonth flags, per cell, whether its date falls within the grid's month.
func (g Grid) InMonth() [Rows][Cols]bool {
	var flags [Rows][Cols]bool
	for r, row := range g.Cells {
		for c, cell := range row {
			flags[r][c] = cell.InMonth
		}
	}
	return flags
}

// Contains reports whether day falls inside the grid's range.
func (g Grid) Contains(day time.Time) bool {
	from, to := g.Range()
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(from) && !d.After(to)
}

// Title returns a header such as "February 2024".
func (g Grid) Title() string {
	return fmt.Sprintf("%s %d", g.Month, g.Year)
}

// Shift moves delta months from (year, month), wrapping across years.
func Shift(year int, month time.Month, delta int) (int, time.Month) {
	t := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, delta, 0)
	return t.Year(), t.Month()
}

// FormatDay formats a date as YYYY-MM-DD.
func FormatDay(t time.Time) string {
	return t.Format(DayLayout)
}

// ParseDay parses the leading YYYY-MM-DD of s, as used by deep links.
func ParseDay(s string) (time.Time, error) {
	if len(s) < len(DayLayout) {
		return time.Time{}, fmt.Errorf("parsing day %q: too short", s)
	}
	t, err := time.Parse(DayLayout, s[:len(DayLayout)])
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing day %q: %w", s, err)
	}
	return t, nil
}

// ParseMonth parses YYYY-MM.
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse("2006-01", s)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing month %q: %w", s, err)
	}
	return t.Year(), t.Month(), nil
}
