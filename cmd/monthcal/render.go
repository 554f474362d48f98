package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/monthcal/internal/app"
	"github.com/nhle/monthcal/internal/model"
	"github.com/nhle/monthcal/internal/monthgrid"
	"github.com/nhle/monthcal/internal/theme"
)

const cellWidth = 11

var weekdays = [monthgrid.Cols]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// renderMonth writes the grid followed by the agenda for in-month days.
func renderMonth(w io.Writer, p *theme.Palette, view app.MonthView, now time.Time) {
	fmt.Fprintln(w, p.Header.Render(view.Grid.Title()))
	fmt.Fprintln(w)
	fmt.Fprintln(w, renderGrid(p, view, now))
	fmt.Fprintln(w)
	renderAgenda(w, p, view, now)
}

func renderGrid(p *theme.Palette, view app.MonthView, now time.Time) string {
	today := monthgrid.FormatDay(now)

	header := make([]string, 0, monthgrid.Cols)
	for i, name := range weekdays {
		style := p.Weekday
		if i == 0 {
			style = p.Sunday.Bold(true)
		}
		header = append(header, style.Width(cellWidth).Render(name))
	}

	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, header...)}
	for r := 0; r < monthgrid.Rows; r++ {
		cells := make([]string, 0, monthgrid.Cols)
		for c := 0; c < monthgrid.Cols; c++ {
			day := view.Days[r*monthgrid.Cols+c]
			cells = append(cells, renderCell(p, day, today))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCell(p *theme.Palette, day app.Day, today string) string {
	num := strconv.Itoa(day.Date.Day())
	switch {
	case !day.InMonth:
		num = p.OutOfMonth.Render(num)
	case monthgrid.FormatDay(day.Date) == today:
		num = p.Today.Render(num)
	case day.Date.Weekday() == time.Sunday:
		num = p.Sunday.Render(num)
	default:
		num = p.Day.Render(num)
	}

	var marks []string
	if n := len(day.Events); n > 0 {
		marks = append(marks, p.Event.Render(fmt.Sprintf("●%d", n)))
	}
	if n := len(day.Tasks); n > 0 {
		marks = append(marks, p.Task.Render(fmt.Sprintf("✓%d", n)))
	}

	lines := []string{num, strings.Join(marks, " ")}
	return lipgloss.NewStyle().Width(cellWidth).Render(strings.Join(lines, "\n"))
}

func renderAgenda(w io.Writer, p *theme.Palette, view app.MonthView, now time.Time) {
	empty := true
	for _, day := range view.Days {
		if !day.InMonth || (len(day.Events) == 0 && len(day.Tasks) == 0) {
			continue
		}
		empty = false

		fmt.Fprintln(w, p.Weekday.Render(day.Date.Format("Mon Jan 2")))
		for _, e := range day.Events {
			fmt.Fprintf(w, "  %s\n", eventLine(p, e))
		}
		for _, t := range day.Tasks {
			fmt.Fprintf(w, "  %s\n", taskLine(p, t, now))
		}
	}
	if empty {
		fmt.Fprintln(w, p.Muted.Render("Nothing scheduled."))
	}
}

func eventLine(p *theme.Palette, e model.Event) string {
	if e.AllDay {
		return p.AllDay.Render("all day") + "  " + e.Title + idSuffix(p, e.ID)
	}
	when := e.StartAt.Format("15:04") + "-" + e.EndAt.Format("15:04")
	if e.MultiDay() {
		when = e.StartAt.Format("15:04") + "-" + e.EndAt.Format("Jan 2 15:04")
	}
	return p.Event.Render(when) + "  " + e.Title + idSuffix(p, e.ID)
}

func taskLine(p *theme.Palette, t model.Task, now time.Time) string {
	box := "[ ]"
	if t.Done() {
		box = "[x]"
	}
	title := t.Title
	if mark := p.PriorityMark(t.Priority); mark != "" {
		title = mark + " " + title
	}
	return p.TaskStyle(t, t.Overdue(now)).Render(box+" "+title) + idSuffix(p, t.ID)
}

func idSuffix(p *theme.Palette, id string) string {
	return "  " + p.Muted.Render("("+id+")")
}
