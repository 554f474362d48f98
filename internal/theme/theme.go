// Package theme resolves the light/dark preference and provides the CLI
// styles for the month view.
package theme

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/samber/mo"

	"github.com/nhle/monthcal/internal/model"
)

// Mode is the persisted theme preference.
type Mode string

const (
	ModeAuto  Mode = "auto"
	ModeLight Mode = "light"
	ModeDark  Mode = "dark"
)

// ParseMode parses a preference value. The empty string is auto.
func ParseMode(s string) (Mode, error) {
	switch m := Mode(strings.ToLower(strings.TrimSpace(s))); m {
	case "":
		return ModeAuto, nil
	case ModeAuto, ModeLight, ModeDark:
		return m, nil
	default:
		return "", fmt.Errorf("unknown theme %q (want auto, light or dark)", s)
	}
}

// Resolve reports whether mode renders dark. Auto follows the terminal
// background.
func Resolve(mode Mode) bool {
	return resolve(mode, lipgloss.HasDarkBackground)
}

func resolve(mode Mode, detect func() bool) bool {
	switch mode {
	case ModeDark:
		return true
	case ModeLight:
		return false
	default:
		return detect()
	}
}

// Adaptive color pairs (dark terminal value, light terminal value).
var (
	ColorBlue    = lipgloss.AdaptiveColor{Dark: "#5B9BD5", Light: "#2B6CB0"}
	ColorGreen   = lipgloss.AdaptiveColor{Dark: "#6BCB77", Light: "#2F855A"}
	ColorYellow  = lipgloss.AdaptiveColor{Dark: "#FFD93D", Light: "#B7791F"}
	ColorRed     = lipgloss.AdaptiveColor{Dark: "#FF6B6B", Light: "#C53030"}
	ColorOrange  = lipgloss.AdaptiveColor{Dark: "#FFA94D", Light: "#C05621"}
	ColorMagenta = lipgloss.AdaptiveColor{Dark: "#CC5DE8", Light: "#805AD5"}
	ColorGray    = lipgloss.AdaptiveColor{Dark: "#868E96", Light: "#718096"}
	ColorWhite   = lipgloss.AdaptiveColor{Dark: "#F8F9FA", Light: "#1A202C"}
	ColorSubtle  = lipgloss.AdaptiveColor{Dark: "#495057", Light: "#CBD5E0"}
)

// Palette is the set of styles for one output, bound to a resolved mode.
type Palette struct {
	Dark bool

	Header     lipgloss.Style
	Weekday    lipgloss.Style
	Sunday     lipgloss.Style
	Day        lipgloss.Style
	OutOfMonth lipgloss.Style
	Today      lipgloss.Style
	Event      lipgloss.Style
	AllDay     lipgloss.Style
	Task       lipgloss.Style
	TaskDone   lipgloss.Style
	Overdue    lipgloss.Style
	Memo       lipgloss.Style
	Muted      lipgloss.Style
	Error      lipgloss.Style
}

// NewPalette builds the styles for output written to w.
func NewPalette(w io.Writer, mode Mode) *Palette {
	r := lipgloss.NewRenderer(w)
	dark := resolve(mode, r.HasDarkBackground)
	r.SetHasDarkBackground(dark)

	return &Palette{
		Dark: dark,

		Header: r.NewStyle().
			Bold(true).
			Foreground(ColorWhite).
			Background(ColorBlue).
			Padding(0, 1),
		Weekday:    r.NewStyle().Bold(true).Foreground(ColorGray),
		Sunday:     r.NewStyle().Foreground(ColorRed),
		Day:        r.NewStyle().Foreground(ColorWhite),
		OutOfMonth: r.NewStyle().Foreground(ColorSubtle),
		Today:      r.NewStyle().Bold(true).Reverse(true),
		Event:      r.NewStyle().Foreground(ColorBlue),
		AllDay:     r.NewStyle().Bold(true).Foreground(ColorMagenta),
		Task:       r.NewStyle().Foreground(ColorYellow),
		TaskDone:   r.NewStyle().Strikethrough(true).Foreground(ColorGreen),
		Overdue:    r.NewStyle().Bold(true).Foreground(ColorRed),
		Memo:       r.NewStyle().Italic(true).Foreground(ColorOrange),
		Muted:      r.NewStyle().Foreground(ColorGray).Italic(true),
		Error:      r.NewStyle().Bold(true).Foreground(ColorRed),
	}
}

// TaskStyle picks the style for a task line.
func (p *Palette) TaskStyle(t model.Task, overdue bool) lipgloss.Style {
	switch {
	case t.Done():
		return p.TaskDone
	case t.Status == model.TaskCancelled:
		return p.Muted
	case overdue:
		return p.Overdue
	case t.IsMemo():
		return p.Memo
	default:
		return p.Task
	}
}

// PriorityMark returns a short marker for a task priority.
func (p *Palette) PriorityMark(prio mo.Option[model.TaskPriority]) string {
	v, ok := prio.Get()
	if !ok {
		return ""
	}
	switch v {
	case model.PriorityHigh:
		return p.Overdue.Render("!!")
	case model.PriorityMedium:
		return p.Task.Render("!")
	default:
		return ""
	}
}
