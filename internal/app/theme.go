package app

import (
	"io"

	"github.com/nhle/monthcal/internal/theme"
)

// Palette returns the styles for w under the configured theme. An
// unreadable preference falls back to auto.
func (s *Service) Palette(w io.Writer) *theme.Palette {
	mode, err := theme.ParseMode(s.cfg.Display.Theme)
	if err != nil {
		s.logger.Warn("ignoring theme preference", "error", err)
		mode = theme.ModeAuto
	}
	return theme.NewPalette(w, mode)
}
