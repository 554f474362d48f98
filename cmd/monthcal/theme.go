package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/monthcal/internal/model"
	"github.com/nhle/monthcal/internal/theme"
)

func (c *cli) themeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "theme",
		Short: "Show or set the color theme",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Show the theme preference and what it resolves to",
			Args:  cobra.NoArgs,
			RunE: func(*cobra.Command, []string) error {
				mode, err := theme.ParseMode(c.cfg.Display.Theme)
				if err != nil {
					return err
				}
				resolved := "light"
				if theme.NewPalette(c.out, mode).Dark {
					resolved = "dark"
				}
				fmt.Fprintf(c.out, "%s (%s)\n", mode, resolved)
				return nil
			},
		},
		&cobra.Command{
			Use:       "set <auto|light|dark>",
			Short:     "Save the theme preference",
			Args:      cobra.ExactArgs(1),
			ValidArgs: []string{string(theme.ModeAuto), string(theme.ModeLight), string(theme.ModeDark)},
			RunE: func(_ *cobra.Command, args []string) error {
				mode, err := theme.ParseMode(args[0])
				if err != nil {
					return err
				}
				c.cfg.Display.Theme = string(mode)
				if err := model.SaveConfig(c.cfgPath, c.cfg); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "✓ Theme set to %s\n", mode)
				return nil
			},
		},
	)
	return cmd
}
