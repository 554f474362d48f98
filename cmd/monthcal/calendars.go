package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func (c *cli) calendarsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "calendars",
		Aliases: []string{"cal"},
		Short:   "List calendars and choose which ones are shown",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List calendars",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				svc, err := c.open()
				if err != nil {
					return err
				}
				cals, err := svc.LoadCalendars(cmd.Context())
				if err != nil {
					return err
				}
				if len(cals) == 0 {
					fmt.Fprintln(c.out, "No calendars.")
					return nil
				}

				tw := tabwriter.NewWriter(c.out, 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tNAME\tSHOWN")
				for _, cal := range cals {
					shown := "yes"
					if !cal.Enabled {
						shown = "no"
					}
					fmt.Fprintf(tw, "%s\t%s\t%s\n", cal.ID, cal.Label(), shown)
				}
				return tw.Flush()
			},
		},
		c.setCalendarCmd("enable", true),
		c.setCalendarCmd("disable", false),
	)
	return cmd
}

func (c *cli) setCalendarCmd(use string, enabled bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <calendar-id>...",
		Short: fmt.Sprintf("%s calendars in the month view", capitalize(use)),
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.open()
			if err != nil {
				return err
			}
			// Record the server's calendars first so new ids are known.
			if _, err := svc.LoadCalendars(cmd.Context()); err != nil {
				return err
			}
			for _, id := range args {
				if err := svc.SetCalendarEnabled(cmd.Context(), id, enabled); err != nil {
					return err
				}
				fmt.Fprintf(c.out, "✓ %sd %s\n", capitalize(use), id)
			}
			return nil
		},
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
