package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/monthcal/internal/app"
	"github.com/nhle/monthcal/internal/monthgrid"
)

func (c *cli) monthCmd() *cobra.Command {
	var (
		offset int
		watch  bool
	)

	cmd := &cobra.Command{
		Use:   "month [YYYY-MM]",
		Short: "Show a month of events and tasks",
		Long: `Show the month grid and agenda for every enabled calendar.

Without an argument the last viewed month is shown. --offset moves from
that month, so --offset 1 shows the next one. --watch keeps reloading on
the display.refresh_cron schedule until interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.open()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			year, month, err := c.pickMonth(ctx, svc, args)
			if err != nil {
				return err
			}
			year, month = monthgrid.Shift(year, month, offset)

			view, err := svc.LoadMonth(ctx, year, month)
			if err != nil {
				return err
			}
			palette := svc.Palette(c.out)
			renderMonth(c.out, palette, view, time.Now())

			if !watch {
				return nil
			}
			err = svc.Watch(ctx, func(view app.MonthView, err error) {
				if err != nil {
					fmt.Fprintln(c.errOut, palette.Error.Render("refresh failed: "+describe(err)))
					return
				}
				fmt.Fprintln(c.out)
				renderMonth(c.out, palette, view, time.Now())
			})
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
	cmd.Flags().IntVar(&offset, "offset", 0, "Months to move from the chosen month")
	cmd.Flags().BoolVar(&watch, "watch", false, "Keep refreshing on the configured schedule")
	return cmd
}

func (c *cli) pickMonth(ctx context.Context, svc *app.Service, args []string) (int, time.Month, error) {
	if len(args) == 0 {
		y, m := svc.LastMonth(ctx)
		return y, m, nil
	}
	return monthgrid.ParseMonth(args[0])
}
