package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/nhle/monthcal/internal/adapter"
	"github.com/nhle/monthcal/internal/model"
)

func (c *cli) eventCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Create, edit and delete events",
	}
	cmd.AddCommand(c.eventAddCmd(), c.eventEditCmd(), c.eventRmCmd())
	return cmd
}

func (c *cli) eventAddCmd() *cobra.Command {
	var (
		calendarID  string
		description string
		start, end  string
		allDay      bool
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create an event",
		Long: `Create an event. Times accept RFC 3339, a zone-less date-time
(read as UTC) or a bare YYYY-MM-DD date. With --all-day the end is the
last day of the event and defaults to the start day.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			startAt, endAt, err := eventSpan(start, end, allDay)
			if err != nil {
				return err
			}
			in := model.EventInput{
				CalendarID: calendarID,
				Title:      args[0],
				AllDay:     allDay,
				StartAt:    startAt,
				EndAt:      endAt,
			}
			if cmd.Flags().Changed("description") {
				in.Description = &description
			}

			svc, err := c.open()
			if err != nil {
				return err
			}
			ev, err := svc.CreateEvent(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "✓ Created event %s (%s)\n", ev.Title, ev.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&calendarID, "calendar", "c", "", "Calendar id (required)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Event description")
	cmd.Flags().StringVar(&start, "start", "", "Start time (required)")
	cmd.Flags().StringVar(&end, "end", "", "End time")
	cmd.Flags().BoolVar(&allDay, "all-day", false, "Create an all-day event")
	_ = cmd.MarkFlagRequired("calendar")
	_ = cmd.MarkFlagRequired("start")
	return cmd
}

func (c *cli) eventEditCmd() *cobra.Command {
	var (
		title       string
		description string
		start, end  string
		allDay      bool
	)

	cmd := &cobra.Command{
		Use:   "edit <event-id>",
		Short: "Change fields of an event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var patch model.EventPatch
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("description") {
				patch.Description = &description
			}
			if flags.Changed("all-day") {
				patch.AllDay = &allDay
			}
			if flags.Changed("start") {
				t, err := adapter.ParseTime(start)
				if err != nil {
					return err
				}
				patch.StartAt = &t
			}
			if flags.Changed("end") {
				t, err := adapter.ParseTime(end)
				if err != nil {
					return err
				}
				patch.EndAt = &t
			}
			if patch == (model.EventPatch{}) {
				return errors.New("nothing to change")
			}

			svc, err := c.open()
			if err != nil {
				return err
			}
			ev, err := svc.UpdateEvent(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "✓ Updated event %s (%s)\n", ev.Title, ev.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "New title")
	cmd.Flags().StringVarP(&description, "description", "d", "", "New description")
	cmd.Flags().StringVar(&start, "start", "", "New start time")
	cmd.Flags().StringVar(&end, "end", "", "New end time")
	cmd.Flags().BoolVar(&allDay, "all-day", false, "Mark as all-day")
	return cmd
}

func (c *cli) eventRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <event-id>",
		Aliases: []string{"delete"},
		Short:   "Delete an event",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.open()
			if err != nil {
				return err
			}
			if err := svc.DeleteEvent(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "✓ Deleted event %s\n", args[0])
			return nil
		},
	}
}

// eventSpan parses the start and end flags. All-day ends are inclusive
// on the command line and sent as the following midnight.
func eventSpan(start, end string, allDay bool) (time.Time, time.Time, error) {
	startAt, err := adapter.ParseTime(start)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	if allDay {
		y, m, d := startAt.Date()
		startAt = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		last := startAt
		if end != "" {
			t, err := adapter.ParseTime(end)
			if err != nil {
				return time.Time{}, time.Time{}, err
			}
			y, m, d := t.Date()
			last = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
		}
		if last.Before(startAt) {
			return time.Time{}, time.Time{}, errors.New("end is before start")
		}
		return startAt, last.AddDate(0, 0, 1), nil
	}

	endAt := startAt.Add(time.Hour)
	if end != "" {
		endAt, err = adapter.ParseTime(end)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
	}
	if endAt.Before(startAt) {
		return time.Time{}, time.Time{}, errors.New("end is before start")
	}
	return startAt, endAt, nil
}
