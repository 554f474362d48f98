package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nhle/monthcal/internal/model"
	"github.com/nhle/monthcal/internal/monthgrid"
)

func (c *cli) memoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memo",
		Short: "Dated notes",
	}
	cmd.AddCommand(c.memoAddCmd())
	return cmd
}

func (c *cli) memoAddCmd() *cobra.Command {
	var (
		calendarID string
		title      string
	)

	cmd := &cobra.Command{
		Use:   "add <YYYY-MM-DD> [text]",
		Short: "Attach a memo to a day",
		Long: `Attach a memo to a day. When the server has no notes endpoint the
memo is stored as a task tagged MEMO due that day.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := monthgrid.ParseDay(args[0])
			if err != nil {
				return err
			}
			in := model.NoteInput{CalendarID: calendarID, Date: monthgrid.FormatDay(day)}
			if title != "" {
				in.Title = &title
			}
			if len(args) == 2 {
				in.Memo = &args[1]
			}
			if in.Title == nil && in.Memo == nil {
				return errors.New("a memo needs --title or text")
			}

			svc, err := c.open()
			if err != nil {
				return err
			}
			res, err := svc.CreateMemo(cmd.Context(), in)
			if err != nil {
				return err
			}
			if note, ok := res.Note.Get(); ok {
				fmt.Fprintf(c.out, "✓ Saved memo for %s (%s)\n", in.Date, note.ID)
				return nil
			}
			task := res.Task.MustGet()
			fmt.Fprintf(c.out, "✓ Saved memo for %s as task %s\n", in.Date, task.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&calendarID, "calendar", "c", "", "Calendar id (required)")
	cmd.Flags().StringVarP(&title, "title", "t", "", "Memo title")
	_ = cmd.MarkFlagRequired("calendar")
	return cmd
}
