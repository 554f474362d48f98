package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nhle/monthcal/internal/adapter"
	"github.com/nhle/monthcal/internal/model"
)

func (c *cli) taskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "task",
		Short: "Create, complete and delete tasks",
	}
	cmd.AddCommand(c.taskAddCmd(), c.taskDoneCmd(), c.taskRmCmd())
	return cmd
}

func (c *cli) taskAddCmd() *cobra.Command {
	var (
		calendarID  string
		description string
		due         string
		priority    string
	)

	cmd := &cobra.Command{
		Use:   "add <title>",
		Short: "Create a task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dueAt, err := adapter.ParseTime(due)
			if err != nil {
				return err
			}
			in := model.TaskInput{
				CalendarID: calendarID,
				Title:      args[0],
				DueAt:      dueAt,
				Status:     model.TaskPending,
			}
			if cmd.Flags().Changed("description") {
				in.Description = &description
			}
			if priority != "" {
				p, err := parsePriority(priority)
				if err != nil {
					return err
				}
				in.Priority = &p
			}

			svc, err := c.open()
			if err != nil {
				return err
			}
			task, err := svc.CreateTask(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintf(c.out, "✓ Created task %s (%s)\n", task.Title, task.ID)
			return nil
		},
	}
	cmd.Flags().StringVarP(&calendarID, "calendar", "c", "", "Calendar id (required)")
	cmd.Flags().StringVarP(&description, "description", "d", "", "Task description")
	cmd.Flags().StringVar(&due, "due", "", "Due time or date (required)")
	cmd.Flags().StringVarP(&priority, "priority", "p", "", "Priority: low, medium or high")
	_ = cmd.MarkFlagRequired("calendar")
	_ = cmd.MarkFlagRequired("due")
	return cmd
}

func (c *cli) taskDoneCmd() *cobra.Command {
	var undo bool

	cmd := &cobra.Command{
		Use:   "done <task-id>",
		Short: "Mark a task completed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.open()
			if err != nil {
				return err
			}
			task, err := svc.SetTaskCompleted(cmd.Context(), args[0], !undo)
			if err != nil {
				return err
			}
			state := "completed"
			if !task.Done() {
				state = "pending"
			}
			fmt.Fprintf(c.out, "✓ Task %s is %s\n", task.Title, state)
			return nil
		},
	}
	cmd.Flags().BoolVar(&undo, "undo", false, "Mark the task pending again")
	return cmd
}

func (c *cli) taskRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <task-id>",
		Aliases: []string{"delete"},
		Short:   "Delete a task",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := c.open()
			if err != nil {
				return err
			}
			if err := svc.DeleteTask(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(c.out, "✓ Deleted task %s\n", args[0])
			return nil
		},
	}
}

func parsePriority(s string) (model.TaskPriority, error) {
	p, ok := adapter.Priority(s).Get()
	if !ok {
		return "", fmt.Errorf("unknown priority %q (want low, medium or high)", strings.TrimSpace(s))
	}
	return p, nil
}
