package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func (c *cli) exportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export [YYYY-MM]",
		Short: "Export a month as iCalendar",
		Args:  cobra.MaximumNArgs(1),
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
			if _, err := svc.LoadMonth(ctx, year, month); err != nil {
				return err
			}

			if out == "" || out == "-" {
				return svc.Export(c.out)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("creating %s: %w", out, err)
			}
			if err := svc.Export(f); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(c.errOut, "✓ Wrote %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "Output file (default stdout)")
	return cmd
}
