package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/sip/internal/app"
	"github.com/Tiliavir/sip/internal/report"
)

func newHistoryCmd() *cobra.Command {
	var details bool
	c := &cobra.Command{
		Use:   "history",
		Short: "Show the last seven days with totals and the daily average",
		Args:  cobra.NoArgs,
	}
	c.Flags().BoolVar(&details, "details", false, "List the drinks of each day")

	c.RunE = withTracker(func(cmd *cobra.Command, t *app.Tracker, args []string) error {
		printHistory(cmd.OutOrStdout(), t, t.Store.Summary(), details)
		return nil
	})
	return c
}

// printHistory prints the newest day first.
func printHistory(w io.Writer, t *app.Tracker, s report.Summary, details bool) {
	unit := t.Vertical.Unit
	fmt.Fprintf(w, "%s – last %d days (limit %d %s)\n", titleCase(t.Vertical.Name), report.WindowDays, s.Limit, unit)
	fmt.Fprintln(w, "--------------------------------")
	for i := len(s.Days) - 1; i >= 0; i-- {
		d := s.Days[i]
		marker := ""
		if d.OverLimit {
			marker = "  over limit"
		}
		fmt.Fprintf(w, "%-12s %s %6d %s%s\n", d.Label, d.Date.Format("2006-01-02"), d.Total, unit, marker)
		if details {
			for _, e := range d.Entries {
				fmt.Fprintf(w, "    • %s: %d %s\n", e.Name, e.Amount, unit)
			}
		}
	}
	fmt.Fprintln(w, "--------------------------------")
	fmt.Fprintf(w, "%-23s %6d %s/day\n", "Average", s.Average, unit)
}
