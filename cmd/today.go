package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/sip/internal/app"
	"github.com/Tiliavir/sip/internal/model"
)

func newTodayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "today",
		Short: "List today's entries and the total against the limit",
		Args:  cobra.NoArgs,
		RunE: withTracker(func(cmd *cobra.Command, t *app.Tracker, args []string) error {
			out := cmd.OutOrStdout()
			now := t.Store.Now()
			entries := t.Store.EntriesToday()

			fmt.Fprintf(out, "Today (%s)\n", now.Format("2006-01-02"))
			printEntries(out, entries, t.Vertical.Unit)
			fmt.Fprintf(out, "Total: %d / %d %s\n", t.Store.TotalToday(), t.Vertical.DailyLimit, t.Vertical.Unit)
			if t.Store.OverLimitToday() {
				fmt.Fprintf(out, "Warning: over your daily %s limit!\n", t.Vertical.Name)
			}
			return nil
		}),
	}
}

// printEntries prints a numbered list; the numbers are the ones delete takes.
func printEntries(w io.Writer, entries []model.Entry, unit string) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "  No entries.")
		return
	}
	for i, e := range entries {
		fmt.Fprintf(w, "%3d. %s  %-24s %5d %s\n", i+1, e.Date.Format("15:04"), e.Name, e.Amount, unit)
	}
}
