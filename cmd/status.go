package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show today's totals for all verticals",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	out := cmd.OutOrStdout()
	for _, t := range a.Trackers() {
		marker := ""
		if t.Store.OverLimitToday() {
			marker = "  over limit"
		}
		fmt.Fprintf(out, "%-9s %5d / %d %s%s\n", t.Vertical.Name, t.Store.TotalToday(), t.Vertical.DailyLimit, t.Vertical.Unit, marker)
	}
	return nil
}
