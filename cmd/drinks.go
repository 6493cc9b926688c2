package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/sip/internal/app"
	"github.com/Tiliavir/sip/internal/catalog"
)

func newDrinksCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "drinks",
		Short: "List the drink catalog by category",
		Args:  cobra.NoArgs,
		RunE: withTracker(func(cmd *cobra.Command, t *app.Tracker, args []string) error {
			out := cmd.OutOrStdout()
			if t.Catalog.Status() != catalog.StatusLoaded {
				fmt.Fprintln(out, "No drinks available.")
				return nil
			}
			groups := t.Catalog.ByCategory()
			for _, cat := range t.Catalog.Categories() {
				fmt.Fprintln(out, cat)
				for _, it := range groups[cat] {
					fmt.Fprintf(out, "  %-24s %5d %s\n", it.Name, it.Amount, t.Vertical.Unit)
				}
			}
			return nil
		}),
	}
}
