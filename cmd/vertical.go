package cmd

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/sip/internal/app"
)

// newVerticalCmd builds the command tree shared by caffeine and alcohol.
func newVerticalCmd(name, short string) *cobra.Command {
	c := &cobra.Command{
		Use:   name,
		Short: short,
	}
	c.AddCommand(newAddCmd())
	c.AddCommand(newTodayCmd())
	c.AddCommand(newDeleteCmd())
	c.AddCommand(newHistoryCmd())
	c.AddCommand(newDrinksCmd())
	c.AddCommand(newExportCmd())
	return c
}

type trackerRunE func(cmd *cobra.Command, t *app.Tracker, args []string) error

// withTracker opens the app and hands the parent command's vertical to fn.
func withTracker(fn trackerRunE) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		t, err := a.Tracker(cmd.Parent().Name())
		if err != nil {
			return err
		}
		return fn(cmd, t, args)
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
