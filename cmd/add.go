package cmd

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/sip/internal/app"
	"github.com/Tiliavir/sip/internal/intake"
	"github.com/Tiliavir/sip/internal/report"
	"github.com/Tiliavir/sip/internal/timecalc"
)

func newAddCmd() *cobra.Command {
	var (
		name   string
		amount int
		at     string
	)
	c := &cobra.Command{
		Use:   "add [drink]",
		Short: "Log a drink from the catalog or a custom amount",
		Example: `  sip caffeine add Espresso
  sip caffeine add "Drip Coffee" --at 08:30
  sip alcohol add --name "Homebrew" --amount 400`,
	}
	c.Flags().StringVar(&name, "name", "", "Custom drink name")
	c.Flags().IntVar(&amount, "amount", 0, "Amount (overrides the catalog value)")
	c.Flags().StringVar(&at, "at", "", "When it was consumed: RFC3339, \"YYYY-MM-DD HH:MM\" or \"HH:MM\" (default now)")

	c.RunE = withTracker(func(cmd *cobra.Command, t *app.Tracker, args []string) error {
		drink := strings.TrimSpace(strings.Join(args, " "))
		amountSet := cmd.Flags().Changed("amount")
		name, amount := name, amount

		switch {
		case drink != "":
			item, ok := t.Catalog.Find(drink)
			if !ok {
				return fmt.Errorf("unknown drink %q; run `sip %s drinks` for the catalog", drink, t.Vertical.Name)
			}
			if name == "" {
				name = item.Name
			}
			if !amountSet {
				amount = item.Amount
			}
		case name == "" || !amountSet:
			return errors.New("give a drink from the catalog or both --name and --amount")
		}

		now := t.Store.Now()
		when := now
		if at != "" {
			parsed, err := timecalc.ParseAt(at, now)
			if err != nil {
				return err
			}
			when = parsed
		}

		over, err := t.Store.Add(name, amount, when)
		if errors.Is(err, intake.ErrNegativeAmount) {
			return err
		}

		out := cmd.OutOrStdout()
		unit := t.Vertical.Unit
		fmt.Fprintf(out, "Logged %s (%d %s) at %s.\n", name, amount, unit, when.Format("15:04"))
		total := report.TotalForDay(t.Store.Entries(), when)
		fmt.Fprintf(out, "%s: %d / %d %s\n", dayName(when, now), total, t.Vertical.DailyLimit, unit)
		if over {
			fmt.Fprintf(out, "Warning: over your daily %s limit!\n", t.Vertical.Name)
		}

		if err != nil {
			return storageErr(err)
		}
		return nil
	})
	return c
}

// dayName labels day relative to now for one-line summaries.
func dayName(day, now time.Time) string {
	if timecalc.SameDay(now, day) {
		return "Today"
	}
	return day.Format("2006-01-02")
}
