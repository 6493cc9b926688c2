package cmd

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/sip/internal/app"
	"github.com/Tiliavir/sip/internal/intake"
	"github.com/Tiliavir/sip/internal/timecalc"
)

func newDeleteCmd() *cobra.Command {
	var date string
	c := &cobra.Command{
		Use:   "delete <number>",
		Short: "Delete an entry by the number shown by today",
		Args:  cobra.ExactArgs(1),
	}
	c.Flags().StringVar(&date, "date", "", "Day of the entry (YYYY-MM-DD, default today)")

	c.RunE = withTracker(func(cmd *cobra.Command, t *app.Tracker, args []string) error {
		index, err := parseIndex(args[0])
		if err != nil {
			return err
		}

		day := t.Store.Now()
		if date != "" {
			day, err = timecalc.ParseDay(date, day.Location())
			if err != nil {
				return err
			}
		}

		entry, _ := t.Store.EntryFromDay(day, index)
		err = t.Store.DeleteFromDay(day, index)
		if errors.Is(err, intake.ErrStaleIndex) {
			return fmt.Errorf("no entry #%d on %s; nothing deleted", index+1, day.Format("2006-01-02"))
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s (%d %s).\n", entry.Name, entry.Amount, t.Vertical.Unit)
		if err != nil {
			return storageErr(err)
		}
		return nil
	})
	return c
}

// parseIndex converts the 1-based number shown to users into a 0-based index.
func parseIndex(s string) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid entry number %q: must be 1 or greater", s)
	}
	return n - 1, nil
}
