package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/sip/internal/app"
	"github.com/Tiliavir/sip/internal/report"
)

func newExportCmd() *cobra.Command {
	var format string
	c := &cobra.Command{
		Use:   "export",
		Short: "Export the last seven days to stdout",
		Args:  cobra.NoArgs,
	}
	c.Flags().StringVar(&format, "format", "csv", "Output format: csv, json, md")

	c.RunE = withTracker(func(cmd *cobra.Command, t *app.Tracker, args []string) error {
		out := cmd.OutOrStdout()
		s := t.Store.Summary()
		switch format {
		case "json":
			return writeJSON(out, t, s)
		case "md":
			writeMarkdown(out, t, s)
		case "csv":
			writeCSV(out, t, s)
		default:
			return fmt.Errorf("unknown format %q (want csv, json or md)", format)
		}
		return nil
	})
	return c
}

type exportEntry struct {
	Time   time.Time `json:"time"`
	Name   string    `json:"name"`
	Amount int       `json:"amount"`
}

type exportDay struct {
	Date      string        `json:"date"`
	Label     string        `json:"label"`
	Total     int           `json:"total"`
	OverLimit bool          `json:"over_limit"`
	Entries   []exportEntry `json:"entries"`
}

type exportDoc struct {
	Vertical string      `json:"vertical"`
	Unit     string      `json:"unit"`
	Limit    int         `json:"daily_limit"`
	Average  int         `json:"daily_average"`
	Days     []exportDay `json:"days"`
}

func writeJSON(w io.Writer, t *app.Tracker, s report.Summary) error {
	doc := exportDoc{
		Vertical: t.Vertical.Name,
		Unit:     t.Vertical.Unit,
		Limit:    s.Limit,
		Average:  s.Average,
		Days:     make([]exportDay, 0, len(s.Days)),
	}
	for _, d := range s.Days {
		day := exportDay{
			Date:      d.Date.Format("2006-01-02"),
			Label:     d.Label,
			Total:     d.Total,
			OverLimit: d.OverLimit,
			Entries:   []exportEntry{},
		}
		for _, e := range d.Entries {
			day.Entries = append(day.Entries, exportEntry{Time: e.Date, Name: e.Name, Amount: e.Amount})
		}
		doc.Days = append(doc.Days, day)
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

func writeCSV(w io.Writer, t *app.Tracker, s report.Summary) {
	fmt.Fprintln(w, "date,time,name,amount,unit")
	for _, d := range s.Days {
		for _, e := range d.Entries {
			fmt.Fprintf(w, "%s,%s,%s,%d,%s\n",
				d.Date.Format("2006-01-02"),
				e.Date.Format("15:04"),
				csvEscape(e.Name),
				e.Amount,
				t.Vertical.Unit,
			)
		}
	}
}

func writeMarkdown(w io.Writer, t *app.Tracker, s report.Summary) {
	unit := t.Vertical.Unit
	fmt.Fprintf(w, "# %s – last %d days\n\n", titleCase(t.Vertical.Name), report.WindowDays)
	fmt.Fprintln(w, "| Day | Date | Total | Over limit |")
	fmt.Fprintln(w, "|-----|------|------:|:----------:|")
	for _, d := range s.Days {
		over := ""
		if d.OverLimit {
			over = "yes"
		}
		fmt.Fprintf(w, "| %s | %s | %d %s | %s |\n", d.Label, d.Date.Format("2006-01-02"), d.Total, unit, over)
	}
	fmt.Fprintf(w, "\nDaily average: %d %s (limit %d %s)\n", s.Average, unit, s.Limit, unit)
}

// csvEscape wraps a field in quotes if it contains a comma, quote, or newline.
func csvEscape(s string) string {
	if !strings.ContainsAny(s, ",\"\n\r") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
