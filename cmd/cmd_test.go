package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/Tiliavir/sip/internal/app"
	"github.com/Tiliavir/sip/internal/config"
	"github.com/Tiliavir/sip/internal/intake"
	"github.com/Tiliavir/sip/internal/storage"
)

var fixedNow = time.Date(2026, 5, 14, 15, 0, 0, 0, time.UTC)

// useApp makes every command open a fresh app over the same kv, the way
// separate CLI invocations share the data directory.
func useApp(t *testing.T, cfg config.Config) {
	t.Helper()
	kv := storage.NewMemoryKV()
	prev := openApp
	openApp = func(ctx context.Context) (*app.App, error) {
		return app.NewWithKV(ctx, cfg, kv, nil, intake.WithClock(func() time.Time { return fixedNow }))
	}
	t.Cleanup(func() { openApp = prev })
}

func resetFlags(c *cobra.Command) {
	c.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(io.Discard)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, args...)
	if err != nil {
		t.Fatalf("sip %s: %v", strings.Join(args, " "), err)
	}
	return out
}

func TestAddWarnsOverLimit(t *testing.T) {
	cfg := config.Default(t.TempDir())
	cfg.Caffeine.DailyLimit = 150
	useApp(t, cfg)

	out := mustRun(t, "caffeine", "add", "espresso")
	if !strings.Contains(out, "Logged Espresso (63 mg) at 15:00.") || strings.Contains(out, "Warning") {
		t.Errorf("first add output:\n%s", out)
	}
	out = mustRun(t, "caffeine", "add", "Drip", "Coffee")
	if !strings.Contains(out, "Today: 158 / 150 mg") || !strings.Contains(out, "Warning: over your daily caffeine limit!") {
		t.Errorf("second add output:\n%s", out)
	}
}

func TestAddConvertsOffsetToLocalDay(t *testing.T) {
	useApp(t, config.Default(t.TempDir()))

	// 23:30 at -02:00 is 01:30 UTC on the following day.
	out := mustRun(t, "alcohol", "add", "IPA", "--at", "2026-05-13T23:30:00-02:00")
	if !strings.Contains(out, "Logged IPA (330 ml) at 01:30.") || !strings.Contains(out, "Today: 330 / 550 ml") {
		t.Errorf("add output:\n%s", out)
	}
}

func TestAddValidation(t *testing.T) {
	useApp(t, config.Default(t.TempDir()))

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"caffeine", "add", "Unicorn Latte"}, "unknown drink"},
		{[]string{"caffeine", "add", "--name", "Mystery"}, "--name and --amount"},
		{[]string{"caffeine", "add", "--name", "Refund", "--amount=-5"}, "negative"},
		{[]string{"caffeine", "add", "Espresso", "--at", "noon"}, "cannot parse time"},
	}
	for _, tt := range tests {
		_, err := run(t, tt.args...)
		if err == nil || !strings.Contains(err.Error(), tt.want) {
			t.Errorf("sip %s: err = %v, want %q", strings.Join(tt.args, " "), err, tt.want)
		}
	}
}

func TestTodayDeleteAndStatus(t *testing.T) {
	useApp(t, config.Default(t.TempDir()))

	mustRun(t, "caffeine", "add", "Espresso", "--at", "08:00")
	mustRun(t, "caffeine", "add", "Green Tea", "--at", "10:00")
	mustRun(t, "alcohol", "add", "--name", "Homebrew", "--amount", "600")

	out := mustRun(t, "caffeine", "today")
	for _, want := range []string{"1. 08:00  Espresso", "2. 10:00  Green Tea", "Total: 91 / 400 mg"} {
		if !strings.Contains(out, want) {
			t.Errorf("today output missing %q:\n%s", want, out)
		}
	}

	out = mustRun(t, "caffeine", "delete", "1")
	if !strings.Contains(out, "Deleted Espresso (63 mg).") {
		t.Errorf("delete output:\n%s", out)
	}
	if _, err := run(t, "caffeine", "delete", "5"); err == nil || !strings.Contains(err.Error(), "no entry #5") {
		t.Errorf("stale delete err = %v", err)
	}

	out = mustRun(t, "status")
	if !strings.Contains(out, "28 / 400 mg") || !strings.Contains(out, "600 / 550 ml  over limit") {
		t.Errorf("status output:\n%s", out)
	}
}

func TestDeleteOnOtherDay(t *testing.T) {
	useApp(t, config.Default(t.TempDir()))

	mustRun(t, "alcohol", "add", "IPA", "--at", "2026-05-12 20:00")
	if _, err := run(t, "alcohol", "delete", "1"); err == nil {
		t.Error("today has no entries; delete should fail")
	}
	out := mustRun(t, "alcohol", "delete", "1", "--date", "2026-05-12")
	if !strings.Contains(out, "Deleted IPA (330 ml).") {
		t.Errorf("delete output:\n%s", out)
	}
}

func TestHistoryAndExport(t *testing.T) {
	useApp(t, config.Default(t.TempDir()))
	mustRun(t, "caffeine", "add", "Espresso")
	mustRun(t, "caffeine", "add", "Cold Brew", "--at", "2026-05-13 09:00")

	out := mustRun(t, "caffeine", "history", "--details")
	for _, want := range []string{"Today", "Yesterday", "6 days ago", "• Espresso: 63 mg", "• Cold Brew: 200 mg", "37 mg/day"} {
		if !strings.Contains(out, want) {
			t.Errorf("history output missing %q:\n%s", want, out)
		}
	}

	out = mustRun(t, "caffeine", "export", "--format", "csv")
	if !strings.Contains(out, "2026-05-14,15:00,Espresso,63,mg") {
		t.Errorf("csv output:\n%s", out)
	}

	out = mustRun(t, "caffeine", "export", "--format", "json")
	var doc exportDoc
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("json output: %v\n%s", err, out)
	}
	if len(doc.Days) != 7 || doc.Days[6].Total != 63 || doc.Days[5].Total != 200 || doc.Average != 37 {
		t.Errorf("json doc = %+v", doc)
	}

	out = mustRun(t, "caffeine", "export", "--format", "md")
	if !strings.Contains(out, "| Today | 2026-05-14 | 63 mg |  |") {
		t.Errorf("md output:\n%s", out)
	}

	if _, err := run(t, "caffeine", "export", "--format", "xml"); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestDrinks(t *testing.T) {
	useApp(t, config.Default(t.TempDir()))
	out := mustRun(t, "alcohol", "drinks")
	beer := strings.Index(out, "Beer")
	wine := strings.Index(out, "Wine")
	if beer < 0 || wine < 0 || beer > wine {
		t.Errorf("categories not sorted:\n%s", out)
	}
	if !strings.Contains(out, "Aperol Spritz") {
		t.Errorf("drinks output:\n%s", out)
	}
}

func TestStorageErrorsExitWithTwo(t *testing.T) {
	err := storageErr(errors.New("disk full"))
	var ee *exitError
	if !errors.As(err, &ee) || ee.code != 2 {
		t.Errorf("storageErr code = %v", err)
	}
}
