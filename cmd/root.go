package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Tiliavir/sip/internal/app"
	"github.com/Tiliavir/sip/internal/config"
	"github.com/Tiliavir/sip/internal/log"
)

var rootCmd = &cobra.Command{
	Use:   "sip",
	Short: "sip – track caffeine and alcohol intake",
	Long: `sip is a single-binary, offline intake tracker.
Log drinks from a catalog, watch today's total against a daily limit and
browse the last seven days. Data is stored locally under ~/.sip/.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// exitError carries the process exit code for an error: 1 for bad input,
// 2 for storage problems.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func storageErr(err error) error {
	return &exitError{code: 2, err: err}
}

// openApp loads configuration and opens storage. Tests replace it.
var openApp = func(ctx context.Context) (*app.App, error) {
	config.LoadEnvFile()

	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := log.New(log.Config{Level: log.ParseLevel(cfg.LogLevel), Output: os.Stderr})
	log.SetDefault(logger)

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return nil, storageErr(err)
	}
	return a, nil
}

// Execute is the entry point called from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		code := 1
		var ee *exitError
		if errors.As(err, &ee) {
			code = ee.code
		}
		os.Exit(code)
	}
}

func init() {
	rootCmd.AddCommand(newVerticalCmd(config.Caffeine, "Track caffeine (mg)"))
	rootCmd.AddCommand(newVerticalCmd(config.Alcohol, "Track alcohol (ml)"))
	rootCmd.AddCommand(statusCmd)
}
