package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"founders-crawler/internal/config"
	"founders-crawler/internal/logging"
)

// Exit codes.
const (
	exitOK           = 0
	exitFailed       = 1
	exitUploadFailed = 2
)

// exitError carries the process exit code for a failed command.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }

func (e *exitError) Unwrap() error { return e.err }

var (
	cfg     *config.Config
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:           "founders",
	Short:         "founders scrapes the YC founder directory into a CSV file.",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		level, err := logging.ParseLevel(loaded.LogLevel)
		if err != nil {
			return err
		}
		if verbose {
			level = slog.LevelDebug
		}
		logging.Init(os.Stderr, level)

		cfg = loaded
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log at debug level.")
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	os.Exit(exitCode(err))
}

func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		slog.Error("run failed", "err", ee.err)
		return ee.code
	}
	fmt.Fprintln(os.Stderr, err)
	return exitFailed
}
