package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"founders-crawler/internal/browser"
	"founders-crawler/internal/config"
	"founders-crawler/internal/storage"
	"founders-crawler/pkg/models"
)

var runFlags struct {
	headless    bool
	maxProfiles int
	output      string
	noUpload    bool
}

func init() {
	f := runCmd.Flags()
	f.BoolVar(&runFlags.headless, "headless", true, "Run Chrome without a window.")
	f.IntVar(&runFlags.maxProfiles, "max-profiles", 0, "Resolve at most this many profiles (0 = all).")
	f.StringVarP(&runFlags.output, "output", "o", "", "Local CSV path (default OUTPUT_FILE).")
	f.BoolVar(&runFlags.noUpload, "no-upload", false, "Skip the remote upload.")
	rootCmd.AddCommand(runCmd)
}

var runCmd = &cobra.Command{
	Use:   "run [--headless] [--max-profiles N] [--output file.csv] [--no-upload]",
	Short: "Scrapes the directory with Chrome, writes the CSV and uploads it.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		applyRunFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), cfg.RunTimeout)
		defer cancel()

		records, report := scrape(ctx, cfg)
		if report.Err() == nil && !runFlags.noUpload {
			upload(ctx, cfg, report)
		}

		printSummary(cmd.OutOrStdout(), records, report)
		return outcome(report)
	},
}

func applyRunFlags(cmd *cobra.Command, c *config.Config) {
	f := cmd.Flags()
	if f.Changed("headless") {
		c.Headless = runFlags.headless
	}
	if f.Changed("max-profiles") {
		c.MaxProfiles = runFlags.maxProfiles
	}
	if runFlags.output != "" {
		c.OutputFile = runFlags.output
	}
	if runFlags.noUpload {
		c.UploadBackend = config.UploadNone
	}
}

// scrape owns the browser session for the duration of the pipeline.
func scrape(ctx context.Context, c *config.Config) ([]models.FounderRecord, *models.Report) {
	session, err := browser.NewSession(ctx, browser.Options{
		Headless:  c.Headless,
		ExecPath:  c.ChromePath,
		UserAgent: c.UserAgent,
	})
	if err != nil {
		report := &models.Report{StartedAt: time.Now(), FinishedAt: time.Now()}
		report.Fail(models.StageSetup, "browser", err)
		report.Fatal = err
		return nil, report
	}
	defer session.Close()

	return newEngine(c, true, storage.NewCSVSink(c.OutputFile)).Run(ctx, session)
}

func upload(ctx context.Context, c *config.Config, report *models.Report) {
	up, err := storage.NewUploader(ctx, c)
	if err != nil {
		slog.Warn("upload skipped", "backend", c.UploadBackend, "err", err)
		report.UploadErr = err
		report.Fail(models.StageUpload, c.UploadBackend, err)
		return
	}
	if up == nil {
		slog.Info("upload disabled")
		return
	}

	res, err := storage.UploadFile(ctx, up, c.OutputFile, time.Now())
	if err != nil {
		slog.Warn("upload failed, local file kept", "path", c.OutputFile, "err", err)
		report.UploadErr = err
		report.Fail(models.StageUpload, c.OutputFile, err)
		return
	}
	report.Upload = &res
}

// outcome maps a finished run onto the process exit status.
func outcome(report *models.Report) error {
	if err := report.Err(); err != nil {
		return &exitError{code: exitFailed, err: err}
	}
	if report.UploadErr != nil {
		return &exitError{code: exitUploadFailed, err: fmt.Errorf("records saved locally, upload failed: %w", report.UploadErr)}
	}
	return nil
}
