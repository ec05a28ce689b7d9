package main

import (
	"io"
	"slices"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"

	"founders-crawler/pkg/models"
)

// sampleSize is how many records the summary previews.
const sampleSize = 3

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

func printSummary(w io.Writer, records []models.FounderRecord, report *models.Report) {
	t := newTable(w)
	t.SetTitle("Run summary")
	t.AppendRows([]table.Row{
		{"Entries found", report.Entries},
		{"Records", report.Records},
		{"With LinkedIn URL", report.WithLink},
		{"Profiles visited", report.ProfilesVisited},
		{"Scroll iterations", report.ScrollIterations},
		{"Converged", report.Converged},
	})
	if report.Capped {
		t.AppendRow(table.Row{"Scroll cap hit", true})
	}
	if report.UsedFallback {
		t.AppendRow(table.Row{"Fallback selector", true})
	}

	counts := report.FailureCounts()
	stages := make([]string, 0, len(counts))
	for stage := range counts {
		stages = append(stages, string(stage))
	}
	slices.Sort(stages)
	for _, stage := range stages {
		t.AppendRow(table.Row{"Failures (" + stage + ")", counts[models.Stage(stage)]})
	}

	switch {
	case report.Upload != nil:
		t.AppendRow(table.Row{"Upload", report.Upload.Name})
		t.AppendRow(table.Row{"Upload ID", report.Upload.ID})
		t.AppendRow(table.Row{"Upload link", orNA(report.Upload.Link)})
	case report.UploadErr != nil:
		t.AppendRow(table.Row{"Upload", "failed: " + report.UploadErr.Error()})
	}
	if err := report.Err(); err != nil {
		t.AppendRow(table.Row{"Error", err.Error()})
	}
	if !report.FinishedAt.IsZero() {
		t.AppendRow(table.Row{"Duration", report.FinishedAt.Sub(report.StartedAt).Round(time.Second).String()})
	}
	t.Render()

	if len(records) == 0 {
		return
	}

	sample := newTable(w)
	sample.SetTitle("First entries")
	sample.AppendHeader(table.Row{"Name", "Role", "Company", "Batch", "LinkedIn"})
	for _, rec := range records[:min(sampleSize, len(records))] {
		sample.AppendRow(table.Row{
			orNA(rec.FullName()),
			orNA(rec.CurrentRole),
			orNA(rec.CurrentCompany),
			orNA(rec.Batch),
			orNA(rec.LinkedInURL),
		})
	}
	sample.Render()
}
