package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrNoRecords marks a run that finished without a single founder record.
var ErrNoRecords = errors.New("no founder records extracted")

type Stage string

const (
	StageSetup   Stage = "setup"
	StageLoad    Stage = "load"
	StageExtract Stage = "extract"
	StageResolve Stage = "resolve"
	StageExport  Stage = "export"
	StageUpload  Stage = "upload"
)

// ItemFailure is a non-fatal failure of a single item within a stage.
type ItemFailure struct {
	Stage Stage
	Item  string
	Err   error
}

func (f ItemFailure) Error() string {
	return fmt.Sprintf("%s %s: %v", f.Stage, f.Item, f.Err)
}

func (f ItemFailure) Unwrap() error {
	return f.Err
}

// UploadResult is what the remote store reports back for an uploaded file.
type UploadResult struct {
	ID   string
	Name string
	Link string
}

// Report aggregates the outcome of one run so callers can tell
// "nothing was there" apart from "the run broke".
type Report struct {
	StartedAt  time.Time
	FinishedAt time.Time

	Entries          int
	Records          int
	WithLink         int
	ProfilesVisited  int
	ScrollIterations int
	Converged        bool
	Capped           bool
	UsedFallback     bool

	Failures []ItemFailure
	Fatal    error

	Upload    *UploadResult
	UploadErr error
}

func (r *Report) Fail(stage Stage, item string, err error) {
	r.Failures = append(r.Failures, ItemFailure{Stage: stage, Item: item, Err: err})
}

// FailureCounts groups item failures by stage.
func (r *Report) FailureCounts() map[Stage]int {
	counts := make(map[Stage]int)
	for _, f := range r.Failures {
		counts[f.Stage]++
	}
	return counts
}

// Err returns the run-level error: the recorded fatal error, or
// ErrNoRecords when the run produced nothing.
func (r *Report) Err() error {
	if r.Fatal != nil {
		return r.Fatal
	}
	if r.Records == 0 {
		return ErrNoRecords
	}
	return nil
}
