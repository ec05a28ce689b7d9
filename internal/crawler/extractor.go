package crawler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"founders-crawler/internal/browser"
	"founders-crawler/pkg/models"
)

// ErrNoEntries means neither the primary nor the fallback selector matched
// anything, which usually means the directory markup changed.
var ErrNoEntries = errors.New("no directory entries matched")

// Entry is one directory card as read from the page.
type Entry struct {
	Index      int
	Text       string
	ProfileURL string
}

type ExtractResult struct {
	Entries      []Entry
	Failures     []models.ItemFailure
	UsedFallback bool
}

// Extractor reads the raw text and profile link of every loaded entry.
type Extractor struct {
	Selector         string
	FallbackSelector string
}

// Extract returns entries in document order. Elements that cannot be read
// are logged, recorded as failures and skipped.
func (e *Extractor) Extract(ctx context.Context, page browser.Page) (ExtractResult, error) {
	var res ExtractResult

	anchors, err := page.Anchors(ctx, e.Selector)
	if err != nil {
		return res, fmt.Errorf("query entries: %w", err)
	}

	if len(anchors) == 0 && e.FallbackSelector != "" {
		slog.Warn("primary selector matched nothing, trying fallback",
			"selector", e.Selector, "fallback", e.FallbackSelector)
		anchors, err = page.Anchors(ctx, e.FallbackSelector)
		if err != nil {
			return res, fmt.Errorf("query fallback entries: %w", err)
		}
		res.UsedFallback = true
	}

	if len(anchors) == 0 {
		return res, ErrNoEntries
	}

	for i, a := range anchors {
		if a.Err != nil {
			slog.Warn("skipping unreadable entry", "index", i+1, "err", a.Err)
			res.Failures = append(res.Failures, models.ItemFailure{
				Stage: models.StageExtract,
				Item:  fmt.Sprintf("entry %d", i+1),
				Err:   a.Err,
			})
			continue
		}
		res.Entries = append(res.Entries, Entry{Index: i, Text: a.Text, ProfileURL: a.Href})
	}

	slog.Info("extracted entries", "count", len(res.Entries), "skipped", len(res.Failures))
	return res, nil
}
