package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"founders-crawler/internal/browser"
)

// nudgeOffset is how far past the bottom the loader scrolls when a scroll
// did not grow the page.
const nudgeOffset = 1000

// Loader scrolls a directory page until it stops producing new entries.
type Loader struct {
	EntrySelector    string
	ShowMoreSelector string

	ShowMorePause time.Duration
	ScrollPause   time.Duration
	NudgePause    time.Duration

	// StallThreshold is the number of consecutive unchanged-height checks
	// that count as converged.
	StallThreshold int
	MaxIterations  int
	MaxDuration    time.Duration

	now func() time.Time
}

type LoadResult struct {
	Entries    int
	Iterations int
	Converged  bool
	// Capped is set when MaxIterations or MaxDuration ended the loop first.
	Capped  bool
	Elapsed time.Duration
}

func (l *Loader) clock() time.Time {
	if l.now != nil {
		return l.now()
	}
	return time.Now()
}

// Load activates the show-more control once, then scrolls until the page
// converges or a cap is hit. Hitting a cap is not an error.
func (l *Loader) Load(ctx context.Context, page browser.Page) (res LoadResult, err error) {
	start := l.clock()
	defer func() { res.Elapsed = l.clock().Sub(start) }()

	if l.ShowMoreSelector != "" {
		clicked, err := page.ClickIfVisible(ctx, l.ShowMoreSelector)
		switch {
		case err != nil:
			slog.Warn("show-more click failed", "selector", l.ShowMoreSelector, "err", err)
		case clicked:
			slog.Info("clicked show-more control")
			if err := Pause(ctx, l.ShowMorePause); err != nil {
				return res, err
			}
		}
	}

	lastHeight, err := page.ScrollHeight(ctx)
	if err != nil {
		return res, fmt.Errorf("initial height: %w", err)
	}
	lastCount, err := page.Count(ctx, l.EntrySelector)
	if err != nil {
		return res, fmt.Errorf("initial count: %w", err)
	}
	res.Entries = lastCount
	slog.Info("directory loaded", "entries", lastCount)

	stall := 0
	for {
		if res.Iterations >= l.MaxIterations || l.clock().Sub(start) >= l.MaxDuration {
			res.Capped = true
			slog.Warn("scroll cap reached before convergence",
				"iterations", res.Iterations, "entries", res.Entries)
			return res, nil
		}
		res.Iterations++

		if err := page.ScrollToBottom(ctx, 0); err != nil {
			return res, err
		}
		if err := Pause(ctx, l.ScrollPause); err != nil {
			return res, err
		}

		height, err := page.ScrollHeight(ctx)
		if err != nil {
			return res, fmt.Errorf("height: %w", err)
		}
		count, err := page.Count(ctx, l.EntrySelector)
		if err != nil {
			return res, fmt.Errorf("count: %w", err)
		}

		if count > lastCount {
			slog.Info("loaded more entries", "entries", count, "added", count-lastCount)
			lastCount = count
			res.Entries = count
			lastHeight = height
			stall = 0
			continue
		}

		if height != lastHeight {
			lastHeight = height
			stall = 0
			continue
		}

		stall++
		slog.Debug("no growth", "stall", stall, "height", height)
		if stall >= l.StallThreshold {
			res.Converged = true
			slog.Info("directory converged", "entries", res.Entries, "iterations", res.Iterations)
			return res, nil
		}

		if err := page.ScrollToBottom(ctx, nudgeOffset); err != nil {
			return res, err
		}
		if err := Pause(ctx, l.NudgePause); err != nil {
			return res, err
		}
	}
}

// Pause sleeps for d or until ctx is done.
func Pause(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
