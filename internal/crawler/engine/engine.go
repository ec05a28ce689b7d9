package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"founders-crawler/internal"
	"founders-crawler/internal/browser"
	"founders-crawler/internal/crawler"
	"founders-crawler/pkg/models"
)

// Sink defines how to persist the data.
type Sink[T any] interface {
	Save(ctx context.Context, batch []T) error
}

// Config holds run settings that are not owned by a single stage.
type Config struct {
	DirectoryURL    string
	PageLoadTimeout time.Duration
	SettlePause     time.Duration

	// MaxProfiles caps profile visits; 0 means no cap.
	MaxProfiles int
	// DumpHTML, when set, receives the loaded directory HTML.
	DumpHTML string
}

// Engine runs the scrape pipeline against one page, one stage at a time.
type Engine struct {
	config    Config
	loader    *crawler.Loader
	extractor *crawler.Extractor
	resolver  *crawler.Resolver
	sinks     []Sink[models.FounderRecord]

	// State
	resolved  *internal.SafeMap[string]
	domainMgr *crawler.DomainManager
	now       func() time.Time
}

// NewEngine wires the stages. A nil resolver skips profile resolution.
func NewEngine(
	cfg Config,
	loader *crawler.Loader,
	extractor *crawler.Extractor,
	resolver *crawler.Resolver,
	domainMgr *crawler.DomainManager,
	sinks ...Sink[models.FounderRecord],
) *Engine {
	return &Engine{
		config:    cfg,
		loader:    loader,
		extractor: extractor,
		resolver:  resolver,
		sinks:     sinks,
		resolved:  internal.NewSafeMap[string](),
		domainMgr: domainMgr,
		now:       time.Now,
	}
}

// Run loads the directory, extracts and parses every entry, resolves
// profile links and hands the records to the sinks. Item failures are
// collected in the report; report.Err() tells whether the run failed.
func (engine *Engine) Run(ctx context.Context, page browser.Page) ([]models.FounderRecord, *models.Report) {
	report := &models.Report{StartedAt: engine.now()}
	defer func() { report.FinishedAt = engine.now() }()

	entries, err := engine.collect(ctx, page, report)
	if err != nil {
		report.Fatal = err
		return nil, report
	}

	records := make([]models.FounderRecord, 0, len(entries))
	for _, e := range entries {
		rec := crawler.ParseFounderText(e.Text)
		rec.ProfileURL = e.ProfileURL
		records = append(records, rec)
	}
	report.Records = len(records)

	if engine.resolver != nil {
		engine.resolveAll(ctx, page, records, report)
	}
	for _, rec := range records {
		if rec.LinkedInURL != "" {
			report.WithLink++
		}
	}

	// Partial results are still written after an interrupt.
	saveCtx := context.WithoutCancel(ctx)
	for _, sink := range engine.sinks {
		if err := sink.Save(saveCtx, records); err != nil {
			report.Fail(models.StageExport, fmt.Sprintf("%T", sink), err)
			report.Fatal = fmt.Errorf("export: %w", err)
			return records, report
		}
	}

	if ctx.Err() != nil {
		report.Fatal = fmt.Errorf("interrupted: %w", ctx.Err())
	}
	return records, report
}

// collect runs the page loader, exhaustive loader and extractor.
func (engine *Engine) collect(ctx context.Context, page browser.Page, report *models.Report) ([]crawler.Entry, error) {
	target := engine.config.DirectoryURL

	if !engine.domainMgr.IsAllowed(ctx, target) {
		return nil, fmt.Errorf("%w: %s", crawler.ErrDisallowed, target)
	}
	if err := engine.domainMgr.Wait(ctx, target); err != nil {
		return nil, err
	}

	slog.Info("opening directory", "url", target)
	if err := page.Navigate(ctx, target); err != nil {
		return nil, fmt.Errorf("load directory: %w", err)
	}
	if err := page.WaitReady(ctx, "body", engine.config.PageLoadTimeout); err != nil {
		return nil, fmt.Errorf("load directory: %w", err)
	}
	if err := crawler.Pause(ctx, engine.config.SettlePause); err != nil {
		return nil, err
	}

	loaded, err := engine.loader.Load(ctx, page)
	report.ScrollIterations = loaded.Iterations
	report.Converged = loaded.Converged
	report.Capped = loaded.Capped
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		// Whatever rendered before the failure is still worth extracting.
		slog.Warn("exhaustive load failed", "err", err, "entries", loaded.Entries)
		report.Fail(models.StageLoad, target, err)
	}

	if path := engine.config.DumpHTML; path != "" {
		if err := dumpHTML(ctx, page, path); err != nil {
			slog.Warn("could not dump directory html", "path", path, "err", err)
			report.Fail(models.StageLoad, path, err)
		} else {
			slog.Info("dumped directory html", "path", path)
		}
	}

	extracted, err := engine.extractor.Extract(ctx, page)
	report.UsedFallback = extracted.UsedFallback
	report.Failures = append(report.Failures, extracted.Failures...)
	if err != nil {
		if errors.Is(err, crawler.ErrNoEntries) {
			slog.Error("no entries found, the directory markup may have changed")
		}
		return nil, err
	}
	report.Entries = len(extracted.Entries) + len(extracted.Failures)
	return extracted.Entries, nil
}

func (engine *Engine) resolveAll(ctx context.Context, page browser.Page, records []models.FounderRecord, report *models.Report) {
	total := len(records)
	if limit := engine.config.MaxProfiles; limit > 0 && limit < total {
		slog.Info("profile visits capped", "max", limit, "records", total)
		total = limit
	}

	for i := range records[:total] {
		rec := &records[i]
		if rec.ProfileURL == "" {
			continue
		}
		if ctx.Err() != nil {
			report.Fail(models.StageResolve, rec.ProfileURL, ctx.Err())
			return
		}

		if link, ok := engine.resolved.Get(rec.ProfileURL); ok {
			rec.LinkedInURL = link
			continue
		}

		if !engine.domainMgr.IsAllowed(ctx, rec.ProfileURL) {
			report.Fail(models.StageResolve, rec.ProfileURL, crawler.ErrDisallowed)
			continue
		}
		if err := engine.domainMgr.Wait(ctx, rec.ProfileURL); err != nil {
			report.Fail(models.StageResolve, rec.ProfileURL, err)
			return
		}

		link, err := engine.resolver.Resolve(ctx, page, rec.ProfileURL)
		report.ProfilesVisited++
		if err != nil {
			slog.Warn("profile resolution failed", "name", rec.FullName(), "profile", rec.ProfileURL, "err", err)
			report.Fail(models.StageResolve, rec.ProfileURL, err)
			continue
		}

		engine.resolved.Set(rec.ProfileURL, link)
		rec.LinkedInURL = link

		if report.ProfilesVisited%10 == 0 {
			slog.Info("resolving profiles", "done", i+1, "of", total)
		}
	}
}

func dumpHTML(ctx context.Context, page browser.Page, path string) error {
	html, err := page.HTML(ctx)
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(html), 0o644)
}
