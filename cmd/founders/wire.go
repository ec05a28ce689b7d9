package main

import (
	"founders-crawler/internal/config"
	"founders-crawler/internal/crawler"
	"founders-crawler/internal/crawler/engine"
	"founders-crawler/pkg/models"
)

// newEngine builds the pipeline from configuration. Profile resolution is
// skipped unless resolve is set.
func newEngine(c *config.Config, resolve bool, sinks ...engine.Sink[models.FounderRecord]) *engine.Engine {
	loader := &crawler.Loader{
		EntrySelector:    c.EntrySelector,
		ShowMoreSelector: c.ShowMoreSelector,
		ShowMorePause:    c.ShowMorePause,
		ScrollPause:      c.ScrollPause,
		NudgePause:       c.NudgePause,
		StallThreshold:   c.StallThreshold,
		MaxIterations:    c.MaxScrolls,
		MaxDuration:      c.MaxLoadDuration,
	}

	extractor := &crawler.Extractor{
		Selector:         c.EntrySelector,
		FallbackSelector: c.FallbackSelector,
	}

	var resolver *crawler.Resolver
	if resolve {
		resolver = &crawler.Resolver{
			LinkSelector: c.LinkSelector,
			Domain:       c.NetworkDomain,
			PathSegment:  c.ProfilePathSegment,
			Timeout:      c.ProfileTimeout,
			Mode:         crawler.MatchMode(c.LinkMatch),
		}
	}

	return engine.NewEngine(
		engine.Config{
			DirectoryURL:    c.DirectoryURL,
			PageLoadTimeout: c.PageLoadTimeout,
			SettlePause:     c.SettlePause,
			MaxProfiles:     c.MaxProfiles,
			DumpHTML:        c.DumpHTML,
		},
		loader,
		extractor,
		resolver,
		crawler.NewDomainManager(c.RateLimit, c.RespectRobots),
		sinks...,
	)
}
