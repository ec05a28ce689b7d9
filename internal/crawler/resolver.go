package crawler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"founders-crawler/internal/browser"
)

// Resolver finds a founder's professional-network link on their profile page.
type Resolver struct {
	LinkSelector string
	Domain       string
	// PathSegment precedes the founder slug in profile URLs.
	PathSegment string
	Timeout     time.Duration
	Mode        MatchMode
}

// Resolve visits profileURL and returns the selected link, or "" when the
// page has none. Navigation failures and timeouts are returned as errors.
func (r *Resolver) Resolve(ctx context.Context, page browser.Page, profileURL string) (string, error) {
	if profileURL == "" {
		return "", nil
	}

	ctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	if err := page.Navigate(ctx, profileURL); err != nil {
		return "", err
	}
	if err := page.WaitReady(ctx, "body", r.Timeout); err != nil {
		return "", fmt.Errorf("wait for %s: %w", profileURL, err)
	}

	anchors, err := page.Anchors(ctx, r.LinkSelector)
	if err != nil {
		return "", fmt.Errorf("collect links: %w", err)
	}

	hrefs := make([]string, 0, len(anchors))
	for _, a := range anchors {
		if a.Err == nil && a.Href != "" {
			hrefs = append(hrefs, a.Href)
		}
	}

	link := SelectLink(hrefs, r.Domain, NameFragments(profileURL, r.PathSegment), r.Mode)
	slog.Debug("resolved profile", "profile", profileURL, "candidates", len(hrefs), "link", link)
	return link, nil
}
