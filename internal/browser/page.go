package browser

import (
	"context"
	"errors"
	"net/url"
	"time"

	"founders-crawler/pkg/models"
)

var (
	// ErrTimeout is returned when a bounded wait expires.
	ErrTimeout = errors.New("page wait timed out")
	// ErrNotFound is returned by StaticPage for URLs it has no document for.
	ErrNotFound = errors.New("page not found")
)

// Page is the single browsing capability every pipeline stage receives.
// Implementations are used by one goroutine at a time.
type Page interface {
	Navigate(ctx context.Context, url string) error
	// WaitReady blocks until selector matches or timeout elapses.
	WaitReady(ctx context.Context, selector string, timeout time.Duration) error
	ScrollHeight(ctx context.Context) (int64, error)
	// ScrollToBottom scrolls to the page bottom plus extra pixels.
	ScrollToBottom(ctx context.Context, extra int) error
	Count(ctx context.Context, selector string) (int, error)
	// ClickIfVisible clicks the first visible match and reports whether it did.
	ClickIfVisible(ctx context.Context, selector string) (bool, error)
	// Anchors returns every match in document order with absolute hrefs.
	Anchors(ctx context.Context, selector string) ([]models.Anchor, error)
	HTML(ctx context.Context) (string, error)
}

// ResolveURL resolves href against base, e.g. "/about" -> "https://site.com/about".
func ResolveURL(base, href string) string {
	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return baseURL.ResolveReference(u).String()
}
