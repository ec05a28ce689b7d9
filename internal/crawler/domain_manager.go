package crawler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/temoto/robotstxt"
	"golang.org/x/time/rate"
)

// RobotsAgent is the product token looked up in robots.txt groups.
const RobotsAgent = "FoundersCrawler"

// ErrDisallowed is returned for URLs robots.txt forbids.
var ErrDisallowed = errors.New("disallowed by robots.txt")

// DomainManager keeps visits polite: one limiter per host and a cached
// robots.txt group per host.
type DomainManager struct {
	mu          sync.Mutex
	limiters    map[string]*rate.Limiter
	robotsCache map[string]*robotstxt.Group

	interval      time.Duration
	respectRobots bool
	client        *http.Client
}

// NewDomainManager paces visits to each host at most once per interval.
// A non-positive interval disables pacing.
func NewDomainManager(interval time.Duration, respectRobots bool) *DomainManager {
	return &DomainManager{
		limiters:      make(map[string]*rate.Limiter),
		robotsCache:   make(map[string]*robotstxt.Group),
		interval:      interval,
		respectRobots: respectRobots,
		client:        &http.Client{Timeout: 10 * time.Second},
	}
}

// Wait blocks until the host of targetURL may be visited again.
func (d *DomainManager) Wait(ctx context.Context, targetURL string) error {
	u, err := url.Parse(targetURL)
	if err != nil {
		return err
	}
	domain := u.Host

	d.mu.Lock()
	limiter, exists := d.limiters[domain]
	if !exists {
		limit := rate.Inf
		if d.interval > 0 {
			limit = rate.Every(d.interval)
		}
		// Burst 1: the first visit is immediate, later ones wait a full interval.
		limiter = rate.NewLimiter(limit, 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}

// IsAllowed reports whether robots.txt permits fetching link. Hosts whose
// robots.txt cannot be fetched are treated as allowed; a 5xx answer
// disallows the whole host.
func (d *DomainManager) IsAllowed(ctx context.Context, link string) bool {
	if !d.respectRobots {
		return true
	}
	u, err := url.Parse(link)
	if err != nil {
		return false
	}

	d.mu.Lock()
	group, exists := d.robotsCache[u.Host]
	d.mu.Unlock()

	if !exists {
		group = d.fetchGroup(ctx, u)
		d.mu.Lock()
		d.robotsCache[u.Host] = group
		d.mu.Unlock()
	}

	if group == nil {
		return true
	}
	return group.Test(u.Path)
}

func (d *DomainManager) fetchGroup(ctx context.Context, u *url.URL) *robotstxt.Group {
	robotsURL := u.Scheme + "://" + u.Host + "/robots.txt"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, robotsURL, nil)
	if err != nil {
		return nil
	}
	resp, err := d.client.Do(req)
	if err != nil {
		slog.Debug("robots.txt unavailable", "url", robotsURL, "err", err)
		return nil
	}
	defer resp.Body.Close()

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		slog.Debug("robots.txt unreadable", "url", robotsURL, "err", err)
		return nil
	}
	return data.FindGroup(RobotsAgent)
}
