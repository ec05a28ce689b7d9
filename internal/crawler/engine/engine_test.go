package engine

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"founders-crawler/internal/browser"
	"founders-crawler/internal/crawler"
	"founders-crawler/pkg/models"
)

const directoryURL = "https://www.ycombinator.com/companies/founders"

const directoryHTML = `<html><body>
	<a class="card" href="/companies/founders/1-andy-fang">
		<div>Andy Fang</div><div><b>Co-founder</b> at <b>DoorDash</b></div><div>S13</div>
	</a>
	<a class="card" href="/companies/founders/2-jane-doe">
		<div>Jane Doe</div><div>CEO</div><div>W21</div>
	</a>
	<a class="card" href="/companies/founders/1-andy-fang">
		<div>Andy Fang</div><div>S13</div>
	</a>
	<a class="card" href="/companies/founders/3-sam-lee">
		<div>Sam Lee</div>
	</a>
</body></html>`

type memSink struct {
	saved [][]models.FounderRecord
	err   error
}

func (s *memSink) Save(_ context.Context, batch []models.FounderRecord) error {
	if s.err != nil {
		return s.err
	}
	s.saved = append(s.saved, batch)
	return nil
}

// countingPage records profile navigations.
type countingPage struct {
	*browser.StaticPage
	navigations map[string]int
}

func (p *countingPage) Navigate(ctx context.Context, url string) error {
	p.navigations[url]++
	return p.StaticPage.Navigate(ctx, url)
}

func newFixturePage(t *testing.T, directoryURL string) *countingPage {
	t.Helper()
	p := browser.NewStaticPage()
	require.NoError(t, p.Add(directoryURL, strings.NewReader(directoryHTML)))
	require.NoError(t, p.Add("https://www.ycombinator.com/companies/founders/1-andy-fang", strings.NewReader(
		`<html><body><a href="https://www.linkedin.com/company/doordash">DoorDash</a>
		<a href="https://www.linkedin.com/in/andyfang">Andy</a></body></html>`)))
	require.NoError(t, p.Add("https://www.ycombinator.com/companies/founders/2-jane-doe", strings.NewReader(
		`<html><body><a href="https://www.linkedin.com/company/acme">Acme</a></body></html>`)))
	// 3-sam-lee is missing and fails to resolve.
	return &countingPage{StaticPage: p, navigations: make(map[string]int)}
}

func newTestEngine(cfg Config, sinks ...Sink[models.FounderRecord]) *Engine {
	if cfg.DirectoryURL == "" {
		cfg.DirectoryURL = directoryURL
	}
	cfg.PageLoadTimeout = time.Second

	loader := &crawler.Loader{
		EntrySelector:  "a.card",
		StallThreshold: 3,
		MaxIterations:  10,
		MaxDuration:    time.Minute,
	}
	extractor := &crawler.Extractor{Selector: "a.card", FallbackSelector: "a[href*='/founders/']"}
	resolver := &crawler.Resolver{
		LinkSelector: "a[href*='linkedin.com']",
		Domain:       "linkedin.com",
		PathSegment:  "/founders/",
		Timeout:      time.Second,
		Mode:         crawler.MatchFragment,
	}
	return NewEngine(cfg, loader, extractor, resolver, crawler.NewDomainManager(0, false), sinks...)
}

func TestEngine_Run(t *testing.T) {
	sink := &memSink{}
	page := newFixturePage(t, directoryURL)

	records, report := newTestEngine(Config{}, sink).Run(context.Background(), page)
	require.NoError(t, report.Err())

	require.Len(t, records, 4, "one record per entry, duplicates kept")
	require.Equal(t, models.FounderRecord{
		FirstName:      "Andy",
		LastName:       "Fang",
		CurrentRole:    "Co-founder",
		CurrentCompany: "DoorDash",
		Batch:          "S13",
		LinkedInURL:    "https://www.linkedin.com/in/andyfang",
		ProfileURL:     "https://www.ycombinator.com/companies/founders/1-andy-fang",
	}, records[0])
	require.Equal(t, "CEO", records[1].CurrentRole)
	require.Equal(t, "https://www.linkedin.com/company/acme", records[1].LinkedInURL)
	require.Equal(t, records[0].LinkedInURL, records[2].LinkedInURL)
	require.Empty(t, records[3].LinkedInURL)

	require.Equal(t, 1, page.navigations["https://www.ycombinator.com/companies/founders/1-andy-fang"],
		"repeated profiles are resolved once")

	require.Equal(t, 4, report.Entries)
	require.Equal(t, 4, report.Records)
	require.Equal(t, 3, report.WithLink)
	require.Equal(t, 3, report.ProfilesVisited)
	require.True(t, report.Converged)
	require.Equal(t, 3, report.ScrollIterations)
	require.Equal(t, map[models.Stage]int{models.StageResolve: 1}, report.FailureCounts())
	require.ErrorIs(t, report.Failures[0], browser.ErrNotFound)

	require.Len(t, sink.saved, 1)
	require.Equal(t, records, sink.saved[0])
}

func TestEngine_MaxProfiles(t *testing.T) {
	page := newFixturePage(t, directoryURL)

	records, report := newTestEngine(Config{MaxProfiles: 1}).Run(context.Background(), page)
	require.NoError(t, report.Err())
	require.Equal(t, 1, report.ProfilesVisited)
	require.NotEmpty(t, records[0].LinkedInURL)
	require.Empty(t, records[1].LinkedInURL)
}

func TestEngine_NoEntries(t *testing.T) {
	sink := &memSink{}
	p := browser.NewStaticPage()
	require.NoError(t, p.Add(directoryURL, strings.NewReader(`<html><body><p>Redesigned!</p></body></html>`)))

	records, report := newTestEngine(Config{}, sink).Run(context.Background(), p)
	require.Nil(t, records)
	require.ErrorIs(t, report.Err(), crawler.ErrNoEntries)
	require.Empty(t, sink.saved)
}

func TestEngine_DirectoryUnavailable(t *testing.T) {
	_, report := newTestEngine(Config{}).Run(context.Background(), browser.NewStaticPage())
	require.ErrorIs(t, report.Err(), browser.ErrNotFound)
}

func TestEngine_Disallowed(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("User-agent: *\nDisallow: /\n"))
	}))
	defer srv.Close()

	e := newTestEngine(Config{DirectoryURL: srv.URL + "/companies/founders"})
	e.domainMgr = crawler.NewDomainManager(0, true)

	_, report := e.Run(context.Background(), newFixturePage(t, srv.URL+"/companies/founders"))
	require.ErrorIs(t, report.Err(), crawler.ErrDisallowed)
}

func TestEngine_SinkFailure(t *testing.T) {
	boom := errors.New("disk full")
	sink := &memSink{err: boom}

	records, report := newTestEngine(Config{}, sink).Run(context.Background(), newFixturePage(t, directoryURL))
	require.Len(t, records, 4)
	require.ErrorIs(t, report.Err(), boom)
	require.Equal(t, 1, report.FailureCounts()[models.StageExport])
}

func TestEngine_DumpHTML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "directory.html")

	_, report := newTestEngine(Config{DumpHTML: path}).Run(context.Background(), newFixturePage(t, directoryURL))
	require.NoError(t, report.Err())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Contains(t, string(data), "1-andy-fang")
}

func TestEngine_WithoutResolver(t *testing.T) {
	e := newTestEngine(Config{})
	e.resolver = nil

	records, report := e.Run(context.Background(), newFixturePage(t, directoryURL))
	require.NoError(t, report.Err())
	require.Len(t, records, 4)
	require.Zero(t, report.ProfilesVisited)
	require.Zero(t, report.WithLink)
}
