package browser

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/PuerkitoBio/goquery"

	"founders-crawler/pkg/models"
)

// StaticPage is a Page over pre-rendered HTML documents keyed by URL. It is
// used to replay dumped pages without a browser. Scrolling never grows it.
type StaticPage struct {
	docs    map[string]*goquery.Document
	current string

	// Fetch, when set, supplies documents for URLs that were not added.
	Fetch func(url string) (io.ReadCloser, error)
}

func NewStaticPage() *StaticPage {
	return &StaticPage{docs: make(map[string]*goquery.Document)}
}

// Add parses r as the document served at url.
func (p *StaticPage) Add(url string, r io.Reader) error {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return fmt.Errorf("parse %s: %w", url, err)
	}
	p.docs[url] = doc
	return nil
}

func (p *StaticPage) doc() (*goquery.Document, error) {
	doc, ok := p.docs[p.current]
	if !ok {
		return nil, fmt.Errorf("%w: no document loaded", ErrNotFound)
	}
	return doc, nil
}

func (p *StaticPage) Navigate(ctx context.Context, url string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, ok := p.docs[url]; !ok {
		if p.Fetch == nil {
			return fmt.Errorf("%w: %s", ErrNotFound, url)
		}
		rc, err := p.Fetch(url)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrNotFound, url, err)
		}
		defer rc.Close()
		if err := p.Add(url, rc); err != nil {
			return err
		}
	}
	p.current = url
	return nil
}

func (p *StaticPage) WaitReady(ctx context.Context, selector string, timeout time.Duration) error {
	doc, err := p.doc()
	if err != nil {
		return err
	}
	if doc.Find(selector).Length() == 0 {
		return fmt.Errorf("%w: %q after %s", ErrTimeout, selector, timeout)
	}
	return nil
}

func (p *StaticPage) ScrollHeight(ctx context.Context) (int64, error) {
	doc, err := p.doc()
	if err != nil {
		return 0, err
	}
	return int64(doc.Find("*").Length()), nil
}

func (p *StaticPage) ScrollToBottom(ctx context.Context, extra int) error {
	_, err := p.doc()
	return err
}

func (p *StaticPage) Count(ctx context.Context, selector string) (int, error) {
	doc, err := p.doc()
	if err != nil {
		return 0, err
	}
	return doc.Find(selector).Length(), nil
}

// ClickIfVisible never clicks: a static document has nothing left to load.
func (p *StaticPage) ClickIfVisible(ctx context.Context, selector string) (bool, error) {
	_, err := p.doc()
	return false, err
}

func (p *StaticPage) Anchors(ctx context.Context, selector string) ([]models.Anchor, error) {
	doc, err := p.doc()
	if err != nil {
		return nil, err
	}

	var anchors []models.Anchor
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		var a models.Anchor
		if href, ok := sel.Attr("href"); ok && href != "" {
			a.Href = ResolveURL(p.current, href)
		}
		a.Text = InnerText(sel.Get(0))
		anchors = append(anchors, a)
	})
	return anchors, nil
}

func (p *StaticPage) HTML(ctx context.Context) (string, error) {
	doc, err := p.doc()
	if err != nil {
		return "", err
	}
	return goquery.OuterHtml(doc.Selection)
}

var _ Page = (*StaticPage)(nil)
