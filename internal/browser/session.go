package browser

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/chromedp"

	"founders-crawler/pkg/models"
)

// elementTimeout bounds reading the text of a single element.
const elementTimeout = 5 * time.Second

const hideWebdriverJS = `Object.defineProperty(navigator, 'webdriver', {get: () => undefined})`

type Options struct {
	Headless  bool
	ExecPath  string
	UserAgent string
}

// Session is a Page backed by one Chrome tab driven through chromedp.
// Close must be called on every exit path.
type Session struct {
	ctx       context.Context
	cancels   []context.CancelFunc
	closeOnce sync.Once
}

// NewSession launches Chrome and opens a blank tab. The browser lives until
// Close is called or ctx is done.
func NewSession(ctx context.Context, opts Options) (*Session, error) {
	allocOpts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", opts.Headless),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.Flag("disable-blink-features", "AutomationControlled"),
		chromedp.Flag("enable-automation", false),
	)
	if opts.UserAgent != "" {
		allocOpts = append(allocOpts, chromedp.UserAgent(opts.UserAgent))
	}
	if opts.ExecPath != "" {
		allocOpts = append(allocOpts, chromedp.ExecPath(opts.ExecPath))
	}

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, allocOpts...)
	tabCtx, tabCancel := chromedp.NewContext(allocCtx)

	s := &Session{
		ctx:     tabCtx,
		cancels: []context.CancelFunc{tabCancel, allocCancel},
	}

	if err := chromedp.Run(tabCtx,
		chromedp.ActionFunc(func(c context.Context) error {
			_, err := page.AddScriptToEvaluateOnNewDocument(hideWebdriverJS).Do(c)
			return err
		}),
		chromedp.Navigate("about:blank"),
	); err != nil {
		s.Close()
		return nil, fmt.Errorf("start chrome: %w", err)
	}

	slog.Debug("browser session started", "headless", opts.Headless)
	return s, nil
}

// Close releases the tab and the browser process. Safe to call twice.
func (s *Session) Close() {
	s.closeOnce.Do(func() {
		for _, cancel := range s.cancels {
			cancel()
		}
		slog.Debug("browser session closed")
	})
}

// bind derives a context from the tab context that also ends when ctx ends.
func (s *Session) bind(ctx context.Context) (context.Context, context.CancelFunc) {
	runCtx, cancel := context.WithCancel(s.ctx)
	if deadline, ok := ctx.Deadline(); ok {
		var cancelDeadline context.CancelFunc
		runCtx, cancelDeadline = context.WithDeadline(runCtx, deadline)
		parent := cancel
		cancel = func() {
			cancelDeadline()
			parent()
		}
	}
	stop := context.AfterFunc(ctx, cancel)
	return runCtx, func() {
		stop()
		cancel()
	}
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	runCtx, cancel := s.bind(ctx)
	defer cancel()

	if err := chromedp.Run(runCtx, chromedp.Navigate(url)); err != nil {
		return fmt.Errorf("navigate %s: %w", url, err)
	}
	return nil
}

func (s *Session) WaitReady(ctx context.Context, selector string, timeout time.Duration) error {
	runCtx, cancel := s.bind(ctx)
	defer cancel()

	waitCtx, waitCancel := context.WithTimeout(runCtx, timeout)
	defer waitCancel()

	err := chromedp.Run(waitCtx, chromedp.WaitReady(selector, chromedp.ByQuery))
	if err != nil && errors.Is(waitCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return fmt.Errorf("%w: %q after %s", ErrTimeout, selector, timeout)
	}
	return err
}

func (s *Session) ScrollHeight(ctx context.Context) (int64, error) {
	runCtx, cancel := s.bind(ctx)
	defer cancel()

	var height int64
	if err := chromedp.Run(runCtx, chromedp.Evaluate(`document.body.scrollHeight`, &height)); err != nil {
		return 0, fmt.Errorf("read scroll height: %w", err)
	}
	return height, nil
}

func (s *Session) ScrollToBottom(ctx context.Context, extra int) error {
	runCtx, cancel := s.bind(ctx)
	defer cancel()

	var ok bool
	js := fmt.Sprintf(`(window.scrollTo(0, document.body.scrollHeight + %d), true)`, extra)
	if err := chromedp.Run(runCtx, chromedp.Evaluate(js, &ok)); err != nil {
		return fmt.Errorf("scroll: %w", err)
	}
	return nil
}

func (s *Session) Count(ctx context.Context, selector string) (int, error) {
	runCtx, cancel := s.bind(ctx)
	defer cancel()

	var n int
	js := fmt.Sprintf(`document.querySelectorAll(%q).length`, selector)
	if err := chromedp.Run(runCtx, chromedp.Evaluate(js, &n)); err != nil {
		return 0, fmt.Errorf("count %s: %w", selector, err)
	}
	return n, nil
}

// clickIfVisibleJS clicks the first match of selector when it has a rendered
// box. Fixed-position elements have no offsetParent but still count.
func clickIfVisibleJS(selector string) string {
	return fmt.Sprintf(`(() => {
		const el = document.querySelector(%q);
		if (!el || el.getClientRects().length === 0) return false;
		const r = el.getBoundingClientRect();
		if (r.width === 0 || r.height === 0) return false;
		if (getComputedStyle(el).visibility === 'hidden') return false;
		el.scrollIntoView({behavior: 'instant', block: 'center'});
		el.click();
		return true;
	})()`, selector)
}

func (s *Session) ClickIfVisible(ctx context.Context, selector string) (bool, error) {
	runCtx, cancel := s.bind(ctx)
	defer cancel()

	var clicked bool
	if err := chromedp.Run(runCtx, chromedp.Evaluate(clickIfVisibleJS(selector), &clicked)); err != nil {
		return false, fmt.Errorf("click %s: %w", selector, err)
	}
	return clicked, nil
}

func (s *Session) Anchors(ctx context.Context, selector string) ([]models.Anchor, error) {
	runCtx, cancel := s.bind(ctx)
	defer cancel()

	var location string
	var nodes []*cdp.Node
	if err := chromedp.Run(runCtx,
		chromedp.Location(&location),
		chromedp.Nodes(selector, &nodes, chromedp.ByQueryAll, chromedp.AtLeast(0)),
	); err != nil {
		return nil, fmt.Errorf("query %s: %w", selector, err)
	}

	anchors := make([]models.Anchor, 0, len(nodes))
	for _, n := range nodes {
		var a models.Anchor
		if href := n.AttributeValue("href"); href != "" {
			a.Href = ResolveURL(location, href)
		}

		elemCtx, elemCancel := context.WithTimeout(runCtx, elementTimeout)
		if err := chromedp.Run(elemCtx, chromedp.Text([]cdp.NodeID{n.NodeID}, &a.Text, chromedp.ByNodeID)); err != nil {
			a.Err = fmt.Errorf("read text: %w", err)
		}
		elemCancel()

		anchors = append(anchors, a)
	}
	return anchors, nil
}

func (s *Session) HTML(ctx context.Context) (string, error) {
	runCtx, cancel := s.bind(ctx)
	defer cancel()

	var html string
	if err := chromedp.Run(runCtx, chromedp.OuterHTML("html", &html, chromedp.ByQuery)); err != nil {
		return "", fmt.Errorf("read html: %w", err)
	}
	return html, nil
}

var _ Page = (*Session)(nil)
