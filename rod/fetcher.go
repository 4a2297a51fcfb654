// Package rod provides the browser fetch tier: headless Chrome through
// go-rod with stealth patches, for pages that need JavaScript to render.
package rod

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/yomu"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// Ensure Fetcher implements yomu.Fetcher at compile time.
var _ yomu.Fetcher = (*Fetcher)(nil)

// Default browser tier timings.
const (
	DefaultNavigationTimeout = 30 * time.Second
	DefaultSelectorTimeout   = 5 * time.Second
	DefaultSettleDelay       = 2 * time.Second
)

// DefaultUserAgent is a current desktop Chrome user agent.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/131.0.0.0 Safari/537.36"

// DefaultAcceptLanguage is sent with every browser request.
const DefaultAcceptLanguage = "ja,en-US;q=0.9,en;q=0.8"

// Viewport dimensions of the emulated desktop.
const (
	viewportWidth  = 1920
	viewportHeight = 1080
)

// contentSelector matches elements that signal rendered article content.
const contentSelector = `article, main, [role="main"], .post-content, .entry-content, .article-content, .article-body, #content`

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Every Fetch runs in its own incognito browser context.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager         *BrowserManager
	navTimeout      time.Duration
	selectorTimeout time.Duration
	settleDelay     time.Duration
	userAgent       string
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithNavigationTimeout bounds navigation and the wait for network idle.
func WithNavigationTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.navTimeout = d
	}
}

// WithSelectorTimeout bounds the wait for a content element.
func WithSelectorTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.selectorTimeout = d
	}
}

// WithSettleDelay sets the pause between page load and reading the DOM.
func WithSettleDelay(d time.Duration) Option {
	return func(f *Fetcher) {
		f.settleDelay = d
	}
}

// WithUserAgent overrides the browser user agent.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// NewFetcher creates a Fetcher backed by manager. The Fetcher owns the
// manager: Close shuts the browser down.
func NewFetcher(manager *BrowserManager, opts ...Option) *Fetcher {
	f := &Fetcher{
		manager:         manager,
		navTimeout:      DefaultNavigationTimeout,
		selectorTimeout: DefaultSelectorTimeout,
		settleDelay:     DefaultSettleDelay,
		userAgent:       DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch navigates to the URL and returns the rendered HTML. The incognito
// context is closed on every return path.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	browser, release, err := f.manager.Acquire()
	if err != nil {
		return "", err
	}
	defer release()

	incognito, err := browser.Incognito()
	if err != nil {
		return "", fmt.Errorf("creating incognito context: %w", err)
	}
	defer func() { _ = incognito.Close() }()

	page, err := stealth.Page(incognito)
	if err != nil {
		return "", fmt.Errorf("creating page: %w", err)
	}
	defer func() { _ = page.Close() }()

	page = page.Context(ctx)

	if err := page.SetUserAgent(&proto.NetworkSetUserAgentOverride{
		UserAgent:      f.userAgent,
		AcceptLanguage: DefaultAcceptLanguage,
	}); err != nil {
		return "", fmt.Errorf("setting user agent: %w", err)
	}

	if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
		Width:             viewportWidth,
		Height:            viewportHeight,
		DeviceScaleFactor: 1,
	}); err != nil {
		return "", fmt.Errorf("setting viewport: %w", err)
	}

	nav := page.Timeout(f.navTimeout)
	waitIdle := nav.WaitNavigation(proto.PageLifecycleEventNameNetworkAlmostIdle)
	if err := nav.Navigate(url); err != nil {
		nav.CancelTimeout()
		return "", fmt.Errorf("navigating to %s: %w", url, err)
	}
	// A page that never goes idle is read as rendered so far.
	waitIdle()
	nav.CancelTimeout()

	// A missing content element is not an error; many pages have none.
	sel := page.Timeout(f.selectorTimeout)
	_, _ = sel.Element(contentSelector)
	sel.CancelTimeout()

	select {
	case <-time.After(f.settleDelay):
	case <-ctx.Done():
		return "", ctx.Err()
	}

	html, err := page.HTML()
	if err != nil {
		return "", fmt.Errorf("reading rendered HTML: %w", err)
	}

	return html, nil
}

// Close shuts down the browser.
func (f *Fetcher) Close() error {
	return f.manager.Close()
}
