package rod

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/launcher/flags"
)

// DefaultMaxPages is the default number of pages before browser recycling.
const DefaultMaxPages = 75

// BrowserManager manages browser lifecycle with automatic recycling to prevent
// memory accumulation. Chrome accumulates memory over time, and the baseline
// never returns to initial levels even with proper page cleanup.
//
// The browser process is launched on the first call to Acquire, so a
// process that never escalates to the browser tier never starts Chrome.
// A recycled browser is retired rather than closed: it shuts down when the
// last fetch holding it releases it.
//
// BrowserManager is safe for concurrent use.
type BrowserManager struct {
	current  *session
	retired  map[*session]struct{}
	launch   func() (*session, error)
	maxPages int64
	bin      string
	debug    bool
	mu       sync.Mutex
	closed   bool
}

// session is one launched browser and the fetches using it.
// Fields other than browser and launcher are guarded by BrowserManager.mu.
type session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	pages    int64
	users    int
	done     bool
}

// shutdown closes the browser and kills its launcher.
func (s *session) shutdown() error {
	s.done = true
	var err error
	if s.browser != nil {
		err = s.browser.Close()
	}
	if s.launcher != nil {
		s.launcher.Kill()
	}
	return err
}

// ManagerOption configures a BrowserManager.
type ManagerOption func(*BrowserManager)

// WithMaxPages sets the maximum number of pages before the browser is recycled.
// Defaults to 75 if not specified.
func WithMaxPages(n int64) ManagerOption {
	return func(bm *BrowserManager) {
		bm.maxPages = n
	}
}

// WithBrowserBin sets the Chrome executable. By default rod looks up a
// local installation and downloads one if none is found.
func WithBrowserBin(path string) ManagerOption {
	return func(bm *BrowserManager) {
		bm.bin = path
	}
}

// WithDebug forwards the launcher and Chrome logs to stderr.
func WithDebug(debug bool) ManagerOption {
	return func(bm *BrowserManager) {
		bm.debug = debug
	}
}

// NewBrowserManager creates a new BrowserManager. No browser is launched
// until Acquire is called. Close must be called when the BrowserManager is
// no longer needed.
func NewBrowserManager(opts ...ManagerOption) *BrowserManager {
	bm := &BrowserManager{
		maxPages: DefaultMaxPages,
		retired:  make(map[*session]struct{}),
	}
	bm.launch = bm.launchBrowser
	for _, opt := range opts {
		opt(bm)
	}
	return bm
}

// Acquire returns the current browser for one page, launching it on first
// use and recycling it once maxPages pages have been handed out. The caller
// must call release exactly once when done with the browser.
func (bm *BrowserManager) Acquire() (browser *rod.Browser, release func(), err error) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil, nil, fmt.Errorf("browser manager is closed")
	}

	switch {
	case bm.current == nil:
		s, err := bm.launch()
		if err != nil {
			return nil, nil, err
		}
		bm.current = s
	case bm.current.pages >= bm.maxPages:
		bm.recycle()
	}

	s := bm.current
	s.pages++
	s.users++

	var once sync.Once
	return s.browser, func() { once.Do(func() { bm.release(s) }) }, nil
}

// release drops one user of s and shuts s down if it was retired and this
// was its last user.
func (bm *BrowserManager) release(s *session) {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	s.users--
	if _, ok := bm.retired[s]; ok && s.users == 0 {
		delete(bm.retired, s)
		_ = s.shutdown()
	}
}

// recycle replaces the current browser with a fresh one. The old browser is
// shut down now if idle and otherwise retired until its last user releases
// it. If launching fails, the old browser stays current.
// Must be called with mu held.
func (bm *BrowserManager) recycle() {
	s, err := bm.launch()
	if err != nil {
		return
	}

	old := bm.current
	bm.current = s
	if old.users == 0 {
		_ = old.shutdown()
		return
	}
	bm.retired[old] = struct{}{}
}

// Close shuts down every browser, including retired ones still in use.
// Close is safe to call multiple times.
func (bm *BrowserManager) Close() error {
	bm.mu.Lock()
	defer bm.mu.Unlock()

	if bm.closed {
		return nil
	}
	bm.closed = true

	var err error
	if bm.current != nil {
		err = bm.current.shutdown()
		bm.current = nil
	}
	for s := range bm.retired {
		_ = s.shutdown()
		delete(bm.retired, s)
	}
	return err
}

// launchBrowser starts a new browser instance with stability and stealth
// flags.
func (bm *BrowserManager) launchBrowser() (*session, error) {
	var logs io.Writer = io.Discard
	if bm.debug {
		logs = os.Stderr
	}

	lnchr := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Set("disable-extensions").
		Set("no-first-run").
		Set(flags.Flag("disable-blink-features"), "AutomationControlled").
		Delete(flags.Flag("enable-automation")).
		Logger(logs).
		Leakless(true).
		Headless(true)

	if !bm.debug {
		lnchr = lnchr.Set("disable-logging").Set("log-level", "3")
	}
	if bm.bin != "" {
		lnchr = lnchr.Bin(bm.bin)
	}

	u, err := lnchr.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		lnchr.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	return &session{browser: browser, launcher: lnchr}, nil
}

// LauncherPID returns the process ID of the current browser launcher, or 0
// when no browser is running.
func (bm *BrowserManager) LauncherPID() int {
	bm.mu.Lock()
	defer bm.mu.Unlock()
	if bm.current == nil || bm.current.launcher == nil {
		return 0
	}
	return bm.current.launcher.PID()
}
