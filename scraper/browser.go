package scraper

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/playwright-community/playwright-go"

	"lennar_scraper/config"
)

// ErrNavigationTimeout is returned when a page or control never becomes
// ready within the configured bounds.
var ErrNavigationTimeout = errors.New("navigation timeout")

// Selectors tried when dismissing a cookie-consent overlay.
var consentSelectors = []string{
	"#onetrust-accept-btn-handler",
	"#didomi-notice-agree-button",
	"button[id*='accept']",
	"button[class*='accept']",
	"button[class*='consent']",
	"button:has-text('Accept All')",
	"button:has-text('Accept')",
	"button:has-text('I Accept')",
	"button:has-text('Agree')",
	"button:has-text('Got It')",
}

// Selectors for the "load more" affordance on listing result pages.
var loadMoreSelectors = []string{
	"button:has-text('Load More')",
	"button:has-text('Show More')",
	"button:has-text('View More')",
	"a:has-text('Load More')",
	"button[class*='load-more']",
	"[data-testid*='load-more']",
}

// maxStalledClicks is how many consecutive unresponsive clicks are tolerated
// before the page is treated as fully loaded.
const maxStalledClicks = 2

// Browser owns one playwright Chromium instance, shared across markets and
// released on every exit path.
type Browser struct {
	cfg *config.ScraperConfig

	mu      sync.Mutex
	pw      *playwright.Playwright
	browser playwright.Browser
}

func NewBrowser(cfg *config.ScraperConfig) *Browser {
	return &Browser{cfg: cfg}
}

func (b *Browser) ensure() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil {
		return nil
	}

	pw, err := playwright.Run()
	if err != nil {
		return fmt.Errorf("start playwright: %w", err)
	}

	opts := playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(b.cfg.Headless),
		Args: []string{
			"--disable-blink-features=AutomationControlled",
			"--disable-dev-shm-usage",
			"--no-sandbox",
		},
	}
	if b.cfg.BrowserPath != "" {
		opts.ExecutablePath = playwright.String(b.cfg.BrowserPath)
	}

	browser, err := pw.Chromium.Launch(opts)
	if err != nil {
		pw.Stop()
		return fmt.Errorf("launch browser: %w", err)
	}

	b.pw = pw
	b.browser = browser
	return nil
}

func (b *Browser) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.browser != nil {
		b.browser.Close()
		b.browser = nil
	}
	if b.pw != nil {
		b.pw.Stop()
		b.pw = nil
	}
}

// FetchPaginated loads url, dismisses any consent overlay, exhausts the
// "load more" control, and returns the rendered HTML. The pagination loop
// ending early is not an error: whatever content is on the page by then is
// accepted.
func (b *Browser) FetchPaginated(ctx context.Context, url string) (string, error) {
	if err := b.ensure(); err != nil {
		return "", err
	}

	page, err := b.browser.NewPage(playwright.BrowserNewPageOptions{
		UserAgent: playwright.String("Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	})
	if err != nil {
		return "", fmt.Errorf("new page: %w", err)
	}
	defer page.Close()

	_, err = page.Goto(url, playwright.PageGotoOptions{
		Timeout:   playwright.Float(float64(b.cfg.NavTimeout.Milliseconds())),
		WaitUntil: playwright.WaitUntilStateDomcontentloaded,
	})
	if err != nil {
		return "", fmt.Errorf("%w: goto %s: %v", ErrNavigationTimeout, url, err)
	}

	b.delay(page)
	b.dismissConsent(page)
	b.loadAll(ctx, page)

	content, err := page.Content()
	if err != nil {
		return "", fmt.Errorf("read page content: %w", err)
	}
	return content, nil
}

func (b *Browser) dismissConsent(page playwright.Page) {
	for _, selector := range consentSelectors {
		btn := page.Locator(selector).First()
		if visible, _ := btn.IsVisible(); visible {
			log.Printf("Dismissing consent overlay: %s", selector)
			btn.Click(playwright.LocatorClickOptions{Timeout: playwright.Float(3000)})
			page.WaitForTimeout(1000)
			return
		}
	}
}

// loadAll clicks the "load more" control until it disappears, stops growing
// the page, or the safety cap is hit.
func (b *Browser) loadAll(ctx context.Context, page playwright.Page) {
	stalled := 0

	for i := 0; i < b.cfg.MaxLoadMore; i++ {
		if ctx.Err() != nil {
			return
		}

		// Lazy-loaded sections render on scroll.
		page.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`)
		b.delay(page)

		btn := b.findLoadMore(page)
		if btn == nil {
			log.Printf("No load-more control after %d clicks, page complete", i)
			return
		}

		before := b.contentSize(page)
		if !b.clickWithRetry(page, btn) {
			log.Printf("Load-more control unresponsive after %d attempts, accepting partial results", b.cfg.ClickRetries)
			return
		}
		b.delay(page)

		if b.contentSize(page) <= before {
			stalled++
			if stalled >= maxStalledClicks {
				log.Printf("Content stopped growing after %d stalled clicks, page complete", stalled)
				return
			}
		} else {
			stalled = 0
		}
	}

	log.Printf("Load-more safety cap (%d) reached, accepting partial results", b.cfg.MaxLoadMore)
}

func (b *Browser) findLoadMore(page playwright.Page) playwright.Locator {
	for _, selector := range loadMoreSelectors {
		btn := page.Locator(selector).First()
		if visible, _ := btn.IsVisible(); visible {
			return btn
		}
	}
	return nil
}

// clickWithRetry tries a direct click and falls back to a programmatic
// el.click() when the direct interaction is intercepted by an overlay.
func (b *Browser) clickWithRetry(page playwright.Page, btn playwright.Locator) bool {
	for attempt := 1; attempt <= b.cfg.ClickRetries; attempt++ {
		err := btn.Click(playwright.LocatorClickOptions{Timeout: playwright.Float(5000)})
		if err == nil {
			return true
		}

		log.Printf("Load-more click failed (attempt %d/%d): %v", attempt, b.cfg.ClickRetries, err)
		if _, evalErr := btn.Evaluate(`el => el.click()`, nil); evalErr == nil {
			return true
		}
		page.WaitForTimeout(500)
	}
	return false
}

func (b *Browser) contentSize(page playwright.Page) int {
	content, err := page.Content()
	if err != nil {
		return 0
	}
	return len(content)
}

func (b *Browser) delay(page playwright.Page) {
	page.WaitForTimeout(float64(b.cfg.ActionDelay.Milliseconds()))
}
