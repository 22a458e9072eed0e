package reverb

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/chromedp/chromedp/kb"

	"guitar-scraper/config"
	"guitar-scraper/models"
	"guitar-scraper/utils"
)

// pageSettle is the fixed pause after activating the "Next" control, giving
// the index page time to swap before the next HTML read.
const pageSettle = 2 * time.Second

// Scraper drives a logged-in browser session against the price guide. Each
// stage (link collection, record extraction) opens and closes its own
// session; all page visits are strictly sequential.
type Scraper struct {
	cfg    *config.Config
	logger *utils.Logger
}

// New creates a ready-to-use Scraper.
func New(cfg *config.Config, logger *utils.Logger) *Scraper {
	return &Scraper{cfg: cfg, logger: logger}
}

// CollectLinks logs in, paginates the price-guide index and returns every
// listing link found, in document order and without deduplication.
func (s *Scraper) CollectLinks() ([]string, error) {
	ctx, cancel := s.newSession()
	defer cancel()

	if err := s.login(ctx); err != nil {
		return nil, fmt.Errorf("collect links: %w", err)
	}

	if err := chromedp.Run(ctx, chromedp.Navigate(s.cfg.PriceGuideURL)); err != nil {
		return nil, fmt.Errorf("collect links: navigate index: %w", err)
	}
	s.waitFor(ctx, indexReadySelector, s.cfg.IndexWait)

	var links []string
	seen := utils.NewURLSet()

	for page := 1; page <= s.cfg.PagesToCrawl; page++ {
		html, err := s.pageHTML(ctx)
		if err != nil {
			return nil, fmt.Errorf("collect links: page %d: %w", page, err)
		}

		pageLinks, err := ParseListingLinks(html)
		if err != nil {
			return nil, fmt.Errorf("collect links: page %d: %w", page, err)
		}
		for _, link := range pageLinks {
			links = append(links, link)
			seen.Add(link)
		}

		s.logger.Info("[reverb] Page %d/%d — %d links (%d total, %d unique)",
			page, s.cfg.PagesToCrawl, len(pageLinks), len(links), seen.Size())

		if page == s.cfg.PagesToCrawl {
			break
		}

		clicked, err := s.clickNext(ctx)
		if err != nil {
			return nil, fmt.Errorf("collect links: page %d: next: %w", page, err)
		}
		if !clicked {
			s.logger.Warn("[reverb] No Next control on page %d — stopping pagination early", page)
			break
		}
	}

	s.logger.Info("[reverb] Link collection complete — %d links (%d unique)",
		len(links), seen.Size())
	return links, nil
}

// ExtractRecords visits every collected link and returns the concatenated
// sale records. Listings without a sale history (no date element within the
// record wait) are skipped entirely.
func (s *Scraper) ExtractRecords(links []string) ([]models.SaleRecord, error) {
	ctx, cancel := s.newSession()
	defer cancel()

	if err := s.login(ctx); err != nil {
		return nil, fmt.Errorf("extract records: %w", err)
	}

	var records []models.SaleRecord
	for i, link := range links {
		if err := chromedp.Run(ctx, chromedp.Navigate(link)); err != nil {
			return nil, fmt.Errorf("extract records: navigate %s: %w", link, err)
		}

		if !s.waitFor(ctx, dateSelector, s.cfg.RecordWait) {
			s.logger.Debug("[reverb] No sale history at %s — skipping", link)
			continue
		}

		html, err := s.pageHTML(ctx)
		if err != nil {
			return nil, fmt.Errorf("extract records: %s: %w", link, err)
		}

		recs, err := ParseSaleRecords(html, link)
		if err != nil {
			return nil, fmt.Errorf("extract records: %w", err)
		}
		records = append(records, recs...)

		s.logger.Info("[reverb] Listing %d/%d — %d sales (%d records total)",
			i+1, len(links), len(recs), len(records))
	}

	s.logger.Info("[reverb] Record extraction complete — %d records", len(records))
	return records, nil
}

// newSession opens a fresh browser session. The returned cancel tears down
// the whole allocator, so the browser is released on every exit path.
func (s *Scraper) newSession() (context.Context, context.CancelFunc) {
	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
		chromedp.UserAgent("Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 "+
			"(KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"),
	)
	if bin := s.findChromeBinary(); bin != "" {
		s.logger.Debug("[reverb] Using browser binary: %s", bin)
		opts = append(opts, chromedp.ExecPath(bin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(context.Background(), opts...)
	ctx, cancelCtx := chromedp.NewContext(allocCtx,
		chromedp.WithLogf(func(string, ...interface{}) {}))

	return ctx, func() {
		cancelCtx()
		cancelAlloc()
	}
}

// login submits the sign-in form and waits briefly for the avatar that
// marks a logged-in session. A missing avatar is logged and ignored — there
// is deliberately no login-failure detection beyond that.
func (s *Scraper) login(ctx context.Context) error {
	err := chromedp.Run(ctx,
		chromedp.Navigate(s.cfg.SignInURL),
		chromedp.WaitVisible(loginInputSelector, chromedp.ByQuery),
		chromedp.SendKeys(loginInputSelector, s.cfg.ReverbUsername, chromedp.ByQuery),
		chromedp.SendKeys(passwordInputSelector, s.cfg.ReverbPassword+kb.Enter, chromedp.ByQuery),
	)
	if err != nil {
		return fmt.Errorf("login form: %w", err)
	}

	if s.waitFor(ctx, avatarSelector, s.cfg.LoginWait) {
		s.logger.Debug("[reverb] Logged in")
	} else {
		s.logger.Debug("[reverb] Login marker not found within %v — continuing", s.cfg.LoginWait)
	}
	return nil
}

// waitFor blocks until the selector is visible or the timeout elapses.
// Timeouts are never fatal; the caller decides what an absent element means.
func (s *Scraper) waitFor(ctx context.Context, selector string, timeout time.Duration) bool {
	waitCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := chromedp.Run(waitCtx, chromedp.WaitVisible(selector, chromedp.ByQuery))
	return err == nil
}

func (s *Scraper) pageHTML(ctx context.Context) (string, error) {
	var html string
	err := chromedp.Run(ctx, chromedp.OuterHTML("html", &html, chromedp.ByQuery))
	return html, err
}

// clickNext activates the pagination link whose text is exactly "Next" and
// reports whether one was found.
func (s *Scraper) clickNext(ctx context.Context) (bool, error) {
	var clicked bool
	err := chromedp.Run(ctx,
		chromedp.Evaluate(`
			(function() {
				var links = document.querySelectorAll('a');
				for (var i = 0; i < links.length; i++) {
					if (links[i].textContent.trim() === 'Next') {
						links[i].click();
						return true;
					}
				}
				return false;
			})()
		`, &clicked),
	)
	if err != nil {
		return false, err
	}
	if clicked {
		if err := chromedp.Run(ctx, chromedp.Sleep(pageSettle)); err != nil {
			return false, err
		}
	}
	return clicked, nil
}

// findChromeBinary locates a Chrome/Chromium binary, preferring the
// configured path.
func (s *Scraper) findChromeBinary() string {
	if s.cfg.ChromeBin != "" {
		return s.cfg.ChromeBin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/google-chrome",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}
