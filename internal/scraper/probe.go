// Package scraper reads browser cookies and probes video pages.
package scraper

import (
	"context"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly"
	"golang.org/x/net/publicsuffix"

	"ytxtract/internal/domain/consts"
	"ytxtract/internal/models"
	"ytxtract/internal/utils/logging"
)

// Page texts meaning the video itself is gone rather than blocked.
var goneMarkers = []string{
	"video unavailable",
	"this video isn't available anymore",
	"this video has been removed",
	"this video is private",
}

// Prober fetches a video page to tell blocked content from removed content.
type Prober struct {
	cookieManager *CookieManager
	userAgent     string
}

// NewProber returns a prober. A nil cookie manager visits without cookies.
func NewProber(cm *CookieManager) *Prober {
	return &Prober{
		cookieManager: cm,
		userAgent:     "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0",
	}
}

// Probe visits u once and reports what the page says.
func (p *Prober) Probe(ctx context.Context, u string) (models.ProbeResult, error) {
	var res models.ProbeResult

	collector, err := p.initializeCollector(ctx, u)
	if err != nil {
		return res, err
	}

	collector.OnResponse(func(r *colly.Response) {
		res.StatusCode = r.StatusCode
	})

	collector.OnHTML("html", func(container *colly.HTMLElement) {
		doc := container.DOM
		res.Title = extractTitle(doc)
		res.Blocked = !pageSaysGone(doc) && res.Title == ""
	})

	collector.OnError(func(r *colly.Response, err error) {
		if r != nil {
			res.StatusCode = r.StatusCode
		}
		logging.D(1, "Probe of %q failed: %v", u, err)
	})

	logging.D(1, "Probing %q...", u)
	if err := collector.Visit(u); err != nil {
		if res.StatusCode == 0 {
			return res, fmt.Errorf("failed to visit URL: %w", err)
		}
	}

	switch res.StatusCode {
	case http.StatusForbidden, http.StatusTooManyRequests, http.StatusUnavailableForLegalReasons:
		res.Blocked = true
	}
	res.Reachable = res.StatusCode == http.StatusOK && res.Title != ""
	return res, nil
}

// initializeCollector initializes Colly with any browser cookies for the domain.
func (p *Prober) initializeCollector(ctx context.Context, urlStr string) (*colly.Collector, error) {
	jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	if err != nil {
		return nil, fmt.Errorf("failed to create cookie jar: %w", err)
	}

	parsedURL, err := url.Parse(urlStr)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}

	if p.cookieManager != nil {
		if cookies, err := p.cookieManager.GetCookies(ctx, urlStr); err == nil && len(cookies) > 0 {
			jar.SetCookies(parsedURL, cookies)
		}
	}

	collector := colly.NewCollector(
		colly.UserAgent(p.userAgent),
	)
	collector.SetRequestTimeout(consts.ProbeTimeout)
	collector.SetCookieJar(jar)
	return collector, nil
}

// extractTitle grabs the video title from the page's Open Graph tags.
func extractTitle(doc *goquery.Selection) string {
	title, _ := doc.Find(`meta[property="og:title"]`).Attr("content")
	title = strings.TrimSpace(title)
	if title != "" {
		logging.D(2, "Scraped title: %s", title)
	} else {
		logging.D(1, "Title not found")
	}
	return title
}

func pageSaysGone(doc *goquery.Selection) bool {
	text := strings.ToLower(doc.Find("body").Text())
	for _, m := range goneMarkers {
		if strings.Contains(text, m) {
			return true
		}
	}
	return false
}
