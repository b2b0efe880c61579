// Package linkmeta fetches public status/post pages referenced by
// link-type proofs and extracts whatever view counters the page
// exposes. It is best effort: social platforms render counters in a
// handful of markup shapes and localized number formats, so the scanner
// looks for the common ones and reports zero when nothing matches.
package linkmeta

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

type PageStats struct {
	URL       string    `json:"url"`
	Title     string    `json:"title,omitempty"`
	Views     *int64    `json:"views,omitempty"`
	FetchedAt time.Time `json:"fetched_at"`
}

type Scanner struct {
	httpClient *http.Client
	log        *zap.Logger
	maxRetries int
}

func NewScanner(timeoutMS, maxRetries int, log *zap.Logger) *Scanner {
	return &Scanner{
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutMS) * time.Millisecond,
		},
		log:        log,
		maxRetries: maxRetries,
	}
}

// Fetch downloads the page and extracts title and view count. A 404 is
// reported as (nil, false, nil): the post is gone, not an error.
func (s *Scanner) Fetch(ctx context.Context, url string) (*PageStats, bool, error) {
	var doc *goquery.Document
	var lastErr error

	for attempt := 0; attempt <= s.maxRetries; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, false, err
		}
		req.Header.Set("User-Agent", "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
		req.Header.Set("Accept-Language", "pt-BR,pt;q=0.9,en;q=0.8")

		resp, err := s.httpClient.Do(req)
		if err != nil {
			lastErr = err
			time.Sleep(time.Duration(attempt+1) * 500 * time.Millisecond)
			continue
		}

		if resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone {
			resp.Body.Close()
			return nil, false, nil
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			lastErr = fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
			time.Sleep(time.Duration(attempt+1) * 500 * time.Millisecond)
			continue
		}

		doc, err = goquery.NewDocumentFromReader(resp.Body)
		resp.Body.Close()
		if err != nil {
			lastErr = err
			continue
		}
		lastErr = nil
		break
	}

	if lastErr != nil {
		return nil, false, lastErr
	}

	stats := &PageStats{URL: url, FetchedAt: time.Now()}

	if title, ok := doc.Find(`meta[property="og:title"]`).Attr("content"); ok {
		stats.Title = strings.TrimSpace(title)
	} else {
		stats.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	if v := extractViews(doc); v > 0 {
		stats.Views = &v
	}

	return stats, true, nil
}

// selectors that commonly carry a view counter on public post pages
var viewSelectors = []string{
	`meta[property="og:video:views"]`,
	`[data-views]`,
	".view-count",
	".views-count",
	".tgme_widget_message_views",
	`span[aria-label*="views"]`,
	`span[aria-label*="visualizações"]`,
}

func extractViews(doc *goquery.Document) int64 {
	for _, sel := range viewSelectors {
		node := doc.Find(sel).First()
		if node.Length() == 0 {
			continue
		}
		text := node.Text()
		if content, ok := node.Attr("content"); ok && content != "" {
			text = content
		}
		if dv, ok := node.Attr("data-views"); ok && dv != "" {
			text = dv
		}
		if n := ParseCount(text); n > 0 {
			return n
		}
	}
	return 0
}

var countRE = regexp.MustCompile(`[\d,.]+\s?(mil|[KkMm])?`)

// ParseCount parses a human-formatted counter ("1.2K", "3,4 mil",
// "12,345") into a plain number. Returns 0 when nothing parses.
func ParseCount(text string) int64 {
	text = strings.TrimSpace(text)
	match := countRE.FindString(text)
	if match == "" {
		return 0
	}

	var multiplier float64 = 1
	lower := strings.ToLower(match)
	switch {
	case strings.HasSuffix(lower, "mil"):
		multiplier = 1000
		match = strings.TrimSpace(match[:len(match)-3])
	case strings.HasSuffix(lower, "k"):
		multiplier = 1000
		match = match[:len(match)-1]
	case strings.HasSuffix(lower, "m"):
		multiplier = 1000000
		match = match[:len(match)-1]
	}
	match = strings.TrimSpace(match)

	// "12,345" is a thousands separator; "3,4" before a multiplier is a
	// pt-BR decimal comma.
	if multiplier > 1 {
		match = strings.ReplaceAll(match, ",", ".")
	} else {
		match = strings.ReplaceAll(match, ",", "")
	}

	f, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0
	}
	return int64(f * multiplier)
}
