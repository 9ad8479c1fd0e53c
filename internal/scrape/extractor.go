// Package scrape fetches a web page and extracts its title and main article
// text for downstream fact-checking.
package scrape

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html/charset"
)

// Sentinel errors for extraction failures.
var (
	ErrFetchFailed = errors.New("article fetch failed")
	ErrBadStatus   = errors.New("article fetch returned non-success status")
	ErrNoContent   = errors.New("no article content found")
)

const (
	fetchTimeout    = 15 * time.Second
	maxContentChars = 20000
	userAgent       = "NewsCheckBot/1.0"
)

// contentHints are substrings of class/id attributes that mark likely
// main-content containers.
var contentHints = []string{"article", "content", "post", "main", "story", "entry"}

var whitespaceRe = regexp.MustCompile(`\s+`)

// Article is the extracted page content.
type Article struct {
	Title string
	Text  string
}

// Extractor fetches and parses article pages. Safe for concurrent use.
type Extractor struct {
	client *http.Client
}

// NewExtractor creates an Extractor with a bounded fetch timeout.
func NewExtractor() *Extractor {
	return &Extractor{
		client: &http.Client{Timeout: fetchTimeout},
	}
}

// Extract fetches url and resolves its title and main text. A single attempt
// is made; any failure, timeout, non-2xx status, or empty resolved text
// returns an error.
func (e *Extractor) Extract(ctx context.Context, url string) (*Article, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrBadStatus, resp.StatusCode)
	}

	body, err := charset.NewReader(resp.Body, resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	doc.Find("script,noscript,style").Each(func(_ int, s *goquery.Selection) {
		s.Remove()
	})

	title := strings.TrimSpace(doc.Find(`meta[property="og:title"]`).AttrOr("content", ""))
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	text := collapseWhitespace(mainContainer(doc).Text())
	if text == "" {
		return nil, ErrNoContent
	}

	return &Article{Title: title, Text: truncateRunes(text, maxContentChars)}, nil
}

// mainContainer resolves the element most likely to hold the article body:
// an explicit <article>, else the hint-matching block container with the most
// text, else the page body.
func mainContainer(doc *goquery.Document) *goquery.Selection {
	if article := doc.Find("article").First(); article.Length() > 0 {
		return article
	}

	var best *goquery.Selection
	bestLen := 0
	doc.Find("div,main,section").Each(func(_ int, s *goquery.Selection) {
		if !hasContentHint(s) {
			return
		}
		if l := len(s.Text()); l > bestLen {
			best = s
			bestLen = l
		}
	})
	if best != nil {
		return best
	}

	return doc.Find("body").First()
}

func hasContentHint(s *goquery.Selection) bool {
	attrs := strings.ToLower(s.AttrOr("class", "") + " " + s.AttrOr("id", ""))
	for _, hint := range contentHints {
		if strings.Contains(attrs, hint) {
			return true
		}
	}
	return false
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}

// truncateRunes truncates s to at most max runes without splitting UTF-8 sequences.
func truncateRunes(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	runes := []rune(s)
	return string(runes[:max])
}
