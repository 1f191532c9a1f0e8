package scrape

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html"
	"io"
	"mime"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
)

const (
	userAgent = "Mozilla/5.0 (compatible; hnews/1.0)"
	// minReadable is the shortest readability result accepted before falling back.
	minReadable = 200
	maxBody     = 20 << 20
)

// ErrTooLarge is returned when a response body exceeds the fetcher's limit.
var ErrTooLarge = errors.New("scrape: response body too large")

// Extraction methods recorded with cached summaries.
const (
	MethodReadability = "readability"
	MethodFallback    = "fallback"
	MethodPDF         = "pdf"
	MethodFailed      = "failed"
)

// Article is readable text pulled from a linked page.
type Article struct {
	URL              string
	Title            string
	Content          string
	Method           string
	OriginalLength   int
	ExtractedLength  int
	CompressionRatio float64
	PDF              []byte // raw document when Method is pdf
	Elapsed          time.Duration
}

// Fetcher downloads linked pages for summaries and previews.
type Fetcher struct {
	http    *http.Client
	timeout time.Duration
	maxBody int64
}

// NewFetcher creates a fetcher whose requests are bounded by timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Fetcher{http: &http.Client{Timeout: timeout}, timeout: timeout, maxBody: maxBody}
}

// Get downloads u and returns the body with its content type.
func (f *Fetcher) Get(ctx context.Context, u string) ([]byte, string, error) {
	if _, err := url.ParseRequestURI(u); err != nil {
		return nil, "", fmt.Errorf("scrape: invalid url: %w", err)
	}
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, "", err
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,application/pdf;q=0.8,*/*;q=0.5")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	resp, err := f.http.Do(req)
	if err != nil {
		return nil, "", err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, "", fmt.Errorf("scrape: %s status %d", u, resp.StatusCode)
	}
	b, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBody+1))
	if err != nil {
		return nil, "", err
	}
	if int64(len(b)) > f.maxBody {
		return nil, "", fmt.Errorf("%w: %s over %d bytes", ErrTooLarge, u, f.maxBody)
	}
	return b, resp.Header.Get("Content-Type"), nil
}

// Fetch downloads u and extracts its readable text. PDFs are returned whole
// for the model to read. Extraction failures are reported through Method,
// not as errors; only the download itself can fail.
func (f *Fetcher) Fetch(ctx context.Context, u string) (Article, error) {
	start := time.Now()
	body, ctype, err := f.Get(ctx, u)
	if err != nil {
		return Article{URL: u, Method: MethodFailed, Elapsed: time.Since(start)}, err
	}
	var a Article
	if mt, _, _ := mime.ParseMediaType(ctype); mt == "application/pdf" || bytes.HasPrefix(body, []byte("%PDF-")) {
		a = Article{
			URL:            u,
			Title:          pdfName(u),
			Method:         MethodPDF,
			PDF:            body,
			OriginalLength: len(body),
		}
	} else {
		pageURL, _ := url.Parse(u)
		a = Extract(body, pageURL)
	}
	a.Elapsed = time.Since(start)
	return a, nil
}

// Extract pulls readable text from an HTML page, trying readability first and
// falling back to the page's visible body text.
func Extract(page []byte, pageURL *url.URL) Article {
	a := Article{OriginalLength: len(page), Method: MethodFailed}
	if pageURL != nil {
		a.URL = pageURL.String()
	}
	doc, docErr := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if docErr == nil {
		a.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if art, err := readability.FromReader(bytes.NewReader(page), pageURL); err == nil {
		if text := PlainText(art.Content); len(text) >= minReadable {
			a.Content, a.Method = text, MethodReadability
		}
	}
	if a.Method == MethodFailed && docErr == nil {
		doc.Find("script, style, noscript, nav, header, footer").Remove()
		if text := collapseSpace(doc.Find("body").Text()); text != "" {
			a.Content, a.Method = text, MethodFallback
		}
	}
	a.ExtractedLength = len(a.Content)
	if a.OriginalLength > 0 {
		a.CompressionRatio = float64(a.ExtractedLength) / float64(a.OriginalLength)
	}
	return a
}

var (
	strict     = bluemonday.StrictPolicy()
	blockTagRe = regexp.MustCompile(`(?i)<\s*(p|br|div|li|h[1-6]|pre|blockquote)\b[^>]*>`)
	spaceRe    = regexp.MustCompile(`[ \t\r\f\v]+`)
	blankRe    = regexp.MustCompile(`\n{3,}`)
)

// PlainText converts an HTML fragment (such as a comment body) to plain text,
// keeping paragraph breaks.
func PlainText(fragment string) string {
	if strings.TrimSpace(fragment) == "" {
		return ""
	}
	s := blockTagRe.ReplaceAllString(fragment, "\n\n$0")
	s = html.UnescapeString(strict.Sanitize(s))
	return collapseSpace(s)
}

func collapseSpace(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSpace(spaceRe.ReplaceAllString(l, " "))
	}
	return strings.TrimSpace(blankRe.ReplaceAllString(strings.Join(lines, "\n"), "\n\n"))
}

var skipHosts = []string{
	"github.com", "youtube.com", "youtu.be", "twitter.com", "x.com", "reddit.com",
	"linkedin.com", "facebook.com", "instagram.com", "tiktok.com", "news.ycombinator.com",
}

var articlePaths = []string{"/article/", "/post/", "/blog/", "/news/", "/story/", "/read/", "/content/"}

// IsLikelyArticle guesses whether u points at readable prose worth fetching.
func IsLikelyArticle(u string) bool {
	p, err := url.Parse(u)
	if err != nil || p.Host == "" {
		return false
	}
	host := strings.ToLower(p.Hostname())
	for _, h := range skipHosts {
		if host == h || strings.HasSuffix(host, "."+h) {
			return false
		}
	}
	path := strings.ToLower(p.Path)
	for _, ap := range articlePaths {
		if strings.Contains(path, ap) {
			return true
		}
	}
	return len(path) > 10
}

// IsPDFURL reports whether u names a PDF document.
func IsPDFURL(u string) bool {
	p, err := url.Parse(u)
	if err != nil {
		return false
	}
	return strings.HasSuffix(strings.ToLower(p.Path), ".pdf")
}

func pdfName(u string) string {
	p, err := url.Parse(u)
	if err != nil {
		return "document.pdf"
	}
	parts := strings.Split(strings.TrimRight(p.Path, "/"), "/")
	if name := parts[len(parts)-1]; name != "" {
		return name
	}
	return "document.pdf"
}
