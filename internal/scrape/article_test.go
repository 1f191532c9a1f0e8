package scrape

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func TestPlainText(t *testing.T) {
	in := `First line &amp; more<p>Second <i>para</i> with <a href="https://x.io">link</a>`
	got := PlainText(in)
	want := "First line & more\n\nSecond para with link"
	if got != want {
		t.Errorf("PlainText = %q, want %q", got, want)
	}
	if PlainText("   ") != "" {
		t.Errorf("blank input should give empty text")
	}
}

func TestIsLikelyArticle(t *testing.T) {
	cases := map[string]bool{
		"https://github.com/golang/go":                     false,
		"https://www.youtube.com/watch?v=abc":              false,
		"https://example.com/blog/x":                       true,
		"https://example.com/2024/05/some-long-slug":       true,
		"https://example.com/":                             false,
		"not a url":                                        false,
		"https://news.ycombinator.com/item?id=1":           false,
		"https://engineering.example.org/post/introducing": true,
	}
	for u, want := range cases {
		if got := IsLikelyArticle(u); got != want {
			t.Errorf("IsLikelyArticle(%q) = %v, want %v", u, got, want)
		}
	}
}

func TestExtractFallsBackToBody(t *testing.T) {
	page := []byte(`<html><head><title> Tiny </title><script>var x=1;</script></head><body><p>Short note.</p></body></html>`)
	a := Extract(page, nil)
	if a.Title != "Tiny" {
		t.Errorf("title = %q", a.Title)
	}
	if a.Method != MethodFallback {
		t.Fatalf("method = %q, want fallback", a.Method)
	}
	if strings.Contains(a.Content, "var x") || !strings.Contains(a.Content, "Short note.") {
		t.Errorf("content = %q", a.Content)
	}
	if a.CompressionRatio <= 0 || a.CompressionRatio >= 1 {
		t.Errorf("ratio = %v", a.CompressionRatio)
	}
}

func TestExtractReadability(t *testing.T) {
	para := strings.Repeat("Go programs are made of packages and the compiler checks every import carefully. ", 8)
	page := []byte(`<html><head><title>Essay</title></head><body><nav>menu</nav><article><h1>Essay</h1><p>` +
		para + `</p><p>` + para + `</p></article></body></html>`)
	u, _ := url.Parse("https://example.com/blog/essay")
	a := Extract(page, u)
	if a.Method != MethodReadability {
		t.Fatalf("method = %q, want readability", a.Method)
	}
	if !strings.Contains(a.Content, "compiler checks every import") {
		t.Errorf("content missing article text")
	}
}

func TestFetchPDF(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/pdf")
		w.Write([]byte("%PDF-1.4 fake"))
	}))
	defer srv.Close()
	a, err := NewFetcher(0).Fetch(context.Background(), srv.URL+"/papers/attention.pdf")
	if err != nil {
		t.Fatalf("Fetch error: %v", err)
	}
	if a.Method != MethodPDF || a.Title != "attention.pdf" || len(a.PDF) == 0 {
		t.Fatalf("article = %+v", a)
	}
}

func TestGetRejectsOversizedBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(strings.Repeat("a", 64)))
	}))
	defer srv.Close()
	f := NewFetcher(0)
	f.maxBody = 64
	if b, _, err := f.Get(context.Background(), srv.URL); err != nil || len(b) != 64 {
		t.Fatalf("body at limit = %d bytes, %v", len(b), err)
	}
	f.maxBody = 63
	if _, _, err := f.Get(context.Background(), srv.URL); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("err = %v, want ErrTooLarge", err)
	}
}

func TestOGImage(t *testing.T) {
	base, _ := url.Parse("https://example.com/posts/1")
	page := `<html><head><meta property="og:image" content="/img/cover.png"></head></html>`
	got, ok := OGImage(strings.NewReader(page), base)
	if !ok || got != "https://example.com/img/cover.png" {
		t.Fatalf("OGImage = %q, %v", got, ok)
	}
	if _, ok := OGImage(strings.NewReader(`<html></html>`), base); ok {
		t.Errorf("page without og:image should report false")
	}
}
