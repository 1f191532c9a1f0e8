package ai

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"hnews/internal/model"
	"hnews/internal/scrape"
	"hnews/internal/storage"
)

type fakeSource struct {
	item  model.Item
	err   error
	calls int
}

func (f *fakeSource) AllDataWithFallback(_ context.Context, id int) (model.Item, error) {
	f.calls++
	if f.err != nil {
		return model.Item{}, f.err
	}
	it := f.item
	it.ID = id
	return it, nil
}

type fakeFetcher struct {
	article scrape.Article
	err     error
	urls    []string
}

func (f *fakeFetcher) Fetch(_ context.Context, u string) (scrape.Article, error) {
	f.urls = append(f.urls, u)
	return f.article, f.err
}

type fakeGen struct {
	mu    sync.Mutex
	reply string
	err   error
	convs [][]Message
}

func (g *fakeGen) Generate(_ context.Context, conv []Message) (Response, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.convs = append(g.convs, append([]Message(nil), conv...))
	if g.err != nil {
		return Response{}, g.err
	}
	return Response{Text: g.reply, Model: "fake", Usage: Usage{PromptTokens: 10, OutputTokens: 4, TotalTokens: 14}}, nil
}

func (g *fakeGen) Model() string { return "fake" }

func story(url string) model.Item {
	return model.Item{
		Type:   "story",
		Title:  "A Post",
		URL:    url,
		Author: "pg",
		Points: 42,
		Children: []model.Item{
			{ID: 2, Author: "alice", Text: "<p>first &amp; best</p>", Children: []model.Item{{ID: 3, Author: "bob", Text: "reply"}}},
			{ID: 4, Placeholder: true},
		},
	}
}

func TestSummarizeUsesArticleAndCaches(t *testing.T) {
	ctx := context.Background()
	src := &fakeSource{item: story("https://example.com/blog/some-long-post")}
	fetch := &fakeFetcher{article: scrape.Article{Method: scrape.MethodReadability, Content: "Body of the article.", OriginalLength: 100, ExtractedLength: 20, CompressionRatio: 0.2}}
	gen := &fakeGen{reply: "## ARTICLE SUMMARY\nok"}
	s := &Summarizer{Source: src, Fetcher: fetch, Gen: gen, Cache: storage.NewSummaries(storage.NewMemoryStore(), "t")}

	got, cached, err := s.Summarize(ctx, 1, false)
	if err != nil || cached {
		t.Fatalf("Summarize = cached %v, err %v", cached, err)
	}
	if got.Summary != gen.reply || got.ExtractionMethod != scrape.MethodReadability || got.PromptTokens != 10 || got.CreatedAt.IsZero() {
		t.Errorf("summary = %+v", got)
	}
	prompt := gen.convs[0][0].Body
	for _, want := range []string{"Title: A Post", "WEBSITE CONTENT:\nBody of the article.", "Comment 1 by alice", "first & best", "Reply by bob"} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}

	again, cached, err := s.Summarize(ctx, 1, false)
	if err != nil || !cached || again.Summary != got.Summary {
		t.Errorf("second call cached=%v err=%v", cached, err)
	}
	if len(gen.convs) != 1 || src.calls != 1 {
		t.Errorf("cache hit still generated: gens=%d loads=%d", len(gen.convs), src.calls)
	}

	if _, cached, _ := s.Summarize(ctx, 1, true); cached || len(gen.convs) != 2 {
		t.Errorf("force should regenerate")
	}
}

func TestSummarizeAttachesPDF(t *testing.T) {
	fetch := &fakeFetcher{article: scrape.Article{Method: scrape.MethodPDF, Title: "paper.pdf", PDF: []byte("%PDF-1.4")}}
	gen := &fakeGen{reply: "pdf summary"}
	s := &Summarizer{Source: &fakeSource{item: story("https://example.com/paper.pdf")}, Fetcher: fetch, Gen: gen}
	if _, _, err := s.Summarize(context.Background(), 9, false); err != nil {
		t.Fatal(err)
	}
	msg := gen.convs[0][0]
	if msg.PDF == nil || msg.PDF.MIMEType != "application/pdf" {
		t.Fatalf("pdf not attached: %+v", msg.PDF)
	}
	if !strings.Contains(msg.Body, "PDF Document: paper.pdf (attached)") {
		t.Errorf("prompt missing pdf section")
	}
}

func TestSummarizeWebsiteSections(t *testing.T) {
	cases := []struct {
		url  string
		err  error
		want string
	}{
		{"", nil, "No external link provided."},
		{"https://github.com/x/y", nil, "content extraction not attempted"},
		{"https://example.com/blog/broken-link", errors.New("boom"), "Error fetching content"},
	}
	for _, c := range cases {
		gen := &fakeGen{reply: "x"}
		fetch := &fakeFetcher{err: c.err, article: scrape.Article{Method: scrape.MethodFailed}}
		s := &Summarizer{Source: &fakeSource{item: story(c.url)}, Fetcher: fetch, Gen: gen}
		if _, _, err := s.Summarize(context.Background(), 1, false); err != nil {
			t.Fatalf("%q: %v", c.url, err)
		}
		if body := gen.convs[0][0].Body; !strings.Contains(body, c.want) {
			t.Errorf("%q: prompt missing %q", c.url, c.want)
		}
	}
}

func TestSummarizeErrors(t *testing.T) {
	cache := storage.NewSummaries(storage.NewMemoryStore(), "t")
	s := &Summarizer{Source: &fakeSource{item: story("")}, Gen: &fakeGen{err: ErrSafetyBlocked}, Cache: cache}
	if _, _, err := s.Summarize(context.Background(), 1, false); !errors.Is(err, ErrSafetyBlocked) {
		t.Errorf("err = %v", err)
	}
	if _, ok := cache.Get(context.Background(), 1); ok {
		t.Errorf("failed generation must not be cached")
	}
	s = &Summarizer{Source: &fakeSource{}}
	if _, _, err := s.Summarize(context.Background(), 1, false); !errors.Is(err, ErrNoAPIKey) {
		t.Errorf("no generator err = %v", err)
	}
}
