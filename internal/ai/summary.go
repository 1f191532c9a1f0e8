package ai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"hnews/internal/model"
	"hnews/internal/scrape"
	"hnews/internal/storage"
)

const maxArticleChars = 30000

// StorySource loads a story with its comment tree.
type StorySource interface {
	AllDataWithFallback(ctx context.Context, id int) (model.Item, error)
}

// ArticleFetcher downloads and extracts a linked page.
type ArticleFetcher interface {
	Fetch(ctx context.Context, u string) (scrape.Article, error)
}

// Summarizer produces and caches post summaries.
type Summarizer struct {
	Source  StorySource
	Fetcher ArticleFetcher
	Gen     Generator
	Cache   *storage.Summaries
	MaxAge  time.Duration
}

// Summarize returns the summary of postID, from cache when fresh unless force
// is set. The bool result reports a cache hit.
func (s *Summarizer) Summarize(ctx context.Context, postID int, force bool) (model.CachedAISummary, bool, error) {
	if s.MaxAge <= 0 {
		s.MaxAge = 24 * time.Hour
	}
	if !force && s.Cache != nil {
		if cached, ok := s.Cache.Fresh(ctx, postID, s.MaxAge); ok {
			return cached, true, nil
		}
	}
	if s.Gen == nil {
		return model.CachedAISummary{}, false, ErrNoAPIKey
	}
	start := time.Now()
	story, err := s.Source.AllDataWithFallback(ctx, postID)
	if err != nil {
		return model.CachedAISummary{}, false, err
	}
	comments := ExtractComments(story.Children, 10, 10)
	website, article := s.website(ctx, story)

	msg := Message{Role: RoleUser, Body: SummaryPrompt(story, comments, website)}
	if article.Method == scrape.MethodPDF {
		msg.PDF = &Attachment{Name: article.Title, MIMEType: "application/pdf", Data: article.PDF}
	}
	resp, err := s.Gen.Generate(ctx, []Message{msg})
	if err != nil {
		return model.CachedAISummary{}, false, err
	}
	out := model.CachedAISummary{
		PostID:           postID,
		Title:            story.Title,
		URL:              story.URL,
		Summary:          resp.Text,
		Model:            resp.Model,
		ProcessingTime:   time.Since(start).Milliseconds(),
		OriginalLength:   article.OriginalLength,
		ExtractedLength:  article.ExtractedLength,
		CompressionRatio: article.CompressionRatio,
		ExtractionMethod: article.Method,
		PromptTokens:     resp.Usage.PromptTokens,
		OutputTokens:     resp.Usage.OutputTokens,
	}
	if s.Cache != nil {
		s.Cache.Put(ctx, out)
		out, _ = s.Cache.Get(ctx, postID)
	}
	slog.Info("ai: summary generated", "id", postID, "method", out.ExtractionMethod, "ms", out.ProcessingTime)
	return out, false, nil
}

// website fetches the linked page when it looks readable and renders the
// prompt section describing it.
func (s *Summarizer) website(ctx context.Context, story model.Item) (string, scrape.Article) {
	none := scrape.Article{Method: "none"}
	switch {
	case story.URL == "":
		return "\n\nWEBSITE CONTENT: No external link provided.", none
	case s.Fetcher == nil || !(scrape.IsLikelyArticle(story.URL) || scrape.IsPDFURL(story.URL)):
		return "\n\nWEBSITE CONTENT: Link provided but content extraction not attempted (likely not an article).", none
	}
	a, err := s.Fetcher.Fetch(ctx, story.URL)
	if err != nil {
		slog.Warn("ai: article fetch failed", "url", story.URL, "error", err)
		return "\n\nWEBSITE CONTENT: Error fetching content from the linked website.", a
	}
	switch a.Method {
	case scrape.MethodPDF:
		return fmt.Sprintf("\n\nPDF DOCUMENT:\nPDF Document: %s (attached)", a.Title), a
	case scrape.MethodReadability, scrape.MethodFallback:
		content := a.Content
		if r := []rune(content); len(r) > maxArticleChars {
			content = string(r[:maxArticleChars])
		}
		return "\n\nWEBSITE CONTENT:\n" + content, a
	default:
		return "\n\nWEBSITE CONTENT: Unable to extract content from the linked website.", a
	}
}
