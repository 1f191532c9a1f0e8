package model

import "time"

// FavoriteArticle is a bookmarked story.
type FavoriteArticle struct {
	ID          int       `json:"id"`
	Title       string    `json:"title"`
	URL         string    `json:"url,omitempty"`
	Author      string    `json:"author"`
	Points      int       `json:"points"`
	NumComments int       `json:"num_comments"`
	CreatedAt   time.Time `json:"created_at"`
	FavoritedAt time.Time `json:"favorited_at"`
}

// CachedAISummary is a generated summary of a post and its discussion.
type CachedAISummary struct {
	PostID           int       `json:"post_id"`
	Title            string    `json:"title"`
	URL              string    `json:"url,omitempty"`
	Summary          string    `json:"summary"`
	Model            string    `json:"model"`
	CreatedAt        time.Time `json:"created_at"`
	ProcessingTime   int64     `json:"processing_time_ms"`
	OriginalLength   int       `json:"original_length"`
	ExtractedLength  int       `json:"extracted_length"`
	CompressionRatio float64   `json:"compression_ratio"`
	ExtractionMethod string    `json:"extraction_method"` // readability, fallback, pdf, failed, none
	PromptTokens     int       `json:"prompt_tokens,omitempty"`
	OutputTokens     int       `json:"output_tokens,omitempty"`
}

// ChatMessage is one turn of a post conversation.
type ChatMessage struct {
	ID        string    `json:"id"`
	Role      string    `json:"role"` // user, assistant
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatHistoryEntry is the stored conversation about one post.
type ChatHistoryEntry struct {
	PostID      int           `json:"post_id"`
	PostTitle   string        `json:"post_title"`
	Messages    []ChatMessage `json:"messages"`
	CreatedAt   time.Time     `json:"created_at"`
	LastUpdated time.Time     `json:"last_updated"`
}
