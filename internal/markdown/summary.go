package markdown

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"hnews/internal/model"
)

// summaryMeta is the frontmatter of an exported summary.
type summaryMeta struct {
	PostID           int       `yaml:"post_id"`
	Title            string    `yaml:"title"`
	URL              string    `yaml:"url,omitempty"`
	Model            string    `yaml:"model,omitempty"`
	CreatedAt        time.Time `yaml:"created_at"`
	ProcessingTimeMS int64     `yaml:"processing_time_ms,omitempty"`
	ExtractionMethod string    `yaml:"extraction_method,omitempty"`
	OriginalLength   int       `yaml:"original_length,omitempty"`
	ExtractedLength  int       `yaml:"extracted_length,omitempty"`
	CompressionRatio float64   `yaml:"compression_ratio,omitempty"`
	PromptTokens     int       `yaml:"prompt_tokens,omitempty"`
	OutputTokens     int       `yaml:"output_tokens,omitempty"`
}

// WriteSummary renders s as Markdown with its metadata in frontmatter.
func WriteSummary(w io.Writer, s model.CachedAISummary) error {
	meta := summaryMeta{
		PostID:           s.PostID,
		Title:            s.Title,
		URL:              s.URL,
		Model:            s.Model,
		CreatedAt:        s.CreatedAt.UTC(),
		ProcessingTimeMS: s.ProcessingTime,
		ExtractionMethod: s.ExtractionMethod,
		OriginalLength:   s.OriginalLength,
		ExtractedLength:  s.ExtractedLength,
		CompressionRatio: s.CompressionRatio,
		PromptTokens:     s.PromptTokens,
		OutputTokens:     s.OutputTokens,
	}
	return Render(w, meta, s.Summary)
}

// ExportSummary writes s to dir/<post id>.md and returns the file path.
func ExportSummary(dir string, s model.CachedAISummary) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := WriteSummary(&buf, s); err != nil {
		return "", err
	}
	path := filepath.Join(dir, fmt.Sprintf("%d.md", s.PostID))
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// ReadSummary parses a file written by ExportSummary.
func ReadSummary(path string) (model.CachedAISummary, error) {
	d, err := ParseFile(path)
	if err != nil {
		return model.CachedAISummary{}, err
	}
	var meta summaryMeta
	if err := d.Decode(&meta); err != nil {
		return model.CachedAISummary{}, fmt.Errorf("markdown: %s: %w", path, err)
	}
	if meta.PostID <= 0 {
		return model.CachedAISummary{}, fmt.Errorf("markdown: %s: missing post_id", path)
	}
	return model.CachedAISummary{
		PostID:           meta.PostID,
		Title:            meta.Title,
		URL:              meta.URL,
		Summary:          strings.TrimSpace(d.Body),
		Model:            meta.Model,
		CreatedAt:        meta.CreatedAt,
		ProcessingTime:   meta.ProcessingTimeMS,
		OriginalLength:   meta.OriginalLength,
		ExtractedLength:  meta.ExtractedLength,
		CompressionRatio: meta.CompressionRatio,
		ExtractionMethod: meta.ExtractionMethod,
		PromptTokens:     meta.PromptTokens,
		OutputTokens:     meta.OutputTokens,
	}, nil
}
