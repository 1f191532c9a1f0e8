package ai

import (
	"fmt"
	"strings"

	"hnews/internal/model"
	"hnews/internal/scrape"
)

// ExtractComments formats the top maxTop comments, each with up to maxNested
// direct replies, as plain text for a prompt.
func ExtractComments(comments []model.Item, maxTop, maxNested int) string {
	comments = realComments(comments)
	if len(comments) == 0 {
		return "No comments available."
	}
	top := comments
	if len(top) > maxTop {
		top = top[:maxTop]
	}
	b := &strings.Builder{}
	b.WriteString("Top Comments:\n\n")
	for i, c := range top {
		fmt.Fprintf(b, "Comment %d by %s (%d points):\n", i+1, c.Author, c.Points)
		fmt.Fprintf(b, "\"%s\"\n\n", scrape.PlainText(c.Text))
		replies := realComments(c.Children)
		shown := replies
		if len(shown) > maxNested {
			shown = shown[:maxNested]
		}
		for _, r := range shown {
			fmt.Fprintf(b, "  Reply by %s (%d points):\n", r.Author, r.Points)
			fmt.Fprintf(b, "  \"%s\"\n\n", scrape.PlainText(r.Text))
		}
		if len(replies) > maxNested {
			fmt.Fprintf(b, "  ... and %d more replies\n\n", len(replies)-maxNested)
		}
	}
	if len(comments) > maxTop {
		fmt.Fprintf(b, "... and %d more top-level comments\n", len(comments)-maxTop)
	}
	return b.String()
}

// realComments drops placeholders and empty (deleted) comments.
func realComments(cs []model.Item) []model.Item {
	out := make([]model.Item, 0, len(cs))
	for _, c := range cs {
		if c.Placeholder || strings.TrimSpace(c.Text) == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

// SummaryPrompt asks for a two-section summary built from direct quotes.
func SummaryPrompt(story model.Item, comments, website string) string {
	title := orNA(story.Title)
	var content string
	if strings.TrimSpace(story.Text) != "" {
		content = "Content: " + scrape.PlainText(story.Text)
	} else {
		content = "URL: " + orNA(story.URL)
	}
	return fmt.Sprintf(`Create a comprehensive summary with TWO distinct sections. Use as many DIRECT QUOTES as possible to make it engaging and authentic.

POST:
Title: %s
%s
Author: %s (%d points)

COMMUNITY DISCUSSION:
%s%s

Please structure your response as follows:

## ARTICLE SUMMARY
[Summarize the main article content using direct quotes from the website content when available. Include key points, arguments, and notable statements. Use quotes like "..." to highlight important passages.]

## COMMUNITY INSIGHTS
[Summarize the Hacker News discussion using direct quotes from the top comments. Highlight different perspectives, expert opinions, criticisms, and community reactions. Use quotes like "..." to showcase what people are actually saying.]

Requirements:
- Use as many direct quotes as possible in both sections
- Keep quotes short and impactful (1-2 sentences max per quote)
- Include 3-5 quotes per section
- Make it feel like you're hearing directly from the article and community
- Be concise but comprehensive`, title, content, orNA(story.Author), story.Points, comments, website)
}

// ChatSystemPrompt sets up a conversation about one post.
func ChatSystemPrompt(story model.Item, summary, comments string) string {
	url := story.URL
	if url == "" {
		url = "No URL"
	}
	if summary == "" {
		summary = "Not generated yet."
	}
	return fmt.Sprintf(`You are an AI assistant helping users discuss and analyze Hacker News posts.

CONTEXT:
- Post Title: %s
- Post URL: %s
- Post Author: %s
- Post Points: %d
- AI Summary: %s

COMMUNITY DISCUSSION:
%s

You should use this context and the chat history to answer user questions about this post. Be helpful, informative, and engaging. You can discuss the article content, community reactions, technical aspects, or any related topics the user brings up.`,
		story.Title, url, story.Author, story.Points, summary, comments)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
