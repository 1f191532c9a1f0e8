package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"hnews/internal/config"
)

// Role is the speaker of a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Attachment is inline binary input such as a PDF.
type Attachment struct {
	Name     string
	MIMEType string
	Data     []byte
}

// Message is one conversation turn.
type Message struct {
	Role Role
	Body string
	PDF  *Attachment
}

// Usage reports token accounting when the provider returns it.
type Usage struct {
	PromptTokens int
	OutputTokens int
	TotalTokens  int
}

// Response is a generated answer.
type Response struct {
	Text  string
	Model string
	Usage Usage
}

// Generator produces a reply to a conversation.
type Generator interface {
	Generate(ctx context.Context, conversation []Message) (Response, error)
	Model() string
}

// Distinct failure kinds so callers can explain why generation failed.
var (
	ErrNoAPIKey      = errors.New("ai: api key not configured")
	ErrSafetyBlocked = errors.New("ai: response blocked by safety filters")
	ErrRecitation    = errors.New("ai: response blocked due to recitation")
	ErrMaxTokens     = errors.New("ai: response cut off by token limit")
	ErrNoCandidates  = errors.New("ai: no response generated")
	ErrEmptyResponse = errors.New("ai: empty response")
)

// Describe turns a generation error into a message for the user.
func Describe(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrNoAPIKey):
		return "Set an AI API key in the config (ai.gemini.api_key) to use AI features."
	case errors.Is(err, ErrSafetyBlocked):
		return "Response blocked by safety filters. Try rephrasing your request."
	case errors.Is(err, ErrRecitation):
		return "Response blocked due to recitation concerns. Try rephrasing your request."
	case errors.Is(err, ErrMaxTokens):
		return "Response was cut off due to token limit. Try reducing the input or increasing max tokens."
	case errors.Is(err, ErrNoCandidates):
		return "No response generated from AI."
	case errors.Is(err, ErrEmptyResponse):
		return "AI returned empty response. This might be due to content policy restrictions."
	case errors.Is(err, context.DeadlineExceeded):
		return "The AI request timed out. Try again."
	default:
		return fmt.Sprintf("AI request failed: %v", err)
	}
}

// New builds the generator selected by cfg.Provider.
func New(ctx context.Context, cfg config.AIConfig) (Generator, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "gemini":
		g, err := NewGemini(ctx, GeminiConfig{
			APIKey:  cfg.Gemini.APIKey,
			Model:   cfg.Gemini.Model,
			BaseURL: cfg.Gemini.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		return g, nil
	case "openai":
		o, err := NewOpenAI(Config{
			APIKey:  cfg.OpenAI.APIKey,
			Model:   cfg.OpenAI.Model,
			BaseURL: cfg.OpenAI.BaseURL,
		})
		if err != nil {
			return nil, err
		}
		return o, nil
	default:
		return nil, fmt.Errorf("ai: unknown provider %q", cfg.Provider)
	}
}
