package ai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAIClient implements Generator using the OpenAI Chat Completions API.
type OpenAIClient struct {
	client *openai.Client
	model  string
}

type Config struct {
	APIKey  string
	Model   string
	BaseURL string // optional
}

func NewOpenAI(cfg Config) (*OpenAIClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNoAPIKey
	}
	var c *openai.Client
	if cfg.BaseURL != "" {
		cc := openai.DefaultConfig(cfg.APIKey)
		cc.BaseURL = cfg.BaseURL
		c = openai.NewClientWithConfig(cc)
	} else {
		c = openai.NewClient(cfg.APIKey)
	}
	model := cfg.Model
	if model == "" {
		return nil, fmt.Errorf("ai: openai model must be specified")
	}
	return &OpenAIClient{client: c, model: model}, nil
}

func (o *OpenAIClient) Model() string { return o.model }

// Generate sends the conversation. PDF attachments are not supported by the
// chat endpoint and are dropped.
func (o *OpenAIClient) Generate(ctx context.Context, conversation []Message) (Response, error) {
	msgs := make([]openai.ChatCompletionMessage, 0, len(conversation))
	for _, m := range conversation {
		if m.PDF != nil {
			slog.Warn("openai: dropping pdf attachment", "name", m.PDF.Name)
		}
		msgs = append(msgs, openai.ChatCompletionMessage{Role: openAIRole(m.Role), Content: m.Body})
	}
	return o.create(ctx, msgs)
}

func (o *OpenAIClient) create(ctx context.Context, msgs []openai.ChatCompletionMessage) (Response, error) {
	// Default timeout guard, if caller didn't set one
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 120*time.Second)
		defer cancel()
	}
	resp, err := o.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       o.model,
		Messages:    msgs,
		Temperature: 0.7,
		MaxTokens:   1024,
	})
	if err != nil {
		slog.Error("openai: completion error", "err", err)
		return Response{}, fmt.Errorf("ai: openai: %w", err)
	}
	if len(resp.Choices) == 0 {
		return Response{}, ErrNoCandidates
	}
	choice := resp.Choices[0]
	switch choice.FinishReason {
	case openai.FinishReasonContentFilter:
		return Response{}, ErrSafetyBlocked
	case openai.FinishReasonLength:
		return Response{}, ErrMaxTokens
	}
	text := strings.TrimSpace(choice.Message.Content)
	if text == "" {
		return Response{}, ErrEmptyResponse
	}
	return Response{
		Text:  text,
		Model: o.model,
		Usage: Usage{
			PromptTokens: resp.Usage.PromptTokens,
			OutputTokens: resp.Usage.CompletionTokens,
			TotalTokens:  resp.Usage.TotalTokens,
		},
	}, nil
}

func openAIRole(r Role) string {
	switch r {
	case RoleAssistant:
		return openai.ChatMessageRoleAssistant
	case RoleSystem:
		return openai.ChatMessageRoleSystem
	default:
		return openai.ChatMessageRoleUser
	}
}
