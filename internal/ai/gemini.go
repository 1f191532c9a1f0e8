package ai

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"google.golang.org/genai"
)

// GeminiConfig configures the Gemini generator.
type GeminiConfig struct {
	APIKey      string
	Model       string
	BaseURL     string // optional, for proxies and tests
	Temperature float32
	MaxTokens   int32
	HTTPClient  *http.Client
}

// GeminiClient implements Generator with the Gemini generateContent API.
type GeminiClient struct {
	client *genai.Client
	model  string
	gen    *genai.GenerateContentConfig
}

func NewGemini(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNoAPIKey
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gemini-2.5-flash"
	}
	if cfg.Temperature == 0 {
		cfg.Temperature = 0.7
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = 1024
	}
	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: 120 * time.Second}
	}
	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: hc,
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions = genai.HTTPOptions{BaseURL: strings.TrimRight(cfg.BaseURL, "/") + "/"}
	}
	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("ai: gemini client: %w", err)
	}
	return &GeminiClient{
		client: client,
		model:  model,
		gen: &genai.GenerateContentConfig{
			Temperature:     genai.Ptr(cfg.Temperature),
			MaxOutputTokens: cfg.MaxTokens,
			TopP:            genai.Ptr[float32](0.8),
			TopK:            genai.Ptr[float32](10),
		},
	}, nil
}

func (g *GeminiClient) Model() string { return g.model }

// Generate sends the conversation. Assistant turns become "model" turns and
// system turns are sent as "user" turns.
func (g *GeminiClient) Generate(ctx context.Context, conversation []Message) (Response, error) {
	if _, ok := ctx.Deadline(); !ok {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, 120*time.Second)
		defer cancel()
	}
	contents := make([]*genai.Content, 0, len(conversation))
	for _, m := range conversation {
		parts := []*genai.Part{{Text: m.Body}}
		if m.PDF != nil && len(m.PDF.Data) > 0 {
			mt := m.PDF.MIMEType
			if mt == "" {
				mt = "application/pdf"
			}
			parts = append(parts, &genai.Part{InlineData: &genai.Blob{MIMEType: mt, Data: m.PDF.Data}})
		}
		contents = append(contents, &genai.Content{Role: geminiRole(m.Role), Parts: parts})
	}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, g.gen)
	if err != nil {
		slog.Error("gemini: generate error", "model", g.model, "err", err)
		return Response{}, fmt.Errorf("ai: gemini: %w", err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0] == nil {
		return Response{}, ErrNoCandidates
	}
	cand := resp.Candidates[0]
	switch cand.FinishReason {
	case genai.FinishReasonSafety:
		return Response{}, ErrSafetyBlocked
	case genai.FinishReasonRecitation:
		return Response{}, ErrRecitation
	case genai.FinishReasonMaxTokens:
		return Response{}, ErrMaxTokens
	}
	var b strings.Builder
	if cand.Content != nil {
		for _, p := range cand.Content.Parts {
			if p != nil && !p.Thought {
				b.WriteString(p.Text)
			}
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return Response{}, ErrEmptyResponse
	}
	out := Response{Text: text, Model: g.model}
	if u := resp.UsageMetadata; u != nil {
		out.Usage = Usage{
			PromptTokens: int(u.PromptTokenCount),
			OutputTokens: int(u.CandidatesTokenCount),
			TotalTokens:  int(u.TotalTokenCount),
		}
	}
	return out, nil
}

func geminiRole(r Role) string {
	switch r {
	case RoleAssistant:
		return "model"
	default:
		return "user"
	}
}
