package ai

import (
	"context"
	"time"

	"hnews/internal/model"
	"hnews/internal/storage"

	"github.com/google/uuid"
)

// Chat holds per-post conversations grounded in the post and its discussion.
type Chat struct {
	Source    StorySource
	Gen       Generator
	History   *storage.Chats
	Summaries *storage.Summaries
	now       func() time.Time
}

// Send appends text to the post's conversation and returns the assistant's
// reply. The user turn is stored even when generation fails.
func (c *Chat) Send(ctx context.Context, postID int, text string) (model.ChatMessage, error) {
	if c.Gen == nil {
		return model.ChatMessage{}, ErrNoAPIKey
	}
	story, err := c.Source.AllDataWithFallback(ctx, postID)
	if err != nil {
		return model.ChatMessage{}, err
	}
	var summary string
	if c.Summaries != nil {
		if s, ok := c.Summaries.Get(ctx, postID); ok {
			summary = s.Summary
		}
	}
	var history []model.ChatMessage
	if e, ok := c.History.Get(ctx, postID); ok {
		history = e.Messages
	}

	conv := []Message{{Role: RoleSystem, Body: ChatSystemPrompt(story, summary, ExtractComments(story.Children, 10, 3))}}
	for _, m := range history {
		conv = append(conv, Message{Role: Role(m.Role), Body: m.Text})
	}
	conv = append(conv, Message{Role: RoleUser, Body: text})

	user := model.ChatMessage{ID: uuid.NewString(), Role: string(RoleUser), Text: text, Timestamp: c.clock()}
	history = append(history, user)

	resp, err := c.Gen.Generate(ctx, conv)
	if err != nil {
		c.History.SaveForPost(ctx, postID, story.Title, history)
		return model.ChatMessage{}, err
	}
	reply := model.ChatMessage{ID: uuid.NewString(), Role: string(RoleAssistant), Text: resp.Text, Timestamp: c.clock()}
	c.History.SaveForPost(ctx, postID, story.Title, append(history, reply))
	return reply, nil
}

// Messages returns the stored conversation for postID.
func (c *Chat) Messages(ctx context.Context, postID int) []model.ChatMessage {
	e, ok := c.History.Get(ctx, postID)
	if !ok {
		return nil
	}
	return e.Messages
}

func (c *Chat) clock() time.Time {
	if c.now != nil {
		return c.now()
	}
	return time.Now().UTC()
}
