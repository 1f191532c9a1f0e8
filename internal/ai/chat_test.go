package ai

import (
	"context"
	"errors"
	"testing"
	"time"

	"hnews/internal/storage"
)

func TestChatKeepsHistory(t *testing.T) {
	ctx := context.Background()
	kv := storage.NewMemoryStore()
	sums := storage.NewSummaries(kv, "t")
	sums.Put(ctx, modelSummary(5, "short summary"))
	gen := &fakeGen{reply: "answer"}
	c := &Chat{Source: &fakeSource{item: story("")}, Gen: gen, History: storage.NewChats(kv, "t"), Summaries: sums,
		now: func() time.Time { return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC) }}

	if _, err := c.Send(ctx, 5, "what is this?"); err != nil {
		t.Fatal(err)
	}
	reply, err := c.Send(ctx, 5, "and then?")
	if err != nil || reply.Text != "answer" || reply.Role != "assistant" || reply.ID == "" {
		t.Fatalf("reply = %+v, %v", reply, err)
	}
	conv := gen.convs[1]
	if len(conv) != 4 || conv[0].Role != RoleSystem || conv[1].Role != RoleUser || conv[2].Role != RoleAssistant || conv[3].Body != "and then?" {
		t.Fatalf("conversation = %+v", conv)
	}
	if !contains(conv[0].Body, "AI Summary: short summary") {
		t.Errorf("system prompt lacks summary")
	}
	if got := c.Messages(ctx, 5); len(got) != 4 {
		t.Errorf("stored messages = %d, want 4", len(got))
	}
}

func TestChatStoresUserTurnOnFailure(t *testing.T) {
	ctx := context.Background()
	c := &Chat{Source: &fakeSource{item: story("")}, Gen: &fakeGen{err: ErrMaxTokens}, History: storage.NewChats(storage.NewMemoryStore(), "t")}
	if _, err := c.Send(ctx, 7, "hello"); !errors.Is(err, ErrMaxTokens) {
		t.Fatalf("err = %v", err)
	}
	msgs := c.Messages(ctx, 7)
	if len(msgs) != 1 || msgs[0].Text != "hello" {
		t.Errorf("messages = %+v", msgs)
	}
}
