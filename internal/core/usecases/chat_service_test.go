package usecases_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/samirrijal/motospirit/internal/core/domain"
	"github.com/samirrijal/motospirit/internal/core/ports"
	"github.com/samirrijal/motospirit/internal/core/usecases"
)

func TestChatService_History_Seeded(t *testing.T) {
	chats := &mockChats{}
	svc := usecases.NewChatService(&mockGenerator{}, nil, chats, usecases.ChatOptions{Greeting: "Ahoj!"})

	msgs, err := svc.History(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 || msgs[0].Text != "Ahoj!" || msgs[0].Role != domain.RoleModel {
		t.Errorf("unexpected seed %+v", msgs)
	}
}

func TestChatService_Send(t *testing.T) {
	chats := &mockChats{msgs: []domain.ChatMessage{{Role: domain.RoleModel, Text: "Ahoj!"}}}
	gen := replyWith("  Check the chain tension.  ")
	svc := usecases.NewChatService(gen, &mockCreds{active: true}, chats, usecases.ChatOptions{Language: "cs"})

	reply, err := svc.Send(context.Background(), "Chain is noisy")
	if err != nil {
		t.Fatal(err)
	}
	if reply.Text != "Check the chain tension." {
		t.Errorf("reply = %q", reply.Text)
	}

	req := gen.lastCall()
	if len(req.History) != 1 || req.Prompt != "Chain is noisy" {
		t.Errorf("history/prompt not sent: %+v", req)
	}
	if !strings.Contains(req.System, "MotoSpirit") || !strings.Contains(req.System, "Czech") {
		t.Errorf("persona = %q", req.System)
	}
	if len(chats.msgs) != 3 || chats.msgs[1].Role != domain.RoleUser {
		t.Errorf("stored history = %+v", chats.msgs)
	}
}

func TestChatService_Send_EmptyReplyFallback(t *testing.T) {
	svc := usecases.NewChatService(replyWith(""), nil, &mockChats{}, usecases.ChatOptions{})

	reply, err := svc.Send(context.Background(), "hi")
	if err != nil {
		t.Fatal(err)
	}
	if reply.Text == "" {
		t.Error("expected fallback text")
	}
}

func TestChatService_Send_Failure(t *testing.T) {
	gen := &mockGenerator{generateFn: func(ctx context.Context, req ports.GenerationRequest) (*ports.GenerationResponse, error) {
		return nil, domain.NewGenerationError(domain.GenerationQuota, errors.New("429"))
	}}
	chats := &mockChats{}
	svc := usecases.NewChatService(gen, nil, chats, usecases.ChatOptions{})

	if _, err := svc.Send(context.Background(), "hi"); err == nil {
		t.Fatal("expected error")
	}
	if len(chats.msgs) > 1 {
		t.Errorf("failed turn must not be stored: %+v", chats.msgs)
	}
}

func TestChatService_Send_Empty(t *testing.T) {
	svc := usecases.NewChatService(&mockGenerator{}, nil, &mockChats{}, usecases.ChatOptions{})
	if _, err := svc.Send(context.Background(), "   "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Errorf("err = %v, want ErrInvalidInput", err)
	}
}

func TestChatService_Clear(t *testing.T) {
	chats := &mockChats{msgs: []domain.ChatMessage{{Role: domain.RoleUser, Text: "a"}, {Role: domain.RoleModel, Text: "b"}}}
	svc := usecases.NewChatService(&mockGenerator{}, nil, chats, usecases.ChatOptions{})

	msgs, err := svc.Clear(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 1 || len(chats.msgs) != 1 || !strings.Contains(chats.msgs[0].Text, "cleared") {
		t.Errorf("chat not reset: %+v", chats.msgs)
	}
}
