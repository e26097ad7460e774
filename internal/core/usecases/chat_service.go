package usecases

import (
	"context"
	"fmt"
	"strings"

	"github.com/samirrijal/motospirit/internal/core/domain"
	"github.com/samirrijal/motospirit/internal/core/ports"
	"github.com/samirrijal/motospirit/internal/pkg/logging"
)

const (
	chatFallback    = "I'm tuning the engine right now, ask me again in a moment."
	defaultGreeting = "Hey rider! I'm MotoSpirit. What can I help you with today?"
	clearedGreeting = "History cleared. What's on your mind, rider?"
)

// ChatOptions configure the assistant.
type ChatOptions struct {
	Model    string
	Language string
	Greeting string
}

// ChatService is the conversational riding assistant.
type ChatService struct {
	generator
	chats ports.ChatRepository
	opts  ChatOptions
}

// NewChatService creates a new ChatService.
func NewChatService(gen ports.GenerationService, creds ports.CredentialBroker, chats ports.ChatRepository, opts ChatOptions) *ChatService {
	if opts.Greeting == "" {
		opts.Greeting = defaultGreeting
	}
	return &ChatService{generator: generator{gen: gen, creds: creds}, chats: chats, opts: opts}
}

func (s *ChatService) persona() string {
	lang := LanguageName(s.opts.Language)
	return fmt.Sprintf("You are MotoSpirit, a rough but wise %s motorcyclist. Speak %s, keep it short, use biker slang.", lang, lang)
}

// History returns the conversation, seeding it with the greeting when empty.
func (s *ChatService) History(ctx context.Context) ([]domain.ChatMessage, error) {
	msgs, err := s.chats.History(ctx)
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}
	if len(msgs) == 0 {
		seed := domain.ChatMessage{Role: domain.RoleModel, Text: s.opts.Greeting}
		if err := s.chats.Reset(ctx, seed); err != nil {
			logging.FromContext(ctx).Warn("failed to seed chat history", "error", err)
		}
		msgs = []domain.ChatMessage{seed}
	}
	return msgs, nil
}

// Send sends text with the whole conversation so far and stores both turns.
func (s *ChatService) Send(ctx context.Context, text string) (*domain.ChatMessage, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("%w: message must not be empty", domain.ErrInvalidInput)
	}

	history, err := s.History(ctx)
	if err != nil {
		return nil, err
	}

	resp, err := s.generate(ctx, "chat", ports.GenerationRequest{
		Model:   s.opts.Model,
		System:  s.persona(),
		Prompt:  text,
		History: history,
	})
	if err != nil {
		return nil, fmt.Errorf("chat: %w", err)
	}

	reply := domain.ChatMessage{Role: domain.RoleModel, Text: strings.TrimSpace(resp.Text)}
	if reply.Text == "" {
		reply.Text = chatFallback
	}

	if err := s.chats.Append(ctx, domain.ChatMessage{Role: domain.RoleUser, Text: text}, reply); err != nil {
		return nil, fmt.Errorf("store chat: %w", err)
	}
	return &reply, nil
}

// Clear resets the conversation to a single "history cleared" greeting.
func (s *ChatService) Clear(ctx context.Context) ([]domain.ChatMessage, error) {
	seed := domain.ChatMessage{Role: domain.RoleModel, Text: clearedGreeting}
	if err := s.chats.Reset(ctx, seed); err != nil {
		return nil, fmt.Errorf("clear chat: %w", err)
	}
	return []domain.ChatMessage{seed}, nil
}
