// Package credentials decides whether the generation service can be called
// and asks connected clients to pick a key when it cannot.
package credentials

import (
	"context"
	"strings"
)

// Prompter delivers the key-selection request to clients.
type Prompter interface {
	PublishCredentialPrompt(ctx context.Context) error
}

// Broker implements ports.CredentialBroker over a configured API key.
type Broker struct {
	apiKey   string
	prompter Prompter
}

// NewBroker returns a broker for apiKey. A nil prompter makes PromptSelection a no-op.
func NewBroker(apiKey string, prompter Prompter) *Broker {
	return &Broker{apiKey: strings.TrimSpace(apiKey), prompter: prompter}
}

func (b *Broker) HasActiveCredential(context.Context) (bool, error) {
	return b.apiKey != "", nil
}

func (b *Broker) PromptSelection(ctx context.Context) error {
	if b.prompter == nil {
		return nil
	}
	return b.prompter.PublishCredentialPrompt(ctx)
}
