package providers

import (
	"context"
	"errors"
)

// ErrChatProviderUnauthorized indicates the provider rejected the configured key.
var ErrChatProviderUnauthorized = errors.New("chat provider unauthorized")

// ChatRole is the author of a chat message.
type ChatRole string

const (
	ChatRoleSystem ChatRole = "system"
	ChatRoleUser   ChatRole = "user"
)

// ChatMessage is a single turn sent to a chat-completion provider.
type ChatMessage struct {
	Role    ChatRole
	Content string
}

// ChatCompletionProvider defines the interface for language-model chat APIs.
type ChatCompletionProvider interface {
	// Name identifies the provider in logs and metrics
	Name() string

	// Complete sends the conversation and returns the first reply's raw text
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}
