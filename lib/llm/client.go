package llm

import (
	"context"
	"fmt"

	"github.com/pkg/errors"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

var (
	ErrNoChoices = errors.New("invalid response: missing choices[0].message.content")
	ErrStatus    = errors.New("unexpected API status")
)

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func System(content string) Message {
	return Message{Role: RoleSystem, Content: content}
}

func User(content string) Message {
	return Message{Role: RoleUser, Content: content}
}

type Options struct {
	Temperature float64
	// MaxTokens limits the reply. Zero leaves it to the server.
	MaxTokens int
}

// Client sends chat conversations to a language model and returns the text of its reply.
type Client interface {
	Chat(ctx context.Context, messages []Message, opts Options) (string, error)
}

// Embedder turns texts into vectors, one per text, in the same order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error: status %d, body: %s", e.StatusCode, e.Body)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrStatus
}

func (e *StatusError) Retryable() bool {
	return e.StatusCode == 429 || e.StatusCode >= 500
}
