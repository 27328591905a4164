package llm

import (
	"context"
)

// Message represents a chat message in a provider-agnostic format
type Message struct {
	Role    string // "user", "assistant", "system"
	Content string
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
	RoleSystem    = "system"
)

// Option allows for optional parameters like Temperature, MaxTokens, etc.
type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
	Model       string // Override default model
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithModel(model string) Option {
	return func(o *Options) {
		o.Model = model
	}
}

// ChunkHandler receives each streamed text fragment as it arrives.
// Returning an error aborts the stream.
type ChunkHandler func(chunk string) error

// Provider defines the contract for any LLM backend. History carries the
// system instruction as a leading "system" message; providers map it to
// their native shape.
type Provider interface {
	// Chat sends a chat history to the model and returns the full response
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)

	// ChatStream sends a chat history and delivers the response
	// incrementally. The call returns once the stream completes or fails;
	// partial output already delivered is the caller's to discard.
	ChatStream(ctx context.Context, history []Message, onChunk ChunkHandler, options ...Option) error
}
