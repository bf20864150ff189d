package llm

import (
	"context"
)

const (
	RoleSystem    = "system"
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn of a completion request, independent of the backend.
type Message struct {
	Role    string
	Content string
}

type Option func(*Options)

type Options struct {
	Temperature float64
	MaxTokens   int
}

func WithTemperature(temp float64) Option {
	return func(o *Options) {
		o.Temperature = temp
	}
}

func WithMaxTokens(n int) Option {
	return func(o *Options) {
		o.MaxTokens = n
	}
}

// DefaultTemperature is used when the caller does not set one.
const DefaultTemperature = 0.7

// ApplyOptions folds opts over the defaults every provider starts from.
func ApplyOptions(opts ...Option) *Options {
	options := &Options{Temperature: DefaultTemperature}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// LLMProvider is a chat completion backend.
type LLMProvider interface {
	// Chat sends the full message list and returns the assistant reply text.
	Chat(ctx context.Context, history []Message, options ...Option) (string, error)
}
