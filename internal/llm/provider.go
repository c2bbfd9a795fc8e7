package llm

import (
	"context"
	"encoding/json"
)

// Provider is the core abstraction for LLM interaction.
// Consumers call Ask with a Request and receive structured JSON.
type Provider interface {
	// Ask sends a prompt to the LLM and returns a structured response.
	// The request's Schema field, when set, instructs the provider to return
	// JSON conforming to that schema. The response Content will be the
	// validated JSON.
	Ask(ctx context.Context, req Request) (*Response, error)

	// ModelID returns the model identifier this provider is configured to use.
	ModelID() string
}

// Request describes what to send to the LLM.
type Request struct {
	// System is the system prompt. Sets the tutor's persona and constraints.
	System string

	// Prompt is a single-turn user prompt. Convenience for the common case;
	// ignored when Messages is non-empty.
	Prompt string

	// Messages is the conversation history. Takes precedence over Prompt.
	Messages []Message

	// Context is an opaque token-id sequence from a previous response,
	// threaded back in to continue a conversation on backends that support
	// it. Providers that don't simply ignore it.
	Context []int

	// Schema is the JSON Schema the response must conform to.
	// When set, the provider uses its native structured output mechanism.
	// When nil, the response Content is raw text as json.RawMessage.
	Schema *Schema

	// MaxTokens is the maximum number of tokens in the response.
	MaxTokens int

	// Temperature controls randomness. Range: 0.0 - 1.0.
	// Default: 0.0 (deterministic) when not set.
	Temperature float64
}

// messages returns the effective conversation, promoting Prompt to a
// single user message when Messages is empty.
func (r Request) messages() []Message {
	if len(r.Messages) > 0 {
		return r.Messages
	}
	if r.Prompt != "" {
		return []Message{{Role: RoleUser, Content: r.Prompt}}
	}
	return nil
}

// Message represents a single message in the conversation.
type Message struct {
	Role    Role
	Content string
}

// Role is the message sender role.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Schema defines the JSON structure expected from the LLM.
type Schema struct {
	// Name identifies this schema (used as tool name for Anthropic,
	// schema name for OpenAI). Kebab-case, e.g. "vocabulary-activity".
	Name string

	// Description is a human-readable description of what this schema
	// represents. Sent to the LLM to guide generation.
	Description string

	// Definition is the JSON Schema definition as a map.
	Definition map[string]any
}

// Response holds the LLM's output.
type Response struct {
	// Content is the generated output. When a Schema was provided in the
	// request, this is the validated JSON object. When no Schema was
	// provided, this is the raw text response wrapped as a JSON string.
	Content json.RawMessage

	// Context is the token-id sequence to thread into the next request.
	// Only meaningful when ContextProvided is true.
	Context []int

	// ContextProvided reports whether this provider returned a reusable
	// context. Stateless cloud APIs always set it false; callers fall back
	// to resending the conversation.
	ContextProvided bool

	// Usage reports token consumption for this request.
	Usage Usage

	// Model is the actual model that served the request.
	Model string

	// StopReason indicates why generation stopped.
	// Normalized to: "end", "max_tokens", "error"
	StopReason string
}

// Usage tracks token consumption for a single request.
type Usage struct {
	InputTokens  int
	OutputTokens int
	TotalTokens  int
}
