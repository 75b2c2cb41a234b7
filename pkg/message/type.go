package message

import "time"

// TokenUsage holds token usage information for a message
type TokenUsage struct {
	InputTokens  int // Tokens consumed for input (prompt + image)
	OutputTokens int // Tokens generated in response
	TotalTokens  int // Total tokens (input + output)
}

type MessageType int

const (
	MessageTypeUser MessageType = iota
	MessageTypeAssistant
	MessageTypeSystem
)

type MessageSource int

const (
	MessageSourceDefault MessageSource = iota
	// MessageSourceRequest marks the per-iteration request turn built by the loop
	MessageSourceRequest
	// MessageSourceAnswer marks a human answer to a confirmation question
	MessageSourceAnswer
)

// String returns the string representation of MessageType
func (m MessageType) String() string {
	switch m {
	case MessageTypeUser:
		return "user"
	case MessageTypeAssistant:
		return "assistant"
	case MessageTypeSystem:
		return "system"
	default:
		return "unknown"
	}
}

func (s MessageSource) String() string {
	switch s {
	case MessageSourceDefault:
		return "default"
	case MessageSourceRequest:
		return "request"
	case MessageSourceAnswer:
		return "answer"
	default:
		return "unknown"
	}
}

// Message is one exchanged chat turn: a role plus text and image references.
type Message interface {
	// ID returns the unique identifier of the message
	ID() string

	// Type returns the role of the message
	Type() MessageType

	// Content returns the text content of the message
	Content() string

	// Images returns image references (http(s) URLs or data URLs)
	Images() []string

	// Timestamp returns the time when the message was created
	Timestamp() time.Time

	// Source returns the source of the message
	Source() MessageSource

	// String returns the string representation of the message
	String() string

	// TruncatedString returns a truncated, user-friendly representation for transcript previews
	TruncatedString() string

	// Token usage information
	InputTokens() int
	OutputTokens() int
	TotalTokens() int
	SetTokenUsage(inputTokens, outputTokens, totalTokens int)
}
