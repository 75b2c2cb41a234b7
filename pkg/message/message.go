package message

import (
	"fmt"
	"strings"
	"sync/atomic"
	"time"
)

// ChatMessage is the neutral message format shared by the loop and the model client
type ChatMessage struct {
	id         string
	typ        MessageType
	content    string
	images     []string
	timestamp  time.Time
	source     MessageSource
	tokenUsage TokenUsage
}

// NewChatMessage creates a new chat message with current timestamp
func NewChatMessage(msgType MessageType, content string) *ChatMessage {
	return &ChatMessage{
		id:        generateMessageID(),
		typ:       msgType,
		content:   content,
		timestamp: time.Now(),
		source:    MessageSourceDefault,
	}
}

func NewSystemMessage(content string) *ChatMessage {
	return NewChatMessage(MessageTypeSystem, content)
}

// NewRequestMessage creates the per-iteration user turn. imageURL may be empty,
// in which case the request degrades to text only.
func NewRequestMessage(content string, imageURL string) *ChatMessage {
	msg := NewChatMessage(MessageTypeUser, content)
	msg.source = MessageSourceRequest
	if imageURL != "" {
		msg.images = []string{imageURL}
	}
	return msg
}

// NewAnswerMessage records the user's reply to a confirmation question
func NewAnswerMessage(answer string) *ChatMessage {
	msg := NewChatMessage(MessageTypeUser, answer)
	msg.source = MessageSourceAnswer
	return msg
}

func (c *ChatMessage) ID() string {
	return c.id
}

func (c *ChatMessage) Type() MessageType {
	return c.typ
}

func (c *ChatMessage) Content() string {
	return c.content
}

func (c *ChatMessage) Images() []string {
	return c.images
}

func (c *ChatMessage) Timestamp() time.Time {
	return c.timestamp
}

func (c *ChatMessage) Source() MessageSource {
	return c.source
}

func (c *ChatMessage) String() string {
	tokensInfo := ""
	if c.tokenUsage.TotalTokens > 0 {
		tokensInfo = fmt.Sprintf(", Tokens: %d (in:%d out:%d)",
			c.tokenUsage.TotalTokens, c.tokenUsage.InputTokens, c.tokenUsage.OutputTokens)
	}
	return fmt.Sprintf("Message(ID: %s, Type: %s, Content: %q, Images: %d, Timestamp: %s, Source: %s%s)",
		c.id, c.typ, c.content, len(c.images), c.timestamp.Format(time.RFC3339), c.source, tokensInfo)
}

// Token usage methods
func (c *ChatMessage) InputTokens() int {
	return c.tokenUsage.InputTokens
}

func (c *ChatMessage) OutputTokens() int {
	return c.tokenUsage.OutputTokens
}

func (c *ChatMessage) TotalTokens() int {
	return c.tokenUsage.TotalTokens
}

func (c *ChatMessage) SetTokenUsage(inputTokens, outputTokens, totalTokens int) {
	c.tokenUsage = TokenUsage{
		InputTokens:  inputTokens,
		OutputTokens: outputTokens,
		TotalTokens:  totalTokens,
	}
}

// TruncatedString returns a truncated, user-friendly representation for transcript previews
func (c *ChatMessage) TruncatedString() string {
	content := c.content

	switch c.typ {
	case MessageTypeUser:
		if c.source == MessageSourceRequest {
			// Request turns repeat the whole prompt; show only the first line
			if first, _, found := strings.Cut(strings.TrimSpace(content), "\n"); found {
				content = first
			}
			marker := "text only"
			if len(c.images) > 0 {
				marker = "with screenshot"
			}
			if len(content) > 120 {
				content = content[:120] + "..."
			}
			return fmt.Sprintf("📸 Request (%s): %s", marker, content)
		}
		if len(content) > 150 {
			content = content[:150] + "..."
		}
		return fmt.Sprintf("👤 You: %s", content)

	case MessageTypeAssistant:
		if len(content) > 200 {
			content = content[:200] + "..."
		}
		return fmt.Sprintf("🤖 Model: %s", content)

	case MessageTypeSystem:
		// Skip system messages in previews
		return ""

	default:
		if len(content) > 100 {
			content = content[:100] + "..."
		}
		return fmt.Sprintf("[%s] %s", c.typ, content)
	}
}

var messageSeq atomic.Uint64

// generateMessageID generates a unique message ID
func generateMessageID() string {
	return fmt.Sprintf("msg_%d_%d", time.Now().UnixNano(), messageSeq.Add(1))
}
