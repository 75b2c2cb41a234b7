package message

import (
	"strings"
	"testing"
)

func TestTokenUsage(t *testing.T) {
	msg := NewChatMessage(MessageTypeAssistant, `{"action":"task_complete"}`)

	// Initially, token usage should be zero
	if msg.TotalTokens() != 0 {
		t.Errorf("Expected TotalTokens to be 0, got %d", msg.TotalTokens())
	}

	msg.SetTokenUsage(100, 50, 150)

	if msg.InputTokens() != 100 {
		t.Errorf("Expected InputTokens to be 100, got %d", msg.InputTokens())
	}
	if msg.OutputTokens() != 50 {
		t.Errorf("Expected OutputTokens to be 50, got %d", msg.OutputTokens())
	}
	if msg.TotalTokens() != 150 {
		t.Errorf("Expected TotalTokens to be 150, got %d", msg.TotalTokens())
	}
	if !strings.Contains(msg.String(), "Tokens: 150") {
		t.Errorf("Expected String() to include token usage, got %s", msg.String())
	}
}

func TestNewRequestMessage(t *testing.T) {
	withImage := NewRequestMessage("Task: open the browser\nmore", "https://i.example/a.png")
	if withImage.Type() != MessageTypeUser {
		t.Errorf("Expected user message, got %s", withImage.Type())
	}
	if withImage.Source() != MessageSourceRequest {
		t.Errorf("Expected request source, got %s", withImage.Source())
	}
	if len(withImage.Images()) != 1 || withImage.Images()[0] != "https://i.example/a.png" {
		t.Errorf("Unexpected images: %v", withImage.Images())
	}

	textOnly := NewRequestMessage("Task: open the browser", "")
	if len(textOnly.Images()) != 0 {
		t.Errorf("Expected no images for text-only request, got %v", textOnly.Images())
	}
}

func TestTruncatedString(t *testing.T) {
	tests := []struct {
		name     string
		msg      *ChatMessage
		contains string
	}{
		{"request with screenshot", NewRequestMessage("Task: open mail\nsecond line", "data:image/png;base64,AA=="), "📸 Request (with screenshot): Task: open mail"},
		{"request text only", NewRequestMessage("Task: open mail", ""), "(text only)"},
		{"answer", NewAnswerMessage("yes, shut it down"), "👤 You: yes, shut it down"},
		{"model reply", NewChatMessage(MessageTypeAssistant, `{"action":"question"}`), "🤖 Model:"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.msg.TruncatedString()
			if !strings.Contains(got, tt.contains) {
				t.Errorf("TruncatedString() = %q, want it to contain %q", got, tt.contains)
			}
		})
	}

	if got := NewSystemMessage("instructions").TruncatedString(); got != "" {
		t.Errorf("Expected system messages to be hidden, got %q", got)
	}

	long := NewChatMessage(MessageTypeAssistant, strings.Repeat("x", 300))
	if got := long.TruncatedString(); !strings.HasSuffix(got, "...") {
		t.Errorf("Expected long content to be truncated, got %q", got)
	}
}

func TestMessageIDsAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		id := NewChatMessage(MessageTypeUser, "x").ID()
		if seen[id] {
			t.Fatalf("duplicate message id %s", id)
		}
		seen[id] = true
	}
}
