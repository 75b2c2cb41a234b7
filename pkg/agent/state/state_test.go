package state

import (
	"testing"

	"github.com/fpt/deskpilot/pkg/agent/domain"
	"github.com/fpt/deskpilot/pkg/message"
)

func TestNewConversation(t *testing.T) {
	conv := NewConversation()
	if conv.Len() != 0 {
		t.Fatalf("Expected empty conversation, got %d messages", conv.Len())
	}
	if conv.LastMessage() != nil {
		t.Fatal("Expected nil last message for empty conversation")
	}
	if conv.AskedConfirmation() {
		t.Fatal("asked_confirmation should start false")
	}
	if conv.PreviousReasoning() != "" {
		t.Fatalf("Expected empty previous reasoning, got %q", conv.PreviousReasoning())
	}
}

func TestWithMessage(t *testing.T) {
	conv := NewConversation().
		WithMessage(message.NewRequestMessage("open the browser", "https://img.example/1.png")).
		WithMessage(message.NewChatMessage(message.MessageTypeAssistant, `{"action":"task_complete"}`))

	if conv.Len() != 2 {
		t.Fatalf("Expected 2 messages, got %d", conv.Len())
	}
	if conv.Messages()[0].Content() != "open the browser" {
		t.Fatalf("Expected request first, got %q", conv.Messages()[0].Content())
	}
	if conv.LastMessage().Type() != message.MessageTypeAssistant {
		t.Fatalf("Expected assistant message last, got %s", conv.LastMessage().Type())
	}
}

func TestWithMessage_DoesNotAliasEarlierValues(t *testing.T) {
	base := NewConversation().
		WithMessage(message.NewChatMessage(message.MessageTypeUser, "first")).
		WithMessage(message.NewChatMessage(message.MessageTypeUser, "second"))

	a := base.WithMessage(message.NewChatMessage(message.MessageTypeUser, "branch a"))
	b := base.WithMessage(message.NewChatMessage(message.MessageTypeUser, "branch b"))

	if base.Len() != 2 {
		t.Fatalf("base was modified: %d messages", base.Len())
	}
	if got := a.LastMessage().Content(); got != "branch a" {
		t.Errorf("branch a last message = %q", got)
	}
	if got := b.LastMessage().Content(); got != "branch b" {
		t.Errorf("branch b last message = %q", got)
	}

	// Appending to the returned slice must not leak into the conversation.
	msgs := base.Messages()
	_ = append(msgs, message.NewChatMessage(message.MessageTypeUser, "outside"))
	if got := base.WithMessage(message.NewChatMessage(message.MessageTypeUser, "third")).Messages()[2].Content(); got != "third" {
		t.Errorf("expected third message, got %q", got)
	}
}

func TestAdvance_Continue(t *testing.T) {
	conv := NewConversation().Advance(domain.Continue("clicked the start menu"))

	if conv.PreviousReasoning() != "clicked the start menu" {
		t.Errorf("previous reasoning = %q", conv.PreviousReasoning())
	}
	if conv.AskedConfirmation() {
		t.Error("plain continue should not set asked_confirmation")
	}
	if conv.Len() != 0 {
		t.Errorf("plain continue should not add messages, got %d", conv.Len())
	}
}

func TestAdvance_Question(t *testing.T) {
	before := NewConversation()
	out := domain.Continue("need confirmation")
	out.Asked = true
	out.Answer = "yes, shut it down"

	after := before.Advance(out)

	if !after.AskedConfirmation() {
		t.Fatal("accepted question should set asked_confirmation")
	}
	if after.Answer() != "yes, shut it down" {
		t.Errorf("answer = %q", after.Answer())
	}
	last := after.LastMessage()
	if last == nil || last.Source() != message.MessageSourceAnswer || last.Content() != "yes, shut it down" {
		t.Fatalf("expected answer message appended, got %v", last)
	}
	if before.AskedConfirmation() || before.Len() != 0 {
		t.Error("Advance modified the previous value")
	}

	// The flag is never reset by later turns.
	later := after.Advance(domain.Continue("typing"))
	if !later.AskedConfirmation() {
		t.Error("asked_confirmation was reset")
	}
	if later.Answer() != "yes, shut it down" {
		t.Errorf("answer lost on later turn: %q", later.Answer())
	}
}

func TestAdvance_IgnoresNonContinue(t *testing.T) {
	conv := NewConversation().Advance(domain.Continue("r1"))

	for _, out := range []domain.Outcome{
		domain.Failed(domain.ErrParse),
		{Kind: domain.OutcomeComplete, Status: "success"},
		{Kind: domain.OutcomeExit},
	} {
		next := conv.Advance(out)
		if next.PreviousReasoning() != "r1" {
			t.Errorf("%s outcome changed reasoning to %q", out.Kind, next.PreviousReasoning())
		}
	}
}

func TestTurnInput(t *testing.T) {
	out := domain.Continue("asked user")
	out.Asked = true
	out.Answer = "go ahead"
	conv := NewConversation().Advance(out)

	in := conv.TurnInput("shut down the computer")
	want := domain.TurnInput{
		Task:              "shut down the computer",
		PreviousReasoning: "asked user",
		AskedConfirmation: true,
		Answer:            "go ahead",
	}
	if in != want {
		t.Errorf("TurnInput() = %+v, want %+v", in, want)
	}
}

func TestTokenUsage(t *testing.T) {
	m1 := message.NewChatMessage(message.MessageTypeAssistant, "a")
	m1.SetTokenUsage(100, 20, 120)
	m2 := message.NewChatMessage(message.MessageTypeAssistant, "b")
	m2.SetTokenUsage(50, 10, 60)

	in, out, total := NewConversation().WithMessage(m1, m2).TokenUsage()
	if in != 150 || out != 30 || total != 180 {
		t.Errorf("TokenUsage() = (%d, %d, %d), want (150, 30, 180)", in, out, total)
	}
}
