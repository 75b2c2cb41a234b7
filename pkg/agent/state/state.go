// Package state holds the per-run conversation threaded through the control loop.
package state

import (
	"slices"

	"github.com/fpt/deskpilot/pkg/agent/domain"
	"github.com/fpt/deskpilot/pkg/message"
)

// Conversation is the running context of one task run.
//
// It is a value: every mutator returns a new Conversation and never shares
// its message backing array with the receiver, so earlier values stay valid.
type Conversation struct {
	messages []message.Message

	previousReasoning string
	// askedConfirmation is set the first time a question is accepted and never reset
	askedConfirmation bool
	answer            string
}

// NewConversation returns an empty conversation.
func NewConversation() Conversation {
	return Conversation{}
}

// Messages returns the exchanged messages in order.
func (c Conversation) Messages() []message.Message {
	return slices.Clip(c.messages)
}

func (c Conversation) Len() int {
	return len(c.messages)
}

// LastMessage returns the most recent message, or nil
func (c Conversation) LastMessage() message.Message {
	if len(c.messages) == 0 {
		return nil
	}
	return c.messages[len(c.messages)-1]
}

func (c Conversation) PreviousReasoning() string {
	return c.previousReasoning
}

func (c Conversation) AskedConfirmation() bool {
	return c.askedConfirmation
}

// Answer is the user's reply to the confirmation question, empty until asked.
func (c Conversation) Answer() string {
	return c.answer
}

// WithMessage appends msgs. The history is append-only.
func (c Conversation) WithMessage(msgs ...message.Message) Conversation {
	next := c
	next.messages = append(slices.Clip(c.messages), msgs...)
	return next
}

// Advance folds a continue outcome into the conversation: the reasoning
// becomes the context for the next turn and an accepted question records the
// answer and sets the asked flag. Other outcome kinds leave c unchanged.
func (c Conversation) Advance(out domain.Outcome) Conversation {
	if out.Kind != domain.OutcomeContinue {
		return c
	}
	next := c
	next.previousReasoning = out.Reasoning
	if out.Asked {
		next.askedConfirmation = true
		next.answer = out.Answer
		next = next.WithMessage(message.NewAnswerMessage(out.Answer))
	}
	return next
}

// TurnInput collects what the next request turn is rendered from.
func (c Conversation) TurnInput(task string) domain.TurnInput {
	return domain.TurnInput{
		Task:              task,
		PreviousReasoning: c.previousReasoning,
		AskedConfirmation: c.askedConfirmation,
		Answer:            c.answer,
	}
}

// TokenUsage sums the usage recorded on every message.
func (c Conversation) TokenUsage() (inputTokens, outputTokens, totalTokens int) {
	for _, msg := range c.messages {
		inputTokens += msg.InputTokens()
		outputTokens += msg.OutputTokens()
		totalTokens += msg.TotalTokens()
	}
	return inputTokens, outputTokens, totalTokens
}
