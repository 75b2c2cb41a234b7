package domain

import (
	"context"

	"github.com/fpt/deskpilot/pkg/message"
)

// ModelClient is the single structured-JSON endpoint the control loop talks to.
type ModelClient interface {
	// Complete sends the instruction text plus the ordered turns and returns
	// the raw reply text, which is expected to be one JSON object.
	Complete(ctx context.Context, instructions string, turns []message.Message) (string, error)
	// ModelID returns a stable identifier for the underlying model
	ModelID() string
}

// TurnInput carries everything a single user turn is rendered from.
type TurnInput struct {
	Task              string
	PreviousReasoning string
	AskedConfirmation bool
	Answer            string
}

// PromptBuilder renders the instruction text and the per-iteration user turn.
// The text itself is a data asset; the loop never hard-wires it.
type PromptBuilder interface {
	Instructions() string
	Turn(in TurnInput) (string, error)
}
