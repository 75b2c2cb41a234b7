package domain

import (
	"github.com/fpt/deskpilot/pkg/message"
)

// TokenUsageProvider is an optional extension that model clients can implement
// to expose token accounting information from the most recent API call.
//
// Implementations should return (usage, true) when token usage was available
// for the last Complete invocation, and (message.TokenUsage{}, false) if
// unavailable. Callers treat this as a best-effort signal.
type TokenUsageProvider interface {
	LastTokenUsage() (message.TokenUsage, bool)
}
