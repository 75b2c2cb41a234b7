package domain

import "context"

// Prompter collects human input while a run is in progress.
//
// Implementations return ErrInterrupted when the user aborts a prompt
// (Ctrl+C / EOF) so the loop can take its cancellation path.
type Prompter interface {
	// Ask shows the model's confirmation question and returns the free-text answer.
	Ask(ctx context.Context, question string) (string, error)
	// WaitForPaste shows text the user should paste manually and blocks until
	// the user signals readiness.
	WaitForPaste(ctx context.Context, text string) error
	// ConfirmRetry asks whether to retry after a recoverable error.
	ConfirmRetry(ctx context.Context, attempt, max int) (bool, error)
}
