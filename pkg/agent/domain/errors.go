package domain

import "github.com/pkg/errors"

// Validation-layer rejections. All are recoverable.
var (
	ErrParse            = errors.New("ParseError")
	ErrUnknownAction    = errors.New("UnknownAction")
	ErrBadCoordinate    = errors.New("BadCoordinate")
	ErrBadContentType   = errors.New("BadContentType")
	ErrMissingReasoning = errors.New("MissingReasoning")
)

// Execution-layer failures.
var (
	// ErrDuplicateQuestion is a protocol violation: the model asked twice.
	// It is counted against the error budget rather than aborting the run.
	ErrDuplicateQuestion = errors.New("DuplicateQuestion")
	ErrExecution         = errors.New("ExecutionFault")
	ErrTransport         = errors.New("TransportFault")
	// ErrCapture is fatal: no action can be decided without a screenshot.
	ErrCapture = errors.New("CaptureFault")
)

// ErrInterrupted is returned by prompts when the user aborts input.
var ErrInterrupted = errors.New("interrupted by user")

// IsRecoverable reports whether err is counted against the retry budget
// instead of ending the run outright.
func IsRecoverable(err error) bool {
	for _, target := range []error{
		ErrParse, ErrUnknownAction, ErrBadCoordinate, ErrBadContentType,
		ErrMissingReasoning, ErrDuplicateQuestion, ErrExecution, ErrTransport,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
