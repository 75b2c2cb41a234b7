package domain

// OutcomeKind classifies the result of one loop iteration.
type OutcomeKind int

const (
	OutcomeContinue OutcomeKind = iota
	OutcomeComplete
	OutcomeExit
	OutcomeError
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeContinue:
		return "continue"
	case OutcomeComplete:
		return "complete"
	case OutcomeExit:
		return "exit"
	case OutcomeError:
		return "error"
	default:
		return "unknown"
	}
}

// Terminal reports whether the kind stops the control loop.
func (k OutcomeKind) Terminal() bool {
	return k == OutcomeComplete || k == OutcomeExit
}

// Outcome is what the executor reports for one action.
type Outcome struct {
	Kind OutcomeKind
	// Reasoning is carried into the next turn on continue.
	Reasoning string
	// Answer holds the user's reply when the action was a question.
	Answer string
	// Asked is set when a confirmation question was accepted this turn.
	Asked bool
	// Status is the task_complete payload ("success" or "error").
	Status string
	// Err is the human-readable cause on OutcomeError.
	Err error
}

func Continue(reasoning string) Outcome {
	return Outcome{Kind: OutcomeContinue, Reasoning: reasoning}
}

func Failed(err error) Outcome {
	return Outcome{Kind: OutcomeError, Err: err}
}
