// Package executor turns one validated action into GUI input or a human prompt.
package executor

import (
	"context"
	"fmt"
	"strings"

	"github.com/pkg/errors"

	"github.com/fpt/deskpilot/pkg/agent/action"
	"github.com/fpt/deskpilot/pkg/agent/coord"
	"github.com/fpt/deskpilot/pkg/agent/domain"
	"github.com/fpt/deskpilot/pkg/agent/state"
	pkgLogger "github.com/fpt/deskpilot/pkg/logger"
)

// Executor dispatches actions. It holds no per-run state; the asked flag is
// read from the conversation passed to Execute.
type Executor struct {
	gui      domain.GUI
	prompter domain.Prompter
	scale    float64
	logger   *pkgLogger.Logger
}

type Option func(*Executor)

// WithScale overrides coord.DefaultScale.
func WithScale(scale float64) Option {
	return func(e *Executor) {
		if scale > 0 {
			e.scale = scale
		}
	}
}

func WithLogger(l *pkgLogger.Logger) Option {
	return func(e *Executor) {
		if l != nil {
			e.logger = l
		}
	}
}

func New(gui domain.GUI, prompter domain.Prompter, opts ...Option) *Executor {
	e := &Executor{
		gui:      gui,
		prompter: prompter,
		scale:    coord.DefaultScale,
		logger:   pkgLogger.NewComponentLogger("executor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute performs resp and reports the outcome.
//
// The error return is reserved for cancellation: a prompt interrupted by the
// user or a cancelled context. Every other failure is an OutcomeError.
func (e *Executor) Execute(ctx context.Context, resp action.Response, conv state.Conversation) (domain.Outcome, error) {
	switch act := resp.Action.(type) {
	case action.Pointer:
		return e.pointer(ctx, act, resp.Reasoning)
	case action.Text:
		switch act.Kind() {
		case action.KindKeyboardInput:
			return e.keyboard(ctx, act.Text, resp.Reasoning)
		case action.KindClipboard:
			return e.clipboard(ctx, act.Text, resp.Reasoning)
		case action.KindQuestion:
			return e.question(ctx, act.Text, resp.Reasoning, conv)
		}
	case action.Complete:
		return domain.Outcome{
			Kind:      domain.OutcomeComplete,
			Reasoning: resp.Reasoning,
			Status:    act.Status,
		}, nil
	}
	return domain.Failed(fmt.Errorf("%w: %q", domain.ErrUnknownAction, resp.Kind())), nil
}

func (e *Executor) pointer(ctx context.Context, act action.Pointer, reasoning string) (domain.Outcome, error) {
	w, h, err := e.gui.ScreenSize(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return domain.Outcome{}, ctx.Err()
		}
		return domain.Failed(fmt.Errorf("%w: screen size: %v", domain.ErrExecution, err)), nil
	}
	x, y := coord.Mapper{Scale: e.scale, Width: w, Height: h}.Map(act.At.X, act.At.Y)

	var label string
	switch act.Kind() {
	case action.KindMouseMove, action.KindMouseClick:
		// mouse_move has always clicked at the target; kept for prompt compatibility
		label = "Click"
		err = e.gui.Click(ctx, x, y)
	case action.KindMouseRightClick:
		label = "Right click"
		err = e.gui.RightClick(ctx, x, y)
	case action.KindMouseDoubleClick:
		label = "Double click"
		err = e.gui.DoubleClick(ctx, x, y)
	default:
		return domain.Failed(fmt.Errorf("%w: %q", domain.ErrUnknownAction, act.Kind())), nil
	}
	if err != nil {
		if ctx.Err() != nil {
			return domain.Outcome{}, ctx.Err()
		}
		e.logger.ErrorWithIntention(pkgLogger.IntentionError, label+" failed", "x", x, "y", y, "error", err)
		return domain.Failed(fmt.Errorf("%w: %s at (%d, %d): %v", domain.ErrExecution, strings.ToLower(label), x, y, err)), nil
	}

	e.logger.InfoWithIntention(pkgLogger.IntentionMouse, label, "x", x, "y", y)
	return domain.Continue(reasoning), nil
}

func (e *Executor) keyboard(ctx context.Context, text, reasoning string) (domain.Outcome, error) {
	if err := e.gui.Write(ctx, text); err != nil {
		if ctx.Err() != nil {
			return domain.Outcome{}, ctx.Err()
		}
		e.logger.ErrorWithIntention(pkgLogger.IntentionError, "Keyboard input failed", "error", err)
		return domain.Failed(fmt.Errorf("%w: keyboard input: %v", domain.ErrExecution, err)), nil
	}
	e.logger.InfoWithIntention(pkgLogger.IntentionKeyboard, "Typed text", "text", text)
	return domain.Continue(reasoning), nil
}

func (e *Executor) clipboard(ctx context.Context, text, reasoning string) (domain.Outcome, error) {
	e.logger.InfoWithIntention(pkgLogger.IntentionClipboard, "Paste suggestion", "text", text)
	if err := e.prompter.WaitForPaste(ctx, text); err != nil {
		if isCancellation(ctx, err) {
			return domain.Outcome{}, err
		}
		return domain.Failed(fmt.Errorf("%w: clipboard prompt: %v", domain.ErrExecution, err)), nil
	}
	return domain.Continue(reasoning), nil
}

func (e *Executor) question(ctx context.Context, q, reasoning string, conv state.Conversation) (domain.Outcome, error) {
	if conv.AskedConfirmation() {
		e.logger.WarnWithIntention(pkgLogger.IntentionWarning, "Model asked a second question", "question", q)
		return domain.Failed(errors.Wrap(domain.ErrDuplicateQuestion, "a confirmation question was already asked")), nil
	}

	answer, err := e.prompter.Ask(ctx, q)
	if err != nil {
		if isCancellation(ctx, err) {
			return domain.Outcome{}, err
		}
		return domain.Failed(fmt.Errorf("%w: question prompt: %v", domain.ErrExecution, err)), nil
	}

	if IsExitAnswer(answer) {
		e.logger.InfoWithIntention(pkgLogger.IntentionCancel, "User ended the task")
		return domain.Outcome{Kind: domain.OutcomeExit, Reasoning: reasoning}, nil
	}

	out := domain.Continue(reasoning)
	out.Asked = true
	out.Answer = answer
	return out, nil
}

// IsExitAnswer reports whether s is "exit" or "quit", ignoring case and
// surrounding whitespace.
func IsExitAnswer(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "exit" || s == "quit"
}

func isCancellation(ctx context.Context, err error) bool {
	return errors.Is(err, domain.ErrInterrupted) || ctx.Err() != nil
}
