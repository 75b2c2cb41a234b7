// Package loop drives one task run: screenshot, model call, validation,
// execution, repeated until the model completes, the user exits or the error
// budget is spent.
package loop

import (
	"context"
	"fmt"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/pkg/errors"

	"github.com/fpt/deskpilot/pkg/agent/action"
	"github.com/fpt/deskpilot/pkg/agent/domain"
	"github.com/fpt/deskpilot/pkg/agent/events"
	"github.com/fpt/deskpilot/pkg/agent/state"
	pkgLogger "github.com/fpt/deskpilot/pkg/logger"
	"github.com/fpt/deskpilot/pkg/message"
)

// ErrIterationLimit ends a run that reached the configured iteration cap.
var ErrIterationLimit = errors.New("iteration limit reached")

// Executor performs one validated action.
type Executor interface {
	Execute(ctx context.Context, resp action.Response, conv state.Conversation) (domain.Outcome, error)
}

// Deps are the collaborators of a loop.
type Deps struct {
	Model    domain.ModelClient
	Screen   domain.Screen
	Host     domain.ImageHost
	Prompts  domain.PromptBuilder
	Executor Executor
	// Prompter asks whether to retry after a recoverable error
	Prompter domain.Prompter
}

type Status string

const (
	StatusCompleted Status = "completed"
	StatusExited    Status = "exited"
	StatusFailed    Status = "failed"
)

// Result summarizes a finished run.
type Result struct {
	Status     Status
	Iterations int
	// Errors is the number of recoverable errors counted during the run
	Errors int
	// CompletionStatus is the task_complete payload when Status is completed
	CompletionStatus string
	// Cause is the error that ended a failed run, or the last error before
	// the user declined to retry
	Cause        error
	Conversation state.Conversation
}

// Succeeded reports whether the model completed the task without reporting an error.
func (r Result) Succeeded() bool {
	return r.Status == StatusCompleted && r.CompletionStatus != "error"
}

type Loop struct {
	deps Deps

	maxErrors     int
	modelAttempts int
	retryInterval time.Duration
	maxIterations int

	emitter *events.SimpleEventEmitter
	logger  *pkgLogger.Logger
}

func New(deps Deps, opts ...Option) *Loop {
	l := &Loop{
		deps:          deps,
		maxErrors:     DefaultMaxErrors,
		modelAttempts: DefaultMaxModelAttempts,
		retryInterval: DefaultRetryInterval,
		emitter:       events.NewSimpleEventEmitter(),
		logger:        pkgLogger.NewComponentLogger("loop"),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Events returns the emitter the loop reports progress on.
func (l *Loop) Events() events.EventEmitter {
	return l.emitter
}

// Run executes task until a terminal outcome.
//
// The returned error is non-nil only when the run was cancelled (context
// cancellation or an interrupted prompt). Failures of the task itself are
// reported through Result.
func (l *Loop) Run(ctx context.Context, task string) (Result, error) {
	res := Result{Conversation: state.NewConversation()}

	// handle is the outstanding upload; it is deleted before the next upload
	// and on every exit path
	var handle string
	defer func() {
		// ctx may already be cancelled; cleanup gets its own deadline
		cleanupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), cleanupTimeout)
		defer cancel()
		l.release(cleanupCtx, &handle)
	}()

	for {
		if err := ctx.Err(); err != nil {
			return l.cancelled(res, err)
		}
		if l.maxIterations > 0 && res.Iterations >= l.maxIterations {
			res.Status = StatusFailed
			res.Cause = errors.Wrapf(ErrIterationLimit, "stopped after %d iterations", res.Iterations)
			return res, nil
		}
		res.Iterations++
		l.emitter.SetIteration(res.Iterations, l.maxIterations)
		l.emitter.EmitEvent(events.EventTypeIterationStart, nil)

		l.release(ctx, &handle)

		shot, err := l.deps.Screen.Capture(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return l.cancelled(res, ctx.Err())
			}
			res.Status = StatusFailed
			res.Cause = fmt.Errorf("%w: %v", domain.ErrCapture, err)
			return res, nil
		}

		imageURL := ""
		up, err := l.deps.Host.Upload(ctx, shot)
		switch {
		case err == nil:
			handle = up.Handle
			imageURL = up.URL
		case ctx.Err() != nil:
			return l.cancelled(res, ctx.Err())
		default:
			l.logger.WarnWithIntention(pkgLogger.IntentionUpload, "Image upload failed, continuing without image", "error", err)
			l.emitter.EmitEvent(events.EventTypeUploadFailed, events.UploadFailedData{Error: err})
		}

		text, err := l.deps.Prompts.Turn(res.Conversation.TurnInput(task))
		if err != nil {
			res.Status = StatusFailed
			res.Cause = errors.Wrap(err, "failed to render request turn")
			return res, nil
		}
		request := message.NewRequestMessage(text, imageURL)
		res.Conversation = res.Conversation.WithMessage(request)

		out, err := l.step(ctx, request, &res)
		if err != nil {
			return l.cancelled(res, err)
		}
		l.emitter.EmitEvent(events.EventTypeOutcome, events.OutcomeData{Outcome: out})

		switch out.Kind {
		case domain.OutcomeContinue:
			res.Conversation = res.Conversation.Advance(out)

		case domain.OutcomeComplete:
			res.Status = StatusCompleted
			res.CompletionStatus = out.Status
			return res, nil

		case domain.OutcomeExit:
			res.Status = StatusExited
			return res, nil

		case domain.OutcomeError:
			// The counter is run-scoped: it is never reset by a later success.
			res.Errors++
			res.Cause = out.Err
			l.emitter.EmitEvent(events.EventTypeError, events.ErrorData{Error: out.Err, Count: res.Errors, Limit: l.maxErrors})
			l.logger.ErrorWithIntention(pkgLogger.IntentionError, "Iteration failed", "error", out.Err, "count", res.Errors, "limit", l.maxErrors)

			if res.Errors >= l.maxErrors {
				res.Status = StatusFailed
				return res, nil
			}
			retry, err := l.deps.Prompter.ConfirmRetry(ctx, res.Errors, l.maxErrors)
			if err != nil {
				return l.cancelled(res, err)
			}
			if !retry {
				res.Status = StatusExited
				return res, nil
			}
		}
	}
}

// step asks the model for the next action and executes it. A non-nil error
// means the run was cancelled.
func (l *Loop) step(ctx context.Context, request message.Message, res *Result) (domain.Outcome, error) {
	raw, err := l.complete(ctx, []message.Message{request})
	if err != nil {
		if ctx.Err() != nil {
			return domain.Outcome{}, ctx.Err()
		}
		return domain.Failed(fmt.Errorf("%w: %v", domain.ErrTransport, err)), nil
	}

	reply := message.NewChatMessage(message.MessageTypeAssistant, raw)
	if usageProvider, ok := l.deps.Model.(domain.TokenUsageProvider); ok {
		if usage, ok2 := usageProvider.LastTokenUsage(); ok2 {
			reply.SetTokenUsage(usage.InputTokens, usage.OutputTokens, usage.TotalTokens)
		}
	}
	res.Conversation = res.Conversation.WithMessage(reply)
	l.logger.DebugWithIntention(pkgLogger.IntentionModel, "Raw model response", "raw", raw)

	resp, err := action.Parse(raw)
	if err != nil {
		return domain.Failed(err), nil
	}
	l.emitter.EmitEvent(events.EventTypeModelResponse, events.ModelResponseData{
		Action:    string(resp.Kind()),
		Reasoning: resp.Reasoning,
		Raw:       string(resp.Raw),
	})

	return l.deps.Executor.Execute(ctx, resp, res.Conversation)
}

// complete calls the model with a fixed-interval retry on transport errors.
func (l *Loop) complete(ctx context.Context, turns []message.Message) (string, error) {
	instructions := l.deps.Prompts.Instructions()
	attempt := 0
	op := func() (string, error) {
		attempt++
		raw, err := l.deps.Model.Complete(ctx, instructions, turns)
		if err != nil {
			if ctx.Err() != nil {
				return "", backoff.Permanent(ctx.Err())
			}
			l.logger.WarnWithIntention(pkgLogger.IntentionRetry, "Model request failed",
				"attempt", attempt, "max", l.modelAttempts, "error", err)
			return "", err
		}
		return raw, nil
	}

	raw, err := backoff.Retry(ctx, op,
		backoff.WithBackOff(backoff.NewConstantBackOff(l.retryInterval)),
		backoff.WithMaxTries(uint(l.modelAttempts)),
	)
	if err != nil {
		return "", errors.Wrapf(err, "model request failed after %d attempts", attempt)
	}
	return raw, nil
}

// release deletes the outstanding upload, if any. Failures are logged only.
func (l *Loop) release(ctx context.Context, handle *string) {
	if *handle == "" {
		return
	}
	h := *handle
	*handle = ""
	if err := l.deps.Host.Delete(ctx, h); err != nil {
		l.logger.WarnWithIntention(pkgLogger.IntentionUpload, "Failed to delete uploaded screenshot", "handle", h, "error", err)
		return
	}
	l.logger.DebugWithIntention(pkgLogger.IntentionUpload, "Deleted uploaded screenshot", "handle", h)
}

func (l *Loop) cancelled(res Result, cause error) (Result, error) {
	res.Status = StatusExited
	if !errors.Is(cause, domain.ErrInterrupted) {
		cause = fmt.Errorf("%w: %w", domain.ErrInterrupted, cause)
	}
	res.Cause = cause
	l.logger.InfoWithIntention(pkgLogger.IntentionCancel, "Run cancelled")
	return res, cause
}
