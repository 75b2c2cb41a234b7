package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/fpt/deskpilot/internal/config"
	"github.com/fpt/deskpilot/pkg/agent/domain"
	"github.com/fpt/deskpilot/pkg/agent/events"
	"github.com/fpt/deskpilot/pkg/agent/executor"
	"github.com/fpt/deskpilot/pkg/agent/loop"
	"github.com/fpt/deskpilot/pkg/agent/state"
	pkgLogger "github.com/fpt/deskpilot/pkg/logger"
)

// Agent runs desktop tasks with one set of components.
type Agent struct {
	components Components
	settings   *config.Settings
	prompter   domain.Prompter
	logger     *pkgLogger.Logger
	out        io.Writer
	sessionID  string
	verbose    bool
}

// NewAgent wires components into an Agent. Each Run gets a fresh loop.
func NewAgent(components Components, prompter domain.Prompter, settings *config.Settings, logger *pkgLogger.Logger, out io.Writer) *Agent {
	sessionID := uuid.NewString()
	return &Agent{
		components: components,
		settings:   settings,
		prompter:   prompter,
		logger:     logger.WithComponent("agent").WithSession(sessionID),
		out:        out,
		sessionID:  sessionID,
	}
}

// SetVerbose enables the transcript preview after each run.
func (a *Agent) SetVerbose(v bool) { a.verbose = v }

// SessionID identifies this agent in log lines.
func (a *Agent) SessionID() string { return a.sessionID }

// ModelID returns the model identifier.
func (a *Agent) ModelID() string { return a.components.Model.ModelID() }

// OutWriter returns the output writer for summaries.
func (a *Agent) OutWriter() io.Writer {
	if a.out != nil {
		return a.out
	}
	return os.Stdout
}

// Run executes task to completion. The error is non-nil only when the run
// was cancelled; task failures are reported in the Result.
func (a *Agent) Run(ctx context.Context, task string) (loop.Result, error) {
	exec := executor.New(a.components.GUI, a.prompter,
		executor.WithScale(a.components.Scale),
		executor.WithLogger(a.logger.WithComponent("executor")),
	)

	agentSettings := a.settings.Agent
	l := loop.New(loop.Deps{
		Model:    a.components.Model,
		Screen:   a.components.Screen,
		Host:     a.components.Host,
		Prompts:  a.components.Prompts,
		Executor: exec,
		Prompter: a.prompter,
	},
		loop.WithMaxErrors(agentSettings.MaxErrors),
		loop.WithModelRetry(agentSettings.MaxModelAttempts, agentSettings.RetryInterval()),
		loop.WithMaxIterations(agentSettings.MaxIterations),
		loop.WithLogger(a.logger.WithComponent("loop")),
	)
	a.setupEventHandlers(l.Events())

	a.logger.InfoWithIntention(pkgLogger.IntentionTask, "Starting task", "task", task, "model", a.ModelID())
	res, err := l.Run(ctx, task)

	if a.verbose {
		if preview := GetConversationPreview(res.Conversation, 20); preview != "" {
			fmt.Fprint(a.OutWriter(), preview)
		}
	}
	return res, err
}

// GetConversationPreview returns a formatted preview of the last few messages.
func GetConversationPreview(conv state.Conversation, maxMessages int) string {
	messages := conv.Messages()
	if len(messages) == 0 {
		return ""
	}

	startIdx := 0
	if len(messages) > maxMessages {
		startIdx = len(messages) - maxMessages
	}

	var preview strings.Builder
	preview.WriteString("Run transcript:\n")
	preview.WriteString(strings.Repeat("-", 50) + "\n")

	isFirstMessage := true
	for _, msg := range messages[startIdx:] {
		truncated := msg.TruncatedString()
		if truncated == "" {
			continue
		}
		if !isFirstMessage {
			preview.WriteString("\n")
		}
		isFirstMessage = false
		preview.WriteString(truncated + "\n")
	}

	preview.WriteString(strings.Repeat("-", 50) + "\n")
	return preview.String()
}

// setupEventHandlers turns loop events into console lines.
func (a *Agent) setupEventHandlers(emitter events.EventEmitter) {
	emitter.AddHandler(func(event events.AgentEvent) {
		switch event.Type {
		case events.EventTypeIterationStart:
			args := []any{}
			if event.Iteration != nil {
				args = append(args, "step", event.Iteration.Current)
			}
			a.logger.InfoWithIntention(pkgLogger.IntentionScreenshot, "Capturing screen", args...)

		case events.EventTypeModelResponse:
			if data, ok := event.Data.(events.ModelResponseData); ok {
				a.logger.InfoWithIntention(pkgLogger.IntentionReasoning, data.Reasoning, "action", data.Action)
				a.logger.DebugWithIntention(pkgLogger.IntentionModel, "Raw model response", "raw", data.Raw)
			}

		case events.EventTypeError:
			if data, ok := event.Data.(events.ErrorData); ok {
				a.logger.ErrorWithIntention(pkgLogger.IntentionError, "Step failed",
					"error", data.Error, "errors", fmt.Sprintf("%d/%d", data.Count, data.Limit))
			}
		}
	})
}
