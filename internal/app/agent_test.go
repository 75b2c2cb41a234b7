package app

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/fpt/deskpilot/internal/config"
	"github.com/fpt/deskpilot/internal/prompt"
	"github.com/fpt/deskpilot/pkg/agent/domain"
	"github.com/fpt/deskpilot/pkg/agent/loop"
	"github.com/fpt/deskpilot/pkg/imagehost/inline"
	pkgLogger "github.com/fpt/deskpilot/pkg/logger"
	"github.com/fpt/deskpilot/pkg/message"
)

type scriptedModel struct {
	replies []string
	calls   int
}

func (m *scriptedModel) Complete(context.Context, string, []message.Message) (string, error) {
	if m.calls >= len(m.replies) {
		return "", errors.New("script exhausted")
	}
	r := m.replies[m.calls]
	m.calls++
	return r, nil
}

func (m *scriptedModel) ModelID() string { return "scripted" }

type blankScreen struct{}

func (blankScreen) Capture(context.Context) (domain.Screenshot, error) {
	return domain.Screenshot{Data: []byte("png"), Width: 1920, Height: 1080}, nil
}

type clickRecorder struct{ clicks [][2]int }

func (g *clickRecorder) ScreenSize(context.Context) (int, int, error) { return 1920, 1080, nil }
func (g *clickRecorder) Click(_ context.Context, x, y int) error {
	g.clicks = append(g.clicks, [2]int{x, y})
	return nil
}
func (g *clickRecorder) RightClick(context.Context, int, int) error  { return nil }
func (g *clickRecorder) DoubleClick(context.Context, int, int) error { return nil }
func (g *clickRecorder) Write(context.Context, string) error         { return nil }

type yesPrompter struct{}

func (yesPrompter) Ask(context.Context, string) (string, error)          { return "yes", nil }
func (yesPrompter) WaitForPaste(context.Context, string) error           { return nil }
func (yesPrompter) ConfirmRetry(context.Context, int, int) (bool, error) { return true, nil }

func newTestAgent(t *testing.T, model *scriptedModel, gui *clickRecorder) (*Agent, *bytes.Buffer) {
	t.Helper()
	prompts, err := prompt.Load(nil)
	if err != nil {
		t.Fatalf("failed to load prompts: %v", err)
	}
	settings := config.GetDefaultSettings()
	settings.Agent.RetryIntervalMs = 0

	out := &bytes.Buffer{}
	a := NewAgent(Components{
		Model:   model,
		GUI:     gui,
		Screen:  blankScreen{},
		Host:    inline.New(),
		Prompts: prompts,
		Close:   func() {},
	}, yesPrompter{}, settings, pkgLogger.NewDiscardLogger(), out)
	return a, out
}

func TestAgentRun_ClickThenComplete(t *testing.T) {
	model := &scriptedModel{replies: []string{
		`{"action":"mouse_click","content":[100,200],"reasoning":"click the icon"}`,
		"```json\n{\"action\":\"task_complete\",\"content\":\"success\",\"reasoning\":\"done\"}\n```",
	}}
	gui := &clickRecorder{}
	a, _ := newTestAgent(t, model, gui)

	res, err := a.Run(context.Background(), "open the app")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.Succeeded() {
		t.Fatalf("expected success, got %+v", res)
	}
	if len(gui.clicks) != 1 || gui.clicks[0] != [2]int{200, 400} {
		t.Errorf("expected one click at (200,400), got %v", gui.clicks)
	}
}

func TestAgentRun_VerbosePrintsTranscript(t *testing.T) {
	model := &scriptedModel{replies: []string{
		`{"action":"task_complete","content":"success","reasoning":"nothing to do"}`,
	}}
	a, out := newTestAgent(t, model, &clickRecorder{})
	a.SetVerbose(true)

	if _, err := a.Run(context.Background(), "noop"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Run transcript") {
		t.Errorf("expected transcript preview, got %q", out.String())
	}
	if !strings.Contains(out.String(), "with screenshot") {
		t.Errorf("expected request turn with screenshot, got %q", out.String())
	}
}

func TestAgentRun_FailsAfterErrorBudget(t *testing.T) {
	model := &scriptedModel{replies: []string{"nope", "still nope", "{}"}}
	a, _ := newTestAgent(t, model, &clickRecorder{})

	res, err := a.Run(context.Background(), "x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Status != loop.StatusFailed || res.Errors != config.DefaultMaxErrors {
		t.Errorf("expected failure after %d errors, got %+v", config.DefaultMaxErrors, res)
	}
}

func TestAgent_SessionID(t *testing.T) {
	a, _ := newTestAgent(t, &scriptedModel{}, &clickRecorder{})
	b, _ := newTestAgent(t, &scriptedModel{}, &clickRecorder{})
	if a.SessionID() == "" || a.SessionID() == b.SessionID() {
		t.Errorf("expected distinct session ids, got %q and %q", a.SessionID(), b.SessionID())
	}
	if a.ModelID() != "scripted" {
		t.Errorf("unexpected model id %q", a.ModelID())
	}
}
