package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/chzyer/readline"
	"github.com/manifoldco/promptui"

	"github.com/fpt/deskpilot/pkg/agent/domain"
)

type scriptedReader struct {
	lines   []string
	err     error
	prompts []string
}

func (r *scriptedReader) SetPrompt(p string) { r.prompts = append(r.prompts, p) }

func (r *scriptedReader) Readline() (string, error) {
	if len(r.lines) == 0 {
		if r.err != nil {
			return "", r.err
		}
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func (r *scriptedReader) Close() error { return nil }

func newTestPrompter(lines ...string) (*TerminalPrompter, *scriptedReader, *bytes.Buffer) {
	rl := &scriptedReader{lines: lines}
	out := &bytes.Buffer{}
	return &TerminalPrompter{
		rl:      rl,
		out:     out,
		confirm: func(string) (bool, error) { return true, nil },
	}, rl, out
}

func TestReadTask_SkipsBlankLines(t *testing.T) {
	p, _, _ := newTestPrompter("", "   ", "  open the browser  ")
	task, err := p.ReadTask(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if task != "open the browser" {
		t.Errorf("unexpected task %q", task)
	}
}

func TestReadTask_ExitWords(t *testing.T) {
	for _, word := range []string{"exit", "QUIT"} {
		p, _, _ := newTestPrompter(word)
		if _, err := p.ReadTask(context.Background()); !errors.Is(err, domain.ErrInterrupted) {
			t.Errorf("%s: expected ErrInterrupted, got %v", word, err)
		}
	}
}

func TestAsk_PrintsQuestionAndTrimsAnswer(t *testing.T) {
	p, rl, out := newTestPrompter(" yes please ")
	answer, err := p.Ask(context.Background(), "Delete the file?")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if answer != "yes please" {
		t.Errorf("unexpected answer %q", answer)
	}
	if !strings.Contains(out.String(), "Delete the file?") {
		t.Errorf("question not shown: %q", out.String())
	}
	if len(rl.prompts) != 1 {
		t.Errorf("expected one prompt, got %v", rl.prompts)
	}
}

func TestWaitForPaste_ShowsText(t *testing.T) {
	p, _, out := newTestPrompter("")
	if err := p.WaitForPaste(context.Background(), "Hello, world!"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Hello, world!") {
		t.Errorf("paste text not shown: %q", out.String())
	}
}

func TestInterruptMapsToErrInterrupted(t *testing.T) {
	p, rl, _ := newTestPrompter()
	rl.err = readline.ErrInterrupt
	if _, err := p.Ask(context.Background(), "q"); !errors.Is(err, domain.ErrInterrupted) {
		t.Errorf("expected ErrInterrupted on Ctrl+C, got %v", err)
	}

	p, _, _ = newTestPrompter() // EOF
	if err := p.WaitForPaste(context.Background(), "x"); !errors.Is(err, domain.ErrInterrupted) {
		t.Errorf("expected ErrInterrupted on EOF, got %v", err)
	}
}

func TestCancelledContextSkipsRead(t *testing.T) {
	p, rl, _ := newTestPrompter("never read")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Ask(ctx, "q"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if len(rl.lines) != 1 {
		t.Error("line was consumed despite cancelled context")
	}
	if _, err := p.ConfirmRetry(ctx, 1, 3); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled from ConfirmRetry, got %v", err)
	}
}

func TestConfirmRetry_Label(t *testing.T) {
	p, _, _ := newTestPrompter()
	var label string
	p.confirm = func(l string) (bool, error) { label = l; return false, nil }

	ok, err := p.ConfirmRetry(context.Background(), 2, 3)
	if err != nil || ok {
		t.Fatalf("expected (false, nil), got (%v, %v)", ok, err)
	}
	if label != "Retry? (2/3 errors)" {
		t.Errorf("unexpected label %q", label)
	}
}

func TestInputError(t *testing.T) {
	for _, err := range []error{readline.ErrInterrupt, io.EOF, promptui.ErrInterrupt, promptui.ErrEOF} {
		if !errors.Is(inputError(err), domain.ErrInterrupted) {
			t.Errorf("%v: expected ErrInterrupted", err)
		}
	}
	other := errors.New("tty gone")
	if inputError(other) != other {
		t.Error("unrelated errors must pass through")
	}
}
