package app

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/manifoldco/promptui"
	"github.com/pkg/errors"

	"github.com/fpt/deskpilot/pkg/agent/domain"
	"github.com/fpt/deskpilot/pkg/agent/executor"
)

// lineReader is the part of *readline.Instance the prompter uses.
type lineReader interface {
	SetPrompt(prompt string)
	Readline() (string, error)
	Close() error
}

// confirmFunc asks a yes/no question.
type confirmFunc func(label string) (bool, error)

// TerminalPrompter implements domain.Prompter on an interactive terminal.
// Free text goes through readline; yes/no questions through promptui.
type TerminalPrompter struct {
	rl      lineReader
	confirm confirmFunc
	out     io.Writer
}

var _ domain.Prompter = (*TerminalPrompter)(nil)

// NewTerminalPrompter opens a readline session. historyFile may be empty.
func NewTerminalPrompter(historyFile string, out io.Writer) (*TerminalPrompter, error) {
	rl, err := readline.NewEx(&readline.Config{
		Prompt:              "> ",
		HistoryFile:         historyFile,
		InterruptPrompt:     "^C",
		EOFPrompt:           "exit",
		HistorySearchFold:   true,
		HistoryLimit:        500,
		FuncFilterInputRune: filterInput,
		Stdout:              out,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize terminal input: %w", err)
	}
	return &TerminalPrompter{rl: rl, confirm: promptConfirm, out: out}, nil
}

func (p *TerminalPrompter) Close() error {
	return p.rl.Close()
}

// ReadTask asks for the task description. An empty line asks again;
// "exit" or "quit" returns domain.ErrInterrupted.
func (p *TerminalPrompter) ReadTask(ctx context.Context) (string, error) {
	for {
		line, err := p.readLine(ctx, "📝 Task> ")
		if err != nil {
			return "", err
		}
		task := strings.TrimSpace(line)
		if task == "" {
			continue
		}
		if executor.IsExitAnswer(task) {
			return "", domain.ErrInterrupted
		}
		return task, nil
	}
}

func (p *TerminalPrompter) Ask(ctx context.Context, question string) (string, error) {
	fmt.Fprintf(p.out, "❓ %s\n", question)
	line, err := p.readLine(ctx, "💬 Answer> ")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (p *TerminalPrompter) WaitForPaste(ctx context.Context, text string) error {
	fmt.Fprintln(p.out, "📋 Paste the following text where it belongs:")
	fmt.Fprintln(p.out, text)
	_, err := p.readLine(ctx, "⏎ Press Enter when done ")
	return err
}

func (p *TerminalPrompter) ConfirmRetry(ctx context.Context, attempt, max int) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	return p.confirm(fmt.Sprintf("Retry? (%d/%d errors)", attempt, max))
}

func (p *TerminalPrompter) readLine(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.rl.SetPrompt(prompt)
	line, err := p.rl.Readline()
	if err != nil {
		return "", inputError(err)
	}
	return line, nil
}

// promptConfirm runs a promptui y/N confirmation. Declining is not an error.
func promptConfirm(label string) (bool, error) {
	prompt := promptui.Prompt{
		Label:     label,
		IsConfirm: true,
	}
	_, err := prompt.Run()
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, promptui.ErrAbort):
		return false, nil
	default:
		return false, inputError(err)
	}
}

// inputError maps terminal aborts onto domain.ErrInterrupted.
func inputError(err error) error {
	if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) ||
		errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
		return domain.ErrInterrupted
	}
	return err
}

// filterInput drops Ctrl+Z so it cannot suspend the agent mid-run.
func filterInput(r rune) (rune, bool) {
	switch r {
	case readline.CharCtrlZ:
		return r, false
	}
	return r, true
}
