package prompt

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/fpt/deskpilot/pkg/agent/domain"
)

// Builder renders prompts from loaded templates. It implements
// domain.PromptBuilder.
type Builder struct {
	instructions string
	turn         *template.Template
}

var _ domain.PromptBuilder = (*Builder)(nil)

// NewBuilder compiles the instructions and turn templates from templates.
// The instructions are rendered once here since they never change within a run.
func NewBuilder(templates TemplateMap) (*Builder, error) {
	instrSrc, ok := templates[InstructionsName]
	if !ok {
		return nil, fmt.Errorf("prompt template %q not found", InstructionsName)
	}
	turnSrc, ok := templates[TurnName]
	if !ok {
		return nil, fmt.Errorf("prompt template %q not found", TurnName)
	}

	instr, err := template.New(InstructionsName).Funcs(templateFuncs).Parse(instrSrc.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", instrSrc.SourcePath, err)
	}
	turn, err := template.New(TurnName).Funcs(templateFuncs).Option("missingkey=error").Parse(turnSrc.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", turnSrc.SourcePath, err)
	}

	schema, err := ResponseSchema()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := instr.Execute(&buf, struct {
		Schema string
		Kinds  []string
	}{schema, kindNames()}); err != nil {
		return nil, fmt.Errorf("failed to render %s: %w", instrSrc.SourcePath, err)
	}

	return &Builder{
		instructions: strings.TrimSpace(buf.String()),
		turn:         turn,
	}, nil
}

// Load builds a Builder from the embedded templates overlaid with dirs.
func Load(dirs []Dir) (*Builder, error) {
	templates, err := LoadTemplates(dirs)
	if err != nil {
		return nil, err
	}
	return NewBuilder(templates)
}

func (b *Builder) Instructions() string {
	return b.instructions
}

func (b *Builder) Turn(in domain.TurnInput) (string, error) {
	var buf bytes.Buffer
	if err := b.turn.Execute(&buf, in); err != nil {
		return "", fmt.Errorf("failed to render turn prompt: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
