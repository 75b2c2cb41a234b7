// Package prompt owns the instruction and request text sent to the model.
// The text is a data asset: Markdown files with YAML front matter, embedded
// in the binary and overridable from disk.
package prompt

import (
	"fmt"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	InstructionsName = "instructions"
	TurnName         = "turn"
)

// Template is a parsed prompt file.
type Template struct {
	Name        string // from front matter or file name
	Description string
	Body        string // text/template source after the front matter
	SourcePath  string // filesystem path or "embedded:<path>"
	Priority    int    // 0=embedded, 1=personal, 2=project
}

type frontmatter struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
}

// ParseTemplateMD parses a prompt file: optional YAML front matter between
// "---" delimiters, then the template body.
func ParseTemplateMD(data []byte, sourcePath string, priority int) (*Template, error) {
	content := string(data)
	t := &Template{SourcePath: sourcePath, Priority: priority}

	trimmed := strings.TrimLeft(content, " \t\n\r")
	if !strings.HasPrefix(trimmed, "---") {
		t.Body = content
		t.Name = nameFromPath(sourcePath)
		return t, nil
	}

	afterFirst := trimmed[3:]
	idx := strings.Index(afterFirst, "\n")
	if idx < 0 {
		// Only a delimiter, no body
		t.Name = nameFromPath(sourcePath)
		return t, nil
	}
	afterFirst = afterFirst[idx+1:]

	if strings.HasPrefix(afterFirst, "---") {
		// Empty front matter
		afterFirst = "\n" + afterFirst
	}
	closingIdx := strings.Index(afterFirst, "\n---")
	if closingIdx < 0 {
		// No closing delimiter: the whole file is the body
		t.Body = content
		t.Name = nameFromPath(sourcePath)
		return t, nil
	}

	yamlBlock := afterFirst[:closingIdx]
	rest := afterFirst[closingIdx+4:] // skip \n---
	if nl := strings.Index(rest, "\n"); nl >= 0 {
		t.Body = rest[nl+1:]
	}

	var fm frontmatter
	if err := yaml.Unmarshal([]byte(yamlBlock), &fm); err != nil {
		return nil, fmt.Errorf("failed to parse front matter of %s: %w", sourcePath, err)
	}
	t.Name = fm.Name
	t.Description = fm.Description
	if t.Name == "" {
		t.Name = nameFromPath(sourcePath)
	}
	return t, nil
}

// nameFromPath maps ".../turn.md" or "embedded:templates/turn.md" to "turn"
func nameFromPath(p string) string {
	p = strings.TrimPrefix(p, "embedded:")
	return strings.TrimSuffix(filepath.Base(p), filepath.Ext(p))
}
