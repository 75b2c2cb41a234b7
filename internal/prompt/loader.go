package prompt

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// TemplateMap maps template name (lowercase) to *Template.
type TemplateMap map[string]*Template

// Dir is a prompt override directory and its priority.
type Dir struct {
	Path     string
	Priority int
}

// DefaultDirs returns the override directories in ascending priority:
//
//	~/.deskpilot/prompts/ (priority 1) -> CWD/.agents/prompts/ (priority 2)
func DefaultDirs(workingDir string) []Dir {
	absWorkDir := workingDir
	if !filepath.IsAbs(absWorkDir) {
		if abs, err := filepath.Abs(absWorkDir); err == nil {
			absWorkDir = abs
		}
	}
	var dirs []Dir
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, Dir{Path: filepath.Join(home, ".deskpilot", "prompts"), Priority: 1})
	}
	return append(dirs, Dir{Path: filepath.Join(absWorkDir, ".agents", "prompts"), Priority: 2})
}

// LoadTemplates loads the embedded templates and overlays any same-named
// files found in dirs. Higher priority wins; missing dirs are skipped.
func LoadTemplates(dirs []Dir) (TemplateMap, error) {
	result, err := LoadBuiltinTemplates()
	if err != nil {
		return nil, fmt.Errorf("failed to load built-in templates: %w", err)
	}

	for _, d := range dirs {
		if info, err := os.Stat(d.Path); err != nil || !info.IsDir() {
			continue
		}
		templates, err := LoadTemplatesFromDir(d.Path, d.Priority)
		if err != nil {
			return nil, fmt.Errorf("failed to load templates from %s: %w", d.Path, err)
		}
		for name, t := range templates {
			if existing, ok := result[name]; !ok || t.Priority > existing.Priority {
				result[name] = t
			}
		}
	}

	return result, nil
}

// LoadTemplatesFromDir loads every *.md file directly inside dir.
func LoadTemplatesFromDir(dir string, priority int) (TemplateMap, error) {
	result := make(TemplateMap)

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read prompt directory %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".md" {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		t, err := ParseTemplateMD(data, path, priority)
		if err != nil {
			return nil, err
		}
		result[strings.ToLower(t.Name)] = t
	}

	return result, nil
}

// LoadBuiltinTemplates loads the templates compiled into the binary.
func LoadBuiltinTemplates() (TemplateMap, error) {
	result := make(TemplateMap)

	err := fs.WalkDir(embeddedTemplates, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || filepath.Ext(d.Name()) != ".md" {
			return nil
		}

		data, err := embeddedTemplates.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read embedded template %s: %w", path, err)
		}

		t, err := ParseTemplateMD(data, "embedded:"+path, 0)
		if err != nil {
			return err
		}
		result[strings.ToLower(t.Name)] = t
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
