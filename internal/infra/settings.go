package infra

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/go-homedir"
)

// SettingsFileName is the settings document name inside a settings directory.
const SettingsFileName = "settings.json"

// FileSettingsRepository represents file-persisted settings repository
type FileSettingsRepository struct {
	configPath string // Specific path (empty means search for file)
}

// InMemorySettingsRepository represents in-memory-only settings repository
type InMemorySettingsRepository struct {
	data []byte
}

// NewFileSettingsRepository creates a new file-based settings repository.
// A leading "~" in configPath is expanded to the home directory.
func NewFileSettingsRepository(configPath string) *FileSettingsRepository {
	if expanded, err := homedir.Expand(configPath); err == nil {
		configPath = expanded
	}
	return &FileSettingsRepository{
		configPath: configPath,
	}
}

// NewInMemorySettingsRepository creates a new in-memory settings repository
func NewInMemorySettingsRepository() *InMemorySettingsRepository {
	return &InMemorySettingsRepository{}
}

// Path returns the configured path, or the found one when searching.
func (fr *FileSettingsRepository) Path() string {
	if fr.configPath != "" {
		return fr.configPath
	}
	p, _ := fr.FindSettingsFile()
	return p
}

func (fr *FileSettingsRepository) Load() ([]byte, error) {
	configPath := fr.configPath
	if configPath == "" {
		foundPath, err := fr.FindSettingsFile()
		if err != nil {
			return nil, err
		}
		if foundPath == "" {
			return nil, fmt.Errorf("no settings file found")
		}
		configPath = foundPath
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("settings file does not exist: %s", configPath)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	return data, nil
}

func (fr *FileSettingsRepository) Save(data []byte) error {
	configPath := fr.configPath
	if configPath == "" {
		foundPath, _ := fr.FindSettingsFile()
		if foundPath != "" {
			configPath = foundPath
		} else {
			configPath = filepath.Join(".agents", SettingsFileName)
		}
	}

	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Settings may carry image host credentials
	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write settings file: %w", err)
	}

	return nil
}

// FindSettingsFile searches .agents/settings.json in the current directory,
// then ~/.deskpilot/settings.json. Returns "" when neither exists.
func (fr *FileSettingsRepository) FindSettingsFile() (string, error) {
	currentDirPath := filepath.Join(".agents", SettingsFileName)
	if _, err := os.Stat(currentDirPath); err == nil {
		return currentDirPath, nil
	}

	if home, err := homedir.Dir(); err == nil {
		homeDirPath := filepath.Join(home, ".deskpilot", SettingsFileName)
		if _, err := os.Stat(homeDirPath); err == nil {
			return homeDirPath, nil
		}
	}

	return "", nil
}

func (mr *InMemorySettingsRepository) Load() ([]byte, error) {
	if mr.data == nil {
		return nil, fmt.Errorf("no data stored in memory repository")
	}
	return mr.data, nil
}

func (mr *InMemorySettingsRepository) Save(data []byte) error {
	mr.data = make([]byte, len(data))
	copy(mr.data, data)
	return nil
}

func (mr *InMemorySettingsRepository) FindSettingsFile() (string, error) {
	return "", nil
}
