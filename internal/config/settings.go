package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"

	"github.com/fpt/deskpilot/internal/infra"
	"github.com/fpt/deskpilot/internal/repository"
	"github.com/fpt/deskpilot/pkg/client/openai"
	pkgLogger "github.com/fpt/deskpilot/pkg/logger"
)

// Default agent budgets
const (
	DefaultMaxErrors        = 3
	DefaultMaxModelAttempts = 3
	DefaultRetryIntervalMs  = 1000
	DefaultMaxIterations    = 50
)

// Image host backends
const (
	ImageHostSMMS   = "smms"
	ImageHostInline = "inline"
)

// GUI drivers
const (
	DriverXdotool = "xdotool"
	DriverChrome  = "chrome"
)

// Settings represents the main application settings
type Settings struct {
	LLM       LLMSettings       `json:"llm"`
	ImageHost ImageHostSettings `json:"image_host"`
	GUI       GUISettings       `json:"gui"`
	Agent     AgentSettings     `json:"agent"`

	// Repository for persistence (nil for in-memory only)
	settingsRepository repository.SettingsRepository `json:"-"`
}

// LLMSettings contains the vision model client configuration. The API key is
// only ever read from OPENAI_API_KEY.
type LLMSettings struct {
	Model          string `json:"model"`
	BaseURL        string `json:"base_url,omitempty"`
	MaxTokens      int    `json:"max_tokens,omitempty"` // 0 = provider default
	TimeoutSeconds int    `json:"timeout_seconds,omitempty"`
}

// Timeout returns the per-request timeout, zero meaning the client default.
func (s LLMSettings) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

// ImageHostSettings selects where screenshots are published for the model.
type ImageHostSettings struct {
	Backend  string `json:"backend"` // "smms" or "inline"
	BaseURL  string `json:"base_url,omitempty"`
	Username string `json:"username,omitempty"`
	Password string `json:"password,omitempty"`
}

// GUISettings selects the input/screen driver.
type GUISettings struct {
	Driver string         `json:"driver"` // "xdotool" or "chrome"
	Scale  float64        `json:"scale,omitempty"`
	Chrome ChromeSettings `json:"chrome,omitempty"`
}

type ChromeSettings struct {
	URL      string `json:"url,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Headless bool   `json:"headless,omitempty"`
}

// AgentSettings contains control loop budgets
type AgentSettings struct {
	MaxErrors        int    `json:"max_errors"`
	MaxModelAttempts int    `json:"max_model_attempts"`
	RetryIntervalMs  int    `json:"retry_interval_ms"`
	MaxIterations    int    `json:"max_iterations"`
	LogLevel         string `json:"log_level"`
}

func (s AgentSettings) RetryInterval() time.Duration {
	return time.Duration(s.RetryIntervalMs) * time.Millisecond
}

// NewSettings creates new settings with in-memory repository
func NewSettings() *Settings {
	return NewSettingsWithRepository(infra.NewInMemorySettingsRepository())
}

// NewSettingsWithRepository creates new settings with injected repository
func NewSettingsWithRepository(settingsRepository repository.SettingsRepository) *Settings {
	settings := GetDefaultSettings()
	settings.settingsRepository = settingsRepository
	return settings
}

// NewSettingsWithPath creates new settings with file-based repository
func NewSettingsWithPath(configPath string) *Settings {
	return NewSettingsWithRepository(infra.NewFileSettingsRepository(configPath))
}

// Load loads settings from the repository
func (s *Settings) Load() error {
	if s.settingsRepository == nil {
		return fmt.Errorf("no settings repository configured")
	}

	data, err := s.settingsRepository.Load()
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	if err := json.Unmarshal(data, s); err != nil {
		return fmt.Errorf("failed to parse settings: %w", err)
	}

	applyDefaults(s)
	return nil
}

// Save saves settings to the repository
func (s *Settings) Save() error {
	if s.settingsRepository == nil {
		return fmt.Errorf("no settings repository configured")
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal settings: %w", err)
	}

	return s.settingsRepository.Save(data)
}

// LoadSettings loads application settings from a JSON file. With an empty
// path it searches .agents/settings.json then ~/.deskpilot/settings.json and
// creates a default file when neither exists. Environment overrides are
// applied last.
func LoadSettings(configPath string) (*Settings, error) {
	repo := infra.NewFileSettingsRepository(configPath)
	settings := NewSettingsWithRepository(repo)

	if configPath == "" {
		foundPath, _ := repo.FindSettingsFile()
		if foundPath == "" {
			created := createDefaultSettingsFile()
			ApplyEnv(created)
			return created, nil
		}
	}

	if err := settings.Load(); err != nil {
		if configPath == "" {
			return nil, err
		}
		if _, statErr := os.Stat(repo.Path()); statErr == nil {
			// File exists but is unreadable or malformed
			return nil, err
		}
		settings = createSettingsFileAtPath(configPath)
	}

	ApplyEnv(settings)
	return settings, nil
}

// ApplyEnv overlays environment variables on top of file settings.
func ApplyEnv(s *Settings) {
	if v := os.Getenv("OPENAI_BASE_URL"); v != "" {
		s.LLM.BaseURL = v
	}
	if v := os.Getenv("SMMS_USERNAME"); v != "" {
		s.ImageHost.Username = v
	}
	if v := os.Getenv("SMMS_PASSWORD"); v != "" {
		s.ImageHost.Password = v
	}
}

// GetDefaultSettings returns default application settings
func GetDefaultSettings() *Settings {
	return &Settings{
		LLM: LLMSettings{
			Model:          openai.DefaultModel,
			BaseURL:        openai.DefaultBaseURL,
			TimeoutSeconds: int(openai.DefaultTimeout / time.Second),
		},
		ImageHost: ImageHostSettings{
			Backend: ImageHostSMMS,
		},
		GUI: GUISettings{
			Driver: DriverXdotool,
		},
		Agent: AgentSettings{
			MaxErrors:        DefaultMaxErrors,
			MaxModelAttempts: DefaultMaxModelAttempts,
			RetryIntervalMs:  DefaultRetryIntervalMs,
			MaxIterations:    DefaultMaxIterations,
			LogLevel:         "info",
		},
	}
}

// applyDefaults fills in missing fields with default values
func applyDefaults(settings *Settings) {
	defaults := GetDefaultSettings()

	if settings.LLM.Model == "" {
		settings.LLM.Model = defaults.LLM.Model
	}
	if settings.LLM.BaseURL == "" {
		settings.LLM.BaseURL = defaults.LLM.BaseURL
	}
	if settings.LLM.TimeoutSeconds == 0 {
		settings.LLM.TimeoutSeconds = defaults.LLM.TimeoutSeconds
	}

	if settings.ImageHost.Backend == "" {
		settings.ImageHost.Backend = defaults.ImageHost.Backend
	}
	if settings.GUI.Driver == "" {
		settings.GUI.Driver = defaults.GUI.Driver
	}

	if settings.Agent.MaxErrors == 0 {
		settings.Agent.MaxErrors = defaults.Agent.MaxErrors
	}
	if settings.Agent.MaxModelAttempts == 0 {
		settings.Agent.MaxModelAttempts = defaults.Agent.MaxModelAttempts
	}
	if settings.Agent.MaxIterations == 0 {
		settings.Agent.MaxIterations = defaults.Agent.MaxIterations
	}
	if settings.Agent.LogLevel == "" {
		settings.Agent.LogLevel = defaults.Agent.LogLevel
	}
}

// ValidateSettings validates the settings configuration
func ValidateSettings(settings *Settings) error {
	if settings.LLM.Model == "" {
		return fmt.Errorf("LLM model is required")
	}
	if os.Getenv("OPENAI_API_KEY") == "" {
		return fmt.Errorf("OpenAI-compatible API key is required (set OPENAI_API_KEY environment variable)")
	}
	if settings.LLM.MaxTokens < 0 {
		return fmt.Errorf("max_tokens must not be negative")
	}
	if settings.LLM.TimeoutSeconds < 0 {
		return fmt.Errorf("timeout_seconds must not be negative")
	}

	switch settings.ImageHost.Backend {
	case ImageHostSMMS:
		if settings.ImageHost.Username == "" || settings.ImageHost.Password == "" {
			return fmt.Errorf("SM.MS credentials are required (set SMMS_USERNAME and SMMS_PASSWORD or use the inline image host)")
		}
	case ImageHostInline:
	default:
		return fmt.Errorf("unsupported image host backend: %s (must be '%s' or '%s')", settings.ImageHost.Backend, ImageHostSMMS, ImageHostInline)
	}

	switch settings.GUI.Driver {
	case DriverXdotool, DriverChrome:
	default:
		return fmt.Errorf("unsupported GUI driver: %s (must be '%s' or '%s')", settings.GUI.Driver, DriverXdotool, DriverChrome)
	}
	if settings.GUI.Scale < 0 {
		return fmt.Errorf("gui scale must not be negative")
	}

	if settings.Agent.MaxErrors <= 0 {
		return fmt.Errorf("max_errors must be positive")
	}
	if settings.Agent.MaxModelAttempts <= 0 {
		return fmt.Errorf("max_model_attempts must be positive")
	}
	if settings.Agent.MaxIterations <= 0 {
		return fmt.Errorf("max_iterations must be positive")
	}
	if settings.Agent.RetryIntervalMs < 0 {
		return fmt.Errorf("retry_interval_ms must not be negative")
	}
	if pkgLogger.ParseLogLevel(settings.Agent.LogLevel) != pkgLogger.LogLevel(settings.Agent.LogLevel) {
		return fmt.Errorf("unsupported log level: %s", settings.Agent.LogLevel)
	}

	return nil
}

// DataDir returns ~/.deskpilot.
func DataDir() (string, error) {
	home, err := homedir.Dir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".deskpilot"), nil
}

// HistoryFile returns the readline history path, creating its directory.
func HistoryFile() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create %s: %w", dir, err)
	}
	return filepath.Join(dir, "history.txt"), nil
}

// createDefaultSettingsFile creates a default settings.json in ~/.deskpilot/
func createDefaultSettingsFile() *Settings {
	dir, err := DataDir()
	if err != nil {
		return GetDefaultSettings()
	}
	return createSettingsFileAtPath(filepath.Join(dir, infra.SettingsFileName))
}

// createSettingsFileAtPath writes default settings to settingsPath. Failure
// to write is not fatal; defaults are returned without a backing file.
func createSettingsFileAtPath(settingsPath string) *Settings {
	settings := NewSettingsWithPath(settingsPath)

	if err := settings.Save(); err != nil {
		pkgLogger.NewComponentLogger("settings").WarnWithIntention(pkgLogger.IntentionWarning, "Could not create settings file", "path", settingsPath, "error", err)
		return GetDefaultSettings()
	}

	log := pkgLogger.NewComponentLogger("settings")
	log.InfoWithIntention(pkgLogger.IntentionConfig, "Created default settings file", "path", settingsPath)
	log.InfoWithIntention(pkgLogger.IntentionStatus, "You can edit this file to customize your configuration")

	return settings
}
