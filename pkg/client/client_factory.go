package client

import (
	"github.com/fpt/deskpilot/internal/config"
	"github.com/fpt/deskpilot/pkg/agent/domain"
	"github.com/fpt/deskpilot/pkg/client/openai"
)

// NewModelClient creates the vision model client from settings. The API key
// is taken from OPENAI_API_KEY.
func NewModelClient(settings config.LLMSettings) (domain.ModelClient, error) {
	return openai.NewOpenAIClient(openai.Config{
		BaseURL:   settings.BaseURL,
		Model:     settings.Model,
		MaxTokens: settings.MaxTokens,
		Timeout:   settings.Timeout(),
	})
}
