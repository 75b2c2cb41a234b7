package app

import (
	"context"
	"fmt"
	"os"

	"github.com/fpt/deskpilot/internal/config"
	"github.com/fpt/deskpilot/internal/gui/chrome"
	"github.com/fpt/deskpilot/internal/gui/xdotool"
	"github.com/fpt/deskpilot/internal/prompt"
	"github.com/fpt/deskpilot/pkg/agent/domain"
	"github.com/fpt/deskpilot/pkg/client"
	"github.com/fpt/deskpilot/pkg/imagehost/inline"
	"github.com/fpt/deskpilot/pkg/imagehost/smms"
	pkgLogger "github.com/fpt/deskpilot/pkg/logger"
)

// Components are the external collaborators of an Agent.
type Components struct {
	Model   domain.ModelClient
	GUI     domain.GUI
	Screen  domain.Screen
	Host    domain.ImageHost
	Prompts domain.PromptBuilder
	// Scale is the model-to-screen coordinate factor, 0 for the default
	Scale float64
	// Close releases driver resources; never nil
	Close func()
}

// BuildComponents creates the model client, GUI driver, image host and
// prompts selected by settings.
func BuildComponents(ctx context.Context, settings *config.Settings, logger *pkgLogger.Logger) (Components, error) {
	c := Components{Scale: settings.GUI.Scale, Close: func() {}}

	model, err := client.NewModelClient(settings.LLM)
	if err != nil {
		return c, fmt.Errorf("failed to create model client: %w", err)
	}
	c.Model = model

	workingDir, err := os.Getwd()
	if err != nil {
		workingDir = "."
	}
	prompts, err := prompt.Load(prompt.DefaultDirs(workingDir))
	if err != nil {
		return c, fmt.Errorf("failed to load prompts: %w", err)
	}
	c.Prompts = prompts

	switch settings.GUI.Driver {
	case config.DriverChrome:
		d, err := chrome.New(ctx, chrome.Config{
			StartURL: settings.GUI.Chrome.URL,
			Width:    settings.GUI.Chrome.Width,
			Height:   settings.GUI.Chrome.Height,
			Headless: settings.GUI.Chrome.Headless,
		})
		if err != nil {
			return c, err
		}
		c.GUI, c.Screen, c.Close = d, d, d.Close
		// Screenshots are taken at viewport size
		if c.Scale == 0 {
			c.Scale = 1
		}
	default:
		if err := xdotool.CheckTools(); err != nil {
			return c, err
		}
		d := xdotool.New()
		c.GUI, c.Screen = d, d
	}

	switch settings.ImageHost.Backend {
	case config.ImageHostInline:
		c.Host = inline.New()
	default:
		var opts []smms.Option
		if settings.ImageHost.BaseURL != "" {
			opts = append(opts, smms.WithBaseURL(settings.ImageHost.BaseURL))
		}
		host := smms.NewClient(settings.ImageHost.Username, settings.ImageHost.Password, opts...)
		if err := host.Login(ctx); err != nil {
			c.Close()
			return c, fmt.Errorf("failed to log in to SM.MS: %w", err)
		}
		logger.InfoWithIntention(pkgLogger.IntentionUpload, "Logged in to SM.MS")
		c.Host = host
	}

	return c, nil
}
