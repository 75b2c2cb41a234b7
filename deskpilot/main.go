package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/fpt/deskpilot/internal/app"
	"github.com/fpt/deskpilot/internal/config"
	"github.com/fpt/deskpilot/pkg/agent/domain"
	pkgLogger "github.com/fpt/deskpilot/pkg/logger"
)

// resolveStringFlag returns the non-empty value, preferring short flag over long flag
func resolveStringFlag(shortVal, longVal string) string {
	if shortVal != "" {
		return shortVal
	}
	return longVal
}

func printUsage() {
	fmt.Println("deskpilot - drives the desktop with a vision model until a task is done")
	fmt.Println()
	fmt.Println("Each step captures the screen, asks the model for one JSON action and")
	fmt.Println("performs it with the mouse or keyboard. Three errors end the run.")
	fmt.Println()
	fmt.Println("Environment:")
	fmt.Println("  OPENAI_API_KEY          API key for the OpenAI-compatible endpoint (required)")
	fmt.Println("  OPENAI_BASE_URL         Endpoint override")
	fmt.Println("  SMMS_USERNAME           SM.MS account for screenshot hosting")
	fmt.Println("  SMMS_PASSWORD")
	fmt.Println()
	fmt.Println("Prompts are loaded from:")
	fmt.Println("  Built-in (embedded)     Default instruction and turn templates")
	fmt.Println("  ~/.deskpilot/prompts/   Personal overrides")
	fmt.Println("  .agents/prompts/        Project overrides")
	fmt.Println()
	fmt.Println("Examples:")
	fmt.Println("  deskpilot                                  # Ask for the task interactively")
	fmt.Println("  deskpilot \"Open the calculator\"            # Task from arguments")
	fmt.Println("  deskpilot -d chrome \"Search for kittens\"   # Drive a browser tab instead")
	fmt.Println("  deskpilot -v \"Empty the trash\"             # Debug logging and transcript")
	fmt.Println()
}

func main() {
	os.Exit(run())
}

func run() int {
	var model = flag.String("m", "", "Model name to use")
	var modelLong = flag.String("model", "", "Model name to use")
	var settingsPath = flag.String("settings", "", "Path to settings file")
	var driver = flag.String("d", "", "GUI driver (xdotool or chrome)")
	var driverLong = flag.String("driver", "", "GUI driver (xdotool or chrome)")
	var verbose = flag.Bool("v", false, "Enable verbose logging (debug level) and print the run transcript")
	var verboseLong = flag.Bool("verbose", false, "Enable verbose logging (debug level) and print the run transcript")
	var help = flag.Bool("h", false, "Show this help message")
	var helpLong = flag.Bool("help", false, "Show this help message")

	flag.Usage = func() {
		printUsage()
		fmt.Println("Flags:")
		flag.PrintDefaults()
	}
	flag.Parse()

	if *help || *helpLong {
		flag.Usage()
		return 0
	}

	resolvedModel := resolveStringFlag(*model, *modelLong)
	resolvedDriver := resolveStringFlag(*driver, *driverLong)
	resolvedVerbose := *verbose || *verboseLong

	settings, err := config.LoadSettings(*settingsPath)
	if err != nil {
		fmt.Printf("Warning: failed to load settings: %v\n", err)
		settings = config.GetDefaultSettings()
		config.ApplyEnv(settings)
	}

	logLevel := pkgLogger.ParseLogLevel(settings.Agent.LogLevel)
	if resolvedVerbose {
		logLevel = pkgLogger.LogLevelDebug
	}
	out := os.Stdout
	pkgLogger.SetGlobalLoggerWithConsoleWriter(logLevel, out)
	logger := pkgLogger.NewLoggerWithConsoleWriter(logLevel, out)
	if resolvedVerbose {
		logger.DebugWithIntention(pkgLogger.IntentionStatistics, "Verbose logging enabled", "log_file", pkgLogger.LogFilePath())
	}

	if resolvedModel != "" {
		settings.LLM.Model = resolvedModel
	}
	if resolvedDriver != "" {
		settings.GUI.Driver = resolvedDriver
	}

	if err := config.ValidateSettings(settings); err != nil {
		logger.Error("Settings validation failed", "error", err)
		return 1
	}

	historyFile, err := config.HistoryFile()
	if err != nil {
		logger.DebugWithIntention(pkgLogger.IntentionWarning, "Input history disabled", "error", err)
	}
	prompter, err := app.NewTerminalPrompter(historyFile, out)
	if err != nil {
		logger.Error("Failed to initialize terminal", "error", err)
		return 1
	}
	defer prompter.Close()

	// SIGINT cancels the run; prompts handle Ctrl+C themselves
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)
	go func() {
		select {
		case <-sigChan:
			fmt.Fprintln(out)
			cancel()
		case <-ctx.Done():
		}
	}()

	task := strings.TrimSpace(strings.Join(flag.Args(), " "))
	if task == "" {
		task, err = prompter.ReadTask(ctx)
		if err != nil {
			if errors.Is(err, domain.ErrInterrupted) || errors.Is(err, context.Canceled) {
				fmt.Fprintln(out, "👋 Goodbye!")
				return 0
			}
			logger.Error("Failed to read task", "error", err)
			return 1
		}
	}

	components, err := app.BuildComponents(ctx, settings, logger)
	if err != nil {
		logger.Error("Failed to initialize", "error", err)
		return 1
	}
	defer components.Close()

	agent := app.NewAgent(components, prompter, settings, logger, out)
	agent.SetVerbose(resolvedVerbose)

	app.WriteBanner(out, app.BannerInfo{
		Model:   agent.ModelID(),
		Driver:  settings.GUI.Driver,
		Host:    settings.ImageHost.Backend,
		Session: agent.SessionID(),
	}, app.TerminalWidth(), true)

	res, err := agent.Run(ctx, task)
	if err != nil {
		fmt.Fprintln(out, "🔄 Task cancelled.")
		return 130
	}

	app.WriteResult(out, res)
	fmt.Fprintln(out, app.FormatUsage(res, settings.Agent.MaxErrors, app.TerminalWidth()))
	if !res.Succeeded() {
		return 1
	}
	return 0
}
