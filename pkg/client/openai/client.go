package openai

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"

	"github.com/fpt/deskpilot/pkg/agent/domain"
	"github.com/fpt/deskpilot/pkg/message"
)

const (
	// DefaultBaseURL is the ModelScope OpenAI-compatible inference endpoint
	DefaultBaseURL = "https://api-inference.modelscope.cn/v1"
	DefaultModel   = "Qwen/Qwen2.5-VL-72B-Instruct"
	DefaultTimeout = 30 * time.Second
)

// Config selects the endpoint and model. Empty fields fall back to the
// environment and then to the defaults above.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// OpenAIClient talks to an OpenAI-compatible Chat Completions endpoint.
type OpenAIClient struct {
	client    *openai.Client
	model     string
	maxTokens int

	// Telemetry
	lastUsage message.TokenUsage
}

var (
	_ domain.ModelClient        = (*OpenAIClient)(nil)
	_ domain.TokenUsageProvider = (*OpenAIClient)(nil)
)

// NewOpenAIClient creates a client. The API key comes from cfg or OPENAI_API_KEY.
func NewOpenAIClient(cfg Config) (*OpenAIClient, error) {
	apiKey := cfg.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if apiKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = os.Getenv("OPENAI_BASE_URL")
	}
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	client := openai.NewClient(
		option.WithAPIKey(apiKey),
		option.WithBaseURL(baseURL),
		option.WithRequestTimeout(timeout),
		// The control loop owns the retry policy
		option.WithMaxRetries(0),
	)

	return &OpenAIClient{
		client:    &client,
		model:     model,
		maxTokens: cfg.MaxTokens,
	}, nil
}

func (c *OpenAIClient) ModelID() string { return c.model }

// TokenUsageProvider implementation (best-effort; populated when available)
func (c *OpenAIClient) LastTokenUsage() (message.TokenUsage, bool) {
	if c.lastUsage.TotalTokens != 0 || c.lastUsage.InputTokens != 0 || c.lastUsage.OutputTokens != 0 {
		return c.lastUsage, true
	}
	return message.TokenUsage{}, false
}

// Complete sends the instructions as the system message followed by turns and
// returns the text of the first choice.
func (c *OpenAIClient) Complete(ctx context.Context, instructions string, turns []message.Message) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(c.model),
		Messages: toChatMessages(instructions, turns),
	}
	if c.maxTokens > 0 {
		params.MaxTokens = openai.Int(int64(c.maxTokens))
	}

	c.lastUsage = message.TokenUsage{}
	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("chat completion request failed: %w", err)
	}

	if resp.Usage.TotalTokens > 0 {
		c.lastUsage = message.TokenUsage{
			InputTokens:  int(resp.Usage.PromptTokens),
			OutputTokens: int(resp.Usage.CompletionTokens),
			TotalTokens:  int(resp.Usage.TotalTokens),
		}
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion returned no choices")
	}
	content := resp.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("chat completion returned empty content (finish_reason=%s)", resp.Choices[0].FinishReason)
	}
	return content, nil
}

// toChatMessages converts neutral messages into Chat Completions params.
// Images on user turns are sent as image_url parts ahead of the text.
func toChatMessages(instructions string, turns []message.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(turns)+1)
	if instructions != "" {
		out = append(out, openai.SystemMessage(instructions))
	}

	for _, msg := range turns {
		switch msg.Type() {
		case message.MessageTypeSystem:
			out = append(out, openai.SystemMessage(msg.Content()))
		case message.MessageTypeAssistant:
			out = append(out, openai.AssistantMessage(msg.Content()))
		default:
			images := msg.Images()
			if len(images) == 0 {
				out = append(out, openai.UserMessage(msg.Content()))
				continue
			}
			parts := make([]openai.ChatCompletionContentPartUnionParam, 0, len(images)+1)
			for _, url := range images {
				parts = append(parts, openai.ImageContentPart(openai.ChatCompletionContentPartImageImageURLParam{URL: url}))
			}
			parts = append(parts, openai.TextContentPart(msg.Content()))
			out = append(out, openai.UserMessage(parts))
		}
	}
	return out
}
