package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const (
	defaultLMStudioBaseURL = "http://localhost:1234/v1"
	defaultOpenAIBaseURL   = "https://api.openai.com/v1"
)

// OpenAIClient talks to any OpenAI-compatible chat completions API.
type OpenAIClient struct {
	client  openai.Client
	model   string
	baseURL string
}

// NewLMStudioClient creates a client for a local LM Studio server. No real key is
// needed; LMSTUDIO_API_KEY or OPENAI_API_KEY are used when set.
func NewLMStudioClient(model, baseURL string) (*OpenAIClient, error) {
	if baseURL == "" {
		baseURL = defaultLMStudioBaseURL
	}
	apiKey := firstEnv("LMSTUDIO_API_KEY", "OPENAI_API_KEY")
	if apiKey == "" {
		apiKey = "lm-studio"
	}
	return newOpenAICompatible(model, baseURL, apiKey)
}

// NewOpenAIClient creates a client for the OpenAI API. OPENAI_API_KEY must be set.
func NewOpenAIClient(model, baseURL string) (*OpenAIClient, error) {
	if baseURL == "" {
		baseURL = defaultOpenAIBaseURL
	}
	apiKey := firstEnv("OPENAI_API_KEY")
	if apiKey == "" {
		return nil, errors.New("OPENAI_API_KEY is not set")
	}
	return newOpenAICompatible(model, baseURL, apiKey)
}

func newOpenAICompatible(model, baseURL, apiKey string) (*OpenAIClient, error) {
	if strings.TrimSpace(model) == "" {
		return nil, errors.New("model is required")
	}
	return &OpenAIClient{
		client: openai.NewClient(
			option.WithBaseURL(baseURL),
			option.WithAPIKey(apiKey),
		),
		model:   model,
		baseURL: baseURL,
	}, nil
}

// Chat sends messages to the LLM and returns the response.
func (c *OpenAIClient) Chat(ctx context.Context, messages []Message) (string, error) {
	params := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case RoleSystem:
			params[i] = openai.SystemMessage(msg.Content)
		case RoleAssistant:
			params[i] = openai.AssistantMessage(msg.Content)
		default:
			params[i] = openai.UserMessage(msg.Content)
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model:    c.model,
		Messages: params,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}
	return resp.Choices[0].Message.Content, nil
}

// ChatJSON sends messages and parses the response as JSON into the provided type.
func (c *OpenAIClient) ChatJSON(ctx context.Context, messages []Message, result any) error {
	content, err := c.Chat(ctx, messages)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(extractJSON(content)), result); err != nil {
		return fmt.Errorf("parsing JSON response: %w (content: %s)", err, content)
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
