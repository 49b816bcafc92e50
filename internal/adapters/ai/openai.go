package ai

import (
	"context"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"tokenpulse/internal/adapters/config"
	"tokenpulse/pkg/errors"
	"tokenpulse/pkg/logger"
)

// OpenAIClient implements ChatClient using the official OpenAI Go SDK.
type OpenAIClient struct {
	client      openai.Client
	model       openai.ChatModel
	timeout     time.Duration
	rateLimiter RateLimiter
	hasKey      bool
	log         *logger.Logger
}

// NewOpenAIClient creates a chat client from AI configuration.
// An empty API key is allowed: calls fail with ErrMissingCredential and the
// pipeline degrades to deterministic fallbacks.
func NewOpenAIClient(cfg config.AIConfig) *OpenAIClient {
	model := cfg.Model
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	client := openai.NewClient(
		option.WithAPIKey(cfg.OpenAIKey),
	)

	var configured string
	if cfg.OpenAIKey != "" {
		configured = "live"
	} else {
		configured = "fallback-only"
	}

	return &OpenAIClient{
		client:      client,
		model:       openai.ChatModel(model),
		timeout:     timeout,
		rateLimiter: NewTokenBucketLimiter(cfg.ReqPerMinute, cfg.RequestBurst),
		hasKey:      cfg.OpenAIKey != "",
		log:         logger.Get().With("component", "openai_chat", "model", model, "mode", configured),
	}
}

// Configured reports whether an API key is present.
func (c *OpenAIClient) Configured() bool {
	return c.hasKey
}

// Complete sends a single system+user exchange and returns the assistant text.
func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	if !c.hasKey {
		return "", errors.Wrap(errors.ErrMissingCredential, "OPENAI_API_KEY is not set")
	}

	if err := c.rateLimiter.Wait(ctx); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	params := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.User),
		},
	}

	if req.JSONResponse {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := c.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", errors.Wrap(err, "openai chat completion")
	}

	if len(resp.Choices) == 0 {
		return "", errors.Wrap(errors.ErrMalformedPayload, "openai response has no choices")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", errors.Wrap(errors.ErrMalformedPayload, "openai response content is empty")
	}

	c.log.Debugw("chat completion",
		"prompt_tokens", resp.Usage.PromptTokens,
		"completion_tokens", resp.Usage.CompletionTokens,
	)

	return content, nil
}
