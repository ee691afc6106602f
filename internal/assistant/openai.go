package assistant

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAICompleter talks to any OpenAI-compatible chat completion API.
type OpenAICompleter struct {
	client    openai.Client
	model     string
	maxTokens int64
}

// NewOpenAICompleter builds a completer. An empty baseURL uses the OpenAI
// API; an empty model falls back to gpt-4o-mini. The SDK's automatic
// retries are turned off.
func NewOpenAICompleter(apiKey, baseURL, model string, maxTokens int, extra ...option.RequestOption) *OpenAICompleter {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	opts = append(opts, extra...)

	if model == "" {
		model = openai.ChatModelGPT4oMini
	}

	return &OpenAICompleter{
		client:    openai.NewClient(opts...),
		model:     model,
		maxTokens: int64(maxTokens),
	}
}

// Complete implements Completer.
func (o *OpenAICompleter) Complete(ctx context.Context, system, message string) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(message),
		},
	}
	if o.maxTokens > 0 {
		params.MaxTokens = openai.Int(o.maxTokens)
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat completion: %w", ErrEmptyCompletion)
	}
	return resp.Choices[0].Message.Content, nil
}
