// Package openai classifies payment replies with a chat-completion model.
package openai

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-call-verify/internal/domain"
	"github.com/go-call-verify/internal/pkg/intent"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/packages/param"
)

const systemPrompt = `You classify a phone caller's reply to the question "Can you make the payment in full today?".
Answer with exactly one word: affirmative, negative or unclear.`

// Classifier asks the model for a one-word label. When the request fails it falls back to
// keyword matching so a slow or missing model never stalls a call.
type Classifier struct {
	client *openai.Client
	model  string
}

func NewClassifier(apiKey, baseURL, model string) *Classifier {
	opts := []option.RequestOption{option.WithAPIKey(apiKey)}
	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}
	opts = append(opts, option.WithMaxRetries(1))
	client := openai.NewClient(opts...)
	if model == "" {
		model = openai.ChatModelGPT4oMini
	}
	return &Classifier{client: &client, model: model}
}

func (c *Classifier) Classify(ctx context.Context, text string) (domain.Intent, error) {
	label, err := c.label(ctx, text)
	if err != nil {
		slog.Warn("intent model unavailable, using keywords", "error", err)
		return intent.Classify(text), nil
	}
	return domain.ParseIntent(label), nil
}

func (c *Classifier) label(ctx context.Context, text string) (string, error) {
	resp, err := c.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(text),
		},
		Temperature:         param.NewOpt(0.0),
		MaxCompletionTokens: param.NewOpt(int64(3)),
	})
	if err != nil {
		return "", fmt.Errorf("openai chat: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("openai chat: empty choices")
	}
	return strings.Trim(strings.ToLower(strings.TrimSpace(resp.Choices[0].Message.Content)), ".!"), nil
}
