package chat

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	log "log/slog"

	openai "github.com/openai/openai-go/v3"
)

// QuotaMessage is answered instead of an error when the API rate limits us.
const QuotaMessage = "The API quota is exhausted. Please check your account."

const systemPrompt = `
You are homevox, a voice assistant for a smart home.
Your answer will be read aloud by a speech synthesizer.

RULES:
1. Answer in the language of the question.
2. Keep it short: one to three sentences.
3. No markdown, no lists, no code.
`

type Assistant struct {
	client openai.Client
	model  string
}

func NewAssistant(client openai.Client, model string) *Assistant {
	return &Assistant{client: client, model: model}
}

// Ask returns the model's answer to question.
func (a *Assistant) Ask(ctx context.Context, question string) (string, error) {
	resp, err := a.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(question),
		},
		Model: openai.ChatModel(a.model),
	})
	if err != nil {
		var apiErr *openai.Error
		if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusTooManyRequests {
			log.Warn("Rate limited", "err", err)
			return QuotaMessage, nil
		}
		return "", fmt.Errorf("chat completion: %w", err)
	}

	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", fmt.Errorf("empty message content")
	}

	log.Debug("Answered", "data", content)
	return content, nil
}
