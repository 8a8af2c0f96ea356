// Package llm wraps the OpenAI chat completion API for simulated-assistant
// message generation.
package llm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const maxTokens = 4000

type Client struct {
	cli    *openai.Client
	model  string
	logger *slog.Logger
}

// NewClient builds a client for the given API key and model. baseURL is
// optional and overrides the OpenAI endpoint (proxies, tests).
func NewClient(apiKey, baseURL, model string, logger *slog.Logger) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &Client{
		cli:    openai.NewClientWithConfig(cfg),
		model:  model,
		logger: logger,
	}
}

// CompleteJSON submits a two-turn prompt — the system turn verbatim, a user
// turn holding free text plus one image — with the reply constrained to a
// single JSON object. The reply is streamed and every delta is accumulated
// into one string, which is returned unparsed.
func (c *Client) CompleteJSON(ctx context.Context, systemPrompt, userText, imageDataURL string) (string, error) {
	parts := []openai.ChatMessagePart{
		{Type: openai.ChatMessagePartTypeText, Text: userText},
	}
	if imageDataURL != "" {
		parts = append(parts, openai.ChatMessagePart{
			Type:     openai.ChatMessagePartTypeImageURL,
			ImageURL: &openai.ChatMessageImageURL{URL: imageDataURL},
		})
	}

	req := openai.ChatCompletionRequest{
		Model:     c.model,
		MaxTokens: maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, MultiContent: parts},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Stream: true,
	}

	c.logger.Info("requesting completion",
		"model", c.model,
		"user_text_len", len(userText),
		"image_len", len(imageDataURL),
	)

	stream, err := c.cli.CreateChatCompletionStream(ctx, req)
	if err != nil {
		return "", fmt.Errorf("open completion stream: %w", err)
	}
	defer stream.Close()

	var b strings.Builder
	for {
		resp, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("read completion stream: %w", err)
		}
		for _, choice := range resp.Choices {
			b.WriteString(choice.Delta.Content)
		}
	}

	c.logger.Info("completion received", "reply_len", b.Len())
	return b.String(), nil
}
