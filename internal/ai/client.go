// Package ai implements the generative collaborators: daily recommendations,
// keyword search, reverse geocoding, and the chat concierge. Responses are
// free text and frequently malformed; callers own all parsing and repair.
package ai

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/citysense/citysense/internal/config"
)

// GenerateOptions tunes a single collaborator call.
type GenerateOptions struct {
	// EnableWebSearch asks the model to prefer current information. Models
	// without browsing treat it as a prompt hint.
	EnableWebSearch bool
}

// Client wraps the OpenAI API as the generative text collaborator.
type Client struct {
	client *openai.Client
	cfg    config.OpenAIConfig
	logger *slog.Logger
}

// New creates a collaborator client.
func New(cfg config.OpenAIConfig, logger *slog.Logger) *Client {
	return &Client{
		client: openai.NewClient(cfg.APIKey),
		cfg:    cfg,
		logger: logger,
	}
}

// Generate sends a single prompt and returns the raw model text. The text is
// untrusted: it may be fenced, truncated, or not JSON at all.
func (c *Client) Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error) {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: systemPrompt(opts)},
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}
	return c.complete(ctx, messages)
}

// DailyRecommendations asks for the day's event feed for a city and interest
// set.
func (c *Client) DailyRecommendations(ctx context.Context, city string, interests []string) (string, error) {
	prompt := dailyRecommendationsPrompt(city, interests)
	return c.Generate(ctx, prompt, GenerateOptions{EnableWebSearch: true})
}

// SearchEvents asks for events matching a free-text query in a city.
func (c *Client) SearchEvents(ctx context.Context, city, query string) (string, error) {
	prompt := searchPrompt(city, query)
	return c.Generate(ctx, prompt, GenerateOptions{EnableWebSearch: true})
}

// CityFromCoordinates resolves a lat/lng pair to a "City, Country" name.
func (c *Client) CityFromCoordinates(ctx context.Context, lat, lng float64) (string, error) {
	prompt := cityFromCoordinatesPrompt(lat, lng)

	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: geocodeSystemPrompt},
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}
	city, err := c.complete(ctx, messages)
	if err != nil {
		return "", err
	}
	return trimCityName(city), nil
}

func (c *Client) complete(ctx context.Context, messages []openai.ChatCompletionMessage) (string, error) {
	start := time.Now()
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.cfg.Model,
		Temperature: c.cfg.Temperature,
		MaxTokens:   c.cfg.MaxTokens,
		Messages:    messages,
	})
	if err != nil {
		return "", fmt.Errorf("chat completion failed: %w", err)
	}
	c.logger.Debug("chat completion finished",
		"model", c.cfg.Model,
		"duration_ms", time.Since(start).Milliseconds(),
		"choices", len(resp.Choices))

	if len(resp.Choices) == 0 {
		return "", nil
	}
	return resp.Choices[0].Message.Content, nil
}
