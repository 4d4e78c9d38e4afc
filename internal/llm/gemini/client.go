package gemini

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"google.golang.org/genai"

	"jobmatch-backend/internal/llm"
)

const defaultModel = "gemini-2.5-flash"

type contentGenerator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// Client implements llm.Client on the Gemini API.
type Client struct {
	models    contentGenerator
	model     string
	maxTokens int
}

// NewClient creates a Client configured for the Gemini API backend.
func NewClient(ctx context.Context, cfg llm.Config) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini api key is required", llm.ErrNotConfigured)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}
	return &Client{models: client.Models, model: model, maxTokens: cfg.MaxOutputTokens}, nil
}

// Complete sends the request as a single GenerateContent call.
func (c *Client) Complete(ctx context.Context, req llm.Request) (string, error) {
	if c == nil || c.models == nil {
		return "", fmt.Errorf("%w: gemini client is not initialized", llm.ErrNotConfigured)
	}

	resp, err := c.models.GenerateContent(ctx, c.model, genai.Text(req.Prompt), c.config(req))
	if err != nil {
		if llm.IsTimeout(err) || isDeadlineStatus(err) {
			return "", fmt.Errorf("%w: gemini: %v", llm.ErrServiceTimeout, err)
		}
		return "", fmt.Errorf("%w: gemini: %v", llm.ErrServiceUnavailable, err)
	}
	if resp == nil || len(resp.Candidates) == 0 {
		return "", fmt.Errorf("%w: gemini response has no candidates", llm.ErrMalformedReply)
	}

	var builder strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Text == "" {
				continue
			}
			builder.WriteString(part.Text)
		}
		// first candidate with content wins
		if builder.Len() > 0 {
			break
		}
	}
	return builder.String(), nil
}

func (c *Client) config(req llm.Request) *genai.GenerateContentConfig {
	maxTokens := req.MaxOutputTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}
	temperature := float32(0.2)
	cfg := &genai.GenerateContentConfig{
		Temperature:      &temperature,
		ResponseMIMEType: "application/json",
	}
	if maxTokens > 0 {
		cfg.MaxOutputTokens = int32(maxTokens)
	}
	if strings.TrimSpace(req.System) != "" {
		cfg.SystemInstruction = &genai.Content{
			Role:  genai.RoleUser,
			Parts: []*genai.Part{{Text: req.System}},
		}
	}
	return cfg
}

func isDeadlineStatus(err error) bool {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code == 504 || apiErr.Status == "DEADLINE_EXCEEDED"
	}
	return false
}

var _ llm.Client = (*Client)(nil)
