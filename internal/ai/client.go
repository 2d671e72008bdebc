package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"quant_trader/internal/errs"

	"github.com/go-resty/resty/v2"
)

// maxErrorBody caps how much of an upstream error body ends up in messages.
const maxErrorBody = 512

// OllamaBackend calls a local Ollama server. Used for dex analysis.
type OllamaBackend struct {
	client *resty.Client
	model  string
}

func NewOllamaBackend(baseURL, model string, timeout time.Duration) *OllamaBackend {
	client := resty.New()
	client.SetBaseURL(baseURL)
	client.SetTimeout(timeout)
	client.SetHeader("Content-Type", "application/json")

	return &OllamaBackend{client: client, model: model}
}

func (b *OllamaBackend) Name() string { return "ollama" }

func (b *OllamaBackend) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(ollamaRequest{Model: b.model, Prompt: prompt, Stream: false}).
		Post("/api/generate")
	if err != nil {
		return "", errs.Upstream(err, "failed to get ollama analysis")
	}
	if !resp.IsSuccess() {
		return "", errs.Upstream(statusError(resp), "failed to get ollama analysis")
	}

	var out ollamaResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", errs.Upstream(err, "failed to decode ollama response")
	}
	return out.Response, nil
}

// CompletionsBackend calls an OpenAI-compatible completions endpoint. Used for
// pump analysis.
type CompletionsBackend struct {
	client      *resty.Client
	model       string
	maxTokens   int
	temperature float64
}

type CompletionsOptions struct {
	BaseURL     string
	Model       string
	APIKey      string
	MaxTokens   int
	Temperature float64
	Timeout     time.Duration
}

func NewCompletionsBackend(opts CompletionsOptions) *CompletionsBackend {
	client := resty.New()
	client.SetBaseURL(opts.BaseURL)
	client.SetTimeout(opts.Timeout)
	client.SetHeader("Content-Type", "application/json")
	if opts.APIKey != "" {
		client.SetAuthToken(opts.APIKey)
	}

	return &CompletionsBackend{
		client:      client,
		model:       opts.Model,
		maxTokens:   opts.MaxTokens,
		temperature: opts.Temperature,
	}
}

func (b *CompletionsBackend) Name() string { return "completions" }

func (b *CompletionsBackend) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := b.client.R().
		SetContext(ctx).
		SetBody(completionsRequest{
			Model:       b.model,
			Prompt:      prompt,
			MaxTokens:   b.maxTokens,
			Temperature: b.temperature,
		}).
		Post("/v1/completions")
	if err != nil {
		return "", errs.Upstream(err, "failed to get deepseek analysis")
	}
	if !resp.IsSuccess() {
		return "", errs.Upstream(statusError(resp), "failed to get deepseek analysis")
	}

	var out completionsResponse
	if err := json.Unmarshal(resp.Body(), &out); err != nil {
		return "", errs.Upstream(err, "failed to decode completions response")
	}
	if len(out.Choices) == 0 {
		return "", nil
	}
	return out.Choices[0].Text, nil
}

func statusError(resp *resty.Response) error {
	body := resp.String()
	if len(body) > maxErrorBody {
		body = body[:maxErrorBody] + "..."
	}
	return fmt.Errorf("status %d: %s", resp.StatusCode(), body)
}
