package ai

import "context"

// Backend is an external text-generation service. Generate returns the raw
// model text for prompt; any non-success response is an UpstreamError.
type Backend interface {
	Name() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// ollamaRequest is the payload for Ollama's /api/generate.
type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response string `json:"response"`
}

// completionsRequest is the payload for an OpenAI-style /v1/completions server
// (vLLM, llama.cpp, TGI) hosting the DeepSeek coder model.
type completionsRequest struct {
	Model       string  `json:"model"`
	Prompt      string  `json:"prompt"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

type completionsResponse struct {
	Choices []struct {
		Text string `json:"text"`
	} `json:"choices"`
}
