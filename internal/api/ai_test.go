package api

import (
	"errors"
	"net/http"
	"strings"
	"testing"

	"quant_trader/internal/errs"
)

func TestAnalyzeDex(t *testing.T) {
	env := setupTestServer(t)

	resp := doReq(t, env.server.URL, http.MethodPost, "/api/v1/ai/analyze", analyzeBody("dex"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("analyze status = %d", resp.StatusCode)
	}
	var body struct {
		Status   string         `json:"status"`
		Mode     string         `json:"mode"`
		Symbol   string         `json:"symbol"`
		Analysis map[string]any `json:"analysis"`
	}
	decodeJSONResp(t, resp, &body)

	if body.Status != "success" || body.Mode != "dex" || body.Symbol != "SOL/USDC" {
		t.Fatalf("envelope = %+v", body)
	}
	for _, key := range []string{"entryPoints", "position", "risk", "signals", "execution"} {
		if _, ok := body.Analysis[key]; !ok {
			t.Errorf("analysis missing %q", key)
		}
	}
	risk := body.Analysis["risk"].(map[string]any)
	if risk["overall"] != 7.5 {
		t.Errorf("overall risk = %v, want 7.5", risk["overall"])
	}
	exec := body.Analysis["execution"].(map[string]any)
	if exec["orderType"] != "Market" || exec["timeframe"] != "1h" {
		t.Errorf("execution = %v", exec)
	}
}

func TestAnalyzeRejectsBadPrompt(t *testing.T) {
	env := setupTestServer(t)

	expectError(t, doReq(t, env.server.URL, http.MethodPost, "/api/v1/ai/analyze", analyzeBody("cex")),
		http.StatusBadRequest, "invalid trading mode")

	noMetrics := analyzeBody("pump")
	delete(noMetrics, "metrics")
	expectError(t, doReq(t, env.server.URL, http.MethodPost, "/api/v1/ai/analyze", noMetrics),
		http.StatusBadRequest, "metrics are required")
}

func TestAnalyzeUpstreamFailure(t *testing.T) {
	env := setupTestServer(t)
	env.pump.err = errs.Upstream(errors.New("status 503"), "failed to get deepseek analysis")

	expectError(t, doReq(t, env.server.URL, http.MethodPost, "/api/v1/ai/analyze", analyzeBody("pump")),
		http.StatusInternalServerError, "failed to get deepseek analysis")
}

func TestGeneratePromptReturnsPromptText(t *testing.T) {
	env := setupTestServer(t)

	resp := doReq(t, env.server.URL, http.MethodPost, "/api/v1/prompts/generate", analyzeBody("PUMP"))
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("generate status = %d", resp.StatusCode)
	}
	var body struct {
		Prompt string `json:"prompt"`
		Mode   string `json:"mode"`
	}
	decodeJSONResp(t, resp, &body)
	if !strings.HasPrefix(body.Prompt, "Analyze Pump.fun trading opportunity for SOL/USDC") {
		t.Errorf("prompt = %q", body.Prompt)
	}
	if body.Mode != "pump" {
		t.Errorf("mode = %q, want normalized pump", body.Mode)
	}
}

func TestPromptTemplates(t *testing.T) {
	env := setupTestServer(t)

	var body map[string]string
	resp := doReq(t, env.server.URL, http.MethodGet, "/api/v1/prompts/templates/dex", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("template status = %d", resp.StatusCode)
	}
	decodeJSONResp(t, resp, &body)
	if !strings.Contains(body["template"], "{symbol}") {
		t.Errorf("template = %q", body["template"])
	}

	expectError(t, doReq(t, env.server.URL, http.MethodGet, "/api/v1/prompts/templates/cex", nil),
		http.StatusBadRequest, "invalid trading mode")
}

func TestAIHealth(t *testing.T) {
	env := setupTestServer(t)

	var body map[string]string
	decodeJSONResp(t, doReq(t, env.server.URL, http.MethodGet, "/api/v1/ai/health", nil), &body)
	if body["status"] != "healthy" {
		t.Errorf("health = %v", body)
	}
}
