package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"quant_trader/internal/agents"
	"quant_trader/internal/ai"
	"quant_trader/internal/registry"
	"quant_trader/internal/trading"
	"quant_trader/internal/wallet"
)

const (
	goodWallet = "So11111111111111111111111111111111111111112"
	cannedText = "Optimal entry: $101.25, stop-loss 96.4, take-profit 118\nVolatility: 7/10\nLiquidity: 8/10\nMomentum: strong\nUse market orders on 1h."
)

// StubBackend answers every prompt with the same text.
type StubBackend struct {
	name  string
	reply string
	err   error
}

func (s *StubBackend) Name() string { return s.name }

func (s *StubBackend) Generate(ctx context.Context, prompt string) (string, error) {
	return s.reply, s.err
}

type testEnv struct {
	server *httptest.Server
	reg    *registry.Registry
	dex    *StubBackend
	pump   *StubBackend
}

func setupTestServer(t *testing.T) *testEnv {
	t.Helper()
	reg := registry.New()
	env := &testEnv{
		reg:  reg,
		dex:  &StubBackend{name: "dex", reply: cannedText},
		pump: &StubBackend{name: "pump", reply: cannedText},
	}
	srv := NewServer(
		agents.NewService(reg, wallet.NewSolanaValidator()),
		ai.NewDispatcher(env.dex, env.pump),
		trading.NewDispatcher(),
		Options{Version: "test", StreamInterval: 10 * time.Millisecond},
	)
	env.server = httptest.NewServer(srv)
	t.Cleanup(env.server.Close)
	return env
}

func doReq(t *testing.T, baseURL, method, path string, body any) *http.Response {
	t.Helper()
	var payload []byte
	switch b := body.(type) {
	case nil:
	case string:
		payload = []byte(b)
	default:
		var err error
		payload, err = json.Marshal(b)
		if err != nil {
			t.Fatalf("marshal req: %v", err)
		}
	}
	req, err := http.NewRequest(method, baseURL+path, bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("do request: %v", err)
	}
	return resp
}

func decodeJSONResp(t *testing.T, resp *http.Response, out any) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatalf("decode json: %v", err)
	}
}

// expectError checks the status and that the body is {"error": ...}
// containing want.
func expectError(t *testing.T, resp *http.Response, status int, want string) {
	t.Helper()
	if resp.StatusCode != status {
		t.Fatalf("status = %d, want %d", resp.StatusCode, status)
	}
	var body map[string]string
	decodeJSONResp(t, resp, &body)
	if !strings.Contains(body["error"], want) {
		t.Fatalf("error = %q, want it to contain %q", body["error"], want)
	}
}

func agentBody() map[string]any {
	return map[string]any{
		"name":   "sol-scalper",
		"status": "active",
		"strategy": map[string]any{
			"mode":                   "dex",
			"risk_tolerance":         0.3,
			"max_trade_size":         500,
			"stop_loss_percentage":   5,
			"take_profit_percentage": 20,
			"auto_rebalance":         false,
			"wallet_address":         goodWallet,
			"network":                "devnet",
		},
	}
}

func analyzeBody(mode string) map[string]any {
	return map[string]any{
		"mode":      mode,
		"symbol":    "SOL/USDC",
		"timeframe": "1h",
		"metrics": map[string]any{
			"volume":     1500000,
			"price":      142.35,
			"volatility": 0.42,
			"momentum":   0.7,
			"liquidity":  850000,
		},
	}
}
