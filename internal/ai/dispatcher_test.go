package ai

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"quant_trader/internal/errs"
	"quant_trader/internal/models"
)

// SpyBackend records prompts and replies with a canned answer.
type SpyBackend struct {
	name  string
	reply string
	err   error

	mu      sync.Mutex
	prompts []string
}

func (s *SpyBackend) Name() string { return s.name }

func (s *SpyBackend) Generate(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	return s.reply, s.err
}

func (s *SpyBackend) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

func testPrompt(mode models.TradingMode) models.QuantitativePrompt {
	return models.QuantitativePrompt{
		Mode:      mode,
		Symbol:    "SOL/USDC",
		Timeframe: "1h",
		Metrics: &models.QuantMetrics{
			Volume:     1500000,
			Price:      142.35,
			Volatility: 0.42,
			Momentum:   0.7,
			Liquidity:  850000,
		},
	}
}

func TestDispatcher_RoutesByMode(t *testing.T) {
	// 1. Setup
	dex := &SpyBackend{name: "dex", reply: "Volatility: 8/10\nLiquidity: 4/10"}
	pump := &SpyBackend{name: "pump", reply: "Volatility: 8/10\nLiquidity: 4/10"}
	d := NewDispatcher(dex, pump)

	// 2. Dex goes to the dex backend only
	if _, err := d.Analyze(context.Background(), testPrompt(models.ModeDEX)); err != nil {
		t.Fatalf("dex analyze: %v", err)
	}
	if dex.calls() != 1 || pump.calls() != 0 {
		t.Fatalf("calls dex=%d pump=%d after dex analysis", dex.calls(), pump.calls())
	}
	if !strings.Contains(dex.prompts[0], "Analyze DEX trading opportunity for SOL/USDC") {
		t.Errorf("dex prompt not rendered: %q", dex.prompts[0][:60])
	}
	if !strings.Contains(dex.prompts[0], "Price: $142.35") {
		t.Error("dex prompt missing price")
	}

	// 3. Pump goes to the pump backend only
	if _, err := d.Analyze(context.Background(), testPrompt(models.ModePump)); err != nil {
		t.Fatalf("pump analyze: %v", err)
	}
	if dex.calls() != 1 || pump.calls() != 1 {
		t.Fatalf("calls dex=%d pump=%d after pump analysis", dex.calls(), pump.calls())
	}
	if !strings.Contains(pump.prompts[0], "Pump.fun") {
		t.Error("pump prompt not rendered with pump template")
	}
}

func TestDispatcher_DexDefaults(t *testing.T) {
	d := NewDispatcher(&SpyBackend{name: "dex", reply: "I cannot help with that."}, nil)

	res, err := d.Analyze(context.Background(), testPrompt(models.ModeDEX))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Risk.Volatility != 5 || res.Risk.Liquidity != 5 || res.Risk.Overall != 5 {
		t.Errorf("risk = %+v, want all 5", res.Risk)
	}
	if res.Signals.Momentum != "Neutral" || res.Execution.Timeframe != "4h" || res.Execution.OrderType != "Market" {
		t.Errorf("defaults not applied: %+v %+v", res.Signals, res.Execution)
	}
	if res.Position.Size != 0 {
		t.Errorf("dex size = %v, want 0", res.Position.Size)
	}
	// volatility 5 lifts slippage to 2.5
	if res.Execution.SlippageTolerance != 2.5 {
		t.Errorf("slippage = %v, want 2.5", res.Execution.SlippageTolerance)
	}
}

func TestDispatcher_OverallRiskRoundsBinaryValue(t *testing.T) {
	d := NewDispatcher(&SpyBackend{name: "dex", reply: "Volatility 4.9/10\nLiquidity 0/10"}, nil)

	res, err := d.Analyze(context.Background(), testPrompt(models.ModeDEX))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Risk.Volatility != 4.9 || res.Risk.Liquidity != 0 {
		t.Fatalf("risk scores = %+v", res.Risk)
	}
	if res.Risk.Overall != 2.5 {
		t.Errorf("overall = %v, want 2.5", res.Risk.Overall)
	}
}

func TestDispatcher_PumpOverrides(t *testing.T) {
	reply := "Position size: 40 tokens\nExpect high volatility. Use limit orders.\nVolatility: 9/10\nLiquidity: 2/10\nSlippage 12%"
	d := NewDispatcher(nil, &SpyBackend{name: "pump", reply: reply})

	res, err := d.Analyze(context.Background(), testPrompt(models.ModePump))
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if res.Position.Size != MinPumpPositionSize {
		t.Errorf("size = %v, want floor %v", res.Position.Size, MinPumpPositionSize)
	}
	if res.Execution.OrderType != "Market" {
		t.Errorf("order type = %q, want Market on high volatility", res.Execution.OrderType)
	}
	if res.Execution.SlippageTolerance != MaxSlippageTolerance {
		t.Errorf("slippage = %v, want clamp to %v", res.Execution.SlippageTolerance, MaxSlippageTolerance)
	}
	if res.Risk.Overall != 5.5 {
		t.Errorf("overall = %v, want 5.5", res.Risk.Overall)
	}
}

func TestDispatcher_PumpKeepsLargerSize(t *testing.T) {
	d := NewDispatcher(nil, &SpyBackend{name: "pump", reply: "position size: 2500"})
	res, err := d.Analyze(context.Background(), testPrompt(models.ModePump))
	if err != nil {
		t.Fatal(err)
	}
	if res.Position.Size != 2500 {
		t.Errorf("size = %v, want 2500", res.Position.Size)
	}
	if res.Execution.OrderType != "Limit" {
		t.Errorf("order type = %q, want Limit", res.Execution.OrderType)
	}
}

func TestDispatcher_ValidationBeforeBackend(t *testing.T) {
	dex := &SpyBackend{name: "dex"}
	d := NewDispatcher(dex, dex)

	cases := []models.QuantitativePrompt{
		{Mode: "cex", Symbol: "BTC", Metrics: &models.QuantMetrics{}},
		{Mode: models.ModeDEX, Symbol: " ", Metrics: &models.QuantMetrics{}},
		{Mode: models.ModeDEX, Symbol: "BTC"},
		{Mode: models.ModeDEX, Symbol: "BTC", Metrics: &models.QuantMetrics{Price: -1}},
	}
	for i, p := range cases {
		if _, err := d.Analyze(context.Background(), p); !errs.IsValidation(err) {
			t.Errorf("case %d: expected validation error, got %v", i, err)
		}
	}
	if dex.calls() != 0 {
		t.Errorf("backend called %d times for invalid prompts", dex.calls())
	}
}

func TestDispatcher_BackendFailure(t *testing.T) {
	d := NewDispatcher(&SpyBackend{name: "dex", err: errors.New("connection refused")}, nil)

	res, err := d.Analyze(context.Background(), testPrompt(models.ModeDEX))
	if res != nil {
		t.Error("expected no partial result")
	}
	if !errs.IsUpstream(err) {
		t.Errorf("expected upstream error, got %v", err)
	}

	// pump backend not configured
	if _, err := d.Analyze(context.Background(), testPrompt(models.ModePump)); !errs.IsUpstream(err) {
		t.Errorf("expected upstream error for missing backend, got %v", err)
	}
}

func TestDispatcher_ExtractorFailureIsAnalysisError(t *testing.T) {
	broken := FieldExtractors{
		Score: func(text, key string) (float64, error) { return 0, errors.New("bad score") },
	}
	d := NewDispatcher(&SpyBackend{name: "dex", reply: "anything"}, nil, WithExtractors(broken))

	res, err := d.Analyze(context.Background(), testPrompt(models.ModeDEX))
	if res != nil || !errs.IsAnalysis(err) {
		t.Errorf("got (%v, %v), want analysis error", res, err)
	}
}

func TestDispatcher_AnalyzeWithPromptReturnsText(t *testing.T) {
	d := NewDispatcher(&SpyBackend{name: "dex", reply: "ok"}, nil)
	text, res, err := d.AnalyzeWithPrompt(context.Background(), testPrompt(models.ModeDEX))
	if err != nil || res == nil {
		t.Fatalf("AnalyzeWithPrompt: %v", err)
	}
	if strings.Contains(text, "{symbol}") || !strings.Contains(text, "SOL/USDC") {
		t.Errorf("prompt not rendered: %q", text)
	}
}

func TestTemplateUnknownMode(t *testing.T) {
	if _, err := Template("cex"); !errs.IsValidation(err) {
		t.Errorf("expected validation error, got %v", err)
	}
	tmpl, err := Template(models.ModePump)
	if err != nil || !strings.Contains(tmpl, "{liquidity}") {
		t.Errorf("pump template = %q, %v", tmpl, err)
	}
}
