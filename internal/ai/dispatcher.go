// Package ai routes quantitative prompts to a text-generation backend by
// trading mode and reduces the raw text to a fixed AnalysisResult.
package ai

import (
	"context"
	"time"

	"quant_trader/internal/errs"
	"quant_trader/internal/logger"
	"quant_trader/internal/models"
)

// profile is the per-mode variant: which template to render and how to shape
// the backend's text into a result.
type profile interface {
	template() string
	shape(text string, fx FieldExtractors) (*models.AnalysisResult, error)
}

type dexProfile struct{}

func (dexProfile) template() string { return dexPromptTemplate }

func (dexProfile) shape(text string, fx FieldExtractors) (*models.AnalysisResult, error) {
	return baseResult(text, fx)
}

type pumpProfile struct{}

func (pumpProfile) template() string { return pumpPromptTemplate }

// Pump tokens get a floor on position size and an order type driven by how
// fast the market is moving.
func (pumpProfile) shape(text string, fx FieldExtractors) (*models.AnalysisResult, error) {
	res, err := baseResult(text, fx)
	if err != nil {
		return nil, err
	}
	res.Position.Size = max(MinPumpPositionSize, res.Position.Size)
	res.Execution.OrderType = pumpOrderType(text)
	return res, nil
}

var profiles = map[models.TradingMode]profile{
	models.ModeDEX:  dexProfile{},
	models.ModePump: pumpProfile{},
}

func profileFor(mode models.TradingMode) (profile, error) {
	p, ok := profiles[mode]
	if !ok {
		return nil, errs.Validation("invalid trading mode %q", mode)
	}
	return p, nil
}

func baseResult(text string, fx FieldExtractors) (*models.AnalysisResult, error) {
	var firstErr error
	num := func(f NumberExtractor, key string) float64 {
		v, err := f(text, key)
		if err != nil && firstErr == nil {
			firstErr = err
		}
		return v
	}

	res := &models.AnalysisResult{
		EntryPoints: models.EntryPoints{
			Optimal:    num(fx.Price, "optimal entry"),
			StopLoss:   num(fx.Price, "stop-loss"),
			TakeProfit: num(fx.Price, "take-profit"),
		},
		Position: models.Position{
			Size:           num(fx.Number, "position size"),
			RiskPercentage: num(fx.Percentage, "risk"),
			MaxExposure:    num(fx.Number, "exposure"),
		},
		Risk: models.Risk{
			Volatility: num(fx.Score, "volatility"),
			Liquidity:  num(fx.Score, "liquidity"),
		},
		Signals: models.Signals{
			VolumeProfile: fx.Signal(text, "volume"),
			PriceAction:   fx.Signal(text, "price action"),
			Momentum:      fx.Signal(text, "momentum"),
		},
		Execution: models.Execution{
			Timeframe: fx.Timeframe(text),
			OrderType: fx.OrderType(text),
		},
	}
	slippage := num(fx.Percentage, "slippage")
	if firstErr != nil {
		return nil, firstErr
	}

	res.Risk.Overall = OverallRisk(res.Risk.Volatility, res.Risk.Liquidity)
	res.Execution.SlippageTolerance = SlippageTolerance(slippage, res.Risk.Volatility)
	return res, nil
}

// Dispatcher is stateless after construction and safe for concurrent use.
type Dispatcher struct {
	backends map[models.TradingMode]Backend
	extract  FieldExtractors
}

type Option func(*Dispatcher)

// WithExtractors replaces some or all field extractors.
func WithExtractors(fx FieldExtractors) Option {
	return func(d *Dispatcher) { d.extract = fx.withDefaults() }
}

// NewDispatcher routes dex prompts to dex and pump prompts to pump.
func NewDispatcher(dex, pump Backend, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		backends: map[models.TradingMode]Backend{
			models.ModeDEX:  dex,
			models.ModePump: pump,
		},
		extract: DefaultExtractors(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Analyze builds the prompt, calls the mode's backend once and extracts the
// result. Backend failures are UpstreamErrors; extraction failures are
// AnalysisErrors. No partial result is returned on error.
func (d *Dispatcher) Analyze(ctx context.Context, p models.QuantitativePrompt) (*models.AnalysisResult, error) {
	_, res, err := d.AnalyzeWithPrompt(ctx, p)
	return res, err
}

// AnalyzeWithPrompt is Analyze that also returns the rendered prompt text.
func (d *Dispatcher) AnalyzeWithPrompt(ctx context.Context, p models.QuantitativePrompt) (string, *models.AnalysisResult, error) {
	text, err := BuildPrompt(p)
	if err != nil {
		return "", nil, err
	}
	mode, _ := models.ParseMode(string(p.Mode))
	prof, err := profileFor(mode)
	if err != nil {
		return "", nil, err
	}
	backend, ok := d.backends[mode]
	if !ok || backend == nil {
		return "", nil, errs.Upstream(nil, "no backend configured for %s", mode)
	}

	start := time.Now()
	raw, err := backend.Generate(ctx, text)
	if err != nil {
		if errs.KindOf(err) == errs.KindUnknown {
			err = errs.Upstream(err, "%s backend call failed", backend.Name())
		}
		return "", nil, err
	}
	logger.Debugf("ai: %s answered %s/%s in %s (%d chars)", backend.Name(), mode, p.Symbol, time.Since(start), len(raw))

	res, err := prof.shape(raw, d.extract)
	if err != nil {
		return "", nil, errs.Analysis(err, "failed to parse AI analysis")
	}
	return text, res, nil
}

// Extract shapes raw model text for mode without calling a backend.
func (d *Dispatcher) Extract(mode models.TradingMode, raw string) (*models.AnalysisResult, error) {
	prof, err := profileFor(mode)
	if err != nil {
		return nil, err
	}
	res, err := prof.shape(raw, d.extract)
	if err != nil {
		return nil, errs.Analysis(err, "failed to parse AI analysis")
	}
	return res, nil
}
