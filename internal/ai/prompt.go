package ai

import (
	"strconv"
	"strings"

	"quant_trader/internal/errs"
	"quant_trader/internal/models"
)

const dexPromptTemplate = `Analyze DEX trading opportunity for {symbol}:
Current market conditions:
- Price: ${price}
- 24h Volume: ${volume}
- Volatility Index: {volatility}
- Momentum Score: {momentum}
- Liquidity Depth: ${liquidity}

Based on quantitative analysis:
1. Entry/Exit Points:
   - Optimal entry range
   - Stop-loss levels
   - Take-profit targets

2. Position Sizing:
   - Recommended position size
   - Risk per trade percentage
   - Maximum exposure limit

3. Risk Assessment:
   - Market volatility risk (1-10)
   - Liquidity risk (1-10)
   - Overall trade risk score

4. Technical Signals:
   - Volume profile analysis
   - Price action patterns
   - Momentum indicators

5. Trade Parameters:
   - Suggested timeframe
   - Order types to use
   - Slippage tolerance`

const pumpPromptTemplate = `Analyze Pump.fun trading opportunity for {symbol}:
Market metrics:
- Current Price: ${price}
- Trading Volume (24h): ${volume}
- Price Volatility: {volatility}
- Momentum Rating: {momentum}
- Available Liquidity: ${liquidity}

Quantitative Analysis:
1. Momentum Analysis:
   - Trend strength measurement
   - Volume/price correlation
   - Acceleration factors

2. Entry Strategy:
   - Volume profile based levels
   - Price action triggers
   - Momentum confirmation signals

3. Risk Management:
   - Position size calculation
   - Stop-loss placement
   - Risk/reward ratio

4. Market Impact:
   - Liquidity utilization
   - Slippage estimation
   - Order book depth analysis

5. Execution Plan:
   - Order type selection
   - Entry timing optimization
   - Exit strategy parameters`

// Template returns the raw prompt template for mode, placeholders included.
func Template(mode models.TradingMode) (string, error) {
	p, err := profileFor(mode)
	if err != nil {
		return "", err
	}
	return p.template(), nil
}

// ValidatePrompt checks the request before any backend is contacted.
func ValidatePrompt(p models.QuantitativePrompt) error {
	if _, ok := models.ParseMode(string(p.Mode)); !ok {
		return errs.Validation("invalid trading mode %q", p.Mode)
	}
	if strings.TrimSpace(p.Symbol) == "" {
		return errs.Validation("symbol is required")
	}
	if p.Metrics == nil {
		return errs.Validation("metrics are required")
	}
	m := p.Metrics
	for name, v := range map[string]float64{
		"volume":     m.Volume,
		"price":      m.Price,
		"volatility": m.Volatility,
		"momentum":   m.Momentum,
		"liquidity":  m.Liquidity,
	} {
		if v < 0 {
			return errs.Validation("metrics.%s must be >= 0", name)
		}
	}
	return nil
}

// BuildPrompt renders the template of the prompt's mode with its metrics.
func BuildPrompt(p models.QuantitativePrompt) (string, error) {
	if err := ValidatePrompt(p); err != nil {
		return "", err
	}
	mode, _ := models.ParseMode(string(p.Mode))
	prof, err := profileFor(mode)
	if err != nil {
		return "", err
	}
	return render(prof.template(), p), nil
}

func render(tmpl string, p models.QuantitativePrompt) string {
	r := strings.NewReplacer(
		"{symbol}", p.Symbol,
		"{price}", formatFloat(p.Metrics.Price),
		"{volume}", formatFloat(p.Metrics.Volume),
		"{volatility}", formatFloat(p.Metrics.Volatility),
		"{momentum}", formatFloat(p.Metrics.Momentum),
		"{liquidity}", formatFloat(p.Metrics.Liquidity),
	)
	return r.Replace(tmpl)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
