package models

// AnalysisResult is the fixed shape every analysis is reduced to.
// The camelCase JSON keys are part of the public contract.
type AnalysisResult struct {
	EntryPoints EntryPoints `json:"entryPoints"`
	Position    Position    `json:"position"`
	Risk        Risk        `json:"risk"`
	Signals     Signals     `json:"signals"`
	Execution   Execution   `json:"execution"`
}

type EntryPoints struct {
	Optimal    float64 `json:"optimal"`
	StopLoss   float64 `json:"stopLoss"`
	TakeProfit float64 `json:"takeProfit"`
}

type Position struct {
	Size           float64 `json:"size"`
	RiskPercentage float64 `json:"riskPercentage"`
	MaxExposure    float64 `json:"maxExposure"`
}

// Risk scores are on a 0-10 scale; Overall is derived from the other two.
type Risk struct {
	Volatility float64 `json:"volatility"`
	Liquidity  float64 `json:"liquidity"`
	Overall    float64 `json:"overall"`
}

type Signals struct {
	VolumeProfile string `json:"volumeProfile"`
	PriceAction   string `json:"priceAction"`
	Momentum      string `json:"momentum"`
}

type Execution struct {
	Timeframe         string  `json:"timeframe"`
	OrderType         string  `json:"orderType"`
	SlippageTolerance float64 `json:"slippageTolerance"`
}
