package models

// QuantMetrics describes a symbol's current market conditions.
type QuantMetrics struct {
	Volume     float64 `json:"volume"`
	Price      float64 `json:"price"`
	Volatility float64 `json:"volatility"`
	Momentum   float64 `json:"momentum"`
	Liquidity  float64 `json:"liquidity"`
}

// QuantitativePrompt is the analysis request body. Metrics is a pointer so a
// missing object can be told apart from an all-zero one.
type QuantitativePrompt struct {
	Mode      TradingMode   `json:"mode"`
	Symbol    string        `json:"symbol"`
	Timeframe string        `json:"timeframe"`
	Metrics   *QuantMetrics `json:"metrics"`
}
