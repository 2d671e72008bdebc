package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeResult is returned by a (mock) trade execution. Params is the caller's
// input echoed verbatim.
type TradeResult struct {
	Status  string         `json:"status"`
	Mode    TradingMode    `json:"mode"`
	TradeID string         `json:"trade_id"`
	Params  map[string]any `json:"params"`
}

// TradeStatus reports the execution state of a trade id.
type TradeStatus struct {
	Status          string          `json:"status"`
	TradeID         string          `json:"trade_id"`
	ExecutionStatus string          `json:"execution_status"` // pending, completed, failed
	FilledAmount    decimal.Decimal `json:"filled_amount"`
	FilledPrice     decimal.Decimal `json:"filled_price"`
	Timestamp       time.Time       `json:"timestamp"`
}

// MarketSnapshot is a point-in-time view of a symbol on one venue.
type MarketSnapshot struct {
	Symbol     string          `json:"symbol"`
	Price      decimal.Decimal `json:"price"`
	Volume     decimal.Decimal `json:"volume"`
	Liquidity  decimal.Decimal `json:"liquidity"`
	Volatility decimal.Decimal `json:"volatility"`
	Momentum   decimal.Decimal `json:"momentum"`
	Timestamp  time.Time       `json:"timestamp"`
}
