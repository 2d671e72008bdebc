package models

import (
	"strings"
	"time"
)

// TradingMode selects both the prompt template and the venue/back-end routing.
type TradingMode string

const (
	ModeDEX  TradingMode = "dex"
	ModePump TradingMode = "pump"
)

// Modes lists every supported mode in a stable order.
var Modes = []TradingMode{ModeDEX, ModePump}

// ParseMode normalizes s and reports whether it names a supported mode.
func ParseMode(s string) (TradingMode, bool) {
	m := TradingMode(strings.ToLower(strings.TrimSpace(s)))
	switch m {
	case ModeDEX, ModePump:
		return m, true
	}
	return "", false
}

func (m TradingMode) Valid() bool {
	_, ok := ParseMode(string(m))
	return ok
}

// AgentStatus is free-form between the three values; no transition graph is enforced.
type AgentStatus string

const (
	StatusActive  AgentStatus = "active"
	StatusPaused  AgentStatus = "paused"
	StatusStopped AgentStatus = "stopped"
)

func (s AgentStatus) Valid() bool {
	switch s {
	case StatusActive, StatusPaused, StatusStopped:
		return true
	}
	return false
}

// Network is the Solana cluster the agent's wallet lives on.
type Network string

const (
	NetworkMainnet Network = "mainnet"
	NetworkDevnet  Network = "devnet"
	NetworkTestnet Network = "testnet"
)

func (n Network) Valid() bool {
	switch n {
	case NetworkMainnet, NetworkDevnet, NetworkTestnet:
		return true
	}
	return false
}

// AgentStrategy holds the risk parameters an agent trades with.
// RebalanceThreshold is a pointer so "unset" survives a JSON round trip.
type AgentStrategy struct {
	Mode                 TradingMode `json:"mode"`
	RiskTolerance        float64     `json:"risk_tolerance"`         // 0..1
	MaxTradeSize         float64     `json:"max_trade_size"`         // > 0
	StopLossPercentage   float64     `json:"stop_loss_percentage"`   // (0, 100]
	TakeProfitPercentage float64     `json:"take_profit_percentage"` // (0, 1000]
	AutoRebalance        bool        `json:"auto_rebalance"`
	RebalanceThreshold   *float64    `json:"rebalance_threshold"` // 0..100, only meaningful with AutoRebalance
	WalletAddress        string      `json:"wallet_address"`
	Network              Network     `json:"network"`
}

// Agent is a configured trading strategy instance tracked by the registry.
// CreatedAt and UpdatedAt are owned by the registry.
type Agent struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Status           AgentStatus    `json:"status"`
	Strategy         AgentStrategy  `json:"strategy"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
	TotalTrades      int            `json:"total_trades"`
	SuccessfulTrades int            `json:"successful_trades"`
	CurrentPosition  map[string]any `json:"current_position"`
}

// Clone returns a copy that shares no mutable memory with a.
func (a Agent) Clone() Agent {
	out := a
	if a.Strategy.RebalanceThreshold != nil {
		v := *a.Strategy.RebalanceThreshold
		out.Strategy.RebalanceThreshold = &v
	}
	if a.CurrentPosition != nil {
		out.CurrentPosition = make(map[string]any, len(a.CurrentPosition))
		for k, v := range a.CurrentPosition {
			out.CurrentPosition[k] = v
		}
	}
	return out
}

// AgentStatusView is the summary served by the status endpoint.
type AgentStatusView struct {
	Status           AgentStatus    `json:"status"`
	TotalTrades      int            `json:"total_trades"`
	SuccessfulTrades int            `json:"successful_trades"`
	CurrentPosition  map[string]any `json:"current_position"`
	LastUpdated      time.Time      `json:"last_updated"`
}
