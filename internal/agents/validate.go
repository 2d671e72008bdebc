package agents

import (
	"quant_trader/internal/errs"
	"quant_trader/internal/models"
)

// Validate checks field ranges on the agent and its strategy. Status is only
// checked for membership; any transition between valid statuses is allowed.
func Validate(a models.Agent) error {
	if a.Strategy.WalletAddress == "" {
		return errs.Validation("solana wallet address is required")
	}
	if a.Status != "" && !a.Status.Valid() {
		return errs.Validation("invalid status %q", a.Status)
	}
	if a.TotalTrades < 0 {
		return errs.Validation("total_trades must be >= 0")
	}
	if a.SuccessfulTrades < 0 || a.SuccessfulTrades > a.TotalTrades {
		return errs.Validation("successful_trades must be between 0 and total_trades")
	}
	return ValidateStrategy(a.Strategy)
}

func ValidateStrategy(s models.AgentStrategy) error {
	if !s.Mode.Valid() {
		return errs.Validation("invalid trading mode %q", s.Mode)
	}
	if s.RiskTolerance < 0 || s.RiskTolerance > 1 {
		return errs.Validation("risk_tolerance must be within [0, 1]")
	}
	if s.MaxTradeSize <= 0 {
		return errs.Validation("max_trade_size must be > 0")
	}
	if s.StopLossPercentage <= 0 || s.StopLossPercentage > 100 {
		return errs.Validation("stop_loss_percentage must be within (0, 100]")
	}
	if s.TakeProfitPercentage <= 0 || s.TakeProfitPercentage > 1000 {
		return errs.Validation("take_profit_percentage must be within (0, 1000]")
	}
	if s.RebalanceThreshold != nil && (*s.RebalanceThreshold < 0 || *s.RebalanceThreshold > 100) {
		return errs.Validation("rebalance_threshold must be within [0, 100]")
	}
	if !s.Network.Valid() {
		return errs.Validation("network must be one of mainnet, devnet, testnet")
	}
	return nil
}
