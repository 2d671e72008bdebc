package market

import (
	"context"
	"strings"

	"quant_trader/internal/errs"
	"quant_trader/internal/models"
)

// Order is what a venue receives. Params are the caller's raw fields and are
// never modified.
type Order struct {
	Symbol string
	Params map[string]any
}

// TradeID is the synthetic id a mock fill gets: "<mode>_<lowercased symbol>".
func TradeID(mode models.TradingMode, symbol string) string {
	return string(mode) + "_" + strings.ToLower(symbol)
}

// PlaceOrder accepts the order and returns its synthetic trade id. Nothing is
// sent anywhere.
func (v *MockVenue) PlaceOrder(ctx context.Context, order Order) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if order.Symbol == "" {
		return "", errs.Validation("symbol is required")
	}
	return TradeID(v.mode, order.Symbol), nil
}
