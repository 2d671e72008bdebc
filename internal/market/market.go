// Package market holds the trading venues a mode routes to. Only mock venues
// exist: they synthesize quotes and trade ids without placing real orders, so
// a real DEX or launchpad backend can later be plugged in behind Venue.
package market

import (
	"context"
	"strings"
	"time"

	"quant_trader/internal/errs"
	"quant_trader/internal/models"

	"github.com/shopspring/decimal"
)

// Venue is an Interface.
// Anything that can take an order and quote a symbol for one trading mode
// satisfies it, so the dispatcher does not care whether it talks to a mock or
// to a real exchange.
type Venue interface {
	Mode() models.TradingMode
	PlaceOrder(ctx context.Context, order Order) (string, error)
	Snapshot(ctx context.Context, symbol string) (*models.MarketSnapshot, error)
}

// Quote is the fixed set of values a MockVenue reports for every symbol.
type Quote struct {
	Price      decimal.Decimal
	Volume     decimal.Decimal
	Liquidity  decimal.Decimal
	Volatility decimal.Decimal
	Momentum   decimal.Decimal
}

// DefaultQuote matches the placeholder data the service has always returned.
func DefaultQuote() Quote {
	return Quote{
		Price:      decimal.RequireFromString("100.50"),
		Volume:     decimal.NewFromInt(1000000),
		Liquidity:  decimal.NewFromInt(500000),
		Volatility: decimal.RequireFromString("0.15"),
		Momentum:   decimal.RequireFromString("0.8"),
	}
}

// MockVenue is a concrete Venue that never leaves the process.
type MockVenue struct {
	mode  models.TradingMode
	quote Quote
	now   func() time.Time
}

type MockOption func(*MockVenue)

func WithQuote(q Quote) MockOption {
	return func(v *MockVenue) { v.quote = q }
}

func WithClock(now func() time.Time) MockOption {
	return func(v *MockVenue) { v.now = now }
}

func newMockVenue(mode models.TradingMode, opts ...MockOption) *MockVenue {
	v := &MockVenue{
		mode:  mode,
		quote: DefaultQuote(),
		now:   func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// NewDEXVenue is the mock for decentralized-exchange trading.
func NewDEXVenue(opts ...MockOption) *MockVenue {
	return newMockVenue(models.ModeDEX, opts...)
}

// NewPumpVenue is the mock for Pump.fun launchpad trading.
func NewPumpVenue(opts ...MockOption) *MockVenue {
	return newMockVenue(models.ModePump, opts...)
}

func (v *MockVenue) Mode() models.TradingMode { return v.mode }

// Snapshot returns the venue's quote stamped with the current time.
func (v *MockVenue) Snapshot(ctx context.Context, symbol string) (*models.MarketSnapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	symbol = strings.TrimSpace(symbol)
	if symbol == "" {
		return nil, errs.Validation("symbol is required")
	}
	return &models.MarketSnapshot{
		Symbol:     symbol,
		Price:      v.quote.Price,
		Volume:     v.quote.Volume,
		Liquidity:  v.quote.Liquidity,
		Volatility: v.quote.Volatility,
		Momentum:   v.quote.Momentum,
		Timestamp:  v.now(),
	}, nil
}
