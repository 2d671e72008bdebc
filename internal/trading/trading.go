// Package trading routes trade requests to the venue of their mode. Execution
// is a placeholder: venues are mocks that synthesize a trade id and echo the
// caller's parameters, no real order is placed.
package trading

import (
	"context"
	"fmt"
	"log"
	"strings"

	"quant_trader/internal/errs"
	"quant_trader/internal/market"
	"quant_trader/internal/models"
)

var (
	// ErrInvalidMode is returned for any mode outside {dex, pump}. It is
	// checked before the parameters are looked at.
	ErrInvalidMode = &errs.Error{Kind: errs.KindValidation, Msg: "invalid trading mode"}
	// ErrMissingParams is returned when a required trade parameter is absent.
	ErrMissingParams = &errs.Error{Kind: errs.KindValidation, Msg: "missing required trade parameters"}
)

// RequiredParams must all be present in a trade request.
var RequiredParams = []string{"symbol", "amount", "price", "slippage"}

// Dispatcher holds one venue per mode and a status source. It keeps no state
// of its own and is safe for concurrent use.
type Dispatcher struct {
	venues map[models.TradingMode]market.Venue
	status StatusSource
}

type Option func(*Dispatcher)

// WithVenue replaces the venue for venue.Mode().
func WithVenue(v market.Venue) Option {
	return func(d *Dispatcher) { d.venues[v.Mode()] = v }
}

func WithStatusSource(s StatusSource) Option {
	return func(d *Dispatcher) { d.status = s }
}

// NewDispatcher wires the mock dex and pump venues and the mock status source
// unless options say otherwise.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		venues: map[models.TradingMode]market.Venue{
			models.ModeDEX:  market.NewDEXVenue(),
			models.ModePump: market.NewPumpVenue(),
		},
		status: NewMockStatusSource(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Dispatcher) venue(mode string) (models.TradingMode, market.Venue, error) {
	m, ok := models.ParseMode(mode)
	if !ok {
		return "", nil, fmt.Errorf("%w: %q", ErrInvalidMode, mode)
	}
	v, ok := d.venues[m]
	if !ok {
		return "", nil, errs.Upstream(nil, "no venue configured for %s", m)
	}
	return m, v, nil
}

// Execute validates params and hands the order to the mode's venue. Params are
// echoed back unchanged on success.
func (d *Dispatcher) Execute(ctx context.Context, mode string, params map[string]any) (*models.TradeResult, error) {
	m, v, err := d.venue(mode)
	if err != nil {
		return nil, err
	}

	var missing []string
	for _, key := range RequiredParams {
		if _, ok := params[key]; !ok {
			missing = append(missing, key)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingParams, strings.Join(missing, ", "))
	}

	symbol, ok := params["symbol"].(string)
	if !ok || strings.TrimSpace(symbol) == "" {
		return nil, errs.Validation("symbol must be a non-empty string")
	}

	tradeID, err := v.PlaceOrder(ctx, market.Order{Symbol: symbol, Params: params})
	if err != nil {
		return nil, fmt.Errorf("place %s order: %w", m, err)
	}
	log.Printf("INFO: %s trade %s accepted (mock venue)", m, tradeID)

	return &models.TradeResult{
		Status:  "success",
		Mode:    m,
		TradeID: tradeID,
		Params:  params,
	}, nil
}

// Status reports the execution state of tradeID.
func (d *Dispatcher) Status(ctx context.Context, tradeID string) (*models.TradeStatus, error) {
	if strings.TrimSpace(tradeID) == "" {
		return nil, errs.Validation("trade id is required")
	}
	return d.status.TradeStatus(ctx, tradeID)
}

// MarketData returns the current snapshot of symbol on the mode's venue.
func (d *Dispatcher) MarketData(ctx context.Context, mode, symbol string) (*models.MarketSnapshot, error) {
	_, v, err := d.venue(mode)
	if err != nil {
		return nil, err
	}
	return v.Snapshot(ctx, symbol)
}

// Venue exposes the venue for mode, used by the market-data stream.
func (d *Dispatcher) Venue(mode string) (market.Venue, error) {
	_, v, err := d.venue(mode)
	return v, err
}
